package domain

import (
	"strings"
	"time"
)

type AccountID string

// Account is the locally managed identity of one Trae login. The credential
// is stored separately and only surfaces through AccountDetail.
type Account struct {
	ID        AccountID
	UserID    string
	TenantID  string
	Name      string
	Email     string
	AvatarURL string
	PlanType  string
	CreatedAt time.Time
	IsCurrent bool
}

// DisplayName prefers the email, then the name, then the id.
func (a Account) DisplayName() string {
	if email := strings.TrimSpace(a.Email); email != "" {
		return email
	}
	if name := strings.TrimSpace(a.Name); name != "" {
		return name
	}
	return string(a.ID)
}

type AccountDetail struct {
	Account    Account
	Credential Credential
}

// AccountWithUsage is the registry view of an account. Usage is nil when it
// has never been fetched or the last load could not fetch it.
type AccountWithUsage struct {
	Account Account
	Usage   *UsageSummary
}

// EffectivePlan reports the plan from the latest usage, falling back to the
// plan stored on the account.
func (a AccountWithUsage) EffectivePlan() string {
	if a.Usage != nil && strings.TrimSpace(a.Usage.PlanType) != "" {
		return a.Usage.PlanType
	}
	return a.Account.PlanType
}
