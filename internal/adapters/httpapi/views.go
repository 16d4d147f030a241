package httpapi

import (
	"time"

	"github.com/bnema/trae-accounts-cli/internal/application"
	"github.com/bnema/trae-accounts-cli/internal/domain"
)

type quotaView struct {
	Used        float64 `json:"used"`
	Limit       float64 `json:"limit"`
	Left        float64 `json:"left"`
	UsedPercent float64 `json:"used_percent"`
}

type usageView struct {
	PlanType         string               `json:"plan_type"`
	ResetTime        int64                `json:"reset_time,omitempty"`
	Quotas           map[string]quotaView `json:"quotas"`
	ExtraPackageName string               `json:"extra_package_name,omitempty"`
	ExtraExpireTime  int64                `json:"extra_expire_time,omitempty"`
	FetchedAt        int64                `json:"fetched_at"`
}

type accountView struct {
	ID            domain.AccountID `json:"id"`
	UserID        string           `json:"user_id"`
	Name          string           `json:"name"`
	Email         string           `json:"email"`
	AvatarURL     string           `json:"avatar_url,omitempty"`
	PlanType      string           `json:"plan_type"`
	EffectivePlan string           `json:"effective_plan"`
	CreatedAt     int64            `json:"created_at"`
	IsCurrent     bool             `json:"is_current"`
	Selected      bool             `json:"selected"`
	Refreshing    bool             `json:"refreshing"`
	Usage         *usageView       `json:"usage"`
}

type confirmationView struct {
	ID      string                  `json:"id"`
	Title   string                  `json:"title"`
	Message string                  `json:"message"`
	Kind    domain.ConfirmationKind `json:"kind"`
}

type notificationView struct {
	ID        string          `json:"id"`
	Severity  domain.Severity `json:"severity"`
	Message   string          `json:"message"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
}

type batchItemView struct {
	ID    domain.AccountID `json:"id"`
	Error string           `json:"error,omitempty"`
}

type batchView struct {
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Items     []batchItemView `json:"items"`
}

type planView struct {
	Plan  string `json:"plan"`
	Count int    `json:"count"`
}

type dashboardView struct {
	TotalAccounts  int               `json:"total_accounts"`
	ActiveAccounts int               `json:"active_accounts"`
	CurrentAccount *domain.AccountID `json:"current_account"`
	FastUsed       float64           `json:"fast_used"`
	FastLimit      float64           `json:"fast_limit"`
	FastLeft       float64           `json:"fast_left"`
	UsagePercent   int               `json:"usage_percent"`
	Plans          []planView        `json:"plans"`
}

func toUsageView(usage *domain.UsageSummary) *usageView {
	if usage == nil {
		return nil
	}

	view := &usageView{
		PlanType:         usage.PlanType,
		ResetTime:        epoch(usage.ResetTime),
		Quotas:           make(map[string]quotaView, len(domain.QuotaCategories)),
		ExtraPackageName: usage.ExtraPackageName,
		ExtraExpireTime:  epoch(usage.ExtraExpireTime),
		FetchedAt:        epoch(usage.FetchedAt),
	}
	for _, category := range domain.QuotaCategories {
		quota := usage.Quota(category)
		view.Quotas[string(category)] = quotaView{
			Used:        quota.Used,
			Limit:       quota.Limit,
			Left:        quota.Left,
			UsedPercent: quota.UsedPercent(),
		}
	}
	return view
}

func toConfirmationView(pending application.PendingConfirmation) confirmationView {
	return confirmationView{ID: pending.ID, Title: pending.Title, Message: pending.Message, Kind: pending.Kind}
}

func toNotificationViews(notifications []application.Notification) []notificationView {
	views := make([]notificationView, 0, len(notifications))
	for _, n := range notifications {
		view := notificationView{ID: n.ID, Severity: n.Severity, Message: n.Message, CreatedAt: n.CreatedAt}
		if !n.ExpiresAt.IsZero() {
			expires := n.ExpiresAt
			view.ExpiresAt = &expires
		}
		views = append(views, view)
	}
	return views
}

func toBatchView(result application.BatchResult) batchView {
	view := batchView{Succeeded: result.Succeeded(), Failed: len(result.Failed()), Items: make([]batchItemView, 0, len(result.Items))}
	for _, item := range result.Items {
		entry := batchItemView{ID: item.ID}
		if item.Err != nil {
			entry.Error = item.Err.Error()
		}
		view.Items = append(view.Items, entry)
	}
	return view
}

func toDashboardView(d application.Dashboard) dashboardView {
	view := dashboardView{
		TotalAccounts:  d.TotalAccounts,
		ActiveAccounts: d.ActiveAccounts,
		FastUsed:       d.FastUsed,
		FastLimit:      d.FastLimit,
		FastLeft:       d.FastLeft,
		UsagePercent:   d.UsagePercent,
		Plans:          make([]planView, 0, len(d.Plans)),
	}
	if d.CurrentAccount != nil {
		id := d.CurrentAccount.ID
		view.CurrentAccount = &id
	}
	for _, plan := range d.Plans {
		view.Plans = append(view.Plans, planView{Plan: plan.Plan, Count: plan.Count})
	}
	return view
}

func epoch(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.Unix()
}
