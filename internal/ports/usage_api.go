package ports

import (
	"context"
	"time"

	"github.com/bnema/trae-accounts-cli/internal/domain"
)

type TokenIdentity struct {
	UserID    string
	TenantID  string
	ExpiresAt time.Time
}

type UserProfile struct {
	UserID     string
	ScreenName string
	Email      string
	AvatarURL  string
}

// IssuedToken is a token minted from browser session cookies.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
	UserID    string
	TenantID  string
}

// UsageAPI is the remote Trae service.
type UsageAPI interface {
	Identify(token string) (TokenIdentity, error)
	GetUserProfile(ctx context.Context, token string) (UserProfile, error)
	GetUsage(ctx context.Context, token string) (domain.UsageSummary, error)
	ExchangeCookies(ctx context.Context, cookies string) (IssuedToken, error)
	QueryUsageEvents(ctx context.Context, token string, query domain.UsageEventQuery) (domain.UsageEventPage, error)
}
