package ports

import (
	"context"

	"github.com/bnema/trae-accounts-cli/internal/domain"
)

// AccountStore is the backend the engine orchestrates. It owns durable
// accounts, credentials and the remote usage lookups.
type AccountStore interface {
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	GetAccount(ctx context.Context, id domain.AccountID) (domain.AccountDetail, error)
	GetUsage(ctx context.Context, id domain.AccountID) (domain.UsageSummary, error)
	AddByToken(ctx context.Context, token string, cookies string) (domain.Account, error)
	AddByCookies(ctx context.Context, cookies string) (domain.Account, error)
	Remove(ctx context.Context, id domain.AccountID) error
	UpdateToken(ctx context.Context, id domain.AccountID, token string) (domain.UsageSummary, error)
	SwitchActive(ctx context.Context, id domain.AccountID) error
	ExportAll(ctx context.Context, format domain.ExportFormat) ([]byte, error)
	ImportMany(ctx context.Context, blob []byte) (int, error)
	QueryUsageEvents(ctx context.Context, id domain.AccountID, query domain.UsageEventQuery) (domain.UsageEventPage, error)
}
