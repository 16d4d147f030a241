package ports

import (
	"context"

	"github.com/bnema/trae-accounts-cli/internal/domain"
)

// AccountRepository persists account metadata. List returns accounts in
// insertion order.
type AccountRepository interface {
	GetByID(ctx context.Context, id domain.AccountID) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	Save(ctx context.Context, account domain.Account) error
	Delete(ctx context.Context, id domain.AccountID) error
}
