package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/bnema/trae-accounts-cli/internal/ports"
	_ "github.com/mattn/go-sqlite3"
)

const (
	databaseDirMode = 0o700
	busyTimeoutMS   = 5000
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	user_id    TEXT NOT NULL,
	tenant_id  TEXT NOT NULL DEFAULT '',
	name       TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	avatar_url TEXT NOT NULL DEFAULT '',
	plan_type  TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL DEFAULT 0,
	is_current INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_accounts_user_id ON accounts(user_id);
`

const selectColumns = `id, user_id, tenant_id, name, email, avatar_url, plan_type, created_at, is_current`

// Repository keeps account metadata in a SQLite database. List order is
// insertion order; an upsert keeps the original position.
type Repository struct {
	db   *sql.DB
	path string
}

var _ ports.AccountRepository = (*Repository)(nil)

func NewRepository(path string) (*Repository, error) {
	if path == "" {
		return nil, errors.New("database path is empty")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(absPath), databaseDirMode); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL&_foreign_keys=on", absPath, busyTimeoutMS)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db, path: absPath}
	if err := repo.migrate(); err != nil {
		return nil, errors.Join(err, db.Close())
	}

	return repo, nil
}

func (r *Repository) Path() string {
	return r.path
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) migrate() error {
	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

func (r *Repository) Save(ctx context.Context, account domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, user_id, tenant_id, name, email, avatar_url, plan_type, created_at, is_current)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			tenant_id = excluded.tenant_id,
			name = excluded.name,
			email = excluded.email,
			avatar_url = excluded.avatar_url,
			plan_type = excluded.plan_type,
			created_at = excluded.created_at,
			is_current = excluded.is_current
	`,
		string(account.ID), account.UserID, account.TenantID, account.Name, account.Email,
		account.AvatarURL, account.PlanType, unixSeconds(account.CreatedAt), account.IsCurrent,
	)
	if err != nil {
		return fmt.Errorf("save account %s: %w", account.ID, err)
	}

	return nil
}

func (r *Repository) Delete(ctx context.Context, id domain.AccountID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("delete account %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete account %s: %w", id, err)
	}
	if affected == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func (r *Repository) GetByID(ctx context.Context, id domain.AccountID) (domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return domain.Account{}, err
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM accounts WHERE id = ?`, string(id))
	account, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("get account %s: %w", id, err)
	}

	return account, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM accounts ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	return accounts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (domain.Account, error) {
	var (
		account   domain.Account
		id        string
		createdAt int64
	)

	err := row.Scan(
		&id, &account.UserID, &account.TenantID, &account.Name, &account.Email,
		&account.AvatarURL, &account.PlanType, &createdAt, &account.IsCurrent,
	)
	if err != nil {
		return domain.Account{}, err
	}

	account.ID = domain.AccountID(id)
	if createdAt > 0 {
		account.CreatedAt = time.Unix(createdAt, 0).UTC()
	}

	return account, nil
}

func unixSeconds(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.Unix()
}
