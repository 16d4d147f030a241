package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/bnema/trae-accounts-cli/internal/ports"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const defaultLoadConcurrency = 4

type RegistryOptions struct {
	LoadConcurrency int
	Logger          logrus.FieldLogger
}

// Registry is the in-memory view of every account merged with its latest
// usage. It is the only writer of that view and of the selection.
type Registry struct {
	store       ports.AccountStore
	log         logrus.FieldLogger
	concurrency int

	mu        sync.RWMutex
	accounts  []domain.AccountWithUsage
	selection Selection
	loadSeq   uint64
	// removedAt maps ids removed while a load may be in flight to the load
	// sequence current at removal. Loads started at or before it skip them.
	removedAt map[domain.AccountID]uint64
}

func NewRegistry(store ports.AccountStore, opts RegistryOptions) *Registry {
	if opts.LoadConcurrency <= 0 {
		opts.LoadConcurrency = defaultLoadConcurrency
	}
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}

	return &Registry{
		store:       store,
		log:         opts.Logger,
		concurrency: opts.LoadConcurrency,
		selection:   newSelection(),
		removedAt:   map[domain.AccountID]uint64{},
	}
}

// Load replaces the registry with the backend's accounts. Usage is fetched
// concurrently; a failed fetch leaves that account's usage nil without
// failing the load. Results of a load superseded by a newer one are dropped.
func (r *Registry) Load(ctx context.Context) error {
	r.mu.Lock()
	r.loadSeq++
	seq := r.loadSeq
	r.mu.Unlock()

	accounts, err := r.store.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}

	usages := make([]*domain.UsageSummary, len(accounts))
	var group errgroup.Group
	group.SetLimit(r.concurrency)
	for i, account := range accounts {
		i, account := i, account
		group.Go(func() error {
			usage, err := r.store.GetUsage(ctx, account.ID)
			if err != nil {
				r.log.WithError(errors.Join(domain.ErrPartialUsageUnavailable, err)).
					WithField("account_id", account.ID).
					Warn("load account usage")
				return nil
			}
			usages[i] = &usage
			return nil
		})
	}
	_ = group.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if seq != r.loadSeq {
		r.log.WithField("op", "load").Debug("discard superseded load")
		return nil
	}

	merged := make([]domain.AccountWithUsage, 0, len(accounts))
	ids := make([]domain.AccountID, 0, len(accounts))
	for i, account := range accounts {
		if removed, ok := r.removedAt[account.ID]; ok && seq <= removed {
			continue
		}
		merged = append(merged, domain.AccountWithUsage{Account: account, Usage: usages[i]})
		ids = append(ids, account.ID)
	}

	r.accounts = merged
	r.selection.Retain(ids)
	clear(r.removedAt)

	return nil
}

// Add registers a token and reloads the registry.
func (r *Registry) Add(ctx context.Context, token, cookies string) (domain.Account, error) {
	account, err := r.store.AddByToken(ctx, token, cookies)
	if err != nil {
		return domain.Account{}, err
	}

	if err := r.Load(ctx); err != nil {
		return account, fmt.Errorf("reload after add: %w", err)
	}

	return account, nil
}

// AddByCookies registers an account from browser session cookies and
// reloads the registry.
func (r *Registry) AddByCookies(ctx context.Context, cookies string) (domain.Account, error) {
	account, err := r.store.AddByCookies(ctx, cookies)
	if err != nil {
		return domain.Account{}, err
	}

	if err := r.Load(ctx); err != nil {
		return account, fmt.Errorf("reload after add: %w", err)
	}

	return account, nil
}

// Remove deletes an account from the backend, then from the registry and
// the selection in one step.
func (r *Registry) Remove(ctx context.Context, id domain.AccountID) error {
	if !r.Contains(id) {
		return fmt.Errorf("remove account %s: %w", id, domain.ErrAccountNotFound)
	}

	err := r.store.Remove(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
		return fmt.Errorf("remove account %s: %w", id, err)
	}

	r.mu.Lock()
	r.dropLocked(id)
	r.mu.Unlock()

	if err != nil {
		return fmt.Errorf("remove account %s: %w", id, err)
	}

	return nil
}

func (r *Registry) dropLocked(id domain.AccountID) {
	kept := make([]domain.AccountWithUsage, 0, len(r.accounts))
	for _, entry := range r.accounts {
		if entry.Account.ID != id {
			kept = append(kept, entry)
		}
	}
	r.accounts = kept
	r.selection.Remove(id)
	r.removedAt[id] = r.loadSeq
}

// FetchUsage asks the backend for fresh usage without touching the registry.
func (r *Registry) FetchUsage(ctx context.Context, id domain.AccountID) (domain.UsageSummary, error) {
	usage, err := r.store.GetUsage(ctx, id)
	if err != nil {
		return domain.UsageSummary{}, fmt.Errorf("get usage for %s: %w", id, err)
	}

	return usage, nil
}

// ApplyUsage replaces the usage of id. It reports false when the account is
// no longer registered.
func (r *Registry) ApplyUsage(id domain.AccountID, usage domain.UsageSummary) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.accounts {
		if r.accounts[i].Account.ID == id {
			updated := usage
			r.accounts[i].Usage = &updated
			return true
		}
	}

	return false
}

// UpdateToken swaps the credential of id. Backend errors are returned as is
// so callers can tell an identity mismatch apart.
func (r *Registry) UpdateToken(ctx context.Context, id domain.AccountID, token string) (domain.UsageSummary, error) {
	if !r.Contains(id) {
		return domain.UsageSummary{}, fmt.Errorf("update token for %s: %w", id, domain.ErrAccountNotFound)
	}

	usage, err := r.store.UpdateToken(ctx, id, token)
	if err != nil {
		return domain.UsageSummary{}, err
	}

	r.ApplyUsage(id, usage)

	return usage, nil
}

func (r *Registry) SwitchActive(ctx context.Context, id domain.AccountID) error {
	if !r.Contains(id) {
		return fmt.Errorf("switch account %s: %w", id, domain.ErrAccountNotFound)
	}

	if err := r.store.SwitchActive(ctx, id); err != nil {
		return fmt.Errorf("switch account %s: %w", id, err)
	}

	return r.Load(ctx)
}

func (r *Registry) Detail(ctx context.Context, id domain.AccountID) (domain.AccountDetail, error) {
	detail, err := r.store.GetAccount(ctx, id)
	if err != nil {
		return domain.AccountDetail{}, fmt.Errorf("get account %s: %w", id, err)
	}

	return detail, nil
}

func (r *Registry) Export(ctx context.Context, format domain.ExportFormat) ([]byte, int, error) {
	blob, err := r.store.ExportAll(ctx, format)
	if err != nil {
		return nil, 0, fmt.Errorf("export accounts: %w", err)
	}

	return blob, r.Len(), nil
}

// Import hands a blob to the backend and reloads when anything was imported.
func (r *Registry) Import(ctx context.Context, blob []byte) (int, error) {
	count, err := r.store.ImportMany(ctx, blob)
	if err != nil {
		return 0, fmt.Errorf("import accounts: %w", err)
	}

	if err := r.Load(ctx); err != nil {
		return count, &reloadError{op: "import", err: err}
	}

	return count, nil
}

// reloadError reports that a store mutation succeeded but the reload that
// follows it failed.
type reloadError struct {
	op  string
	err error
}

func (e *reloadError) Error() string { return "reload after " + e.op + ": " + e.err.Error() }

func (e *reloadError) Unwrap() error { return e.err }

func (r *Registry) UsageEvents(ctx context.Context, id domain.AccountID, query domain.UsageEventQuery) (domain.UsageEventPage, error) {
	if !r.Contains(id) {
		return domain.UsageEventPage{}, fmt.Errorf("query usage events for %s: %w", id, domain.ErrAccountNotFound)
	}

	page, err := r.store.QueryUsageEvents(ctx, id, query)
	if err != nil {
		return domain.UsageEventPage{}, fmt.Errorf("query usage events for %s: %w", id, err)
	}

	return page, nil
}

// Snapshot returns a copy of the registry in backend order.
func (r *Registry) Snapshot() []domain.AccountWithUsage {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.AccountWithUsage, len(r.accounts))
	for i, entry := range r.accounts {
		out[i] = entry
		if entry.Usage != nil {
			usage := *entry.Usage
			out[i].Usage = &usage
		}
	}

	return out
}

func (r *Registry) Get(id domain.AccountID) (domain.AccountWithUsage, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, entry := range r.accounts {
		if entry.Account.ID == id {
			if entry.Usage != nil {
				usage := *entry.Usage
				entry.Usage = &usage
			}
			return entry, true
		}
	}

	return domain.AccountWithUsage{}, false
}

func (r *Registry) Contains(id domain.AccountID) bool {
	_, ok := r.Get(id)
	return ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.accounts)
}

func (r *Registry) IDs() []domain.AccountID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.idsLocked()
}

func (r *Registry) idsLocked() []domain.AccountID {
	ids := make([]domain.AccountID, len(r.accounts))
	for i, entry := range r.accounts {
		ids[i] = entry.Account.ID
	}
	return ids
}

// Toggle flips the selection of a registered account.
func (r *Registry) Toggle(id domain.AccountID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range r.accounts {
		if entry.Account.ID == id {
			return r.selection.Toggle(id), nil
		}
	}

	return false, fmt.Errorf("select account %s: %w", id, domain.ErrAccountNotFound)
}

func (r *Registry) SelectAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.selection.Set(r.idsLocked())
}

func (r *Registry) ClearSelection() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.selection.Clear()
}

// ToggleAll clears the selection when every account is selected and selects
// everything otherwise. It reports whether the result is fully selected.
func (r *Registry) ToggleAll() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.selection.IsAll(len(r.accounts)) {
		r.selection.Clear()
		return false
	}

	r.selection.Set(r.idsLocked())
	return len(r.accounts) > 0
}

// Selected returns selected ids in registry order.
func (r *Registry) Selected() []domain.AccountID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.selection.Ordered(r.idsLocked())
}

func (r *Registry) IsSelected(id domain.AccountID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.selection.Contains(id)
}

func (r *Registry) IsAllSelected() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.selection.IsAll(len(r.accounts))
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
