package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/bnema/trae-accounts-cli/internal/ports"
	"github.com/sirupsen/logrus"
)

type Deps struct {
	Store           ports.AccountStore
	Clock           ports.Clock
	Logger          logrus.FieldLogger
	LoadConcurrency int
	RefreshTimeout  time.Duration
	NotificationTTL time.Duration
}

// Engine is the entry point for every surface. Each mutating call reports
// its outcome through exactly one notification.
type Engine struct {
	registry  *Registry
	refresher *RefreshCoordinator
	batch     *BatchRunner
	notify    *NotificationCenter
	gate      *ConfirmationGate
	clock     ports.Clock
	log       logrus.FieldLogger
}

func NewEngine(deps Deps) *Engine {
	if deps.Clock == nil {
		deps.Clock = ports.SystemClock{}
	}
	if deps.Logger == nil {
		deps.Logger = discardLogger()
	}

	registry := NewRegistry(deps.Store, RegistryOptions{
		LoadConcurrency: deps.LoadConcurrency,
		Logger:          deps.Logger,
	})
	notify := NewNotificationCenter(deps.Clock, deps.NotificationTTL)
	gate := NewConfirmationGate()
	refresher := NewRefreshCoordinator(registry, notify, RefreshOptions{
		Timeout: deps.RefreshTimeout,
		Logger:  deps.Logger,
	})

	return &Engine{
		registry:  registry,
		refresher: refresher,
		batch:     NewBatchRunner(registry, refresher, notify, gate, deps.Logger),
		notify:    notify,
		gate:      gate,
		clock:     deps.Clock,
		log:       deps.Logger,
	}
}

func (e *Engine) Load(ctx context.Context) error {
	if err := e.registry.Load(ctx); err != nil {
		e.notify.Push(domain.SeverityError, fmt.Sprintf("load accounts failed: %v", err))
		return err
	}
	return nil
}

func (e *Engine) Accounts() []domain.AccountWithUsage {
	return e.registry.Snapshot()
}

func (e *Engine) Account(id domain.AccountID) (domain.AccountWithUsage, bool) {
	return e.registry.Get(id)
}

// Add registers an account from pasted input. When no token can be found in
// raw but session cookies are given, the cookies are exchanged for a token.
func (e *Engine) Add(ctx context.Context, raw, cookies string) (domain.Account, error) {
	cookies = strings.TrimSpace(cookies)

	var (
		account domain.Account
		err     error
	)
	extraction, extractErr := ExtractToken(raw)
	switch {
	case extractErr == nil:
		e.log.WithField("source", extraction.Source.String()).Debug("token extracted")
		account, err = e.registry.Add(ctx, extraction.Token, cookies)
	case cookies != "":
		account, err = e.registry.AddByCookies(ctx, cookies)
	default:
		err = extractErr
	}

	if err != nil && account.ID == "" {
		e.notify.Push(domain.SeverityError, fmt.Sprintf("add account failed: %v", err))
		return domain.Account{}, err
	}
	if err != nil {
		e.log.WithError(err).WithField("account_id", account.ID).Warn("account added but reload failed")
	}

	e.notify.Push(domain.SeveritySuccess, fmt.Sprintf("added %s", account.DisplayName()))
	return account, nil
}

// RequestRemove presents a danger confirmation for deleting id.
func (e *Engine) RequestRemove(id domain.AccountID) (PendingConfirmation, error) {
	entry, ok := e.registry.Get(id)
	if !ok {
		err := fmt.Errorf("remove account %s: %w", id, domain.ErrAccountNotFound)
		e.notify.Push(domain.SeverityError, fmt.Sprintf("delete %s failed: %v", id, err))
		return PendingConfirmation{}, err
	}
	name := entry.Account.DisplayName()

	return e.gate.Present(ConfirmationRequest{
		Title:   "Delete account",
		Message: fmt.Sprintf("Delete %s? This cannot be undone.", name),
		Kind:    domain.ConfirmationDanger,
		OnConfirm: func(ctx context.Context) error {
			if err := e.registry.Remove(ctx, id); err != nil {
				e.notify.Push(domain.SeverityError, fmt.Sprintf("delete %s failed: %v", name, err))
				return err
			}
			e.notify.Push(domain.SeveritySuccess, fmt.Sprintf("deleted %s", name))
			return nil
		},
	}), nil
}

// Refresh refreshes one account. A duplicate request while one is in flight
// is dropped silently and reports nil.
func (e *Engine) Refresh(ctx context.Context, id domain.AccountID) error {
	err := e.refresher.Refresh(ctx, id)
	if errors.Is(err, domain.ErrRefreshInFlight) {
		return nil
	}
	return err
}

func (e *Engine) Refreshing(id domain.AccountID) bool {
	return e.refresher.InFlight(id)
}

func (e *Engine) BatchRefresh(ctx context.Context, ids []domain.AccountID) (BatchResult, error) {
	return e.batch.BatchRefresh(ctx, ids)
}

func (e *Engine) RefreshSelected(ctx context.Context) (BatchResult, error) {
	return e.batch.BatchRefresh(ctx, e.registry.Selected())
}

func (e *Engine) RequestBatchDelete(ids []domain.AccountID, onDone func(BatchResult)) (PendingConfirmation, error) {
	return e.batch.BatchDelete(ids, onDone)
}

func (e *Engine) RequestDeleteSelected(onDone func(BatchResult)) (PendingConfirmation, error) {
	return e.batch.BatchDelete(e.registry.Selected(), onDone)
}

// UpdateToken replaces the token of id with the one found in raw. Backend
// errors such as ErrIdentityMismatch are returned unchanged.
func (e *Engine) UpdateToken(ctx context.Context, id domain.AccountID, raw string) (domain.UsageSummary, error) {
	extraction, err := ExtractToken(raw)
	if err != nil {
		e.notify.Push(domain.SeverityError, fmt.Sprintf("update token failed: %v", err))
		return domain.UsageSummary{}, err
	}

	usage, err := e.registry.UpdateToken(ctx, id, extraction.Token)
	if err != nil {
		e.notify.Push(domain.SeverityError, fmt.Sprintf("update token failed: %v", err))
		return domain.UsageSummary{}, err
	}

	e.notify.Push(domain.SeveritySuccess, "token updated")
	return usage, nil
}

// RequestSwitch presents a warning confirmation for making id the current
// account.
func (e *Engine) RequestSwitch(id domain.AccountID) (PendingConfirmation, error) {
	entry, ok := e.registry.Get(id)
	if !ok {
		err := fmt.Errorf("switch account %s: %w", id, domain.ErrAccountNotFound)
		e.notify.Push(domain.SeverityError, fmt.Sprintf("switch to %s failed: %v", id, err))
		return PendingConfirmation{}, err
	}
	name := entry.Account.DisplayName()

	return e.gate.Present(ConfirmationRequest{
		Title:   "Switch account",
		Message: fmt.Sprintf("Make %s the current account?", name),
		Kind:    domain.ConfirmationWarning,
		OnConfirm: func(ctx context.Context) error {
			if err := e.registry.SwitchActive(ctx, id); err != nil {
				e.notify.Push(domain.SeverityError, fmt.Sprintf("switch to %s failed: %v", name, err))
				return err
			}
			e.notify.Push(domain.SeveritySuccess, fmt.Sprintf("switched to %s", name))
			return nil
		},
	}), nil
}

// RevealToken returns the stored token of id. An account without a token
// yields an empty string and a warning.
func (e *Engine) RevealToken(ctx context.Context, id domain.AccountID) (string, error) {
	detail, err := e.registry.Detail(ctx, id)
	if err != nil {
		e.notify.Push(domain.SeverityError, fmt.Sprintf("read token failed: %v", err))
		return "", err
	}

	if detail.Credential.IsEmpty() {
		e.notify.Push(domain.SeverityWarning, fmt.Sprintf("%s has no token", detail.Account.DisplayName()))
		return "", nil
	}

	e.notify.Push(domain.SeveritySuccess, "token copied")
	return detail.Credential.Token, nil
}

func (e *Engine) Export(ctx context.Context, format domain.ExportFormat) ([]byte, error) {
	blob, count, err := e.registry.Export(ctx, format)
	if err != nil {
		e.notify.Push(domain.SeverityError, fmt.Sprintf("export failed: %v", err))
		return nil, err
	}

	e.notify.Push(domain.SeveritySuccess, fmt.Sprintf("exported %d accounts", count))
	return blob, nil
}

func (e *Engine) Import(ctx context.Context, blob []byte) (int, error) {
	count, err := e.registry.Import(ctx, blob)
	var reloadErr *reloadError
	if err != nil && !errors.As(err, &reloadErr) {
		e.notify.Push(domain.SeverityError, fmt.Sprintf("import failed: %v", err))
		return 0, err
	}
	if err != nil {
		e.log.WithError(err).Warn("accounts imported but reload failed")
	}

	e.notify.Push(domain.SeveritySuccess, fmt.Sprintf("imported %d accounts", count))
	return count, nil
}

func (e *Engine) UsageEvents(ctx context.Context, id domain.AccountID, query domain.UsageEventQuery) (domain.UsageEventPage, error) {
	return e.registry.UsageEvents(ctx, id, query)
}

func (e *Engine) Dashboard() Dashboard {
	return Summarize(e.registry.Snapshot())
}

// AutoRefresh refreshes every account each interval until ctx is done.
func (e *Engine) AutoRefresh(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("auto refresh interval must be positive, got %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			ids := e.registry.IDs()
			if len(ids) == 0 {
				continue
			}
			result, err := e.batch.BatchRefresh(ctx, ids)
			if err != nil {
				e.log.WithError(err).Warn("auto refresh")
				continue
			}
			e.log.WithFields(logrus.Fields{
				"op":        "auto_refresh",
				"refreshed": result.Succeeded(),
				"failed":    len(result.Failed()),
			}).Info("auto refresh done")
		}
	}
}

func (e *Engine) Toggle(id domain.AccountID) (bool, error) { return e.registry.Toggle(id) }
func (e *Engine) ToggleAll() bool                          { return e.registry.ToggleAll() }
func (e *Engine) SelectAll()                               { e.registry.SelectAll() }
func (e *Engine) ClearSelection()                          { e.registry.ClearSelection() }
func (e *Engine) Selected() []domain.AccountID             { return e.registry.Selected() }
func (e *Engine) IsAllSelected() bool                      { return e.registry.IsAllSelected() }

func (e *Engine) PendingConfirmation() (PendingConfirmation, bool) { return e.gate.Pending() }
func (e *Engine) Confirm(ctx context.Context) error                 { return e.gate.Confirm(ctx) }
func (e *Engine) Cancel() error                                     { return e.gate.Cancel() }

func (e *Engine) Notifications() []Notification      { return e.notify.List() }
func (e *Engine) DismissNotification(id string) bool { return e.notify.Dismiss(id) }
func (e *Engine) DrainNotifications() []Notification { return e.notify.Drain() }
