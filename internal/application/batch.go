package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/sirupsen/logrus"
)

type BatchItem struct {
	ID  domain.AccountID
	Err error
}

type BatchResult struct {
	Items []BatchItem
}

func (r BatchResult) Succeeded() int {
	n := 0
	for _, item := range r.Items {
		if item.Err == nil {
			n++
		}
	}
	return n
}

func (r BatchResult) Failed() []BatchItem {
	failed := make([]BatchItem, 0)
	for _, item := range r.Items {
		if item.Err != nil {
			failed = append(failed, item)
		}
	}
	return failed
}

// Err joins every per-item failure.
func (r BatchResult) Err() error {
	var err error
	for _, item := range r.Failed() {
		err = errors.Join(err, fmt.Errorf("%s: %w", item.ID, item.Err))
	}
	return err
}

// BatchRunner applies refresh and delete to a set of accounts one at a time,
// in the order given. A failing item never stops the rest.
type BatchRunner struct {
	registry  *Registry
	refresher *RefreshCoordinator
	notify    *NotificationCenter
	gate      *ConfirmationGate
	log       logrus.FieldLogger
}

func NewBatchRunner(registry *Registry, refresher *RefreshCoordinator, notify *NotificationCenter, gate *ConfirmationGate, logger logrus.FieldLogger) *BatchRunner {
	if logger == nil {
		logger = discardLogger()
	}

	return &BatchRunner{
		registry:  registry,
		refresher: refresher,
		notify:    notify,
		gate:      gate,
		log:       logger,
	}
}

// BatchRefresh refreshes ids sequentially. Each refresh reports its own
// outcome notification.
func (b *BatchRunner) BatchRefresh(ctx context.Context, ids []domain.AccountID) (BatchResult, error) {
	if len(ids) == 0 {
		b.notify.Push(domain.SeverityWarning, "select accounts to refresh first")
		return BatchResult{}, domain.ErrEmptySelection
	}

	b.notify.Push(domain.SeverityInfo, fmt.Sprintf("refreshing %d accounts", len(ids)))

	result := BatchResult{Items: make([]BatchItem, 0, len(ids))}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			result.Items = append(result.Items, BatchItem{ID: id, Err: err})
			continue
		}

		err := b.refresher.Refresh(ctx, id)
		if err != nil {
			b.log.WithError(err).WithField("account_id", id).Debug("batch refresh item failed")
		}
		result.Items = append(result.Items, BatchItem{ID: id, Err: err})
	}

	return result, nil
}

// BatchDelete asks for one confirmation covering every id. Once confirmed the
// accounts are removed sequentially and onDone, when set, receives the
// per-item outcome.
func (b *BatchRunner) BatchDelete(ids []domain.AccountID, onDone func(BatchResult)) (PendingConfirmation, error) {
	if len(ids) == 0 {
		b.notify.Push(domain.SeverityWarning, "select accounts to delete first")
		return PendingConfirmation{}, domain.ErrEmptySelection
	}

	targets := append([]domain.AccountID(nil), ids...)
	pending := b.gate.Present(ConfirmationRequest{
		Title:   "Delete accounts",
		Message: fmt.Sprintf("Delete %d selected accounts? This cannot be undone.", len(targets)),
		Kind:    domain.ConfirmationDanger,
		OnConfirm: func(ctx context.Context) error {
			result := b.deleteAll(ctx, targets)
			if onDone != nil {
				onDone(result)
			}
			return result.Err()
		},
	})

	return pending, nil
}

func (b *BatchRunner) deleteAll(ctx context.Context, ids []domain.AccountID) BatchResult {
	result := BatchResult{Items: make([]BatchItem, 0, len(ids))}
	for _, id := range ids {
		err := b.registry.Remove(ctx, id)
		if err != nil {
			b.log.WithError(err).WithField("account_id", id).Warn("batch delete item failed")
		}
		result.Items = append(result.Items, BatchItem{ID: id, Err: err})
	}

	succeeded := result.Succeeded()
	if succeeded == len(ids) {
		b.notify.Push(domain.SeveritySuccess, fmt.Sprintf("deleted %d accounts", succeeded))
	} else {
		b.notify.Push(domain.SeverityWarning, fmt.Sprintf("deleted %d of %d accounts", succeeded, len(ids)))
	}

	if err := b.registry.Load(ctx); err != nil {
		b.log.WithError(err).Warn("reload after batch delete")
	}

	return result
}
