package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/sirupsen/logrus"
)

const DefaultRefreshTimeout = 45 * time.Second

type RefreshOptions struct {
	Timeout time.Duration
	Logger  logrus.FieldLogger
}

// RefreshCoordinator admits at most one usage refresh per account. A refresh
// that outlives its timeout releases the account and its late result is
// discarded.
type RefreshCoordinator struct {
	registry *Registry
	notify   *NotificationCenter
	timeout  time.Duration
	log      logrus.FieldLogger

	mu       sync.Mutex
	inFlight map[domain.AccountID]struct{}
}

func NewRefreshCoordinator(registry *Registry, notify *NotificationCenter, opts RefreshOptions) *RefreshCoordinator {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultRefreshTimeout
	}
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}

	return &RefreshCoordinator{
		registry: registry,
		notify:   notify,
		timeout:  opts.Timeout,
		log:      opts.Logger,
		inFlight: map[domain.AccountID]struct{}{},
	}
}

type fetchResult struct {
	usage domain.UsageSummary
	err   error
}

// Refresh fetches and applies fresh usage for id. A request for an account
// that is already refreshing returns ErrRefreshInFlight and emits nothing.
func (c *RefreshCoordinator) Refresh(ctx context.Context, id domain.AccountID) error {
	if !c.begin(id) {
		c.log.WithField("account_id", id).Debug("refresh already in flight")
		return domain.ErrRefreshInFlight
	}
	defer c.end(id)

	entry, ok := c.registry.Get(id)
	if !ok {
		err := fmt.Errorf("refresh account %s: %w", id, domain.ErrAccountNotFound)
		c.notify.Push(domain.SeverityError, err.Error())
		return err
	}
	name := entry.Account.DisplayName()

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan fetchResult, 1)
	go func() {
		usage, err := c.registry.FetchUsage(fetchCtx, id)
		done <- fetchResult{usage: usage, err: err}
	}()

	var result fetchResult
	select {
	case result = <-done:
	case <-fetchCtx.Done():
		err := fetchCtx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			err = domain.ErrRefreshTimeout
		}
		c.log.WithError(err).WithField("account_id", id).Warn("refresh abandoned")
		c.notify.Push(domain.SeverityError, fmt.Sprintf("refresh %s failed: %v", name, err))
		return fmt.Errorf("refresh account %s: %w", id, err)
	}

	if result.err != nil {
		c.notify.Push(domain.SeverityError, fmt.Sprintf("refresh %s failed: %v", name, result.err))
		return result.err
	}

	if !c.registry.ApplyUsage(id, result.usage) {
		err := fmt.Errorf("refresh account %s: %w", id, domain.ErrAccountNotFound)
		c.notify.Push(domain.SeverityError, err.Error())
		return err
	}

	c.notify.Push(domain.SeveritySuccess, fmt.Sprintf("refreshed %s", name))
	return nil
}

// InFlight reports whether id is currently refreshing.
func (c *RefreshCoordinator) InFlight(id domain.AccountID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.inFlight[id]
	return ok
}

func (c *RefreshCoordinator) begin(id domain.AccountID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.inFlight[id]; ok {
		return false
	}
	c.inFlight[id] = struct{}{}
	return true
}

func (c *RefreshCoordinator) end(id domain.AccountID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.inFlight, id)
}
