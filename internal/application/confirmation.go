package application

import (
	"context"
	"sync"

	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/google/uuid"
)

type ConfirmationRequest struct {
	Title     string
	Message   string
	Kind      domain.ConfirmationKind
	OnConfirm func(ctx context.Context) error
	OnCancel  func()
}

// PendingConfirmation is the callback-free view of the current request.
type PendingConfirmation struct {
	ID      string
	Title   string
	Message string
	Kind    domain.ConfirmationKind
}

type pendingRequest struct {
	id  string
	req ConfirmationRequest
}

// ConfirmationGate holds at most one pending confirmation. Presenting a new
// request cancels the one it replaces.
type ConfirmationGate struct {
	mu      sync.Mutex
	pending *pendingRequest
}

func NewConfirmationGate() *ConfirmationGate {
	return &ConfirmationGate{}
}

func (g *ConfirmationGate) Present(req ConfirmationRequest) PendingConfirmation {
	next := &pendingRequest{id: uuid.NewString(), req: req}

	g.mu.Lock()
	previous := g.pending
	g.pending = next
	g.mu.Unlock()

	if previous != nil && previous.req.OnCancel != nil {
		previous.req.OnCancel()
	}

	return next.view()
}

func (g *ConfirmationGate) Pending() (PendingConfirmation, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == nil {
		return PendingConfirmation{}, false
	}

	return g.pending.view(), true
}

// Confirm clears the slot and runs the confirm callback. The slot is empty
// while the callback runs, so it may present a follow-up request.
func (g *ConfirmationGate) Confirm(ctx context.Context) error {
	current, err := g.take()
	if err != nil {
		return err
	}

	if current.req.OnConfirm == nil {
		return nil
	}

	return current.req.OnConfirm(ctx)
}

func (g *ConfirmationGate) Cancel() error {
	current, err := g.take()
	if err != nil {
		return err
	}

	if current.req.OnCancel != nil {
		current.req.OnCancel()
	}

	return nil
}

func (g *ConfirmationGate) take() (*pendingRequest, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == nil {
		return nil, domain.ErrNoPendingConfirmation
	}

	current := g.pending
	g.pending = nil
	return current, nil
}

func (p *pendingRequest) view() PendingConfirmation {
	return PendingConfirmation{
		ID:      p.id,
		Title:   p.req.Title,
		Message: p.req.Message,
		Kind:    p.req.Kind,
	}
}
