package application

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmationGateSupersededRequestIsCancelled(t *testing.T) {
	gate := NewConfirmationGate()

	var firstCancelled, firstConfirmed, secondConfirmed bool
	gate.Present(ConfirmationRequest{
		Title:     "first",
		OnConfirm: func(context.Context) error { firstConfirmed = true; return nil },
		OnCancel:  func() { firstCancelled = true },
	})
	second := gate.Present(ConfirmationRequest{
		Title:     "second",
		Kind:      domain.ConfirmationWarning,
		OnConfirm: func(context.Context) error { secondConfirmed = true; return nil },
	})

	assert.True(t, firstCancelled)

	pending, ok := gate.Pending()
	require.True(t, ok)
	assert.Equal(t, second.ID, pending.ID)
	assert.Equal(t, "second", pending.Title)

	require.NoError(t, gate.Confirm(context.Background()))
	assert.False(t, firstConfirmed)
	assert.True(t, secondConfirmed)
}

func TestConfirmationGateClearsSlotBeforeCallback(t *testing.T) {
	gate := NewConfirmationGate()

	gate.Present(ConfirmationRequest{
		Title: "outer",
		OnConfirm: func(context.Context) error {
			_, stillPending := gate.Pending()
			assert.False(t, stillPending)
			gate.Present(ConfirmationRequest{Title: "follow-up"})
			return nil
		},
	})

	require.NoError(t, gate.Confirm(context.Background()))

	pending, ok := gate.Pending()
	require.True(t, ok)
	assert.Equal(t, "follow-up", pending.Title)
}

func TestConfirmationGateConfirmReturnsCallbackError(t *testing.T) {
	gate := NewConfirmationGate()
	boom := errors.New("boom")

	gate.Present(ConfirmationRequest{OnConfirm: func(context.Context) error { return boom }})

	require.ErrorIs(t, gate.Confirm(context.Background()), boom)
	_, ok := gate.Pending()
	assert.False(t, ok)
}

func TestConfirmationGateWithoutPendingRequest(t *testing.T) {
	gate := NewConfirmationGate()

	require.ErrorIs(t, gate.Confirm(context.Background()), domain.ErrNoPendingConfirmation)
	require.ErrorIs(t, gate.Cancel(), domain.ErrNoPendingConfirmation)
}

func TestConfirmationGateCancelRunsCancelCallback(t *testing.T) {
	gate := NewConfirmationGate()

	cancelled := false
	gate.Present(ConfirmationRequest{OnCancel: func() { cancelled = true }})

	require.NoError(t, gate.Cancel())
	assert.True(t, cancelled)
	_, ok := gate.Pending()
	assert.False(t, ok)
}
