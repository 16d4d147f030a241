package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRefreshFixture(t *testing.T, timeout time.Duration, ids ...string) (*memoryStore, *Registry, *NotificationCenter, *RefreshCoordinator) {
	t.Helper()

	store := newMemoryStore(sampleAccounts(ids...)...)
	registry := NewRegistry(store, RegistryOptions{})
	require.NoError(t, registry.Load(context.Background()))
	store.resetCalls()

	notify := NewNotificationCenter(newFixedClock(time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)), -1)
	coordinator := NewRefreshCoordinator(registry, notify, RefreshOptions{Timeout: timeout})
	return store, registry, notify, coordinator
}

func TestRefreshOverlappingRequestsHitBackendOnce(t *testing.T) {
	store, _, notify, coordinator := newRefreshFixture(t, time.Minute, "x")
	gate := make(chan struct{})
	store.setGate(gate)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- coordinator.Refresh(context.Background(), "x")
	}()

	require.Eventually(t, func() bool { return coordinator.InFlight("x") && store.inFlight() == 1 }, time.Second, time.Millisecond)

	err := coordinator.Refresh(context.Background(), "x")
	require.ErrorIs(t, err, domain.ErrRefreshInFlight)
	assert.Empty(t, notify.List())

	close(gate)
	require.NoError(t, <-firstDone)

	assert.Equal(t, 1, store.calls("x"))
	assert.False(t, coordinator.InFlight("x"))
	assert.Equal(t, []domain.Severity{domain.SeveritySuccess}, severities(notify.List()))
}

func TestRefreshFailureKeepsPreviousUsage(t *testing.T) {
	store, registry, notify, coordinator := newRefreshFixture(t, time.Minute, "x", "y")
	before, ok := registry.Get("x")
	require.True(t, ok)
	siblingBefore, ok := registry.Get("y")
	require.True(t, ok)

	store.mu.Lock()
	store.usageErr["x"] = errors.New("upstream 500")
	store.usage["y"] = usageWithFast(9, 10)
	store.mu.Unlock()
	err := coordinator.Refresh(context.Background(), "x")
	require.ErrorContains(t, err, "upstream 500")

	after, ok := registry.Get("x")
	require.True(t, ok)
	assert.Equal(t, before.Usage, after.Usage)
	assert.False(t, coordinator.InFlight("x"))

	siblingAfter, ok := registry.Get("y")
	require.True(t, ok)
	assert.Equal(t, siblingBefore.Usage, siblingAfter.Usage)
	assert.Zero(t, store.calls("y"))

	messages := notify.List()
	require.Len(t, messages, 1)
	assert.Equal(t, domain.SeverityError, messages[0].Severity)
	assert.Contains(t, messages[0].Message, "upstream 500")
}

func TestRefreshSuccessReplacesUsage(t *testing.T) {
	store, registry, notify, coordinator := newRefreshFixture(t, time.Minute, "x")
	store.usage["x"] = usageWithFast(7, 10)

	require.NoError(t, coordinator.Refresh(context.Background(), "x"))

	got, _ := registry.Get("x")
	assert.Equal(t, 7.0, got.Usage.FastRequest.Used)
	assert.Equal(t, 3.0, got.Usage.FastRequest.Left)
	assert.Equal(t, []domain.Severity{domain.SeveritySuccess}, severities(notify.List()))
}

func TestRefreshTimeoutReleasesAccount(t *testing.T) {
	store, registry, notify, coordinator := newRefreshFixture(t, 20*time.Millisecond, "x")
	before, _ := registry.Get("x")
	store.setGate(make(chan struct{}))

	err := coordinator.Refresh(context.Background(), "x")
	require.ErrorIs(t, err, domain.ErrRefreshTimeout)
	assert.False(t, coordinator.InFlight("x"))

	after, _ := registry.Get("x")
	assert.Equal(t, before.Usage, after.Usage)

	messages := notify.List()
	require.Len(t, messages, 1)
	assert.Equal(t, domain.SeverityError, messages[0].Severity)
	assert.Contains(t, messages[0].Message, domain.ErrRefreshTimeout.Error())

	store.setGate(nil)
	require.NoError(t, coordinator.Refresh(context.Background(), "x"))
}

func TestRefreshUnknownAccount(t *testing.T) {
	_, _, notify, coordinator := newRefreshFixture(t, time.Minute)

	err := coordinator.Refresh(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.Equal(t, []domain.Severity{domain.SeverityError}, severities(notify.List()))
}

func TestRefreshDistinctAccountsRunConcurrently(t *testing.T) {
	store, _, _, coordinator := newRefreshFixture(t, time.Minute, "x", "y")
	gate := make(chan struct{})
	store.setGate(gate)

	var wg sync.WaitGroup
	for _, id := range []domain.AccountID{"x", "y"} {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, coordinator.Refresh(context.Background(), id))
		}()
	}

	require.Eventually(t, func() bool { return store.inFlight() == 2 }, time.Second, time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, 1, store.calls("x"))
	assert.Equal(t, 1, store.calls("y"))
}
