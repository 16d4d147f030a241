package backend

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	tomlrepo "github.com/bnema/trae-accounts-cli/internal/adapters/repo/toml"
	filestore "github.com/bnema/trae-accounts-cli/internal/adapters/secrets/file"
	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/bnema/trae-accounts-cli/internal/ports"
	"github.com/bnema/trae-accounts-cli/internal/ports/mocks"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 2, 14, 12, 30, 45, 500, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type harness struct {
	store   *Store
	api     *mocks.MockUsageAPI
	repo    *tomlrepo.Repository
	secrets *filestore.Store
	logs    *logtest.Hook
}

func newHarness(t *testing.T) harness {
	t.Helper()

	root := t.TempDir()
	repo, err := tomlrepo.NewRepository(filepath.Join(root, "accounts.toml"))
	require.NoError(t, err)
	secrets := filestore.NewStore(filepath.Join(root, "secrets"))
	api := mocks.NewMockUsageAPI(t)
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	store := NewStore(repo, secrets, api, fixedClock{now: testNow}, logger)
	next := 0
	store.newID = func() string {
		next++
		return fmt.Sprintf("acc-%d", next)
	}

	return harness{store: store, api: api, repo: repo, secrets: secrets, logs: hook}
}

func (h harness) expectIdentity(token, userID string) {
	h.api.EXPECT().Identify(token).Return(ports.TokenIdentity{
		UserID:    userID,
		TenantID:  "tenant-" + userID,
		ExpiresAt: testNow.Add(24 * time.Hour),
	}, nil)
}

func (h harness) addAccount(t *testing.T, token, userID string) domain.Account {
	t.Helper()

	h.expectIdentity(token, userID)
	h.api.EXPECT().GetUserProfile(mock.Anything, token).Return(ports.UserProfile{
		UserID:     userID,
		ScreenName: "dev " + userID,
		Email:      userID + "@example.com",
	}, nil).Once()
	h.api.EXPECT().GetUsage(mock.Anything, token).Return(domain.UsageSummary{PlanType: domain.PlanFree}, nil).Once()

	account, err := h.store.AddByToken(context.Background(), token, "")
	require.NoError(t, err)
	return account
}

func TestStoreAddByTokenPersistsAccountAndCredential(t *testing.T) {
	h := newHarness(t)

	h.expectIdentity("eyJone", "u-1")
	h.api.EXPECT().GetUserProfile(mock.Anything, "eyJone").Return(ports.UserProfile{
		UserID:     "u-1",
		ScreenName: "dev",
		Email:      "dev@example.com",
		AvatarURL:  "https://cdn.example.com/a.png",
	}, nil).Once()
	h.api.EXPECT().GetUsage(mock.Anything, "eyJone").Return(domain.UsageSummary{PlanType: domain.PlanPro}, nil).Once()

	account, err := h.store.AddByToken(context.Background(), "  eyJone \n", "sid=1")
	require.NoError(t, err)

	assert.Equal(t, domain.Account{
		ID:        "acc-1",
		UserID:    "u-1",
		TenantID:  "tenant-u-1",
		Name:      "dev",
		Email:     "dev@example.com",
		AvatarURL: "https://cdn.example.com/a.png",
		PlanType:  domain.PlanPro,
		CreatedAt: time.Date(2026, 2, 14, 12, 30, 45, 0, time.UTC),
		IsCurrent: true,
	}, account)

	detail, err := h.store.GetAccount(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, account, detail.Account)
	assert.Equal(t, "eyJone", detail.Credential.Token)
	assert.Equal(t, "sid=1", detail.Credential.Cookies)
	assert.True(t, testNow.Add(24*time.Hour).Equal(detail.Credential.ExpiresAt))
}

func TestStoreAddOnlyMarksFirstAccountCurrent(t *testing.T) {
	h := newHarness(t)

	first := h.addAccount(t, "eyJone", "u-1")
	second := h.addAccount(t, "eyJtwo", "u-2")

	assert.True(t, first.IsCurrent)
	assert.False(t, second.IsCurrent)
}

func TestStoreAddRejectsDuplicateUser(t *testing.T) {
	h := newHarness(t)
	h.addAccount(t, "eyJone", "u-1")

	h.expectIdentity("eyJone-again", "u-1")
	h.api.EXPECT().GetUsage(mock.Anything, "eyJone-again").Return(domain.UsageSummary{}, nil).Once()

	_, err := h.store.AddByToken(context.Background(), "eyJone-again", "")
	require.ErrorIs(t, err, domain.ErrDuplicateAccount)

	accounts, err := h.store.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestStoreAddToleratesUnreachableBackend(t *testing.T) {
	h := newHarness(t)

	h.expectIdentity("eyJone", "u-1")
	h.api.EXPECT().GetUserProfile(mock.Anything, "eyJone").Return(ports.UserProfile{}, domain.ErrBackendUnavailable).Once()
	h.api.EXPECT().GetUsage(mock.Anything, "eyJone").Return(domain.UsageSummary{}, domain.ErrBackendUnavailable).Once()

	account, err := h.store.AddByToken(context.Background(), "eyJone", "")
	require.NoError(t, err)
	assert.Equal(t, domain.PlanFree, account.PlanType)
	assert.Empty(t, account.Email)
	assert.Len(t, h.logs.AllEntries(), 2)
	assert.Equal(t, logrus.WarnLevel, h.logs.LastEntry().Level)
}

func TestStoreAddRejectsTokenRefusedByBackend(t *testing.T) {
	h := newHarness(t)

	h.expectIdentity("eyJrevoked", "u-1")
	h.api.EXPECT().GetUsage(mock.Anything, "eyJrevoked").Return(domain.UsageSummary{}, fmt.Errorf("fetch entitlements: %w", domain.ErrInvalidCredential)).Once()

	_, err := h.store.AddByToken(context.Background(), "eyJrevoked", "")
	require.ErrorIs(t, err, domain.ErrInvalidCredential)

	accounts, err := h.store.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, accounts)
	_, err = h.secrets.Get(context.Background(), CredentialKey("acc-1"))
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreAddPrefersEntitlementUserID(t *testing.T) {
	h := newHarness(t)

	h.expectIdentity("eyJone", "jwt-user")
	h.api.EXPECT().GetUsage(mock.Anything, "eyJone").Return(domain.UsageSummary{PlanType: domain.PlanPro, UserID: "u-1"}, nil).Once()
	h.api.EXPECT().GetUserProfile(mock.Anything, "eyJone").Return(ports.UserProfile{Email: "dev@example.com"}, nil).Once()

	account, err := h.store.AddByToken(context.Background(), "eyJone", "")
	require.NoError(t, err)
	assert.Equal(t, "u-1", account.UserID)
	assert.Equal(t, domain.PlanPro, account.PlanType)
}

func TestStoreAddRejectsBadTokens(t *testing.T) {
	h := newHarness(t)

	_, err := h.store.AddByToken(context.Background(), "   ", "")
	require.ErrorIs(t, err, domain.ErrInvalidCredential)

	h.api.EXPECT().Identify("garbage").Return(ports.TokenIdentity{}, fmt.Errorf("%w: malformed", domain.ErrInvalidCredential)).Once()
	_, err = h.store.AddByToken(context.Background(), "garbage", "")
	require.ErrorIs(t, err, domain.ErrInvalidCredential)

	accounts, err := h.store.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestStoreAddByCookiesExchangesForToken(t *testing.T) {
	h := newHarness(t)

	expires := testNow.Add(time.Hour)
	h.api.EXPECT().ExchangeCookies(mock.Anything, "sid=abc").Return(ports.IssuedToken{Token: "eyJminted", ExpiresAt: expires, UserID: "u-1"}, nil).Once()
	h.expectIdentity("eyJminted", "u-1")
	h.api.EXPECT().GetUserProfile(mock.Anything, "eyJminted").Return(ports.UserProfile{Email: "dev@example.com"}, nil).Once()
	h.api.EXPECT().GetUsage(mock.Anything, "eyJminted").Return(domain.DefaultUsageSummary(), nil).Once()

	account, err := h.store.AddByCookies(context.Background(), "sid=abc")
	require.NoError(t, err)

	detail, err := h.store.GetAccount(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, "eyJminted", detail.Credential.Token)
	assert.Equal(t, "sid=abc", detail.Credential.Cookies)
	assert.True(t, expires.Equal(detail.Credential.ExpiresAt))
}

func TestStoreAddByCookiesPropagatesRejection(t *testing.T) {
	h := newHarness(t)

	h.api.EXPECT().ExchangeCookies(mock.Anything, "sid=expired").Return(ports.IssuedToken{}, domain.ErrInvalidCredential).Once()

	_, err := h.store.AddByCookies(context.Background(), "sid=expired")
	require.ErrorIs(t, err, domain.ErrInvalidCredential)
}

func TestStoreAddRollsBackCredentialWhenSaveFails(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	secrets := mocks.NewMockSecretStore(t)
	api := mocks.NewMockUsageAPI(t)
	store := NewStore(repo, secrets, api, fixedClock{now: testNow}, nil)
	store.newID = func() string { return "acc-1" }

	saveErr := errors.New("disk full")
	api.EXPECT().Identify("eyJone").Return(ports.TokenIdentity{UserID: "u-1"}, nil).Once()
	repo.EXPECT().List(mock.Anything).Return(nil, nil).Once()
	api.EXPECT().GetUserProfile(mock.Anything, "eyJone").Return(ports.UserProfile{}, nil).Once()
	api.EXPECT().GetUsage(mock.Anything, "eyJone").Return(domain.UsageSummary{}, nil).Once()
	secrets.EXPECT().Put(mock.Anything, CredentialKey("acc-1"), mock.AnythingOfType("string")).Return(nil).Once()
	repo.EXPECT().Save(mock.Anything, mock.Anything).Return(saveErr).Once()
	secrets.EXPECT().Delete(mock.Anything, CredentialKey("acc-1")).Return(nil).Once()

	_, err := store.AddByToken(context.Background(), "eyJone", "")
	require.ErrorIs(t, err, saveErr)
	assert.NotContains(t, err.Error(), "rollback")
}

func TestStoreUpdateToken(t *testing.T) {
	t.Run("replaces credential and syncs plan", func(t *testing.T) {
		h := newHarness(t)
		account := h.addAccount(t, "eyJold", "u-1")

		h.expectIdentity("eyJnew", "u-1")
		h.api.EXPECT().GetUsage(mock.Anything, "eyJnew").Return(domain.UsageSummary{PlanType: domain.PlanPro}, nil).Once()

		usage, err := h.store.UpdateToken(context.Background(), account.ID, "eyJnew")
		require.NoError(t, err)
		assert.Equal(t, domain.PlanPro, usage.PlanType)

		detail, err := h.store.GetAccount(context.Background(), account.ID)
		require.NoError(t, err)
		assert.Equal(t, "eyJnew", detail.Credential.Token)
		assert.Equal(t, domain.PlanPro, detail.Account.PlanType)
	})

	t.Run("rejects token of another user", func(t *testing.T) {
		h := newHarness(t)
		account := h.addAccount(t, "eyJold", "u-1")

		h.expectIdentity("eyJother", "u-2")

		_, err := h.store.UpdateToken(context.Background(), account.ID, "eyJother")
		require.ErrorIs(t, err, domain.ErrIdentityMismatch)

		detail, err := h.store.GetAccount(context.Background(), account.ID)
		require.NoError(t, err)
		assert.Equal(t, "eyJold", detail.Credential.Token)
	})

	t.Run("keeps old credential when usage check fails", func(t *testing.T) {
		h := newHarness(t)
		account := h.addAccount(t, "eyJold", "u-1")

		h.expectIdentity("eyJrevoked", "u-1")
		h.api.EXPECT().GetUsage(mock.Anything, "eyJrevoked").Return(domain.UsageSummary{}, domain.ErrInvalidCredential).Once()

		_, err := h.store.UpdateToken(context.Background(), account.ID, "eyJrevoked")
		require.ErrorIs(t, err, domain.ErrInvalidCredential)

		detail, err := h.store.GetAccount(context.Background(), account.ID)
		require.NoError(t, err)
		assert.Equal(t, "eyJold", detail.Credential.Token)
	})

	t.Run("unknown account", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.store.UpdateToken(context.Background(), "missing", "eyJnew")
		require.ErrorIs(t, err, domain.ErrAccountNotFound)
	})
}

func TestStoreSwitchActive(t *testing.T) {
	h := newHarness(t)
	first := h.addAccount(t, "eyJone", "u-1")
	second := h.addAccount(t, "eyJtwo", "u-2")

	require.NoError(t, h.store.SwitchActive(context.Background(), second.ID))

	accounts, err := h.store.ListAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, first.ID, accounts[0].ID)
	assert.False(t, accounts[0].IsCurrent)
	assert.True(t, accounts[1].IsCurrent)

	err = h.store.SwitchActive(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestStoreRemoveDeletesAccountAndCredential(t *testing.T) {
	h := newHarness(t)
	account := h.addAccount(t, "eyJone", "u-1")

	require.NoError(t, h.store.Remove(context.Background(), account.ID))

	_, err := h.store.GetAccount(context.Background(), account.ID)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
	_, err = h.secrets.Get(context.Background(), CredentialKey(account.ID))
	require.ErrorIs(t, err, domain.ErrSecretNotFound)

	require.ErrorIs(t, h.store.Remove(context.Background(), account.ID), domain.ErrAccountNotFound)
}

func TestStoreRemoveRestoresAccountWhenCredentialDeleteFails(t *testing.T) {
	repo := mocks.NewMockAccountRepository(t)
	secrets := mocks.NewMockSecretStore(t)
	store := NewStore(repo, secrets, mocks.NewMockUsageAPI(t), fixedClock{now: testNow}, nil)

	account := domain.Account{ID: "acc-1", UserID: "u-1"}
	deleteErr := errors.New("pass locked")
	repo.EXPECT().GetByID(mock.Anything, account.ID).Return(account, nil).Once()
	repo.EXPECT().Delete(mock.Anything, account.ID).Return(nil).Once()
	secrets.EXPECT().Delete(mock.Anything, CredentialKey(account.ID)).Return(deleteErr).Once()
	repo.EXPECT().Save(mock.Anything, account).Return(nil).Once()

	err := store.Remove(context.Background(), account.ID)
	require.ErrorIs(t, err, deleteErr)
}

func TestStoreGetUsage(t *testing.T) {
	h := newHarness(t)
	account := h.addAccount(t, "eyJone", "u-1")

	usage := domain.DefaultUsageSummary()
	usage.PlanType = domain.PlanPro
	h.api.EXPECT().GetUsage(mock.Anything, "eyJone").Return(usage, nil).Once()

	got, err := h.store.GetUsage(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, usage, got)

	stored, err := h.repo.GetByID(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanPro, stored.PlanType)

	_, err = h.store.GetUsage(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestStoreQueryUsageEventsUsesStoredToken(t *testing.T) {
	h := newHarness(t)
	account := h.addAccount(t, "eyJone", "u-1")

	query := domain.UsageEventQuery{Start: testNow.Add(-time.Hour), End: testNow, PageNum: 1, PageSize: 20}
	page := domain.UsageEventPage{Total: 1, Events: []domain.UsageEvent{{SessionID: "s-1", ModelName: "claude"}}}
	h.api.EXPECT().QueryUsageEvents(mock.Anything, "eyJone", query).Return(page, nil).Once()

	got, err := h.store.QueryUsageEvents(context.Background(), account.ID, query)
	require.NoError(t, err)
	assert.Equal(t, page, got)
}
