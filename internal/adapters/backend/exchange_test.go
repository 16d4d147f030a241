package backend

import (
	"context"
	"fmt"
	"testing"

	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/bnema/trae-accounts-cli/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStoreExportImportRoundTrip(t *testing.T) {
	for _, format := range []domain.ExportFormat{domain.ExportJSON, domain.ExportYAML} {
		format := format
		t.Run(string(format), func(t *testing.T) {
			source := newHarness(t)
			first := source.addAccount(t, "eyJone", "u-1")
			source.addAccount(t, "eyJtwo", "u-2")

			blob, err := source.store.ExportAll(context.Background(), format)
			require.NoError(t, err)
			assert.Contains(t, string(blob), "eyJone")

			target := newHarness(t)
			target.expectIdentity("eyJone", "u-1")
			target.expectIdentity("eyJtwo", "u-2")
			target.api.EXPECT().GetUsage(mock.Anything, "eyJone").Return(domain.UsageSummary{PlanType: domain.PlanPro}, nil).Once()
			target.api.EXPECT().GetUsage(mock.Anything, "eyJtwo").Return(domain.UsageSummary{}, domain.ErrBackendUnavailable).Once()

			count, err := target.store.ImportMany(context.Background(), blob)
			require.NoError(t, err)
			assert.Equal(t, 2, count)

			accounts, err := target.store.ListAccounts(context.Background())
			require.NoError(t, err)
			require.Len(t, accounts, 2)
			assert.Equal(t, first.ID, accounts[0].ID)
			assert.Equal(t, first.Email, accounts[0].Email)
			assert.Equal(t, first.CreatedAt, accounts[0].CreatedAt)
			assert.Equal(t, domain.PlanPro, accounts[0].PlanType)
			assert.False(t, accounts[0].IsCurrent)
			assert.Equal(t, domain.PlanFree, accounts[1].PlanType)

			detail, err := target.store.GetAccount(context.Background(), first.ID)
			require.NoError(t, err)
			assert.Equal(t, "eyJone", detail.Credential.Token)

			again, err := target.store.ImportMany(context.Background(), blob)
			require.NoError(t, err)
			assert.Zero(t, again)
		})
	}
}

func TestStoreImportSkipsBadRecords(t *testing.T) {
	h := newHarness(t)
	h.addAccount(t, "eyJexisting", "u-1")

	h.expectIdentity("eyJdup", "u-1")
	h.expectIdentity("eyJgood", "u-2")
	h.expectIdentity("eyJliar", "u-3")
	h.expectIdentity("eyJrevoked", "u-4")
	h.api.EXPECT().GetUsage(mock.Anything, "eyJrevoked").Return(domain.UsageSummary{}, domain.ErrInvalidCredential).Once()
	h.api.EXPECT().GetUsage(mock.Anything, "eyJgood").Return(domain.UsageSummary{}, nil).Once()
	h.api.EXPECT().Identify("eyJbroken").Return(ports.TokenIdentity{}, fmt.Errorf("%w: malformed", domain.ErrInvalidCredential)).Once()

	blob := `[
		{"id": "x-1", "user_id": "u-1", "token": "eyJdup"},
		{"id": 42},
		{"id": "x-2", "token": ""},
		{"id": "x-3", "token": "eyJbroken"},
		{"id": "x-4", "user_id": "u-9", "token": "eyJliar"},
		{"id": "x-5", "token": "eyJrevoked"},
		{"id": "acc-1", "token": "eyJgood", "email": "good@example.com", "is_current": true}
	]`

	count, err := h.store.ImportMany(context.Background(), []byte(blob))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	accounts, err := h.store.ListAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	imported := accounts[1]
	assert.NotEqual(t, domain.AccountID("acc-1"), imported.ID)
	assert.Equal(t, "u-2", imported.UserID)
	assert.Equal(t, "good@example.com", imported.Email)
	assert.Equal(t, domain.PlanFree, imported.PlanType)
	assert.False(t, imported.IsCurrent)
	assert.False(t, imported.CreatedAt.IsZero())
}

func TestStoreImportRejectsUndecodableBlob(t *testing.T) {
	h := newHarness(t)

	_, err := h.store.ImportMany(context.Background(), []byte(`{"accounts":`))
	require.Error(t, err)
}

func TestStoreExportWithoutCredential(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.repo.Save(context.Background(), domain.Account{ID: "orphan", UserID: "u-1"}))

	blob, err := h.store.ExportAll(context.Background(), domain.ExportJSON)
	require.NoError(t, err)
	assert.Contains(t, string(blob), `"id": "orphan"`)
	assert.Contains(t, string(blob), `"token": ""`)
	require.NotNil(t, h.logs.LastEntry())
	assert.Equal(t, "account has no stored credential", h.logs.LastEntry().Message)
}
