// Package repotest holds the behaviour every ports.AccountRepository
// implementation must share.
package repotest

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/bnema/trae-accounts-cli/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory opens a fresh, empty repository. Calling it twice with the same t
// must return two handles on the same storage.
type Factory func(t *testing.T) (open func() ports.AccountRepository)

func Run(t *testing.T, factory Factory) {
	t.Helper()

	t.Run("round trip keeps insertion order", func(t *testing.T) {
		repo := factory(t)()

		first := sampleAccount("acc-1", "u-1")
		first.IsCurrent = true
		second := sampleAccount("acc-2", "u-2")

		require.NoError(t, repo.Save(context.Background(), first))
		require.NoError(t, repo.Save(context.Background(), second))

		got, err := repo.GetByID(context.Background(), first.ID)
		require.NoError(t, err)
		assert.Equal(t, first, got)

		accounts, err := repo.List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []domain.Account{first, second}, accounts)
	})

	t.Run("save replaces existing account in place", func(t *testing.T) {
		repo := factory(t)()

		require.NoError(t, repo.Save(context.Background(), sampleAccount("acc-1", "u-1")))
		require.NoError(t, repo.Save(context.Background(), sampleAccount("acc-2", "u-2")))

		updated := sampleAccount("acc-1", "u-1")
		updated.PlanType = domain.PlanPro
		updated.Email = "renamed@example.com"
		require.NoError(t, repo.Save(context.Background(), updated))

		accounts, err := repo.List(context.Background())
		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, updated, accounts[0])
	})

	t.Run("delete", func(t *testing.T) {
		repo := factory(t)()

		require.NoError(t, repo.Save(context.Background(), sampleAccount("acc-1", "u-1")))
		require.NoError(t, repo.Delete(context.Background(), "acc-1"))

		_, err := repo.GetByID(context.Background(), "acc-1")
		require.ErrorIs(t, err, domain.ErrAccountNotFound)
		require.ErrorIs(t, repo.Delete(context.Background(), "acc-1"), domain.ErrAccountNotFound)
	})

	t.Run("empty repository", func(t *testing.T) {
		repo := factory(t)()

		accounts, err := repo.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, accounts)

		_, err = repo.GetByID(context.Background(), "missing")
		require.ErrorIs(t, err, domain.ErrAccountNotFound)
	})

	t.Run("cancelled context", func(t *testing.T) {
		repo := factory(t)()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := repo.Save(ctx, sampleAccount("acc-1", "u-1"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
		_, err = repo.List(ctx)
		assert.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("concurrent saves across handles", func(t *testing.T) {
		open := factory(t)
		repoA, repoB := open(), open()

		const perRepoWrites = 50
		start := make(chan struct{})
		errCh := make(chan error, perRepoWrites*2)
		var wg sync.WaitGroup

		for _, tc := range []struct {
			repo   ports.AccountRepository
			prefix string
		}{{repoA, "acc-a-"}, {repoB, "acc-b-"}} {
			tc := tc
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				for i := 0; i < perRepoWrites; i++ {
					id := tc.prefix + strconv.Itoa(i)
					errCh <- tc.repo.Save(context.Background(), sampleAccount(id, "u-"+id))
				}
			}()
		}

		close(start)
		wg.Wait()
		close(errCh)

		for err := range errCh {
			require.NoError(t, err)
		}

		accounts, err := repoA.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, accounts, perRepoWrites*2)
	})
}

func sampleAccount(id, userID string) domain.Account {
	return domain.Account{
		ID:        domain.AccountID(id),
		UserID:    userID,
		TenantID:  "t-1",
		Name:      "dev " + id,
		Email:     id + "@example.com",
		AvatarURL: "https://cdn.example.com/" + id + ".png",
		PlanType:  domain.PlanFree,
		CreatedAt: time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC),
	}
}
