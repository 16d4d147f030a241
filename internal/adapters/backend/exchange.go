package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/trae-accounts-cli/internal/adapters/exchange"
	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/sirupsen/logrus"
)

// ExportAll serializes every account with its credential. Accounts whose
// credential is missing are exported without a token.
func (s *Store) ExportAll(ctx context.Context, format domain.ExportFormat) ([]byte, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	doc := exchange.Document{ExportedAt: s.clock.Now().UTC(), Accounts: make([]exchange.Record, 0, len(accounts))}
	for _, account := range accounts {
		credential, err := s.readCredential(ctx, account.ID)
		if err != nil {
			if !errors.Is(err, domain.ErrSecretNotFound) {
				return nil, err
			}
			s.log.WithFields(logrus.Fields{"op": "export", "account_id": account.ID}).Warn("account has no stored credential")
		}
		doc.Accounts = append(doc.Accounts, exchange.FromDetail(domain.AccountDetail{Account: account, Credential: credential}))
	}

	return exchange.Encode(doc, format)
}

// ImportMany adds the records of an export. Malformed records, records whose
// token does not identify a user, users already present and tokens the
// backend rejects are skipped. The count of accounts actually added is
// returned.
func (s *Store) ImportMany(ctx context.Context, blob []byte) (int, error) {
	decoded, err := exchange.Decode(blob)
	if err != nil {
		return 0, err
	}

	entry := s.log.WithField("op", "import")
	for _, skipped := range decoded.Skipped {
		entry.WithError(skipped).Warn("skip malformed record")
	}

	existing, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list accounts: %w", err)
	}

	knownUsers := make(map[string]struct{}, len(existing))
	knownIDs := make(map[domain.AccountID]struct{}, len(existing))
	for _, account := range existing {
		knownUsers[account.UserID] = struct{}{}
		knownIDs[account.ID] = struct{}{}
	}

	imported := 0
	for i, record := range decoded.Accounts {
		if err := ctx.Err(); err != nil {
			return imported, err
		}

		recordLog := entry.WithField("record", i)
		detail := record.Detail()
		if detail.Credential.IsEmpty() {
			recordLog.Warn("skip record without token")
			continue
		}

		identity, err := s.api.Identify(detail.Credential.Token)
		if err != nil {
			recordLog.WithError(err).Warn("skip record with unreadable token")
			continue
		}
		if detail.Account.UserID != "" && detail.Account.UserID != identity.UserID {
			recordLog.WithError(domain.ErrIdentityMismatch).Warn("skip record")
			continue
		}
		if _, ok := knownUsers[identity.UserID]; ok {
			recordLog.WithError(domain.ErrDuplicateAccount).Info("skip record")
			continue
		}

		usage, err := s.verifyToken(ctx, detail.Credential.Token, recordLog)
		if err != nil {
			if ctx.Err() != nil {
				return imported, ctx.Err()
			}
			recordLog.WithError(err).Warn("skip record the backend rejected")
			continue
		}

		account := detail.Account
		account.UserID = identity.UserID
		if account.TenantID == "" {
			account.TenantID = identity.TenantID
		}
		if _, taken := knownIDs[account.ID]; account.ID == "" || taken {
			account.ID = domain.AccountID(s.newID())
		}
		if account.CreatedAt.IsZero() {
			account.CreatedAt = s.clock.Now().UTC().Truncate(time.Second)
		}
		if usage.PlanType != "" {
			account.PlanType = usage.PlanType
		}
		if account.PlanType == "" {
			account.PlanType = domain.PlanFree
		}
		account.IsCurrent = false

		credential := detail.Credential
		if credential.ExpiresAt.IsZero() {
			credential.ExpiresAt = identity.ExpiresAt
		}

		if err := s.persist(ctx, account, credential); err != nil {
			if ctx.Err() != nil {
				return imported, ctx.Err()
			}
			recordLog.WithError(err).Warn("skip record that could not be stored")
			continue
		}

		knownUsers[account.UserID] = struct{}{}
		knownIDs[account.ID] = struct{}{}
		imported++
	}

	return imported, nil
}
