// Package backend implements the account store on top of a local account
// repository, a credential vault and the remote Trae API.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/bnema/trae-accounts-cli/internal/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const credentialKeyPrefix = "trae/ta/accounts/"

type Store struct {
	repo    ports.AccountRepository
	secrets ports.SecretStore
	api     ports.UsageAPI
	clock   ports.Clock
	log     logrus.FieldLogger
	newID   func() string
}

var _ ports.AccountStore = (*Store)(nil)

func NewStore(repo ports.AccountRepository, secrets ports.SecretStore, api ports.UsageAPI, clock ports.Clock, log logrus.FieldLogger) *Store {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	return &Store{
		repo:    repo,
		secrets: secrets,
		api:     api,
		clock:   clock,
		log:     log,
		newID:   uuid.NewString,
	}
}

// CredentialKey is the vault key holding the credential of an account.
func CredentialKey(id domain.AccountID) string {
	return credentialKeyPrefix + string(id) + "/credential"
}

type credentialSecret struct {
	Token     string    `json:"token"`
	Cookies   string    `json:"cookies,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

func (s *Store) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func (s *Store) GetAccount(ctx context.Context, id domain.AccountID) (domain.AccountDetail, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.AccountDetail{}, fmt.Errorf("get account %s: %w", id, err)
	}

	credential, err := s.readCredential(ctx, id)
	if err != nil {
		return domain.AccountDetail{}, err
	}

	return domain.AccountDetail{Account: account, Credential: credential}, nil
}

func (s *Store) GetUsage(ctx context.Context, id domain.AccountID) (domain.UsageSummary, error) {
	detail, err := s.GetAccount(ctx, id)
	if err != nil {
		return domain.UsageSummary{}, err
	}
	if detail.Credential.IsEmpty() {
		return domain.UsageSummary{}, fmt.Errorf("get usage %s: %w: token is empty", id, domain.ErrInvalidCredential)
	}

	usage, err := s.api.GetUsage(ctx, detail.Credential.Token)
	if err != nil {
		return domain.UsageSummary{}, fmt.Errorf("get usage %s: %w", id, err)
	}

	s.syncPlan(ctx, detail.Account, usage)
	return usage, nil
}

func (s *Store) AddByToken(ctx context.Context, token string, cookies string) (domain.Account, error) {
	return s.add(ctx, domain.Credential{Token: strings.TrimSpace(token), Cookies: strings.TrimSpace(cookies)})
}

func (s *Store) AddByCookies(ctx context.Context, cookies string) (domain.Account, error) {
	issued, err := s.api.ExchangeCookies(ctx, cookies)
	if err != nil {
		return domain.Account{}, fmt.Errorf("add account from cookies: %w", err)
	}

	return s.add(ctx, domain.Credential{
		Token:     issued.Token,
		Cookies:   strings.TrimSpace(cookies),
		ExpiresAt: issued.ExpiresAt,
	})
}

func (s *Store) add(ctx context.Context, credential domain.Credential) (domain.Account, error) {
	if credential.IsEmpty() {
		return domain.Account{}, fmt.Errorf("add account: %w: token is empty", domain.ErrInvalidCredential)
	}

	identity, err := s.api.Identify(credential.Token)
	if err != nil {
		return domain.Account{}, fmt.Errorf("add account: %w", err)
	}
	if credential.ExpiresAt.IsZero() {
		credential.ExpiresAt = identity.ExpiresAt
	}

	entry := s.log.WithField("op", "add")
	userID, planType := identity.UserID, domain.PlanFree
	usage, err := s.verifyToken(ctx, credential.Token, entry)
	if err != nil {
		return domain.Account{}, fmt.Errorf("add account: %w", err)
	}
	if usage.UserID != "" {
		userID = usage.UserID
	}
	if usage.PlanType != "" {
		planType = usage.PlanType
	}

	existing, err := s.repo.List(ctx)
	if err != nil {
		return domain.Account{}, fmt.Errorf("list accounts: %w", err)
	}
	for _, account := range existing {
		if account.UserID == userID {
			return domain.Account{}, fmt.Errorf("add account %s: %w", account.DisplayName(), domain.ErrDuplicateAccount)
		}
	}

	account := domain.Account{
		ID:        domain.AccountID(s.newID()),
		UserID:    userID,
		TenantID:  identity.TenantID,
		PlanType:  planType,
		CreatedAt: s.clock.Now().UTC().Truncate(time.Second),
		IsCurrent: len(existing) == 0,
	}

	entry = entry.WithField("account_id", account.ID)
	if profile, err := s.api.GetUserProfile(ctx, credential.Token); err != nil {
		entry.WithError(err).Warn("fetch user profile")
	} else {
		account.Name = profile.ScreenName
		account.Email = profile.Email
		account.AvatarURL = profile.AvatarURL
	}

	if err := s.persist(ctx, account, credential); err != nil {
		return domain.Account{}, err
	}

	return account, nil
}

// verifyToken asks the entitlement endpoint whether the backend accepts the
// token. A rejection is returned as an error; an unreachable backend is
// logged and yields an empty summary so the account can still be stored.
func (s *Store) verifyToken(ctx context.Context, token string, entry logrus.FieldLogger) (domain.UsageSummary, error) {
	usage, err := s.api.GetUsage(ctx, token)
	if err == nil {
		return usage, nil
	}
	if errors.Is(err, domain.ErrBackendUnavailable) && ctx.Err() == nil {
		entry.WithError(err).Warn("verify token against entitlements")
		return domain.UsageSummary{}, nil
	}
	return domain.UsageSummary{}, err
}

// persist writes the credential first and removes it again if the account
// cannot be saved.
func (s *Store) persist(ctx context.Context, account domain.Account, credential domain.Credential) error {
	if err := s.writeCredential(ctx, account.ID, credential); err != nil {
		return err
	}

	if err := s.repo.Save(ctx, account); err != nil {
		if rollbackErr := s.secrets.Delete(ctx, CredentialKey(account.ID)); rollbackErr != nil {
			return fmt.Errorf("save account and rollback stored credential: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("save account: %w", err)
	}

	return nil
}

func (s *Store) Remove(ctx context.Context, id domain.AccountID) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get account %s: %w", id, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete account %s: %w", id, err)
	}

	if err := s.secrets.Delete(ctx, CredentialKey(id)); err != nil && !errors.Is(err, domain.ErrSecretNotFound) {
		if restoreErr := s.repo.Save(ctx, account); restoreErr != nil {
			return fmt.Errorf("delete credential and restore account: %w", errors.Join(err, restoreErr))
		}
		return fmt.Errorf("delete credential: %w", err)
	}

	return nil
}

func (s *Store) UpdateToken(ctx context.Context, id domain.AccountID, token string) (domain.UsageSummary, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.UsageSummary{}, fmt.Errorf("update token: %w: token is empty", domain.ErrInvalidCredential)
	}

	detail, err := s.GetAccount(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrSecretNotFound) {
		return domain.UsageSummary{}, err
	}
	if errors.Is(err, domain.ErrSecretNotFound) {
		account, getErr := s.repo.GetByID(ctx, id)
		if getErr != nil {
			return domain.UsageSummary{}, fmt.Errorf("get account %s: %w", id, getErr)
		}
		detail = domain.AccountDetail{Account: account}
	}

	identity, err := s.api.Identify(token)
	if err != nil {
		return domain.UsageSummary{}, fmt.Errorf("update token: %w", err)
	}
	if identity.UserID != detail.Account.UserID {
		return domain.UsageSummary{}, fmt.Errorf("update token for %s: %w", detail.Account.DisplayName(), domain.ErrIdentityMismatch)
	}

	usage, err := s.api.GetUsage(ctx, token)
	if err != nil {
		return domain.UsageSummary{}, fmt.Errorf("validate token: %w", err)
	}

	credential := domain.Credential{
		Token:     token,
		Cookies:   detail.Credential.Cookies,
		ExpiresAt: identity.ExpiresAt,
	}
	if err := s.writeCredential(ctx, id, credential); err != nil {
		return domain.UsageSummary{}, err
	}

	s.syncPlan(ctx, detail.Account, usage)
	return usage, nil
}

func (s *Store) SwitchActive(ctx context.Context, id domain.AccountID) error {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}

	found := false
	for _, account := range accounts {
		if account.ID == id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("switch to %s: %w", id, domain.ErrAccountNotFound)
	}

	for _, account := range accounts {
		want := account.ID == id
		if account.IsCurrent == want {
			continue
		}
		account.IsCurrent = want
		if err := s.repo.Save(ctx, account); err != nil {
			return fmt.Errorf("switch to %s: %w", id, err)
		}
	}

	return nil
}

func (s *Store) QueryUsageEvents(ctx context.Context, id domain.AccountID, query domain.UsageEventQuery) (domain.UsageEventPage, error) {
	detail, err := s.GetAccount(ctx, id)
	if err != nil {
		return domain.UsageEventPage{}, err
	}
	if detail.Credential.IsEmpty() {
		return domain.UsageEventPage{}, fmt.Errorf("query usage events %s: %w: token is empty", id, domain.ErrInvalidCredential)
	}

	page, err := s.api.QueryUsageEvents(ctx, detail.Credential.Token, query)
	if err != nil {
		return domain.UsageEventPage{}, fmt.Errorf("query usage events %s: %w", id, err)
	}

	return page, nil
}

// syncPlan stores the plan reported by the backend when it differs from the
// one on record. Failures only get logged.
func (s *Store) syncPlan(ctx context.Context, account domain.Account, usage domain.UsageSummary) {
	if usage.PlanType == "" || usage.PlanType == account.PlanType {
		return
	}

	account.PlanType = usage.PlanType
	if err := s.repo.Save(ctx, account); err != nil {
		s.log.WithFields(logrus.Fields{"op": "sync_plan", "account_id": account.ID}).WithError(err).Warn("save plan type")
	}
}

func (s *Store) readCredential(ctx context.Context, id domain.AccountID) (domain.Credential, error) {
	raw, err := s.secrets.Get(ctx, CredentialKey(id))
	if err != nil {
		return domain.Credential{}, fmt.Errorf("read credential %s: %w", id, err)
	}

	var secret credentialSecret
	if err := json.Unmarshal([]byte(raw), &secret); err != nil {
		return domain.Credential{}, fmt.Errorf("decode credential %s: %w", id, err)
	}

	return domain.Credential{Token: secret.Token, Cookies: secret.Cookies, ExpiresAt: secret.ExpiresAt}, nil
}

func (s *Store) writeCredential(ctx context.Context, id domain.AccountID, credential domain.Credential) error {
	data, err := json.Marshal(credentialSecret{
		Token:     credential.Token,
		Cookies:   credential.Cookies,
		ExpiresAt: credential.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("encode credential %s: %w", id, err)
	}

	if err := s.secrets.Put(ctx, CredentialKey(id), string(data)); err != nil {
		return fmt.Errorf("store credential %s: %w", id, err)
	}

	return nil
}
