package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/bnema/trae-accounts-cli/internal/ports"
	"github.com/stretchr/testify/mock"
)

func mockAnyContext() interface{} {
	return mock.Anything
}

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFixedClock(now time.Time) *fixedClock {
	return &fixedClock{now: now}
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memoryStore is an in-memory AccountStore that records how usage fetches
// overlap.
type memoryStore struct {
	mu         sync.Mutex
	accounts   []domain.Account
	tokens     map[domain.AccountID]string
	usage      map[domain.AccountID]domain.UsageSummary
	usageErr   map[domain.AccountID]error
	removeErr  map[domain.AccountID]error
	updateErr  error
	listErr    error
	usageGate  chan struct{}
	usageCalls map[domain.AccountID]int
	fetchOrder []domain.AccountID
	active     int
	maxActive  int
	nextID     int
}

var _ ports.AccountStore = (*memoryStore)(nil)

func newMemoryStore(accounts ...domain.Account) *memoryStore {
	s := &memoryStore{
		tokens:     map[domain.AccountID]string{},
		usage:      map[domain.AccountID]domain.UsageSummary{},
		usageErr:   map[domain.AccountID]error{},
		removeErr:  map[domain.AccountID]error{},
		usageCalls: map[domain.AccountID]int{},
	}
	for _, account := range accounts {
		s.accounts = append(s.accounts, account)
		s.tokens[account.ID] = "eyJ." + string(account.ID)
		s.usage[account.ID] = usageWithFast(1, 10)
	}
	return s
}

func usageWithFast(used, limit float64) domain.UsageSummary {
	usage := domain.DefaultUsageSummary()
	usage.FastRequest = domain.NewQuota(used, limit)
	return usage
}

func (s *memoryStore) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]domain.Account(nil), s.accounts...), nil
}

func (s *memoryStore) GetAccount(ctx context.Context, id domain.AccountID) (domain.AccountDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.ID == id {
			return domain.AccountDetail{Account: account, Credential: domain.Credential{Token: s.tokens[id]}}, nil
		}
	}
	return domain.AccountDetail{}, domain.ErrAccountNotFound
}

func (s *memoryStore) GetUsage(ctx context.Context, id domain.AccountID) (domain.UsageSummary, error) {
	s.mu.Lock()
	s.usageCalls[id]++
	s.fetchOrder = append(s.fetchOrder, id)
	s.active++
	if s.active > s.maxActive {
		s.maxActive = s.active
	}
	gate := s.usageGate
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.active--
		s.mu.Unlock()
	}()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return domain.UsageSummary{}, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usageErr[id]; err != nil {
		return domain.UsageSummary{}, err
	}
	usage, ok := s.usage[id]
	if !ok {
		return domain.UsageSummary{}, domain.ErrAccountNotFound
	}
	return usage, nil
}

func (s *memoryStore) AddByToken(ctx context.Context, token string, cookies string) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.tokens {
		if existing == token {
			return domain.Account{}, fmt.Errorf("add %s: %w", id, domain.ErrDuplicateAccount)
		}
	}
	s.nextID++
	account := domain.Account{
		ID:    domain.AccountID(fmt.Sprintf("new-%d", s.nextID)),
		Email: fmt.Sprintf("new-%d@example.com", s.nextID),
	}
	s.accounts = append(s.accounts, account)
	s.tokens[account.ID] = token
	s.usage[account.ID] = domain.DefaultUsageSummary()
	return account, nil
}

func (s *memoryStore) AddByCookies(ctx context.Context, cookies string) (domain.Account, error) {
	return s.AddByToken(ctx, "eyJcookie."+cookies, cookies)
}

func (s *memoryStore) Remove(ctx context.Context, id domain.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.removeErr[id]; err != nil {
		return err
	}
	for i, account := range s.accounts {
		if account.ID == id {
			s.accounts = append(s.accounts[:i:i], s.accounts[i+1:]...)
			delete(s.tokens, id)
			delete(s.usage, id)
			return nil
		}
	}
	return domain.ErrAccountNotFound
}

func (s *memoryStore) UpdateToken(ctx context.Context, id domain.AccountID, token string) (domain.UsageSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return domain.UsageSummary{}, s.updateErr
	}
	s.tokens[id] = token
	usage := usageWithFast(0, 10)
	s.usage[id] = usage
	return usage, nil
}

func (s *memoryStore) SwitchActive(ctx context.Context, id domain.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := false
	for i := range s.accounts {
		s.accounts[i].IsCurrent = s.accounts[i].ID == id
		found = found || s.accounts[i].ID == id
	}
	if !found {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (s *memoryStore) ExportAll(ctx context.Context, format domain.ExportFormat) ([]byte, error) {
	return []byte(fmt.Sprintf("%s:%d", format, len(s.accounts))), nil
}

func (s *memoryStore) ImportMany(ctx context.Context, blob []byte) (int, error) {
	if string(blob) == "" {
		return 0, fmt.Errorf("decode import blob: empty")
	}
	if string(blob) == "[]" {
		return 0, nil
	}
	_, err := s.AddByToken(ctx, "eyJimport."+string(blob), "")
	if err != nil {
		return 0, err
	}
	return 1, nil
}

func (s *memoryStore) QueryUsageEvents(ctx context.Context, id domain.AccountID, query domain.UsageEventQuery) (domain.UsageEventPage, error) {
	return domain.UsageEventPage{Total: 1, Events: []domain.UsageEvent{{SessionID: "s-1", ModelName: "claude"}}}, nil
}

func (s *memoryStore) calls(id domain.AccountID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usageCalls[id]
}

func (s *memoryStore) order() []domain.AccountID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AccountID(nil), s.fetchOrder...)
}

func (s *memoryStore) peak() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxActive
}

func (s *memoryStore) inFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func sampleAccounts(ids ...string) []domain.Account {
	accounts := make([]domain.Account, 0, len(ids))
	for _, id := range ids {
		accounts = append(accounts, domain.Account{ID: domain.AccountID(id), Email: id + "@example.com", PlanType: domain.PlanFree})
	}
	return accounts
}

func severities(notifications []Notification) []domain.Severity {
	out := make([]domain.Severity, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, n.Severity)
	}
	return out
}

func (s *memoryStore) resetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usageCalls = map[domain.AccountID]int{}
	s.fetchOrder = nil
	s.maxActive = 0
}

func (s *memoryStore) setGate(gate chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usageGate = gate
}
