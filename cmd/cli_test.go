package cmd

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const entitlementsBody = `{"user_entitlement_pack_list":[{"entitlement_base_info":{"product_id":1,"product_type":1,"end_time":1893456000,"quota":{"premium_model_fast_request_limit":600,"premium_model_slow_request_limit":100,"advanced_model_request_limit":0,"auto_completion_limit":5000}},"usage":{"premium_model_fast_amount":180,"premium_model_slow_amount":10,"auto_completion_amount":50}}]}`

const eventsBody = `{"total":1,"user_usage_group_by_sessions":[{"session_id":"s-1","usage_time":1771061400,"mode":"chat","model_name":"gpt-4.1","amount_float":2,"use_max_mode":false,"extra_info":{"input_token":900,"output_token":300}}]}`

var addedIDPattern = regexp.MustCompile(`Added account (\S+) `)

// fakeTrae serves the Trae endpoints the CLI touches. Tokens map to emails;
// unknown tokens are rejected with 401.
type fakeTrae struct {
	mu     sync.Mutex
	emails map[string]string
	calls  map[string]int
}

func newFakeTrae(t *testing.T) *fakeTrae {
	t.Helper()

	fake := &fakeTrae{emails: map[string]string{}, calls: map[string]int{}}
	server := httptest.NewServer(http.HandlerFunc(fake.serve))
	t.Cleanup(server.Close)

	t.Setenv("TA_BACKEND_BASE_URLS", server.URL)
	t.Setenv("TA_BACKEND_USER_INFO_URL", server.URL)
	return fake
}

func (f *fakeTrae) register(userID, email string) string {
	token := fakeJWT(fmt.Sprintf(`{"data":{"id":%q,"tenant_id":"t-1"},"exp":1893456000}`, userID))

	f.mu.Lock()
	defer f.mu.Unlock()
	f.emails[token] = email
	return token
}

func (f *fakeTrae) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeTrae) serve(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Cloud-IDE-JWT ")

	f.mu.Lock()
	f.calls[r.URL.Path]++
	email, ok := f.emails[token]
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = fmt.Fprint(w, `{"error":"invalid token"}`)
		return
	}

	switch r.URL.Path {
	case "/trae/api/v1/pay/user_current_entitlement_list":
		_, _ = fmt.Fprint(w, entitlementsBody)
	case "/cloudide/api/v3/trae/GetUserInfo":
		_, _ = fmt.Fprintf(w, `{"Result":{"ScreenName":"dev","NonPlainTextEmail":%q}}`, email)
	case "/trae/api/v1/pay/query_user_usage_group_by_session":
		_, _ = fmt.Fprint(w, eventsBody)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(stdout))
}

func TestUnknownCommand(t *testing.T) {
	newFakeTrae(t)

	_, _, err := executeCLI(t, t.TempDir(), "pool")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command \"pool\"")
}

func TestAccountListEmpty(t *testing.T) {
	newFakeTrae(t)

	stdout, _, err := executeCLI(t, t.TempDir(), "account", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "accounts: 0")
	assert.Contains(t, stdout, "No accounts yet")
}

func TestAccountAddThenList(t *testing.T) {
	fake := newFakeTrae(t)
	home := t.TempDir()
	token := fake.register("u-1", "dev@example.com")

	stdout, stderr, err := executeCLI(t, home, "account", "add", "--token", token)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Added account")
	assert.Contains(t, stdout, "(dev@example.com)")
	assert.Contains(t, stderr, "success: added dev@example.com")

	stdout, _, err = executeCLI(t, home, "account", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "accounts: 1")
	assert.Contains(t, stdout, "Account: dev@example.com (Pro)")
	assert.Contains(t, stdout, "(current)")
	assert.Contains(t, stdout, "fast:")
	assert.Contains(t, stdout, "70% left")
	assert.Contains(t, stdout, "180/600")
	assert.NotContains(t, stdout, "advanced:")
}

func TestAccountAddFromStdinJSON(t *testing.T) {
	fake := newFakeTrae(t)
	home := t.TempDir()
	token := fake.register("u-1", "dev@example.com")

	pasted := fmt.Sprintf(`{"Result":{"Token":%q,"UserID":"u-1"}}`, token)
	stdout, _, err := executeCLIWithInput(t, home, pasted, "account", "add", "--stdin")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Added account")
}

func TestAccountAddRequiresInput(t *testing.T) {
	newFakeTrae(t)

	_, _, err := executeCLI(t, t.TempDir(), "account", "add")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provide a token")
}

func TestAccountAddRejectsDuplicate(t *testing.T) {
	fake := newFakeTrae(t)
	home := t.TempDir()
	token := fake.register("u-1", "dev@example.com")

	_, _, err := executeCLI(t, home, "account", "add", "--token", token)
	require.NoError(t, err)

	_, stderr, err := executeCLI(t, home, "account", "add", "--token", token)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrDuplicateAccount.Error())
	assert.Contains(t, stderr, "error: add account failed")
}

func TestAccountAddRejectsRevokedToken(t *testing.T) {
	newFakeTrae(t)
	home := t.TempDir()
	revoked := fakeJWT(`{"data":{"id":"u-9","tenant_id":"t-1"},"exp":1893456000}`)

	_, stderr, err := executeCLI(t, home, "account", "add", "--token", revoked)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)
	assert.Contains(t, stderr, "error: add account failed")

	stdout, _, err := executeCLI(t, home, "account", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "accounts: 0")
}

func TestAccountListJSON(t *testing.T) {
	fake := newFakeTrae(t)
	home := t.TempDir()
	addAccount(t, home, fake.register("u-1", "dev@example.com"))

	stdout, _, err := executeCLI(t, home, "account", "list", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"Account\"")
	assert.Contains(t, stdout, "\"Email\": \"dev@example.com\"")
	assert.Contains(t, stdout, "\"IsCurrent\": true")
}

func TestAccountRemoveAsksForConfirmation(t *testing.T) {
	fake := newFakeTrae(t)
	home := t.TempDir()
	id := addAccount(t, home, fake.register("u-1", "dev@example.com"))

	stdout, _, err := executeCLIWithInput(t, home, "n\n", "account", "remove", "dev@example.com")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Delete account: Delete dev@example.com? This cannot be undone. [y/N]")
	assert.Contains(t, stdout, "Cancelled.")

	stdout, _, err = executeCLI(t, home, "account", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "accounts: 1")

	stdout, stderr, err := executeCLIWithInput(t, home, "y\n", "account", "remove", id[:4])
	require.NoError(t, err)
	assert.Contains(t, stdout, "Removed account "+id)
	assert.Contains(t, stderr, "success: deleted dev@example.com")

	stdout, _, err = executeCLI(t, home, "account", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "accounts: 0")
}

func TestAccountRemoveUnknownSelector(t *testing.T) {
	newFakeTrae(t)

	_, _, err := executeCLI(t, t.TempDir(), "account", "remove", "nobody@example.com", "--yes")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrAccountNotFound.Error())
}

func TestAccountSwitchMarksCurrent(t *testing.T) {
	fake := newFakeTrae(t)
	home := t.TempDir()
	first := addAccount(t, home, fake.register("u-1", "first@example.com"))
	second := addAccount(t, home, fake.register("u-2", "second@example.com"))

	stdout, _, err := executeCLI(t, home, "account", "switch", "SECOND@example.com", "--yes")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Switched to account "+second)

	stdout, _, err = executeCLI(t, home, "account", "list", "--json")
	require.NoError(t, err)

	var entries []domain.AccountWithUsage
	require.NoError(t, json.Unmarshal([]byte(stdout), &entries))
	require.Len(t, entries, 2)
	current := map[domain.AccountID]bool{}
	for _, entry := range entries {
		current[entry.Account.ID] = entry.Account.IsCurrent
	}
	assert.False(t, current[domain.AccountID(first)])
	assert.True(t, current[domain.AccountID(second)])
}

func TestAccountTokenPrintsStoredToken(t *testing.T) {
	fake := newFakeTrae(t)
	home := t.TempDir()
	token := fake.register("u-1", "dev@example.com")
	addAccount(t, home, token)

	stdout, stderr, err := executeCLI(t, home, "account", "token", "dev@example.com")
	require.NoError(t, err)
	assert.Equal(t, token, strings.TrimSpace(stdout))
	assert.Contains(t, stderr, "success: token copied")
}

func TestAccountUpdateTokenRejectsOtherUser(t *testing.T) {
	fake := newFakeTrae(t)
	home := t.TempDir()
	addAccount(t, home, fake.register("u-1", "dev@example.com"))
	other := fake.register("u-2", "other@example.com")

	_, _, err := executeCLI(t, home, "account", "update-token", "dev@example.com", "--token", other)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrIdentityMismatch.Error())
}

func TestAccountRefreshRendersAccount(t *testing.T) {
	fake := newFakeTrae(t)
	home := t.TempDir()
	addAccount(t, home, fake.register("u-1", "dev@example.com"))

	before := fake.count("/trae/api/v1/pay/user_current_entitlement_list")
	stdout, _, err := executeCLI(t, home, "account", "refresh", "dev@example.com")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Account: dev@example.com (Pro)")
	assert.Greater(t, fake.count("/trae/api/v1/pay/user_current_entitlement_list"), before+1)
}

func TestAccountExportImport(t *testing.T) {
	fake := newFakeTrae(t)
	source := t.TempDir()
	addAccount(t, source, fake.register("u-1", "dev@example.com"))

	exportPath := filepath.Join(t.TempDir(), "accounts.yaml")
	stdout, _, err := executeCLI(t, source, "account", "export", "--format", "yaml", "--output", exportPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Exported accounts to "+exportPath)

	info, err := os.Stat(exportPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(exportFileMode), info.Mode().Perm())

	target := t.TempDir()
	stdout, _, err = executeCLI(t, target, "account", "import", exportPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Imported 1 accounts")

	stdout, _, err = executeCLI(t, target, "account", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Account: dev@example.com (Pro)")
	assert.NotContains(t, stdout, "(current)")
}

func TestAccountExportRejectsUnknownFormat(t *testing.T) {
	newFakeTrae(t)

	_, _, err := executeCLI(t, t.TempDir(), "account", "export", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}

func TestBatchRefreshAll(t *testing.T) {
	fake := newFakeTrae(t)
	home := t.TempDir()
	addAccount(t, home, fake.register("u-1", "first@example.com"))
	addAccount(t, home, fake.register("u-2", "second@example.com"))

	stdout, _, err := executeCLI(t, home, "batch", "refresh", "--all")
	require.NoError(t, err)
	assert.Contains(t, stdout, "refreshed 2 of 2 accounts")
	assert.Contains(t, stdout, "accounts: 2")
}

func TestBatchRequiresTargets(t *testing.T) {
	newFakeTrae(t)

	_, _, err := executeCLI(t, t.TempDir(), "batch", "refresh")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrEmptySelection.Error())

	_, _, err = executeCLI(t, t.TempDir(), "batch", "delete", "--all", "someone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "either --all or account selectors")
}

func TestBatchDeleteSelected(t *testing.T) {
	fake := newFakeTrae(t)
	home := t.TempDir()
	addAccount(t, home, fake.register("u-1", "first@example.com"))
	addAccount(t, home, fake.register("u-2", "second@example.com"))
	addAccount(t, home, fake.register("u-3", "third@example.com"))

	stdout, stderr, err := executeCLI(t, home, "batch", "delete", "first@example.com", "third@example.com", "--yes")
	require.NoError(t, err)
	assert.Contains(t, stdout, "deleted 2 of 2 accounts")
	assert.Contains(t, stderr, "success: deleted 2 accounts")

	stdout, _, err = executeCLI(t, home, "account", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "accounts: 1")
	assert.Contains(t, stdout, "second@example.com")
}

func TestUsageEvents(t *testing.T) {
	fake := newFakeTrae(t)
	home := t.TempDir()
	addAccount(t, home, fake.register("u-1", "dev@example.com"))

	stdout, _, err := executeCLI(t, home, "usage", "events", "dev@example.com", "--range", "7d")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Usage of dev@example.com (last 7 days)")
	assert.Contains(t, stdout, "sessions: 1")
	assert.Contains(t, stdout, "gpt-4.1")
	assert.Contains(t, stdout, "1.2k")

	stdout, _, err = executeCLI(t, home, "usage", "events", "dev@example.com", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"SessionID\": \"s-1\"")

	_, _, err = executeCLI(t, home, "usage", "events", "dev@example.com", "--range", "1y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported range")
}

func TestDashboardCommand(t *testing.T) {
	fake := newFakeTrae(t)
	home := t.TempDir()
	addAccount(t, home, fake.register("u-1", "first@example.com"))
	addAccount(t, home, fake.register("u-2", "second@example.com"))

	stdout, _, err := executeCLI(t, home, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, stdout, "accounts: 2  active: 2")
	assert.Contains(t, stdout, "current: first@example.com")
	assert.Contains(t, stdout, "360/1200 (840 left)")
	assert.Contains(t, stdout, "plans: Pro 2")

	stdout, _, err = executeCLI(t, home, "dashboard", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"UsagePercent\": 30")
}

func TestConfigFlagSelectsSQLiteRepository(t *testing.T) {
	fake := newFakeTrae(t)
	home := t.TempDir()
	dbPath := filepath.Join(home, "data", "accounts.db")
	configPath := filepath.Join(home, "ta.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(fmt.Sprintf("[accounts]\ndriver = \"sqlite\"\nsqlite_path = %q\n", dbPath)), 0o600))

	token := fake.register("u-1", "dev@example.com")
	_, _, err := executeCLI(t, home, "--config", configPath, "account", "add", "--token", token)
	require.NoError(t, err)

	_, err = os.Stat(dbPath)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(home, ".trae-accounts", "accounts.toml"))
	assert.True(t, os.IsNotExist(err))

	stdout, _, err := executeCLI(t, home, "--config", configPath, "account", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Account: dev@example.com (Pro)")
}

func TestResolveSelector(t *testing.T) {
	entries := []domain.AccountWithUsage{
		{Account: domain.Account{ID: "abc-111", Email: "first@example.com"}},
		{Account: domain.Account{ID: "abc-222", Email: "second@example.com"}},
		{Account: domain.Account{ID: "def-333"}},
	}

	tests := []struct {
		name     string
		selector string
		want     domain.AccountID
		wantErr  error
	}{
		{name: "exact id", selector: "abc-111", want: "abc-111"},
		{name: "email ignores case", selector: "Second@Example.com", want: "abc-222"},
		{name: "unique prefix", selector: "def", want: "def-333"},
		{name: "ambiguous prefix", selector: "abc", wantErr: errAmbiguousSelector},
		{name: "unknown", selector: "zzz", wantErr: domain.ErrAccountNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveSelector(entries, tt.selector)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	ids, err := resolveSelectors(entries, []string{"abc-111", "first@example.com", "def"})
	require.NoError(t, err)
	assert.Equal(t, []domain.AccountID{"abc-111", "def-333"}, ids)

	_, err = resolveSelector(entries, "  ")
	require.Error(t, err)
}

func TestBuildEventQuery(t *testing.T) {
	now := time.Date(2026, 2, 14, 12, 30, 0, 0, time.UTC)

	query, err := buildEventQuery(now, domain.WindowDay, "", "")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), query.Start)
	assert.Equal(t, now, query.End)

	query, err = buildEventQuery(now, domain.WindowDay, "2026-02-01", "2026-02-03")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), query.Start)
	assert.Equal(t, time.Date(2026, 2, 3, 23, 59, 59, 0, time.UTC), query.End)

	_, err = buildEventQuery(now, domain.WindowDay, "2026-02-10", "2026-02-01")
	require.Error(t, err)

	_, err = buildEventQuery(now, domain.WindowDay, "yesterday", "")
	require.Error(t, err)
}

func TestSanitizeForTerminal(t *testing.T) {
	assert.Equal(t, "evilname", sanitizeForTerminal("evil\x1b\nname"))
}

func addAccount(t *testing.T, home, token string) string {
	t.Helper()

	stdout, stderr, err := executeCLI(t, home, "account", "add", "--token", token)
	require.NoError(t, err, "stderr: %s", stderr)

	match := addedIDPattern.FindStringSubmatch(stdout)
	require.Len(t, match, 2, "stdout: %s", stdout)
	return match[1]
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	return executeCLIWithInput(t, home, "", args...)
}

func executeCLIWithInput(t *testing.T, home, input string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetIn(strings.NewReader(input))
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func fakeJWT(payload string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	body := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return header + "." + body + ".sig"
}
