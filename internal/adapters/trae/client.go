package trae

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/bnema/trae-accounts-cli/internal/ports"
	"github.com/bnema/trae-accounts-cli/internal/version"
	"github.com/sirupsen/logrus"
)

const (
	BaseURLSingapore = "https://api-sg-central.trae.ai"
	BaseURLUSEast    = "https://api-us-east.trae.ai"
	UserInfoBaseURL  = "https://ug-normal.trae.ai"

	entitlementPath = "/trae/api/v1/pay/user_current_entitlement_list"
	usageEventsPath = "/trae/api/v1/pay/query_user_usage_group_by_session"
	userInfoPath    = "/cloudide/api/v3/trae/GetUserInfo"
	userTokenPath   = "/cloudide/api/v3/common/GetUserToken"

	maxResponseBytes = 1 << 20
	webOrigin        = "https://www.trae.ai"
)

type Options struct {
	BaseURLs    []string
	UserInfoURL string
	HTTPClient  *http.Client
	Timeout     time.Duration
	Logger      logrus.FieldLogger
	Now         func() time.Time
}

// Client talks to the Trae web API. Requests against the regional API are
// tried on every configured base URL, starting with the last one that
// answered.
type Client struct {
	bases       []string
	userInfoURL string
	http        *http.Client
	log         logrus.FieldLogger
	now         func() time.Time

	mu        sync.Mutex
	preferred int
}

var _ ports.UsageAPI = (*Client)(nil)

func NewClient(opts Options) *Client {
	bases := make([]string, 0, len(opts.BaseURLs))
	for _, base := range opts.BaseURLs {
		if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
			bases = append(bases, base)
		}
	}
	if len(bases) == 0 {
		bases = []string{BaseURLSingapore, BaseURLUSEast}
	}

	userInfoURL := strings.TrimRight(strings.TrimSpace(opts.UserInfoURL), "/")
	if userInfoURL == "" {
		userInfoURL = UserInfoBaseURL
	}

	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Client{bases: bases, userInfoURL: userInfoURL, http: client, log: logger, now: now}
}

// Bases reports the base URLs in the order the next request will try them.
func (c *Client) Bases() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ordered := make([]string, 0, len(c.bases))
	for i := range c.bases {
		ordered = append(ordered, c.bases[(c.preferred+i)%len(c.bases)])
	}
	return ordered
}

func (c *Client) remember(base string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, candidate := range c.bases {
		if candidate == base {
			c.preferred = i
			return
		}
	}
}

type request struct {
	path    string
	token   string
	cookies string
	body    any
}

// statusError is a non-2xx answer from one endpoint.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("status %d", e.status)
	}
	return fmt.Sprintf("status %d: %s", e.status, e.body)
}

func (e *statusError) unauthorized() bool {
	return e.status == http.StatusUnauthorized || e.status == http.StatusForbidden
}

// postRegional sends req to each base in turn until one decodes into out.
// When every base fails the error wraps ErrInvalidCredential if any of them
// rejected the credential, and ErrBackendUnavailable otherwise.
func (c *Client) postRegional(ctx context.Context, req request, out any) error {
	var (
		errs     []error
		rejected bool
	)

	for _, base := range c.Bases() {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := c.post(ctx, base+req.path, req, out)
		if err == nil {
			c.remember(base)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.log.WithError(err).WithField("base", base).Debug("trae endpoint failed")
		var status *statusError
		if errors.As(err, &status) && status.unauthorized() {
			rejected = true
		}
		errs = append(errs, fmt.Errorf("%s: %w", base, err))
	}

	joined := errors.Join(errs...)
	if rejected {
		return fmt.Errorf("%w: %w", domain.ErrInvalidCredential, joined)
	}
	return fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, joined)
}

// postSingle sends req to one fixed endpoint.
func (c *Client) postSingle(ctx context.Context, url string, req request, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := c.post(ctx, url, req, out)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var status *statusError
	if errors.As(err, &status) && status.unauthorized() {
		return fmt.Errorf("%w: %w", domain.ErrInvalidCredential, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
}

func (c *Client) post(ctx context.Context, url string, req request, out any) error {
	var body io.Reader = http.NoBody
	if req.body != nil {
		encoded, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json, text/plain, */*")
	httpReq.Header.Set("Origin", webOrigin)
	httpReq.Header.Set("Referer", webOrigin+"/")
	httpReq.Header.Set("User-Agent", "ta/"+version.Version)
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Cloud-IDE-JWT "+req.token)
	}
	if req.cookies != "" {
		httpReq.Header.Set("Cookie", req.cookies)
	}

	response, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return &statusError{status: response.StatusCode, body: strings.TrimSpace(string(payload))}
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
