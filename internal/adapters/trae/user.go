package trae

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/bnema/trae-accounts-cli/internal/ports"
)

type userInfoResponse struct {
	Result struct {
		ScreenName        string `json:"ScreenName"`
		AvatarURL         string `json:"AvatarUrl"`
		UserID            string `json:"UserID"`
		TenantID          string `json:"TenantID"`
		Region            string `json:"Region"`
		NonPlainTextEmail string `json:"NonPlainTextEmail"`
	} `json:"Result"`
}

type userTokenResponse struct {
	Result struct {
		Token     string `json:"Token"`
		ExpiredAt string `json:"ExpiredAt"`
		UserID    string `json:"UserID"`
		TenantID  string `json:"TenantID"`
	} `json:"Result"`
}

// GetUserProfile reads the display profile of the token owner. It always
// goes to the user info host; the regional bases do not serve it.
func (c *Client) GetUserProfile(ctx context.Context, token string) (ports.UserProfile, error) {
	var response userInfoResponse
	err := c.postSingle(ctx, c.userInfoURL+userInfoPath, request{
		token: token,
		body:  map[string]bool{"IfWebPage": true},
	}, &response)
	if err != nil {
		return ports.UserProfile{}, fmt.Errorf("fetch user info: %w", err)
	}

	return ports.UserProfile{
		UserID:     response.Result.UserID,
		ScreenName: response.Result.ScreenName,
		Email:      response.Result.NonPlainTextEmail,
		AvatarURL:  response.Result.AvatarURL,
	}, nil
}

// ExchangeCookies mints a token from browser session cookies. The region
// hinted by the store-idc cookie is tried first.
func (c *Client) ExchangeCookies(ctx context.Context, cookies string) (ports.IssuedToken, error) {
	cleaned := CleanCookies(cookies)
	if cleaned == "" {
		return ports.IssuedToken{}, fmt.Errorf("%w: cookies are empty", domain.ErrInvalidCredential)
	}

	var (
		response userTokenResponse
		errs     []error
	)
	for _, base := range c.cookieBases(cleaned) {
		err := c.postSingle(ctx, base+userTokenPath, request{cookies: cleaned}, &response)
		if err == nil && strings.TrimSpace(response.Result.Token) != "" {
			c.remember(base)
			return issuedToken(response), nil
		}
		if err == nil {
			err = fmt.Errorf("%w: response has no token", domain.ErrInvalidCredential)
		}
		if ctx.Err() != nil {
			return ports.IssuedToken{}, ctx.Err()
		}
		errs = append(errs, fmt.Errorf("%s: %w", base, err))
	}

	return ports.IssuedToken{}, fmt.Errorf("exchange cookies: %w", errors.Join(errs...))
}

func (c *Client) cookieBases(cookies string) []string {
	bases := c.Bases()

	hint := ""
	switch {
	case strings.Contains(cookies, "store-idc=useast"), strings.Contains(cookies, "trae-target-idc=useast"):
		hint = "us-east"
	case strings.Contains(cookies, "store-idc=alisg"), strings.Contains(cookies, "trae-target-idc=alisg"):
		hint = "sg-central"
	}
	if hint == "" {
		return bases
	}

	ordered := make([]string, 0, len(bases))
	for _, base := range bases {
		if strings.Contains(base, hint) {
			ordered = append(ordered, base)
		}
	}
	for _, base := range bases {
		if !strings.Contains(base, hint) {
			ordered = append(ordered, base)
		}
	}
	return ordered
}

// CleanCookies joins a pasted multi-line cookie header into one line.
func CleanCookies(cookies string) string {
	joined := strings.Join(strings.Fields(cookies), " ")
	return strings.TrimSpace(strings.TrimPrefix(joined, "Cookie:"))
}

func issuedToken(response userTokenResponse) ports.IssuedToken {
	issued := ports.IssuedToken{
		Token:    strings.TrimSpace(response.Result.Token),
		UserID:   response.Result.UserID,
		TenantID: response.Result.TenantID,
	}
	if expires, err := time.Parse(time.RFC3339, strings.TrimSpace(response.Result.ExpiredAt)); err == nil {
		issued.ExpiresAt = expires.UTC()
	}
	return issued
}
