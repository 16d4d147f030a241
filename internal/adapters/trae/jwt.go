package trae

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/bnema/trae-accounts-cli/internal/ports"
)

type jwtClaims struct {
	Data struct {
		ID       string `json:"id"`
		Source   string `json:"source"`
		SourceID string `json:"source_id"`
		TenantID string `json:"tenant_id"`
		Type     string `json:"type"`
	} `json:"data"`
	Exp int64 `json:"exp"`
	Iat int64 `json:"iat"`
}

// Identify decodes the token payload without verifying its signature.
func (c *Client) Identify(token string) (ports.TokenIdentity, error) {
	return identify(token)
}

func identify(token string) (ports.TokenIdentity, error) {
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) != 3 {
		return ports.TokenIdentity{}, fmt.Errorf("%w: token is not a jwt", domain.ErrInvalidCredential)
	}

	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return ports.TokenIdentity{}, fmt.Errorf("%w: decode jwt payload: %v", domain.ErrInvalidCredential, err)
	}

	var claims jwtClaims
	if err := json.Unmarshal(decoded, &claims); err != nil {
		return ports.TokenIdentity{}, fmt.Errorf("%w: parse jwt payload: %v", domain.ErrInvalidCredential, err)
	}
	if strings.TrimSpace(claims.Data.ID) == "" {
		return ports.TokenIdentity{}, fmt.Errorf("%w: jwt payload has no user id", domain.ErrInvalidCredential)
	}

	identity := ports.TokenIdentity{UserID: claims.Data.ID, TenantID: claims.Data.TenantID}
	if claims.Exp > 0 {
		identity.ExpiresAt = time.Unix(claims.Exp, 0).UTC()
	}

	return identity, nil
}
