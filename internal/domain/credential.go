package domain

import (
	"strings"
	"time"
)

type Credential struct {
	Token     string
	Cookies   string
	ExpiresAt time.Time
}

func (c Credential) IsEmpty() bool {
	return strings.TrimSpace(c.Token) == ""
}

// Expired reports whether the token has a known expiry before now.
func (c Credential) Expired(now time.Time) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(c.ExpiresAt)
}
