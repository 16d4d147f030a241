package application

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/bnema/trae-accounts-cli/internal/domain"
)

// TokenSource records which extraction rule produced a token.
type TokenSource int

const (
	SourceBareJWT TokenSource = iota + 1
	SourceResultToken
	SourceLowerToken
	SourceUpperToken
	SourceQuotedField
	SourceScraped
)

func (s TokenSource) String() string {
	switch s {
	case SourceBareJWT:
		return "jwt"
	case SourceResultToken:
		return "json:Result.Token"
	case SourceLowerToken:
		return "json:token"
	case SourceUpperToken:
		return "json:Token"
	case SourceQuotedField:
		return "quoted-field"
	case SourceScraped:
		return "scraped"
	default:
		return "unknown"
	}
}

type Extraction struct {
	Token  string
	Source TokenSource
}

var (
	quotedTokenPattern = regexp.MustCompile(`"Token"\s*:\s*"(eyJ[^"]+)"`)
	jwtPattern         = regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`)
)

// ExtractToken finds a token in pasted input. Rules are tried in order and
// the first match wins: a bare JWT, the structured JSON fields Result.Token,
// token and Token, a quoted "Token" field, then any JWT-shaped substring.
func ExtractToken(raw string) (Extraction, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Extraction{}, domain.ErrUnrecognizedToken
	}

	if strings.HasPrefix(trimmed, "eyJ") {
		return Extraction{Token: trimmed, Source: SourceBareJWT}, nil
	}

	if extraction, ok := tokenFromJSON(trimmed); ok {
		return extraction, nil
	}

	if match := quotedTokenPattern.FindStringSubmatch(trimmed); len(match) == 2 {
		return Extraction{Token: match[1], Source: SourceQuotedField}, nil
	}

	if match := jwtPattern.FindString(trimmed); match != "" {
		return Extraction{Token: match, Source: SourceScraped}, nil
	}

	return Extraction{}, domain.ErrUnrecognizedToken
}

func tokenFromJSON(raw string) (Extraction, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return Extraction{}, false
	}

	if result, ok := fields["Result"]; ok {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(result, &nested); err == nil {
			if token, ok := nonEmptyString(nested["Token"]); ok {
				return Extraction{Token: token, Source: SourceResultToken}, true
			}
		}
	}

	if token, ok := nonEmptyString(fields["token"]); ok {
		return Extraction{Token: token, Source: SourceLowerToken}, true
	}

	if token, ok := nonEmptyString(fields["Token"]); ok {
		return Extraction{Token: token, Source: SourceUpperToken}, true
	}

	return Extraction{}, false
}

func nonEmptyString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	if value == "" {
		return "", false
	}

	return value, true
}
