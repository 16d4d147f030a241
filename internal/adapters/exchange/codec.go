package exchange

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/trae-accounts-cli/internal/domain"
	"gopkg.in/yaml.v3"
)

const currentVersion = 1

// Document is the portable form of a set of accounts, credentials included.
type Document struct {
	Version    int       `json:"version" yaml:"version"`
	ExportedAt time.Time `json:"exported_at" yaml:"exported_at"`
	Accounts   []Record  `json:"accounts" yaml:"accounts"`
}

type Record struct {
	ID        string     `json:"id" yaml:"id"`
	UserID    string     `json:"user_id" yaml:"user_id"`
	TenantID  string     `json:"tenant_id,omitempty" yaml:"tenant_id,omitempty"`
	Name      string     `json:"name,omitempty" yaml:"name,omitempty"`
	Email     string     `json:"email,omitempty" yaml:"email,omitempty"`
	AvatarURL string     `json:"avatar_url,omitempty" yaml:"avatar_url,omitempty"`
	PlanType  string     `json:"plan_type,omitempty" yaml:"plan_type,omitempty"`
	CreatedAt int64      `json:"created_at" yaml:"created_at"`
	IsCurrent bool       `json:"is_current,omitempty" yaml:"is_current,omitempty"`
	Token     string     `json:"token" yaml:"token"`
	Cookies   string     `json:"cookies,omitempty" yaml:"cookies,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

func FromDetail(detail domain.AccountDetail) Record {
	account := detail.Account
	record := Record{
		ID:        string(account.ID),
		UserID:    account.UserID,
		TenantID:  account.TenantID,
		Name:      account.Name,
		Email:     account.Email,
		AvatarURL: account.AvatarURL,
		PlanType:  account.PlanType,
		CreatedAt: epochSeconds(account.CreatedAt),
		IsCurrent: account.IsCurrent,
		Token:     detail.Credential.Token,
		Cookies:   detail.Credential.Cookies,
	}
	if !detail.Credential.ExpiresAt.IsZero() {
		expires := detail.Credential.ExpiresAt.UTC()
		record.ExpiresAt = &expires
	}
	return record
}

func (r Record) Detail() domain.AccountDetail {
	detail := domain.AccountDetail{
		Account: domain.Account{
			ID:        domain.AccountID(r.ID),
			UserID:    r.UserID,
			TenantID:  r.TenantID,
			Name:      r.Name,
			Email:     r.Email,
			AvatarURL: r.AvatarURL,
			PlanType:  r.PlanType,
			CreatedAt: fromEpochSeconds(r.CreatedAt),
			IsCurrent: r.IsCurrent,
		},
		Credential: domain.Credential{Token: r.Token, Cookies: r.Cookies},
	}
	if r.ExpiresAt != nil {
		detail.Credential.ExpiresAt = *r.ExpiresAt
	}
	return detail
}

func epochSeconds(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.Unix()
}

func fromEpochSeconds(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	return time.Unix(value, 0).UTC()
}

func Encode(doc Document, format domain.ExportFormat) ([]byte, error) {
	if doc.Version == 0 {
		doc.Version = currentVersion
	}
	if doc.Accounts == nil {
		doc.Accounts = []Record{}
	}

	switch format {
	case domain.ExportJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json export: %w", err)
		}
		return append(data, '\n'), nil
	case domain.ExportYAML:
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode yaml export: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml export: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// Decode accepts a Document or a bare list of records, in JSON or YAML.
// Records that do not decode are reported in Skipped and left out of
// Accounts.
func Decode(blob []byte) (Decoded, error) {
	trimmed := bytes.TrimSpace(blob)
	if len(trimmed) == 0 {
		return Decoded{}, errors.New("decode import: input is empty")
	}

	switch trimmed[0] {
	case '{', '[':
		return decodeJSON(trimmed)
	default:
		return decodeYAML(trimmed)
	}
}

// Decoded is the result of Decode.
type Decoded struct {
	Version  int
	Accounts []Record
	Skipped  []error
}

func decodeJSON(blob []byte) (Decoded, error) {
	var envelope struct {
		Version  int               `json:"version"`
		Accounts []json.RawMessage `json:"accounts"`
	}

	if blob[0] == '[' {
		if err := json.Unmarshal(blob, &envelope.Accounts); err != nil {
			return Decoded{}, fmt.Errorf("decode json import: %w", err)
		}
	} else if err := json.Unmarshal(blob, &envelope); err != nil {
		return Decoded{}, fmt.Errorf("decode json import: %w", err)
	}

	if err := checkVersion(envelope.Version); err != nil {
		return Decoded{}, err
	}

	out := Decoded{Version: envelope.Version}
	for i, raw := range envelope.Accounts {
		var record Record
		if err := json.Unmarshal(raw, &record); err != nil {
			out.Skipped = append(out.Skipped, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		out.Accounts = append(out.Accounts, record)
	}

	return out, nil
}

func decodeYAML(blob []byte) (Decoded, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(blob, &node); err != nil {
		return Decoded{}, fmt.Errorf("decode yaml import: %w", err)
	}
	if len(node.Content) == 0 {
		return Decoded{}, errors.New("decode yaml import: document is empty")
	}

	var envelope struct {
		Version  int          `yaml:"version"`
		Accounts []*yaml.Node `yaml:"accounts"`
	}

	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		envelope.Accounts = root.Content
	case yaml.MappingNode:
		if err := root.Decode(&envelope); err != nil {
			return Decoded{}, fmt.Errorf("decode yaml import: %w", err)
		}
	default:
		return Decoded{}, errors.New("decode yaml import: expected a mapping or a list")
	}

	if err := checkVersion(envelope.Version); err != nil {
		return Decoded{}, err
	}

	out := Decoded{Version: envelope.Version}
	for i, item := range envelope.Accounts {
		var record Record
		if err := item.Decode(&record); err != nil {
			out.Skipped = append(out.Skipped, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		out.Accounts = append(out.Accounts, record)
	}

	return out, nil
}

func checkVersion(version int) error {
	if version > currentVersion {
		return fmt.Errorf("unsupported export version %d (current %d)", version, currentVersion)
	}
	return nil
}
