package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version"`
	Accounts []accountSchema `toml:"accounts"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported accounts schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type accountSchema struct {
	ID        string `toml:"id"`
	UserID    string `toml:"user_id"`
	TenantID  string `toml:"tenant_id,omitempty"`
	Name      string `toml:"name,omitempty"`
	Email     string `toml:"email,omitempty"`
	AvatarURL string `toml:"avatar_url,omitempty"`
	PlanType  string `toml:"plan_type,omitempty"`
	CreatedAt string `toml:"created_at"`
	IsCurrent bool   `toml:"is_current,omitempty"`
}
