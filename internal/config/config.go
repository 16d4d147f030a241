package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	envPrefix  = "TA"

	// Dir is the per-user directory holding config, accounts and secrets.
	Dir = ".trae-accounts"
)

const (
	DriverTOML   = "toml"
	DriverSQLite = "sqlite"

	SecretsFile  = "file"
	SecretsPass  = "pass"
	SecretsChain = "chain"
)

const (
	keyAccountsDriver      = "accounts.driver"
	keyAccountsPath        = "accounts.path"
	keyAccountsSQLitePath  = "accounts.sqlite_path"
	keySecretsBackend      = "secrets.backend"
	keySecretsDir          = "secrets.dir"
	keyBackendBaseURLs     = "backend.base_urls"
	keyBackendUserInfoURL  = "backend.user_info_url"
	keyBackendTimeout      = "backend.timeout"
	keyEngineRefresh       = "engine.refresh_timeout"
	keyEngineConcurrency   = "engine.load_concurrency"
	keyEngineNotifyTTL     = "engine.notification_ttl"
	keyEngineAutoRefresh   = "engine.auto_refresh_interval"
	keyLogLevel            = "log.level"
	keyServeAddr           = "serve.addr"
	defaultUserInfoBaseURL = "https://ug-normal.trae.ai"
)

var defaultBaseURLs = []string{
	"https://api-sg-central.trae.ai",
	"https://api-us-east.trae.ai",
}

type Config struct {
	Accounts AccountsConfig
	Secrets  SecretsConfig
	Backend  BackendConfig
	Engine   EngineConfig
	Log      LogConfig
	Serve    ServeConfig
}

type AccountsConfig struct {
	Driver     string
	Path       string
	SQLitePath string
}

type SecretsConfig struct {
	Backend string
	Dir     string
}

type BackendConfig struct {
	BaseURLs    []string
	UserInfoURL string
	Timeout     time.Duration
}

type EngineConfig struct {
	RefreshTimeout      time.Duration
	LoadConcurrency     int
	NotificationTTL     time.Duration
	AutoRefreshInterval time.Duration
}

type LogConfig struct {
	Level string
}

type ServeConfig struct {
	Addr string
}

// Load reads ~/.trae-accounts/config.toml (or the file already set on v),
// applies TA_* environment overrides and validates the result. A missing
// config file is not an error.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}
	baseDir := filepath.Join(homeDir, Dir)

	setDefaults(v, baseDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.ConfigFileUsed() == "" {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(baseDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		Accounts: AccountsConfig{
			Driver:     strings.ToLower(strings.TrimSpace(v.GetString(keyAccountsDriver))),
			Path:       v.GetString(keyAccountsPath),
			SQLitePath: v.GetString(keyAccountsSQLitePath),
		},
		Secrets: SecretsConfig{
			Backend: strings.ToLower(strings.TrimSpace(v.GetString(keySecretsBackend))),
			Dir:     v.GetString(keySecretsDir),
		},
		Backend: BackendConfig{
			BaseURLs:    splitList(v.Get(keyBackendBaseURLs)),
			UserInfoURL: strings.TrimRight(v.GetString(keyBackendUserInfoURL), "/"),
			Timeout:     v.GetDuration(keyBackendTimeout),
		},
		Engine: EngineConfig{
			RefreshTimeout:      v.GetDuration(keyEngineRefresh),
			LoadConcurrency:     v.GetInt(keyEngineConcurrency),
			NotificationTTL:     v.GetDuration(keyEngineNotifyTTL),
			AutoRefreshInterval: v.GetDuration(keyEngineAutoRefresh),
		},
		Log:   LogConfig{Level: v.GetString(keyLogLevel)},
		Serve: ServeConfig{Addr: v.GetString(keyServeAddr)},
	}

	for _, path := range []*string{&cfg.Accounts.Path, &cfg.Accounts.SQLitePath, &cfg.Secrets.Dir} {
		normalized, err := normalizePath(*path, homeDir)
		if err != nil {
			return Config{}, err
		}
		*path = normalized
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, baseDir string) {
	v.SetDefault(keyAccountsDriver, DriverTOML)
	v.SetDefault(keyAccountsPath, filepath.Join(baseDir, "accounts.toml"))
	v.SetDefault(keyAccountsSQLitePath, filepath.Join(baseDir, "accounts.db"))
	v.SetDefault(keySecretsBackend, SecretsFile)
	v.SetDefault(keySecretsDir, filepath.Join(baseDir, "secrets"))
	v.SetDefault(keyBackendBaseURLs, defaultBaseURLs)
	v.SetDefault(keyBackendUserInfoURL, defaultUserInfoBaseURL)
	v.SetDefault(keyBackendTimeout, 30*time.Second)
	v.SetDefault(keyEngineRefresh, 45*time.Second)
	v.SetDefault(keyEngineConcurrency, 4)
	v.SetDefault(keyEngineNotifyTTL, 3*time.Second)
	v.SetDefault(keyEngineAutoRefresh, time.Duration(0))
	v.SetDefault(keyLogLevel, "warn")
	v.SetDefault(keyServeAddr, "127.0.0.1:8045")
}

func (c Config) Validate() error {
	switch c.Accounts.Driver {
	case DriverTOML, DriverSQLite:
	default:
		return fmt.Errorf("unsupported accounts driver %q", c.Accounts.Driver)
	}

	switch c.Secrets.Backend {
	case SecretsFile, SecretsPass, SecretsChain:
	default:
		return fmt.Errorf("unsupported secrets backend %q", c.Secrets.Backend)
	}

	if len(c.Backend.BaseURLs) == 0 {
		return errors.New("backend base urls are empty")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend timeout must be positive, got %s", c.Backend.Timeout)
	}
	if c.Engine.RefreshTimeout <= 0 {
		return fmt.Errorf("refresh timeout must be positive, got %s", c.Engine.RefreshTimeout)
	}
	if c.Engine.LoadConcurrency < 1 {
		return fmt.Errorf("load concurrency must be at least 1, got %d", c.Engine.LoadConcurrency)
	}
	if c.Engine.AutoRefreshInterval < 0 {
		return fmt.Errorf("auto refresh interval must not be negative, got %s", c.Engine.AutoRefreshInterval)
	}

	return nil
}

// splitList accepts both a TOML array and a comma separated env value.
func splitList(raw any) []string {
	var parts []string
	switch value := raw.(type) {
	case []string:
		parts = value
	case []any:
		for _, item := range value {
			parts = append(parts, fmt.Sprint(item))
		}
	case string:
		parts = strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ' ' })
	}

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimRight(strings.TrimSpace(part), "/")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func normalizePath(path, homeDir string) (string, error) {
	if path == "" {
		return "", errors.New("config path is empty")
	}
	if path == "~" {
		path = homeDir
	} else if strings.HasPrefix(path, "~/") {
		path = filepath.Join(homeDir, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", path, err)
	}

	return filepath.Clean(absPath), nil
}
