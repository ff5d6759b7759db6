// Package config loads wordblox settings from defaults, a YAML config file,
// .env files and WORDBLOX_ environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/wordblox/pkg/constants"
	"github.com/agentstation/wordblox/pkg/errors"
	"github.com/agentstation/wordblox/pkg/sync"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "WORDBLOX"

// Config holds the resolved configuration.
type Config struct {
	// ConfigFile is the config file that was read, if any.
	ConfigFile string `mapstructure:"-"`

	Database DatabaseConfig `mapstructure:"database"`
	External ExternalConfig `mapstructure:"external"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig locates the local store.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ExternalConfig points at the external service.
type ExternalConfig struct {
	LoginURL    string        `mapstructure:"login_url"`
	DataURL     string        `mapstructure:"data_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	PullTimeout time.Duration `mapstructure:"pull_timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
}

// SyncConfig holds the default reconciliation policy by name.
type SyncConfig struct {
	Conflict string `mapstructure:"conflict"`
	Priority string `mapstructure:"priority"`
	Deletion string `mapstructure:"deletion"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	PathPrefix  string        `mapstructure:"path_prefix"`
	CORSEnabled bool          `mapstructure:"cors_enabled"`
	CORSOrigins []string      `mapstructure:"cors_origins"`
	AuthEnabled bool          `mapstructure:"auth_enabled"`
	AuthHeader  string        `mapstructure:"auth_header"`
	APIKey      string        `mapstructure:"api_key"`
	RateLimit   int           `mapstructure:"rate_limit"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

// LogConfig configures the default logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Load resolves the configuration in order of precedence:
// 1. Environment variables (WORDBLOX_SERVER_PORT, ...)
// 2. .env and .env.local files in the working directory
// 3. The config file, either configFile or .wordblox.yaml in $HOME or "."
// 4. Defaults
func Load(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".wordblox")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "failed to read config file", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.NewConfigError("config", "failed to decode configuration", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	// Environment arrays arrive as one comma-separated string.
	if raw := os.Getenv(EnvPrefix + "_SERVER_CORS_ORIGINS"); raw != "" {
		cfg.Server.CORSOrigins = splitList(raw)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", defaultDatabasePath())

	v.SetDefault("external.login_url", constants.DefaultLoginURL)
	v.SetDefault("external.data_url", constants.DefaultDataURL)
	v.SetDefault("external.timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("external.pull_timeout", constants.PullTimeout)
	v.SetDefault("external.user_agent", "")

	v.SetDefault("sync.conflict", "")
	v.SetDefault("sync.priority", "")
	v.SetDefault("sync.deletion", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.path_prefix", "/api/v1")
	v.SetDefault("server.cors_enabled", false)
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.auth_enabled", false)
	v.SetDefault("server.auth_header", "X-API-Key")
	v.SetDefault("server.api_key", "")
	v.SetDefault("server.rate_limit", 100)
	v.SetDefault("server.cache_ttl", constants.CacheTTL)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.output", "stderr")
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.NewConfigError("database", "path is required", nil)
	}
	if c.External.LoginURL == "" || c.External.DataURL == "" {
		return errors.NewConfigError("external", "login_url and data_url are required", nil)
	}
	if c.External.Timeout <= 0 {
		return errors.NewConfigError("external", "timeout must be positive", nil)
	}
	if c.External.PullTimeout < 0 {
		return errors.NewConfigError("external", "pull_timeout must not be negative", nil)
	}
	if _, err := c.Policy(); err != nil {
		return errors.NewConfigError("sync", err.Error(), err)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.NewConfigError("server", "port out of range", nil)
	}
	if c.Server.AuthEnabled && c.Server.APIKey == "" {
		return errors.NewConfigError("server", "api_key is required when auth is enabled", nil)
	}
	if c.Server.RateLimit < 0 {
		return errors.NewConfigError("server", "rate_limit must not be negative", nil)
	}
	return nil
}

// Policy parses the configured default policy. Unknown names are rejected.
func (c *Config) Policy() (sync.Policy, error) {
	return sync.ParsePolicy(c.Sync.Conflict, c.Sync.Priority, c.Sync.Deletion)
}

// loadEnvFiles loads .env then .env.local. Variables already set win.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "wordblox.db"
	}
	return filepath.Join(home, ".wordblox", "wordblox.db")
}

// splitList splits a comma-separated list, trimming blanks.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
