package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads,
// e.g. TASKDESK_DATABASE_URL.
const EnvPrefix = "TASKDESK"

// ConfigFileEnv names the environment variable that points at an explicit config file.
const ConfigFileEnv = "TASKDESK_CONFIG"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabase loads the same sources as Load but only validates the server
// and database sections. Maintenance commands use it so they do not need
// session or mail settings.
func LoadDatabase() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	validate := validator.New()
	if err := validate.Struct(cfg.Server); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if err := validate.Struct(cfg.Database); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func read() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path := os.Getenv(ConfigFileEnv); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the struct tags on cfg.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.trust_proxy_headers", false)

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.ping_timeout_seconds", 5)
	v.SetDefault("database.connect_retries", 5)

	v.SetDefault("auth.session_lifetime_minutes", 480)
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("auth.login_rate_per_minute", 10)

	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.tls_policy", "mandatory")
}

// bindEnvs registers every key explicitly. AutomaticEnv alone does not make
// Unmarshal see env-only keys that have no default.
func bindEnvs(v *viper.Viper) {
	keys := []string{
		"server.port", "server.log_level", "server.trust_proxy_headers",
		"database.url", "database.max_open_conns", "database.ping_timeout_seconds",
		"database.connect_retries",
		"auth.session_secret", "auth.session_lifetime_minutes", "auth.cookie_secure",
		"auth.login_rate_per_minute",
		"mail.enabled", "mail.host", "mail.port", "mail.username", "mail.password",
		"mail.from", "mail.tls_policy",
	}
	for _, key := range keys {
		// BindEnv only errors when called without a key.
		_ = v.BindEnv(key)
	}
}
