package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Mail     MailConfig     `mapstructure:"mail"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// TrustProxyHeaders takes the client IP from X-Forwarded-For/X-Real-IP.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxyHeaders bool `mapstructure:"trust_proxy_headers"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns       int    `mapstructure:"max_open_conns" validate:"gt=0"`
	PingTimeoutSeconds int    `mapstructure:"ping_timeout_seconds" validate:"gt=0"`
	// ConnectRetries bounds how many times startup re-pings an unreachable database.
	ConnectRetries uint64 `mapstructure:"connect_retries"`
}

// AuthConfig contains session and login settings.
type AuthConfig struct {
	SessionSecret          string `mapstructure:"session_secret" validate:"required,min=32"`
	SessionLifetimeMinutes int    `mapstructure:"session_lifetime_minutes" validate:"required,gt=0,lte=10080"`
	CookieSecure           bool   `mapstructure:"cookie_secure"`
	LoginRatePerMinute     int64  `mapstructure:"login_rate_per_minute" validate:"gt=0"`
}

// MailConfig contains SMTP settings for assignment notifications.
// When Enabled is false no delivery is attempted.
type MailConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port      int    `mapstructure:"port" validate:"gt=0,lt=65536"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	From      string `mapstructure:"from" validate:"required_if=Enabled true"`
	TLSPolicy string `mapstructure:"tls_policy" validate:"oneof=mandatory opportunistic none"`
}
