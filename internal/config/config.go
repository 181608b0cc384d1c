package config

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	Auth     AuthConfig     `koanf:"auth"`
	Mail     MailConfig     `koanf:"mail"`
	Redis    RedisConfig    `koanf:"redis"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host      string          `koanf:"host"`
	Port      int             `koanf:"port"`
	Mode      string          `koanf:"mode"`
	Timeout   string          `koanf:"timeout"`
	CORS      CORSConfig      `koanf:"cors"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	GraphQL   GraphQLConfig   `koanf:"graphql"`
}

// CORSConfig holds CORS middleware settings.
type CORSConfig struct {
	AllowOrigins     []string `koanf:"allow_origins"`
	AllowMethods     []string `koanf:"allow_methods"`
	AllowHeaders     []string `koanf:"allow_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           string   `koanf:"max_age"`
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	Enabled bool    `koanf:"enabled"`
	RPS     float64 `koanf:"rps"`
	Burst   int     `koanf:"burst"`
}

// GraphQLConfig holds GraphQL endpoint settings.
type GraphQLConfig struct {
	Path           string `koanf:"path"`
	MaxDepth       int    `koanf:"max_depth"`
	MaxParallelism int    `koanf:"max_parallelism"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver   string         `koanf:"driver"`
	SQLite   SQLiteConfig   `koanf:"sqlite"`
	Postgres PostgresConfig `koanf:"postgres"`
	Pool     PoolConfig     `koanf:"pool"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"dbname"`
	SSLMode  string `koanf:"sslmode"`
}

// PoolConfig holds database connection pool settings.
type PoolConfig struct {
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	ConnMaxLifetime string `koanf:"conn_max_lifetime"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level           string `koanf:"level"`
	Format          string `koanf:"format"`
	Color           *bool  `koanf:"color"`
	FilePath        string `koanf:"file_path"`
	MaxSizeMB       int    `koanf:"max_size_mb"`
	RetentionDays   int    `koanf:"retention_days"`
	MaxBackups      int    `koanf:"max_backups"`
	CompressRotated *bool  `koanf:"compress_rotated"`
}

// AuthConfig holds token signing and session settings.
type AuthConfig struct {
	TokenSecret       string `koanf:"token_secret"`
	VerifyTokenExpiry string `koanf:"verify_token_expiry"`
	SessionExpiry     string `koanf:"session_expiry"`
}

// MailConfig holds outbound SMTP settings for verification emails.
type MailConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Host      string `koanf:"host"`
	Port      int    `koanf:"port"`
	Username  string `koanf:"username"`
	Password  string `koanf:"password"`
	From      string `koanf:"from"`
	VerifyURL string `koanf:"verify_url"`
}

// RedisConfig holds the session store connection settings.
type RedisConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Addr      string `koanf:"addr"`
	Password  string `koanf:"password"`
	DB        int    `koanf:"db"`
	KeyPrefix string `koanf:"key_prefix"`
}

// Defaults applied when optional durations are left empty.
const (
	DefaultVerifyTokenExpiry = time.Hour
	DefaultSessionExpiry     = 24 * time.Hour
	DefaultGraphQLPath       = "/graphql"
	DefaultRedisKeyPrefix    = "session"
)

// Load reads configuration from a YAML file and overlays environment variables.
// Environment variables use the prefix "APP__" and double-underscore as the
// hierarchy separator. Single underscores are preserved as part of the key name.
// For example, APP__SERVER__PORT=9090 overrides server.port and
// APP__AUTH__TOKEN_SECRET=... overrides auth.token_secret.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	// APP__SERVER__PORT -> server.port
	// APP__DATABASE__POOL__MAX_IDLE_CONNS -> database.pool.max_idle_conns
	if err := k.Load(env.Provider("APP__", ".", func(s string) string {
		key := strings.TrimPrefix(s, "APP__")
		key = strings.ToLower(key)
		key = strings.ReplaceAll(key, "__", ".")
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field constraints and supported values.
func (c *Config) Validate() error {
	mode := strings.TrimSpace(c.Server.Mode)
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		c.Server.Mode = mode
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", c.Server.Mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", c.Server.Port)
	}

	host := strings.TrimSpace(c.Server.Host)
	if host == "" {
		return fmt.Errorf("server.host is required")
	}
	c.Server.Host = host

	if err := c.validateDatabase(); err != nil {
		return err
	}

	// Whitespace-only means unset.
	c.Server.Timeout = strings.TrimSpace(c.Server.Timeout)
	c.Server.CORS.MaxAge = strings.TrimSpace(c.Server.CORS.MaxAge)
	c.Database.Pool.ConnMaxLifetime = strings.TrimSpace(c.Database.Pool.ConnMaxLifetime)

	if t := c.Server.Timeout; t != "" {
		if err := validatePositiveDuration("server.timeout", t); err != nil {
			return err
		}
	}

	if ma := c.Server.CORS.MaxAge; ma != "" {
		d, err := time.ParseDuration(ma)
		if err != nil {
			return fmt.Errorf("invalid server.cors.max_age %q: must be a valid duration (e.g. \"24h\", \"3600s\"): %w", c.Server.CORS.MaxAge, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid server.cors.max_age %q: must be greater than 0", c.Server.CORS.MaxAge)
		}
	}

	if lm := c.Database.Pool.ConnMaxLifetime; lm != "" {
		if err := validatePositiveDuration("database.pool.conn_max_lifetime", lm); err != nil {
			return err
		}
	}

	if c.Server.RateLimit.Enabled {
		if c.Server.RateLimit.RPS <= 0 {
			return fmt.Errorf("invalid server.rate_limit.rps %v: must be positive when rate limiting is enabled", c.Server.RateLimit.RPS)
		}
		if c.Server.RateLimit.Burst <= 0 {
			return fmt.Errorf("invalid server.rate_limit.burst %d: must be positive when rate limiting is enabled", c.Server.RateLimit.Burst)
		}
	}

	if err := c.validateGraphQL(); err != nil {
		return err
	}
	if err := c.validateAuth(); err != nil {
		return err
	}
	if err := c.validateMail(); err != nil {
		return err
	}
	if err := c.validateRedis(); err != nil {
		return err
	}

	level := strings.ToLower(strings.TrimSpace(c.Log.Level))
	if _, ok := logLevels[level]; !ok {
		return fmt.Errorf("invalid log.level %q: must be one of %q, %q, %q, %q", c.Log.Level, "debug", "info", "warn", "error")
	}
	c.Log.Level = level

	format := strings.ToLower(strings.TrimSpace(c.Log.Format))
	if _, ok := logFormats[format]; !ok {
		return fmt.Errorf("invalid log.format %q: must be one of %q, %q", c.Log.Format, "text", "json")
	}
	c.Log.Format = format

	return nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid database.driver %q: must be one of %q, %q", c.Database.Driver, "sqlite", "postgres")
	}

	if c.Database.Driver == "sqlite" {
		sqlitePath := strings.TrimSpace(c.Database.SQLite.Path)
		if sqlitePath == "" {
			return fmt.Errorf("database.sqlite.path is required when driver is sqlite")
		}
		c.Database.SQLite.Path = sqlitePath
		return nil
	}

	pg := &c.Database.Postgres
	host := strings.TrimSpace(pg.Host)
	if host == "" {
		return fmt.Errorf("database.postgres.host is required when driver is postgres")
	}
	if pg.Port < 1 || pg.Port > 65535 {
		return fmt.Errorf("invalid database.postgres.port %d: must be between 1 and 65535", pg.Port)
	}
	user := strings.TrimSpace(pg.User)
	if user == "" {
		return fmt.Errorf("database.postgres.user is required when driver is postgres")
	}
	dbName := strings.TrimSpace(pg.DBName)
	if dbName == "" {
		return fmt.Errorf("database.postgres.dbname is required when driver is postgres")
	}
	sslMode := strings.TrimSpace(pg.SSLMode)
	switch sslMode {
	case "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
	default:
		return fmt.Errorf("invalid database.postgres.sslmode %q: must be one of %q, %q, %q, %q, %q, %q", pg.SSLMode, "disable", "allow", "prefer", "require", "verify-ca", "verify-full")
	}
	if c.Server.Mode == gin.ReleaseMode {
		switch sslMode {
		case "require", "verify-ca", "verify-full":
		default:
			return fmt.Errorf("invalid database.postgres.sslmode %q for server.mode %q: must be one of %q, %q, %q", pg.SSLMode, gin.ReleaseMode, "require", "verify-ca", "verify-full")
		}
	}

	pg.Host = host
	pg.User = user
	pg.DBName = dbName
	pg.SSLMode = sslMode
	return nil
}

func (c *Config) validateGraphQL() error {
	gq := &c.Server.GraphQL
	path := strings.TrimSpace(gq.Path)
	if path == "" {
		path = DefaultGraphQLPath
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("invalid server.graphql.path %q: must start with '/'", gq.Path)
	}
	gq.Path = path

	if gq.MaxDepth < 0 {
		return fmt.Errorf("invalid server.graphql.max_depth %d: must not be negative", gq.MaxDepth)
	}
	if gq.MaxParallelism < 0 {
		return fmt.Errorf("invalid server.graphql.max_parallelism %d: must not be negative", gq.MaxParallelism)
	}
	return nil
}

func (c *Config) validateAuth() error {
	secret := strings.TrimSpace(c.Auth.TokenSecret)
	if secret == "" {
		return fmt.Errorf("auth.token_secret is required")
	}
	if len(secret) < 32 {
		return fmt.Errorf("invalid auth.token_secret: must be at least 32 characters")
	}
	if c.Server.Mode == gin.ReleaseMode && CountSecretClasses(secret) < 3 {
		return fmt.Errorf("auth.token_secret must include at least 3 character classes (lowercase, uppercase, digit, symbol) in release mode")
	}
	c.Auth.TokenSecret = secret

	c.Auth.VerifyTokenExpiry = strings.TrimSpace(c.Auth.VerifyTokenExpiry)
	if v := c.Auth.VerifyTokenExpiry; v != "" {
		if err := validatePositiveDuration("auth.verify_token_expiry", v); err != nil {
			return err
		}
	}
	c.Auth.SessionExpiry = strings.TrimSpace(c.Auth.SessionExpiry)
	if v := c.Auth.SessionExpiry; v != "" {
		if err := validatePositiveDuration("auth.session_expiry", v); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateMail() error {
	m := &c.Mail
	m.VerifyURL = strings.TrimSpace(m.VerifyURL)
	if m.VerifyURL != "" && !strings.Contains(m.VerifyURL, "{token}") {
		return fmt.Errorf("invalid mail.verify_url %q: must contain the {token} placeholder", m.VerifyURL)
	}
	if !m.Enabled {
		return nil
	}

	host := strings.TrimSpace(m.Host)
	if host == "" {
		return fmt.Errorf("mail.host is required when mail is enabled")
	}
	if m.Port < 1 || m.Port > 65535 {
		return fmt.Errorf("invalid mail.port %d: must be between 1 and 65535", m.Port)
	}
	from := strings.TrimSpace(m.From)
	if from == "" {
		return fmt.Errorf("mail.from is required when mail is enabled")
	}
	if _, err := mail.ParseAddress(from); err != nil {
		return fmt.Errorf("invalid mail.from %q: %w", m.From, err)
	}
	if m.VerifyURL == "" {
		return fmt.Errorf("mail.verify_url is required when mail is enabled")
	}

	m.Host = host
	m.From = from
	return nil
}

func (c *Config) validateRedis() error {
	r := &c.Redis
	prefix := strings.TrimSpace(r.KeyPrefix)
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}
	r.KeyPrefix = prefix

	if !r.Enabled {
		return nil
	}
	addr := strings.TrimSpace(r.Addr)
	if addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	if r.DB < 0 {
		return fmt.Errorf("invalid redis.db %d: must not be negative", r.DB)
	}
	r.Addr = addr
	return nil
}

// VerifyTokenTTL returns the configured verification token lifetime.
func (a AuthConfig) VerifyTokenTTL() time.Duration {
	return durationOr(a.VerifyTokenExpiry, DefaultVerifyTokenExpiry)
}

// SessionTTL returns the configured session token lifetime.
func (a AuthConfig) SessionTTL() time.Duration {
	return durationOr(a.SessionExpiry, DefaultSessionExpiry)
}

func durationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func validatePositiveDuration(field, value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	if d <= 0 {
		return fmt.Errorf("invalid %s %q: must be greater than 0", field, value)
	}
	return nil
}

// CountSecretClasses counts how many character classes (lowercase, uppercase,
// digit, symbol) are present in the given secret string.
func CountSecretClasses(secret string) int {
	hasLower := false
	hasUpper := false
	hasDigit := false
	hasSymbol := false

	for _, r := range secret {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	classes := 0
	if hasLower {
		classes++
	}
	if hasUpper {
		classes++
	}
	if hasDigit {
		classes++
	}
	if hasSymbol {
		classes++
	}

	return classes
}
