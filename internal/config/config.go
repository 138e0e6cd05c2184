package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backend names.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// Config holds all application configuration.
// It is built once at startup and passed by value to the components that need it.
type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Notifier  NotifierConfig
	CORS      CORSConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	S3        S3Config
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// NotifierConfig holds the Telegram bot settings used for order notifications.
type NotifierConfig struct {
	BotToken   string
	ChatID     string
	APIBaseURL string
	Timeout    time.Duration
	// BestEffort acknowledges an order even when the notification could not be delivered.
	BestEffort bool
}

// CORSConfig holds the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string
}

// StorageConfig selects where the catalog and the order log live.
type StorageConfig struct {
	CatalogBackend string
	OrdersBackend  string
	ProductsFile   string
	OrdersFile     string
	PersistOrders  bool
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// S3Config holds AWS S3 configuration for the catalog document.
type S3Config struct {
	Bucket     string
	Region     string
	CatalogKey string
}

// RateLimitConfig bounds order submissions per client.
type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration

	// TrustedProxies lists addresses or CIDR networks whose X-Forwarded-For
	// header identifies the client. Empty means the header is ignored.
	TrustedProxies []string
}

// Load loads configuration from environment variables.
// Variables from the file named by ENV_FILE (default ".env") are applied first when it exists;
// values already present in the environment win.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadStorage loads the same configuration as Load but validates only the
// storage settings, for tools that never start the HTTP server or notify.
func LoadStorage() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.ValidateStorage(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func read() (*Config, error) {
	if err := loadEnvFile(getEnv("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8000),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Notifier: NotifierConfig{
			BotToken:   getEnv("BOT_TOKEN", ""),
			ChatID:     getEnv("GROUP_ID", ""),
			APIBaseURL: strings.TrimRight(getEnv("TELEGRAM_API_URL", "https://api.telegram.org"), "/"),
			Timeout:    time.Duration(getEnvAsInt("NOTIFY_TIMEOUT_SECONDS", 10)) * time.Second,
			BestEffort: getEnvAsBool("NOTIFY_BEST_EFFORT", false),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS"),
		},
		Storage: StorageConfig{
			CatalogBackend: getEnv("CATALOG_BACKEND", BackendFile),
			OrdersBackend:  getEnv("ORDERS_BACKEND", BackendFile),
			ProductsFile:   getEnv("PRODUCTS_FILE", "products.json"),
			OrdersFile:     getEnv("ORDERS_FILE", "orders.json"),
			PersistOrders:  getEnvAsBool("ORDERS_PERSIST", true),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "orderdesk"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 1),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		S3: S3Config{
			Bucket:     getEnv("S3_BUCKET", ""),
			Region:     getEnv("S3_REGION", "us-east-1"),
			CatalogKey: getEnv("S3_CATALOG_KEY", "catalog/products.json"),
		},
		RateLimit: RateLimitConfig{
			Enabled:  getEnvAsBool("RATE_LIMIT_ENABLED", true),
			Requests: getEnvAsInt("RATE_LIMIT_REQUESTS", 25),
			Window:   time.Duration(getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,

			TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),
		},
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Notifier.BotToken == "" {
		return fmt.Errorf("bot token is required")
	}

	if c.Notifier.ChatID == "" {
		return fmt.Errorf("chat id is required")
	}

	if c.Notifier.APIBaseURL == "" {
		return fmt.Errorf("telegram API URL is required")
	}

	if c.Notifier.Timeout <= 0 {
		return fmt.Errorf("notify timeout must be positive")
	}

	if len(c.CORS.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if err := c.ValidateStorage(); err != nil {
		return err
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.Requests < 1 {
			return fmt.Errorf("rate limit requests must be at least 1")
		}
		if c.RateLimit.Window <= 0 {
			return fmt.Errorf("rate limit window must be positive")
		}
		if _, err := c.RateLimit.TrustedPrefixes(); err != nil {
			return err
		}
	}

	return nil
}

// TrustedPrefixes parses TrustedProxies. A bare address becomes a single-host prefix.
func (c *RateLimitConfig) TrustedPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, entry := range c.TrustedProxies {
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}

		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// ValidateStorage validates the catalog, order log, database and S3 settings.
func (c *Config) ValidateStorage() error {
	switch c.Storage.CatalogBackend {
	case BackendFile:
		if c.Storage.ProductsFile == "" {
			return fmt.Errorf("products file is required for the file catalog backend")
		}
	case BackendPostgres:
	case BackendS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required for the s3 catalog backend")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required for the s3 catalog backend")
		}
		if c.S3.CatalogKey == "" {
			return fmt.Errorf("S3 catalog key is required for the s3 catalog backend")
		}
	default:
		return fmt.Errorf("invalid catalog backend: %s (must be file, postgres, or s3)", c.Storage.CatalogBackend)
	}

	switch c.Storage.OrdersBackend {
	case BackendFile:
		if c.Storage.OrdersFile == "" {
			return fmt.Errorf("orders file is required for the file orders backend")
		}
	case BackendPostgres:
	default:
		return fmt.Errorf("invalid orders backend: %s (must be file or postgres)", c.Storage.OrdersBackend)
	}

	if c.UsesPostgres() {
		return c.Database.validate()
	}

	return nil
}

// UsesPostgres reports whether any storage backend needs a database connection.
func (c *Config) UsesPostgres() bool {
	return c.Storage.CatalogBackend == BackendPostgres || c.Storage.OrdersBackend == BackendPostgres
}

func (c *DatabaseConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// loadEnvFile applies variables from path. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated environment variable, dropping empty entries.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
