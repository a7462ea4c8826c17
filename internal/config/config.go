package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server
	Port        int
	Environment string
	ServiceName string
	Version     string

	// Logging
	LogLevel  string
	LogFormat string
	LogDir    string

	// Keyed store
	StoreBackend  string // memory, sqlite, postgres, redis
	SQLitePath    string
	DBUser        string
	DBPassword    string
	DBHost        string
	DBPort        string
	DBName        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheSize     int
	CacheTTL      time.Duration

	// Identity
	JWTSecret string

	// Support backend
	SupportAPIURL      string
	SupportAPIKey      string
	SupportRealtimeURL string
	SupportTimeout     time.Duration

	// Pricing and price feed
	PricingRulesPath   string
	Currency           string
	PriceFeed          string // random_walk, off
	PriceCheckInterval time.Duration
	WorkerCount        int
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
		ServiceName: getEnv("SERVICE_NAME", DefaultServiceName),
		Version:     getEnv("VERSION", DefaultVersion),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
		LogDir:    getEnv("LOG_DIR", "logs"),

		StoreBackend:  strings.ToLower(getEnv("STORE_BACKEND", StoreBackendSQLite)),
		SQLitePath:    getEnv("SQLITE_PATH", DefaultSQLitePath),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBName:        getEnv("DB_NAME", "storefront"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		CacheSize:     getEnvAsInt("STORE_CACHE_SIZE", DefaultCacheSize),
		CacheTTL:      getEnvAsDuration("STORE_CACHE_TTL", DefaultCacheTTL),

		JWTSecret: getEnv("JWT_SECRET", ""),

		SupportAPIURL:      getEnv("SUPPORT_API_URL", ""),
		SupportAPIKey:      getEnv("SUPPORT_API_KEY", ""),
		SupportRealtimeURL: getEnv("SUPPORT_REALTIME_URL", ""),
		SupportTimeout:     getEnvAsDuration("SUPPORT_TIMEOUT", DefaultSupportTimeout),

		PricingRulesPath:   getEnv("PRICING_RULES_PATH", ConfigPathPricingRules),
		Currency:           strings.ToUpper(getEnv("CURRENCY", DefaultCurrency)),
		PriceFeed:          strings.ToLower(getEnv("PRICE_FEED", PriceFeedRandomWalk)),
		PriceCheckInterval: getEnvAsDuration("PRICE_CHECK_INTERVAL", DefaultPriceCheckInterval),
		WorkerCount:        getEnvAsInt("WORKER_COUNT", DefaultWorkerCount),
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	if !validBackends[cfg.StoreBackend] {
		return nil, fmt.Errorf("invalid STORE_BACKEND %q (expected memory, sqlite, postgres or redis)", cfg.StoreBackend)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable must be set for security")
	}

	return cfg, nil
}

var validBackends = map[string]bool{
	StoreBackendMemory:   true,
	StoreBackendSQLite:   true,
	StoreBackendPostgres: true,
	StoreBackendRedis:    true,
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer environment variable, falling back on error
func getEnvAsInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvAsDuration parses a duration environment variable (e.g. "30s"), falling back on error
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// SupportEnabled reports whether a remote support backend is configured
func (c *Config) SupportEnabled() bool {
	return c.SupportAPIURL != ""
}
