package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	PageSize int

	CatalogBackend string
	DBPath         string
	MigrationsPath string

	SessionBackend string
	RedisAddr      string
	RedisPassword  string

	AuthSecret        string
	AdminUser         string
	AdminPasswordHash string
	AuthTTL           time.Duration

	DiscountPercent int
	DiscountFixed   decimal.Decimal
}

// Load reads the environment. Unset keys take their defaults; set but
// unparsable keys are an error.
func Load() (*Config, error) {
	var errs []error
	intVar := func(key string, def int) int {
		n, err := getEnvInt(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return n
	}
	durationVar := func(key string, def time.Duration) time.Duration {
		d, err := getEnvDuration(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return d
	}
	decimalVar := func(key string) decimal.Decimal {
		d, err := getEnvDecimal(key)
		if err != nil {
			errs = append(errs, err)
		}
		return d
	}

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RequestTimeout:  durationVar("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: durationVar("SHUTDOWN_TIMEOUT", 10*time.Second),

		PageSize: intVar("PAGE_SIZE", 4),

		CatalogBackend: getEnv("CATALOG_BACKEND", "sqlite"),
		DBPath:         getEnv("DB_PATH", "./internal/repository/products.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./internal/repository/migrations"),

		SessionBackend: getEnv("SESSION_BACKEND", "redis"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),

		AuthSecret:        getEnv("AUTH_SECRET", ""),
		AdminUser:         getEnv("ADMIN_USER", "admin"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		AuthTTL:           durationVar("AUTH_TTL", 30*time.Minute),

		DiscountPercent: intVar("DISCOUNT_PERCENT", 0),
		DiscountFixed:   decimalVar("DISCOUNT_FIXED"),
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.DiscountPercent < 0 || c.DiscountPercent > 100 {
		return fmt.Errorf("DISCOUNT_PERCENT must be 0-100, got %d", c.DiscountPercent)
	}
	if c.DiscountFixed.IsNegative() {
		return fmt.Errorf("DISCOUNT_FIXED cannot be negative, got %s", c.DiscountFixed)
	}
	switch c.CatalogBackend {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("unknown CATALOG_BACKEND %q", c.CatalogBackend)
	}
	switch c.SessionBackend {
	case "redis", "memory":
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s must be a duration, got %q", key, v)
	}
	return d, nil
}

func getEnvDecimal(key string) (decimal.Decimal, error) {
	v := os.Getenv(key)
	if v == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be a decimal, got %q", key, v)
	}
	return d, nil
}
