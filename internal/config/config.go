// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Supported database drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// devJWTSecret is only accepted outside of production.
const devJWTSecret = "dev-secret-change-me"

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; defaults mirror the values the mobile client
// expects from a local development server.
type Config struct {
	Env        string        // APP_ENV (dev, test, prod)
	Port       string        // APP_PORT
	DBDriver   string        // DB_DRIVER: mysql or sqlite
	DBUser     string        // DB_USER
	DBPass     string        // DB_PASS (empty allowed)
	DBHost     string        // DB_HOST
	DBPort     string        // DB_PORT
	DBName     string        // DB_NAME
	DBPath     string        // DB_PATH, sqlite file location
	JWTSecret  string        // JWT_SECRET
	AccessTTL  time.Duration // ACCESS_TOKEN_TTL
	BcryptCost int           // BCRYPT_COST
	LogLevel   string        // LOG_LEVEL
	LogFile    string        // LOG_FILE, rotated file output in addition to stderr
	AMQPURL    string        // AMQP_URL or RABBITMQ_URL; empty disables incident events
	AuditLog   string        // AUDIT_LOG, file the incident event consumer appends to

	Redis     RedisConfig
	RateLimit RateLimitConfig
}

// Load reads an optional .env file (real environment variables win) and
// builds a validated Config.  Extra env files may be passed explicitly.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg := Config{
		Env:        envStr("APP_ENV", "dev"),
		Port:       envStr("APP_PORT", "3000"),
		DBDriver:   strings.ToLower(envStr("DB_DRIVER", DriverMySQL)),
		DBUser:     envStr("DB_USER", "root"),
		DBPass:     envStr("DB_PASS", ""),
		DBHost:     envStr("DB_HOST", "localhost"),
		DBPort:     envStr("DB_PORT", "3306"),
		DBName:     envStr("DB_NAME", "ciclored"),
		DBPath:     envStr("DB_PATH", "data/ciclored.db"),
		JWTSecret:  envStr("JWT_SECRET", ""),
		AccessTTL:  envDur("ACCESS_TOKEN_TTL", time.Hour),
		BcryptCost: envInt("BCRYPT_COST", bcrypt.DefaultCost),
		LogLevel:   strings.ToLower(envStr("LOG_LEVEL", "info")),
		LogFile:    envStr("LOG_FILE", ""),
		AMQPURL:    envStr("AMQP_URL", envStr("RABBITMQ_URL", "")),
		AuditLog:   envStr("AUDIT_LOG", "logs/incidents.log"),
		Redis:      LoadRedisConfig(),
		RateLimit:  LoadRateLimitConfig(),
	}
	if cfg.JWTSecret == "" && !cfg.IsProd() {
		cfg.JWTSecret = devJWTSecret
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsProd reports whether the app runs in production mode.
func (c Config) IsProd() bool {
	return c.Env == "prod" || c.Env == "production"
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var errs []error
	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("invalid APP_PORT %q", c.Port))
	}
	switch c.DBDriver {
	case DriverMySQL:
		if c.DBHost == "" || c.DBName == "" || c.DBUser == "" {
			errs = append(errs, errors.New("DB_HOST, DB_USER and DB_NAME are required for mysql"))
		}
	case DriverSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH is required for sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("missing required env var: JWT_SECRET"))
	} else if c.IsProd() && c.JWTSecret == devJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}
	if c.AccessTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be within [%d, %d]", bcrypt.MinCost, bcrypt.MaxCost))
	}
	return errors.Join(errs...)
}
