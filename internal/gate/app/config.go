package app

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spectrelabs/authgate/pkg/jwtx"
)

// ErrMissingSecretKey is fatal at startup in a production posture. We
// never fall back to a generated key outside dev.
var ErrMissingSecretKey = errors.New("app: AUTH_SECRET_KEY is required in production")

// ErrInvalidTokenExpiry rejects a zero or negative
// AUTH_TOKEN_EXPIRY_HOURS at startup instead of issuing dead tokens.
var ErrInvalidTokenExpiry = errors.New("app: AUTH_TOKEN_EXPIRY_HOURS must be a positive number of hours")

type Config struct {
	SecretKey   []byte        // Required in prod: HMAC signing key (>= 32 bytes recommended)
	Issuer      string        // Issuer claim embedded in tokens (default: authgate)
	TokenExpiry time.Duration // Token lifetime (default: 24h)
	RequireAuth bool          // Reject tokenless requests on non-public paths (default: false)
	PublicPaths []string      // Path prefixes reachable without a token

	DatabaseFile string // Optional: SQLite file for persistent revocations (empty = in-memory)
	SeedUsers    string // Optional: demo credential seed "user:pass:role1|role2,..."

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	SweepInterval       time.Duration // Revocation sweep interval (default: 1h)

	// GeneratedKey marks a dev-only random key, logged loudly so
	// nobody ships it by accident.
	GeneratedKey bool
}

// Logout is public so an expired token can still be presented and
// revoked; the handler does its own missing/malformed gating.
var defaultPublicPaths = []string{
	"/health",
	"/livez",
	"/readyz",
	"/api/auth/login",
	"/api/auth/logout",
	"/api/auth/refresh",
}

func LoadConfig() (Config, error) {
	cfg := Config{
		Issuer:              getEnvOrDefault("AUTH_ISSUER", "authgate"),
		RequireAuth:         getEnvBoolOrDefault("AUTH_REQUIRE_AUTH", false),
		DatabaseFile:        os.Getenv("AUTH_DATABASE_FILE"),
		SeedUsers:           os.Getenv("AUTH_SEED_USERS"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		SweepInterval:       getEnvDurationOrDefault("SWEEP_INTERVAL", time.Hour),
	}

	expiryHours := getEnvIntOrDefault("AUTH_TOKEN_EXPIRY_HOURS", 24)
	if expiryHours <= 0 {
		return Config{}, ErrInvalidTokenExpiry
	}
	cfg.TokenExpiry = time.Duration(expiryHours) * time.Hour

	if paths := os.Getenv("AUTH_PUBLIC_PATHS"); paths != "" {
		for _, p := range strings.Split(paths, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.PublicPaths = append(cfg.PublicPaths, p)
			}
		}
	} else {
		cfg.PublicPaths = defaultPublicPaths
	}

	key := os.Getenv("AUTH_SECRET_KEY")
	switch {
	case key != "":
		cfg.SecretKey = []byte(key)
	case cfg.Env == "prod":
		return Config{}, ErrMissingSecretKey
	default:
		// Dev convenience only: tokens won't survive a restart.
		generated := make([]byte, jwtx.RecommendedKeyBytes)
		if _, err := rand.Read(generated); err != nil {
			return Config{}, err
		}
		cfg.SecretKey = []byte(base64.RawURLEncoding.EncodeToString(generated))
		cfg.GeneratedKey = true
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}
