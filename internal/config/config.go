// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MinReleaseSecretLen is the shortest JWT secret accepted in release mode
const MinReleaseSecretLen = 32

// Config holds all configuration for the service
type Config struct {
	DatabaseURL        string
	JWTSecret          string
	JWTExpiry          time.Duration
	Port               string
	BcryptCost         int
	StoreTimeout       time.Duration
	PublicBaseURL      string
	CORSOrigins        []string
	TrustedProxies     []string
	LoginRatePerMinute int
	GinMode            string
}

// LoadEnvFiles loads configs/.env and .env when present. Variables already set win.
func LoadEnvFiles() {
	for _, f := range []string{"configs/.env", ".env"} {
		if err := godotenv.Load(f); err == nil {
			log.Printf("Loaded environment from %s", f)
		}
	}
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		DatabaseURL:        get("DATABASE_URL", ""),
		JWTSecret:          getenv("JWT_SECRET"),
		JWTExpiry:          parseDuration(get("JWT_EXPIRY", "168h"), 168*time.Hour),
		Port:               get("PORT", "3000"),
		BcryptCost:         parseInt(get("BCRYPT_COST", "10"), 10),
		StoreTimeout:       parseDuration(get("STORE_TIMEOUT", "5s"), 5*time.Second),
		PublicBaseURL:      strings.TrimRight(get("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
		CORSOrigins:        splitList(get("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),
		TrustedProxies:     splitList(get("TRUSTED_PROXIES", "")),
		LoginRatePerMinute: parseInt(get("LOGIN_RATE_PER_MINUTE", "10"), 10),
		GinMode:            get("GIN_MODE", "debug"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = postgresDSN(
			get("DB_HOST", "localhost"),
			get("DB_PORT", "5432"),
			get("DB_USER", "postgres"),
			get("DB_PASSWORD", "postgres"),
			get("DB_NAME", "postgres"),
			get("DB_SSLMODE", "disable"),
		)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.GinMode == "release" && len(c.JWTSecret) < MinReleaseSecretLen {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes in release mode", MinReleaseSecretLen)
	}
	if c.JWTExpiry <= 0 {
		return errors.New("JWT_EXPIRY must be positive")
	}
	if c.StoreTimeout <= 0 {
		return errors.New("STORE_TIMEOUT must be positive")
	}
	if _, err := url.ParseRequestURI(c.PublicBaseURL); err != nil {
		return fmt.Errorf("PUBLIC_BASE_URL is not a valid URL: %w", err)
	}
	for _, p := range c.TrustedProxies {
		if net.ParseIP(p) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(p); err != nil {
			return fmt.Errorf("TRUSTED_PROXIES entry %q is neither an IP nor a CIDR", p)
		}
	}
	return nil
}

func postgresDSN(host, port, user, password, name, sslmode string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     host + ":" + port,
		Path:     "/" + name,
		RawQuery: "sslmode=" + url.QueryEscape(sslmode),
	}
	return u.String()
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func parseInt(value string, defaultValue int) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
