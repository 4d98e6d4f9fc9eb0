package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultSessionSecret is used when SESSION_SECRET is not set. It is public and
// must never be relied on outside local development.
const DefaultSessionSecret = "dev-session-secret-change-in-production"

// CallbackPath is the path the identity provider redirects back to.
const CallbackPath = "/auth/google/callback"

var ErrInsecureSecret = errors.New("SESSION_SECRET must be set in production environment")

type Config struct {
	Port      string         `toml:"port"`
	Env       string         `toml:"env"`
	LogLevel  string         `toml:"log_level"`
	LogFormat string         `toml:"log_format"`
	StaticDir string         `toml:"static_dir"`
	BaseURL   string         `toml:"-"`
	Database  DatabaseConfig `toml:"database"`
	Google    GoogleConfig   `toml:"google"`
	Session   SessionConfig  `toml:"session"`

	// TrustProxy takes the client IP from X-Forwarded-For and friends. Only
	// enable it behind a reverse proxy that overwrites those headers.
	TrustProxy bool `toml:"trust_proxy"`

	// InsecureSessionSecret reports that the built-in session secret is in use.
	InsecureSessionSecret bool `toml:"-"`
}

type DatabaseConfig struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

type GoogleConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

type SessionConfig struct {
	Secret string        `toml:"secret"`
	TTL    time.Duration `toml:"-"`
	TTLRaw string        `toml:"ttl"`
}

// Load reads the optional TOML file at path, then applies environment
// overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	var file Config
	if path != "" {
		if _, err := toml.DecodeFile(path, &file); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg := Config{
		Port:      getEnv("PORT", orDefault(file.Port, "5000")),
		Env:       getEnv("ENV", orDefault(file.Env, "development")),
		LogLevel:  getEnv("LOG_LEVEL", orDefault(file.LogLevel, "info")),
		LogFormat: getEnv("LOG_FORMAT", orDefault(file.LogFormat, "text")),
		StaticDir: getEnv("STATIC_DIR", orDefault(file.StaticDir, "./web")),
		Database: DatabaseConfig{
			Driver: getEnv("DATABASE_DRIVER", orDefault(file.Database.Driver, "sqlite")),
			DSN:    getEnv("DATABASE_DSN", orDefault(file.Database.DSN, "./database.sqlite")),
		},
		Google: GoogleConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", file.Google.ClientID),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", file.Google.ClientSecret),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", file.Session.Secret),
			TTLRaw: getEnv("SESSION_TTL", orDefault(file.Session.TTLRaw, "720h")),
		},
	}

	cfg.TrustProxy = file.TrustProxy
	if v := os.Getenv("TRUST_PROXY"); v != "" {
		trust, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TRUST_PROXY %q", v)
		}
		cfg.TrustProxy = trust
	}

	ttl, err := time.ParseDuration(cfg.Session.TTLRaw)
	if err != nil || ttl <= 0 {
		return Config{}, fmt.Errorf("invalid SESSION_TTL %q", cfg.Session.TTLRaw)
	}
	cfg.Session.TTL = ttl

	if cfg.Session.Secret == "" {
		if cfg.IsProduction() {
			return Config{}, ErrInsecureSecret
		}
		cfg.Session.Secret = DefaultSessionSecret
		cfg.InsecureSessionSecret = true
	}

	cfg.BaseURL = ResolveBaseURL(os.Getenv, cfg.Port)

	return cfg, nil
}

// ResolveBaseURL picks the externally reachable base URL: an explicit
// BASE_URL, then a Replit dev domain, then a Vercel deployment URL, then
// localhost on the configured port.
func ResolveBaseURL(lookup func(string) string, port string) string {
	if v := lookup("BASE_URL"); v != "" {
		return strings.TrimRight(v, "/")
	}
	if v := lookup("REPLIT_DEV_DOMAIN"); v != "" {
		return "https://" + v
	}
	if lookup("VERCEL") == "1" {
		if v := lookup("VERCEL_URL"); v != "" {
			return "https://" + v
		}
	}
	return "http://localhost:" + port
}

// OAuthConfigured reports whether both Google credentials are present.
func (c Config) OAuthConfigured() bool {
	return c.Google.ClientID != "" && c.Google.ClientSecret != ""
}

func (c Config) CallbackURL() string {
	return c.BaseURL + CallbackPath
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// SecureCookies reports whether cookies should carry the Secure attribute.
func (c Config) SecureCookies() bool {
	return strings.HasPrefix(c.BaseURL, "https://")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
