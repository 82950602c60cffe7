// Package config assembles process configuration from the environment.
// Everything is resolved once at startup and handed to constructors; nothing
// reads the environment after Load returns.
package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

// Config holds every knob the process needs.
type Config struct {
	Addr          string
	DatabaseURL   string
	SessionSecret string
	CORSOrigin    string
	UploadDir     string
	// TokenTTL bounds session validity. Zero disables the expiry claim and
	// restores session-until-logout behavior.
	TokenTTL time.Duration

	OIDC OIDC
}

// OIDC configures the optional SSO login. SSO routes stay disabled unless
// Issuer, ClientID and ClientSecret are all set.
type OIDC struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Enabled reports whether enough OIDC settings are present to run SSO.
func (o OIDC) Enabled() bool {
	return o.Issuer != "" && o.ClientID != "" && o.ClientSecret != ""
}

// Load reads configuration from the environment. The connection string may
// contain the literal placeholder `<password>`, substituted from
// DATABASE_PASSWORD so the secret can be injected separately.
func Load() (Config, error) {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if pw := os.Getenv("DATABASE_PASSWORD"); pw != "" {
		connStr = strings.ReplaceAll(connStr, "<password>", pw)
	}

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		return Config{}, errors.New("SESSION_SECRET is required")
	}

	cfg := Config{
		Addr:          envString("ADDR", ":8080"),
		DatabaseURL:   connStr,
		SessionSecret: secret,
		CORSOrigin:    envString("CORS_ORIGIN", "http://localhost:5173"),
		UploadDir:     envString("UPLOAD_DIR", "uploads"),
		TokenTTL:      envDuration("TOKEN_TTL", 24*time.Hour),
		OIDC: OIDC{
			Issuer:       os.Getenv("OIDC_ISSUER"),
			ClientID:     os.Getenv("OIDC_CLIENT_ID"),
			ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("OIDC_REDIRECT_URL"),
		},
	}
	return cfg, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
