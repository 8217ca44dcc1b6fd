// Package config loads the server settings from environment variables.
//
// Every problem found while loading is collected, so a misconfigured
// deployment reports all of its mistakes at once instead of one per restart.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full set of runtime settings.
type Config struct {
	Server  ServerConfig
	DBPath  string
	Auth    AuthConfig
	Edamam  EdamamConfig
	GitHub  GitHubConfig
	Logging LoggingConfig
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port               int
	StaticDir          string
	CORSAllowedOrigins []string
}

// AuthConfig holds the token settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// EdamamConfig holds the external food lookup credentials. Both keys empty
// disables the lookup and search serves the local catalog only.
type EdamamConfig struct {
	AppID   string
	AppKey  string
	BaseURL string
	Timeout time.Duration
}

// GitHubConfig holds the optional OAuth app credentials.
type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// Enabled reports whether GitHub sign-in can be offered.
func (g GitHubConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  slog.Level
	Format string // "text" or "json"
}

const minSecretLen = 16

func getRequiredEnv(key string, errs *[]string) string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		*errs = append(*errs, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

func getOptionalEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getOptionalEnvInt(key string, defaultValue int, errs *[]string) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected integer, got '%s'", key, raw))
		return defaultValue
	}
	return v
}

func getOptionalEnvDuration(key string, defaultValue time.Duration, errs *[]string) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected duration string, got '%s'", key, raw))
		return defaultValue
	}
	return v
}

func parseLevel(raw string, errs *[]string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for LOG_LEVEL: '%s'", raw))
		return slog.LevelInfo
	}
	return level
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var errs []string

	port := getOptionalEnvInt("PORT", 8080, &errs)
	if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("PORT out of range: %d", port))
	}

	secret := getRequiredEnv("JWT_SECRET", &errs)
	if secret != "" && len(secret) < minSecretLen {
		errs = append(errs, fmt.Sprintf("JWT_SECRET must be at least %d characters", minSecretLen))
	}
	ttl := getOptionalEnvDuration("TOKEN_TTL", 24*time.Hour, &errs)
	if ttl <= 0 {
		errs = append(errs, "TOKEN_TTL must be positive")
	}

	format := strings.ToLower(getOptionalEnv("LOG_FORMAT", "text"))
	if format != "text" && format != "json" {
		errs = append(errs, fmt.Sprintf("invalid value for LOG_FORMAT: '%s' (want text or json)", format))
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               port,
			StaticDir:          getOptionalEnv("STATIC_DIR", "public"),
			CORSAllowedOrigins: splitList(getOptionalEnv("CORS_ALLOWED_ORIGINS", "*")),
		},
		DBPath: getOptionalEnv("DB_PATH", "data/vitaltrack.db"),
		Auth: AuthConfig{
			JWTSecret: secret,
			TokenTTL:  ttl,
		},
		Edamam: EdamamConfig{
			AppID:   getOptionalEnv("EDAMAM_APP_ID", ""),
			AppKey:  getOptionalEnv("EDAMAM_APP_KEY", ""),
			BaseURL: getOptionalEnv("EDAMAM_BASE_URL", ""),
			Timeout: getOptionalEnvDuration("EDAMAM_TIMEOUT", 10*time.Second, &errs),
		},
		GitHub: GitHubConfig{
			ClientID:     getOptionalEnv("GITHUB_CLIENT_ID", ""),
			ClientSecret: getOptionalEnv("GITHUB_CLIENT_SECRET", ""),
			CallbackURL:  getOptionalEnv("GITHUB_CALLBACK_URL", fmt.Sprintf("http://localhost:%d/auth/github/callback", port)),
		},
		Logging: LoggingConfig{
			Level:  parseLevel(getOptionalEnv("LOG_LEVEL", "info"), &errs),
			Format: format,
		},
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errs, "\n- "))
	}
	return cfg, nil
}

// NewLogger builds the process logger from the logging settings.
func (c LoggingConfig) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
