package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Mongo    MongoConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Upstream UpstreamConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Host                  string
	Port                  string
	AllowCORS             bool
	RequestTimeoutSeconds int
}

// MongoConfig holds the store connection URL. The URL path carries the
// database and collection names: mongodb://host/db/collection.
type MongoConfig struct {
	URL string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	M2MToken           string
	SecretToken        string
	MaxTokenTTLSeconds int
}

// UpstreamConfig points at the catalog service.
type UpstreamConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// Load reads configuration from environment variables. All connection and
// credential values are required; Load fails naming the first missing one.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			AllowCORS:             getEnvAsBool("ALLOW_CORS", false),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			MaxTokenTTLSeconds: getEnvAsInt("TOKEN_MAX_TTL_SECONDS", 86400),
		},
		Upstream: UpstreamConfig{
			TimeoutSeconds: getEnvAsInt("UPSTREAM_TIMEOUT_SECONDS", 10),
		},
	}

	required := []struct {
		key    string
		target *string
	}{
		{"MONGODB", &cfg.Mongo.URL},
		{"HOST", &cfg.App.Host},
		{"PORT", &cfg.App.Port},
		{"M2M_TOKEN", &cfg.Auth.M2MToken},
		{"SECRET_TOKEN", &cfg.Auth.SecretToken},
		{"UPSTREAM_URL", &cfg.Upstream.BaseURL},
	}
	for _, entry := range required {
		val := os.Getenv(entry.key)
		if val == "" {
			return nil, fmt.Errorf("missing required environment variable %s", entry.key)
		}
		*entry.target = val
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// MaxTokenTTL returns the upper bound for caller-requested lifetimes.
func (a AuthConfig) MaxTokenTTL() time.Duration {
	return time.Duration(a.MaxTokenTTLSeconds) * time.Second
}

// Timeout returns the upstream request timeout.
func (u UpstreamConfig) Timeout() time.Duration {
	return time.Duration(u.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
