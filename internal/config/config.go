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
	App          AppConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Session      SessionConfig
	Form         FormConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	BodyLimitMB           int
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	EventsChannel string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// SessionConfig defines form session token and expiry parameters.
type SessionConfig struct {
	TokenSecret  string
	TTLMinutes   int
	SweepSeconds int
}

// FormConfig tunes the simulated collaborators and action limits.
type FormConfig struct {
	LoadLatencyMS        int
	SubmitLatencyMS      int
	ActionTimeoutSeconds int
	FixturesFile         string
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "helpdesk-request-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			BodyLimitMB:           getEnvAsInt("HTTP_BODY_LIMIT_MB", 60),
		},
		Redis: RedisConfig{
			Addr:          os.Getenv("REDIS_ADDR"),
			Password:      os.Getenv("REDIS_PASSWORD"),
			DB:            redisDB,
			EventsChannel: getEnv("REDIS_EVENTS_CHANNEL", "helpdesk.form.events"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Session: SessionConfig{
			TokenSecret:  getEnv("SESSION_TOKEN_SECRET", "dev-secret"),
			TTLMinutes:   getEnvAsInt("SESSION_TTL_MINUTES", 60),
			SweepSeconds: getEnvAsInt("SESSION_SWEEP_SECONDS", 60),
		},
		Form: FormConfig{
			LoadLatencyMS:        getEnvAsInt("FORM_LOAD_LATENCY_MS", 1500),
			SubmitLatencyMS:      getEnvAsInt("FORM_SUBMIT_LATENCY_MS", 2000),
			ActionTimeoutSeconds: getEnvAsInt("FORM_ACTION_TIMEOUT_SECONDS", 30),
			FixturesFile:         os.Getenv("FORM_FIXTURES_FILE"),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
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

// BodyLimit returns the maximum request body size in bytes.
func (a AppConfig) BodyLimit() int {
	if a.BodyLimitMB <= 0 {
		return 60 << 20
	}
	return a.BodyLimitMB << 20
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// TTL returns the idle lifetime of a form session.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

// SweepInterval returns how often expired sessions are discarded.
func (s SessionConfig) SweepInterval() time.Duration {
	if s.SweepSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(s.SweepSeconds) * time.Second
}

// LoadLatency returns the simulated lookup delay.
func (f FormConfig) LoadLatency() time.Duration {
	return time.Duration(max(f.LoadLatencyMS, 0)) * time.Millisecond
}

// SubmitLatency returns the simulated submission delay.
func (f FormConfig) SubmitLatency() time.Duration {
	return time.Duration(max(f.SubmitLatencyMS, 0)) * time.Millisecond
}

// ActionTimeout bounds a single collaborator call; zero means unbounded.
func (f FormConfig) ActionTimeout() time.Duration {
	if f.ActionTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(f.ActionTimeoutSeconds) * time.Second
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
