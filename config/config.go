package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AsOfLayout is the accepted format of ANALYTICS_AS_OF.
const AsOfLayout = "2006-01-02"

// Config holds application configuration read from the environment.
type Config struct {
	DatabaseURL     string        `env:"DATABASE_URL,required,notEmpty"`
	DBMaxConns      int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMaxLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"30m"`
	Address         string        `env:"ADDRESS" envDefault:":3000"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Empty JWTSecret leaves the merchant routes open.
	JWTSecret     string        `env:"JWT_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	AccessKeyHash string        `env:"ACCESS_KEY_HASH"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-pro"`

	// AnalyticsAsOf pins "now" for every window, e.g. for a historical dataset.
	AnalyticsAsOf string `env:"ANALYTICS_AS_OF"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogFile   string `env:"LOG_FILE"`

	CORSOrigins     string        `env:"CORS_ORIGINS" envDefault:"*"`
	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"100"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`

	asOf time.Time
}

// Load reads an optional .env file and parses the environment. It reports
// whether a .env file was found so the caller can log it once logging is up.
func Load(files ...string) (*Config, bool, error) {
	loaded := godotenv.Load(files...) == nil

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, loaded, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, loaded, err
	}
	return cfg, loaded, nil
}

func (c *Config) normalize() error {
	if raw := strings.TrimSpace(c.AnalyticsAsOf); raw != "" {
		t, err := time.ParseInLocation(AsOfLayout, raw, time.UTC)
		if err != nil {
			return fmt.Errorf("ANALYTICS_AS_OF must be YYYY-MM-DD: %w", err)
		}
		c.asOf = t
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if c.RateLimitMax < 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must not be negative")
	}
	return nil
}

// Now returns the reference time for analytics windows: the pinned date when
// ANALYTICS_AS_OF is set, the wall clock otherwise.
func (c *Config) Now() time.Time {
	if !c.asOf.IsZero() {
		return c.asOf
	}
	return time.Now().UTC()
}

// AuthEnabled reports whether merchant routes require a session token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// AssistantEnabled reports whether the Gemini narration endpoint is live.
func (c *Config) AssistantEnabled() bool {
	return c.GeminiAPIKey != ""
}
