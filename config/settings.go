package config

import (
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Settings holds runtime settings loaded from the environment (and an
// optional .env file). Search and filter criteria live in the option files.
type Settings struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Fetcher selects how pages are retrieved: "http" or "browser".
	Fetcher           string `env:"FETCHER" envDefault:"http"`
	ChromeBin         string `env:"CHROME_BIN"`
	UserAgent         string `env:"USER_AGENT" envDefault:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"`
	RequestTimeoutSec int    `env:"REQUEST_TIMEOUT_SEC" envDefault:"60"`
	RateLimitMs       int    `env:"RATE_LIMIT_MS" envDefault:"0"`
	MaxRetries        int    `env:"MAX_RETRIES" envDefault:"1"`

	TranslateURL    string `env:"TRANSLATE_URL"`
	TranslateAPIKey string `env:"TRANSLATE_API_KEY"`
	SourceLang      string `env:"SOURCE_LANG" envDefault:"da"`
	TargetLang      string `env:"TARGET_LANG" envDefault:"en"`

	// PostgresDSN enables the Postgres mirror of scrape output when set.
	PostgresDSN string `env:"POSTGRES_DSN"`

	DotEnvLoaded bool
}

// LoadSettings reads the .env file, if any, and parses the environment.
func LoadSettings() (*Settings, error) {
	loaded := godotenv.Load() == nil

	s := &Settings{}
	if err := env.Parse(s); err != nil {
		return nil, &ConfigError{Path: ".env", Err: err}
	}
	s.DotEnvLoaded = loaded
	return s, nil
}

// IsProduction reports whether logs should be machine readable.
func (s *Settings) IsProduction() bool {
	return s.Environment == "production"
}

// RequestTimeout is the per-request deadline for page fetches.
func (s *Settings) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSec) * time.Second
}

// RateLimit is the minimum spacing between page fetches.
func (s *Settings) RateLimit() time.Duration {
	return time.Duration(s.RateLimitMs) * time.Millisecond
}
