package config

import (
	"fmt"
	"net/url"
)

// ScraperConfig holds the options of a scrape run.
type ScraperConfig struct {
	MainURL      string `yaml:"MAIN_URL"`
	ResultsPages int    `yaml:"RESULTS_PAGES"`
	OutputPath   string `yaml:"OUTPUT_PATH"`

	// AvailableFromLayouts overrides the Go time layouts tried, in order,
	// on the translated "available from" text.
	AvailableFromLayouts StringList `yaml:"AVAILABLE_FROM_LAYOUTS"`
	// Selectors overrides individual CSS selectors by name.
	Selectors map[string]string `yaml:"SELECTORS"`

	Options Options `yaml:"-"`
}

var scraperRequiredKeys = []string{"MAIN_URL", "RESULTS_PAGES", "OUTPUT_PATH"}

// LoadScraperConfig reads and validates the scraper options file.
func LoadScraperConfig(path string) (*ScraperConfig, error) {
	cfg := &ScraperConfig{}
	raw, err := readOptions(path, scraperRequiredKeys, cfg)
	if err != nil {
		return nil, err
	}
	cfg.Options = raw

	var invalid []string
	if u, err := url.Parse(cfg.MainURL); err != nil || u.Scheme == "" || u.Host == "" {
		invalid = append(invalid, fmt.Sprintf("MAIN_URL %q is not an absolute URL", cfg.MainURL))
	}
	if cfg.ResultsPages < 1 {
		invalid = append(invalid, fmt.Sprintf("RESULTS_PAGES must be at least 1, got %d", cfg.ResultsPages))
	}
	if cfg.OutputPath == "" {
		invalid = append(invalid, "OUTPUT_PATH is empty")
	}
	if len(invalid) > 0 {
		return nil, &ConfigError{Path: path, Invalid: invalid}
	}

	return cfg, nil
}
