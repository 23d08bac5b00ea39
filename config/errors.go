package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingFile = errors.New("missing or wrongly named options file")
	ErrEmptyFile   = errors.New("empty options file")
)

// ConfigError reports a configuration problem. Missing and Invalid list
// every offending key so the user can fix the file in one go.
type ConfigError struct {
	Path    string
	Missing []string
	Invalid []string
	Err     error
}

func (e *ConfigError) Error() string {
	var parts []string
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	if len(e.Missing) > 0 {
		parts = append(parts, "missing keys: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid values: "+strings.Join(e.Invalid, "; "))
	}
	return fmt.Sprintf("config %s: %s", e.Path, strings.Join(parts, "; "))
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
