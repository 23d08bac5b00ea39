package config

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// Options is the raw key/value content of an options file, kept for
// printing back to the operator.
type Options map[string]interface{}

// Lines renders the options as "KEY: value" lines in key order.
func (o Options) Lines() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %v", k, o[k]))
	}
	return lines
}

// readOptions loads a JSON or YAML options file, decodes it into out and
// checks that every required key is present.
func readOptions(path string, required []string, out interface{}) (Options, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, &ConfigError{Path: path, Err: ErrMissingFile}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	var raw Options
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("parse: %w", err)}
	}
	if len(raw) == 0 {
		return nil, &ConfigError{Path: path, Err: ErrEmptyFile}
	}

	var missing []string
	for _, key := range required {
		if _, ok := raw[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return raw, &ConfigError{Path: path, Missing: missing}
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return raw, &ConfigError{Path: path, Err: fmt.Errorf("decode: %w", err)}
	}
	return raw, nil
}

// StringList accepts a list of scalars of any type and keeps their text.
type StringList []string

func (l *StringList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var items []interface{}
	if err := unmarshal(&items); err != nil {
		return err
	}
	out := make(StringList, 0, len(items))
	for _, item := range items {
		out = append(out, fmt.Sprint(item))
	}
	*l = out
	return nil
}

// Contains reports whether s is in the list.
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// IntList accepts a list of integers, also written as strings ("2100") or
// integral floats.
type IntList []int

func (l *IntList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var items []interface{}
	if err := unmarshal(&items); err != nil {
		return err
	}
	out := make(IntList, 0, len(items))
	for _, item := range items {
		n, err := toInt(item)
		if err != nil {
			return err
		}
		out = append(out, n)
	}
	*l = out
	return nil
}

// Contains reports whether n is in the list.
func (l IntList) Contains(n int) bool {
	for _, v := range l {
		if v == n {
			return true
		}
	}
	return false
}

func toInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return int(n), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%v is not an integer", v)
	}
}
