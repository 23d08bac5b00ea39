package boligportal

import (
	"fmt"
	"sort"
	"strings"
)

// Selectors are the CSS selectors used on search result and detail pages.
// The site ships generated class names, so every one can be overridden from
// the scraper config.
type Selectors struct {
	ResultCard string
	CardLink   string
	Label      string
	Value      string
	Address    string
	Summary    string
}

// DefaultSelectors matches the live site markup.
func DefaultSelectors() Selectors {
	return Selectors{
		ResultCard: "div.css-1e7fg19",
		CardLink:   "a[href]",
		Label:      "span.css-1218edi",
		Value:      "span.css-1e8e3fr",
		Address:    "div.css-1bbi9fj",
		Summary:    "div.css-1oj64sa",
	}
}

// WithOverrides returns a copy of s with the named selectors replaced.
// Names are result_card, card_link, label, value, address and summary.
func (s Selectors) WithOverrides(overrides map[string]string) (Selectors, error) {
	fields := map[string]*string{
		"result_card": &s.ResultCard,
		"card_link":   &s.CardLink,
		"label":       &s.Label,
		"value":       &s.Value,
		"address":     &s.Address,
		"summary":     &s.Summary,
	}

	var unknown []string
	for name, sel := range overrides {
		dst, ok := fields[strings.ToLower(name)]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		if strings.TrimSpace(sel) != "" {
			*dst = sel
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return s, fmt.Errorf("unknown selector names: %s", strings.Join(unknown, ", "))
	}
	return s, nil
}
