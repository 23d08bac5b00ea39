package services

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aleenprd/boligportal-scraper/models"
	"github.com/aleenprd/boligportal-scraper/utils"
)

// CreationDateLayout is the day.month.year format the site prints.
const CreationDateLayout = "2.1.2006"

// AsSoonAsPossible is the site's "available from" sentinel.
const AsSoonAsPossible = "Snarest muligt"

// DefaultAvailableFromLayouts are tried in order on the translated
// "available from" text.
var DefaultAvailableFromLayouts = []string{
	"2 January 2006",
	"January 2 2006",
	"January 2, 2006",
}

// notNumericRegexp matches everything except digits and decimal points.
var notNumericRegexp = regexp.MustCompile(`[^\d.]`)

// OnlyNumbers drops every character that is not a digit or a decimal point.
func OnlyNumbers(s string) string {
	return notNumericRegexp.ReplaceAllString(s, "")
}

// RemoveThousandsSeparators drops the "." the site uses to group digits.
func RemoveThousandsSeparators(s string) string {
	return strings.ReplaceAll(s, ".", "")
}

// ParseInt reads an integer amount such as "12.500 kr." (12500).
func ParseInt(field, raw string) (int, error) {
	n, err := strconv.Atoi(RemoveThousandsSeparators(OnlyNumbers(raw)))
	if err != nil {
		return 0, &ParseError{Field: field, Value: raw, Err: err}
	}
	return n, nil
}

// ParseFloat reads a decimal value such as "85 m²". The dot is kept as the
// decimal point.
func ParseFloat(field, raw string) (float64, error) {
	f, err := strconv.ParseFloat(OnlyNumbers(raw), 64)
	if err != nil {
		return 0, &ParseError{Field: field, Value: raw, Err: err}
	}
	return f, nil
}

// ParseBinary maps yes/no tokens in Danish or English to 1 or 0. Anything
// else, including an empty string, is 0.
func ParseBinary(raw string) int {
	switch strings.TrimSpace(raw) {
	case "Ja", "Yes":
		return 1
	case "Nej", "No":
		return 0
	default:
		return 0
	}
}

// ParseCreationDate reads the listing creation date.
func ParseCreationDate(raw string) (models.Date, error) {
	t, err := time.Parse(CreationDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return models.Date{}, &ParseError{Field: "creation_date", Value: raw, Err: err}
	}
	return models.NewDate(t), nil
}

// Normalizer converts the translation-dependent fields.
type Normalizer struct {
	translator Translator
	sourceLang string
	targetLang string
	layouts    []string
	logger     *utils.Logger
}

// NewNormalizer creates a Normalizer. Empty layouts means
// DefaultAvailableFromLayouts.
func NewNormalizer(translator Translator, sourceLang, targetLang string, layouts []string, logger *utils.Logger) *Normalizer {
	if len(layouts) == 0 {
		layouts = DefaultAvailableFromLayouts
	}
	return &Normalizer{
		translator: translator,
		sourceLang: sourceLang,
		targetLang: targetLang,
		layouts:    layouts,
		logger:     logger,
	}
}

// Translate translates raw and trims the result.
func (n *Normalizer) Translate(ctx context.Context, field, raw string) (string, error) {
	out, err := n.translator.Translate(ctx, raw, n.sourceLang, n.targetLang)
	if err != nil {
		return "", &TranslationError{Field: field, Err: err}
	}
	return strings.TrimSpace(out), nil
}

// ParseFloor returns the floor number, or the translated floor name when
// the site shows text such as "Stuen".
func (n *Normalizer) ParseFloor(ctx context.Context, raw string) (models.Floor, error) {
	if num, err := ParseInt("floor", raw); err == nil {
		return models.FloorNumber(num), nil
	}

	text, err := n.Translate(ctx, "floor", raw)
	if err != nil {
		return models.Floor{}, err
	}
	return models.FloorText(text), nil
}

// ParseAvailableFrom resolves the move-in date. The sentinel maps to today.
// Text that matches none of the layouts after translation yields nil
// without an error.
func (n *Normalizer) ParseAvailableFrom(ctx context.Context, raw string, today models.Date) (*models.Date, error) {
	if strings.TrimSpace(raw) == AsSoonAsPossible {
		d := today
		return &d, nil
	}

	translated, err := n.Translate(ctx, "available_from", raw)
	if err != nil {
		return nil, err
	}
	cleaned := strings.Join(strings.Fields(RemoveThousandsSeparators(translated)), " ")

	for _, layout := range n.layouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			d := models.NewDate(t)
			return &d, nil
		}
	}

	if n.logger != nil {
		n.logger.Warn("[normalizer] available_from %q (translated %q) matches no date layout", raw, translated)
	}
	return nil, nil
}
