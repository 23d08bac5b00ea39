package boligportal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aleenprd/boligportal-scraper/models"
)

const (
	// noiseLabel has no matching value element.
	noiseLabel = "Internet"
	// energyLabel renders its value as an image, not text.
	energyLabel = "Energimærke"
)

// ErrStructureMismatch is wrapped by every StructureMismatchError.
var ErrStructureMismatch = errors.New("page structure mismatch")

// StructureMismatchError reports a detail page whose markup cannot be read
// without guessing.
type StructureMismatchError struct {
	Labels int
	Values int
	Reason string
}

func (e *StructureMismatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%v: %s", ErrStructureMismatch, e.Reason)
	}
	return fmt.Sprintf("%v: %d labels, %d values", ErrStructureMismatch, e.Labels, e.Values)
}

func (e *StructureMismatchError) Unwrap() error { return ErrStructureMismatch }

// Extractor reads the raw attribute table and text blocks of a detail page.
type Extractor struct {
	sel Selectors
}

func NewExtractor(sel Selectors) *Extractor {
	return &Extractor{sel: sel}
}

// Extract returns the label/value pairs plus the address and summary blocks.
func (e *Extractor) Extract(doc *goquery.Document) (*models.RawPage, error) {
	labels := texts(doc.Find(e.sel.Label))
	values := texts(doc.Find(e.sel.Value))

	attrs, err := pairLabels(labels, values)
	if err != nil {
		return nil, err
	}

	// The first address match is the page header.
	address := doc.Find(e.sel.Address).Eq(1)
	if address.Length() == 0 {
		return nil, &StructureMismatchError{Reason: "address block not found"}
	}
	summary := doc.Find(e.sel.Summary).First()
	if summary.Length() == 0 {
		return nil, &StructureMismatchError{Reason: "summary block not found"}
	}

	return &models.RawPage{
		Attributes:   attrs,
		AddressBlock: strings.TrimSpace(address.Text()),
		SummaryBlock: summary.Text(),
	}, nil
}

func texts(sel *goquery.Selection) []string {
	return sel.Map(func(_ int, s *goquery.Selection) string {
		return strings.TrimSpace(s.Text())
	})
}

// pairLabels zips labels with values. The noise label is always dropped;
// the energy label is dropped only when it is the one extra label.
func pairLabels(labels, values []string) (models.RawAttributes, error) {
	labels = without(labels, noiseLabel)

	if len(labels) == len(values)+1 && contains(labels, energyLabel) {
		labels = without(labels, energyLabel)
	}
	if len(labels) != len(values) {
		return nil, &StructureMismatchError{Labels: len(labels), Values: len(values)}
	}

	attrs := make(models.RawAttributes, len(labels))
	for i, label := range labels {
		attrs[label] = values[i]
	}
	return attrs, nil
}

// without removes the first occurrence of s.
func without(list []string, s string) []string {
	for i, v := range list {
		if v == s {
			out := make([]string, 0, len(list)-1)
			out = append(out, list[:i]...)
			return append(out, list[i+1:]...)
		}
	}
	return list
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
