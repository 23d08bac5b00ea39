package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/aleenprd/boligportal-scraper/models"
)

// FilteredSheet is the sheet holding the filter result.
const FilteredSheet = "Filtered Data"

// XLSXWriter writes filter results to a spreadsheet.
type XLSXWriter struct{}

// WriteShortlist writes one sheet whose first column is the position of
// each listing in the filter input.
func (XLSXWriter) WriteShortlist(path string, shortlist []models.Shortlisted) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("xlsx: create output dir: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("xlsx: close: %w", cerr)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), FilteredSheet); err != nil {
		return fmt.Errorf("xlsx: name sheet: %w", err)
	}

	header := make([]interface{}, 0, len(Columns)+1)
	header = append(header, "")
	for _, c := range Columns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(FilteredSheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: write header: %w", err)
	}

	for i, s := range shortlist {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx: row %d: %w", i+2, err)
		}
		r := append([]interface{}{s.Position}, values(s.Listing)...)
		if err := f.SetSheetRow(FilteredSheet, cell, &r); err != nil {
			return fmt.Errorf("xlsx: write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", path, err)
	}
	return nil
}
