package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aleenprd/boligportal-scraper/models"
)

// ReadCSV loads a record file written by CSVWriter. Columns are matched by
// header name, so extra columns are ignored.
func ReadCSV(path string) ([]*models.Listing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	listings, err := readListings(f)
	if err != nil {
		return nil, fmt.Errorf("csv: %s: %w", path, err)
	}
	return listings, nil
}

func readListings(r io.Reader) ([]*models.Listing, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	var missing []string
	for _, col := range Columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}

	var listings []*models.Listing
	for line := 2; ; line++ {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		l, err := (&cellReader{index: index, cells: cells}).listing()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		listings = append(listings, l)
	}
	return listings, nil
}
