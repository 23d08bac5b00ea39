package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleenprd/boligportal-scraper/models"
)

func reportListings() []*models.Listing {
	a := listing("https://www.boligportal.dk/a", "2100")
	a.TotalMonthlyCost = 12000
	b := listing("https://www.boligportal.dk/b", "2200")
	b.District = "Nørrebro"
	b.TotalMonthlyCost = 9500
	c := listing("https://www.boligportal.dk/c", "2100")
	c.TotalMonthlyCost = 14001
	return []*models.Listing{a, b, c}
}

func TestReportCounts(t *testing.T) {
	r := NewReportService(quietLogger()).Generate(5, reportListings())

	assert.Equal(t, 5, r.LinksFound)
	assert.Equal(t, 3, r.Assembled)
	assert.Equal(t, 2, r.Dropped)
	assert.Equal(t, map[string]int{"Østerbro": 2, "Nørrebro": 1}, r.ListingsByDistrict)
}

func TestReportMonthlyCost(t *testing.T) {
	r := NewReportService(quietLogger()).Generate(3, reportListings())

	assert.Equal(t, 11833.67, r.AverageMonthlyCost)
	require.NotNil(t, r.CheapestMonthlyCost)
	assert.Equal(t, "https://www.boligportal.dk/b", r.CheapestMonthlyCost.URL)
}

func TestReportEmpty(t *testing.T) {
	svc := NewReportService(quietLogger())
	r := svc.Generate(4, nil)

	assert.Equal(t, 4, r.Dropped)
	assert.Nil(t, r.CheapestMonthlyCost)
	assert.Zero(t, r.AverageMonthlyCost)

	var buf bytes.Buffer
	svc.Print(&buf, r)
	assert.Contains(t, buf.String(), "No listings assembled")
	assert.Contains(t, buf.String(), "No district data")
}

func TestReportPrint(t *testing.T) {
	svc := NewReportService(quietLogger())
	var buf bytes.Buffer
	svc.Print(&buf, svc.Generate(3, reportListings()))

	out := buf.String()
	assert.Contains(t, out, "Listings assembled : 3")
	assert.Contains(t, out, "Average  : 11833.67 kr.")
	assert.Contains(t, out, "Cheapest : 9500 kr.")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Østerbro")), bytes.Index(buf.Bytes(), []byte("Nørrebro")))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Vesterb...", truncate("Vesterbrogade 123", 10))
	assert.Equal(t, "Ørestads...", truncate("Ørestads Boulevard", 11))
}
