package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleenprd/boligportal-scraper/models"
)

func fixedClock() time.Time {
	return time.Date(2024, time.May, 10, 14, 30, 0, 0, time.UTC)
}

func samplePage() *models.RawPage {
	return &models.RawPage{
		Attributes: models.RawAttributes{
			LabelHousingType:    "Lejlighed",
			LabelSize:           "85 m²",
			LabelRooms:          "3",
			LabelFloor:          "2.",
			LabelFurnished:      "Nej",
			LabelShareable:      "Ja",
			LabelPetsAllowed:    "Nej",
			LabelElevator:       "Ja",
			LabelStudentsOnly:   "Nej",
			LabelBalcony:        "Ja",
			LabelParking:        "Nej",
			LabelRentalPeriod:   "Ubegrænset",
			LabelAvailableFrom:  "1. juni 2024",
			LabelMonthlyRent:    "12.500 kr.",
			LabelAconto:         "800 kr.",
			LabelDeposit:        "37.500 kr.",
			LabelPrepaidRent:    "12.500 kr.",
			LabelOccupancyPrice: "62.500 kr.",
			LabelCreationDate:   "02.05.2024",
		},
		AddressBlock: "Main St, 2100 - Østerbro, Copenhagen",
		SummaryBlock: "Lys lejlighed\n\tmed altan",
	}
}

func newTestAssembler(tr Translator) *Assembler {
	return NewAssembler(NewNormalizer(tr, "da", "en", nil, quietLogger()), quietLogger(), fixedClock)
}

func englishTranslator() *dictTranslator {
	return &dictTranslator{words: map[string]string{
		"Lejlighed":              "Apartment",
		"Ubegrænset":             "Unlimited",
		"1. juni 2024":           "1. June 2024",
		"Lys lejlighedmed altan": "Bright apartment with balcony",
	}}
}

func TestAssemble(t *testing.T) {
	l, err := newTestAssembler(englishTranslator()).Assemble(context.Background(), "https://www.boligportal.dk/a/1", samplePage())
	require.NoError(t, err)

	assert.Equal(t, "https://www.boligportal.dk/a/1", l.URL)
	assert.Equal(t, day(2024, time.May, 2), l.CreationDate)
	assert.Equal(t, day(2024, time.May, 10), l.ScrapedDate)
	require.NotNil(t, l.AvailableFrom)
	assert.Equal(t, day(2024, time.June, 1), *l.AvailableFrom)

	assert.Equal(t, "Main St, 2100 - Østerbro, Copenhagen", l.FullAddress)
	assert.Equal(t, "Main St", l.Street)
	assert.Equal(t, "2100", l.ZipCode)
	assert.Equal(t, "Østerbro", l.District)

	assert.Equal(t, "Apartment", l.HousingType)
	assert.Equal(t, "Unlimited", l.RentalPeriod)
	assert.Equal(t, "Bright apartment with balcony", l.Summary)
	assert.Equal(t, 85.0, l.Size)
	assert.Equal(t, 3, l.NumberOfRooms)
	assert.Equal(t, "2", l.Floor.String())

	assert.Equal(t, 12500, l.MonthlyRent)
	assert.Equal(t, 800, l.Aconto)
	assert.Equal(t, 37500, l.Deposit)
	assert.Equal(t, 12500, l.PrepaidRent)
	assert.Equal(t, 62500, l.OccupancyPrice)
	assert.Equal(t, 13300, l.TotalMonthlyCost)
	assert.Equal(t, 3, l.MonthsOfDeposit)
	assert.Equal(t, 1, l.MonthsOfPrepaidRent)

	assert.Equal(t, 0, l.IsFurnished)
	assert.Equal(t, 1, l.IsShareable)
	assert.Equal(t, 1, l.HasElevator)
	assert.Equal(t, 1, l.HasBalcony)
	assert.Equal(t, 0, l.HasParking)
}

func TestAssembleDerivedCostsFloorDivide(t *testing.T) {
	page := samplePage()
	page.Attributes[LabelMonthlyRent] = "10.000 kr."
	page.Attributes[LabelAconto] = "0 kr."
	page.Attributes[LabelDeposit] = "29.999 kr."
	page.Attributes[LabelPrepaidRent] = "9.999 kr."

	l, err := newTestAssembler(englishTranslator()).Assemble(context.Background(), "u", page)
	require.NoError(t, err)
	assert.Equal(t, l.MonthlyRent+l.Aconto, l.TotalMonthlyCost)
	assert.Equal(t, 2, l.MonthsOfDeposit)
	assert.Equal(t, 0, l.MonthsOfPrepaidRent)
}

func TestAssembleMissingLabelsUseDefaults(t *testing.T) {
	page := &models.RawPage{
		Attributes: models.RawAttributes{
			LabelMonthlyRent:  "9.000 kr.",
			LabelCreationDate: "01.05.2024",
		},
		AddressBlock: "Nørrebrogade 1, 2200 København N",
	}

	l, err := newTestAssembler(NoopTranslator{}).Assemble(context.Background(), "u", page)
	require.NoError(t, err)
	assert.Equal(t, 0, l.Aconto)
	assert.Equal(t, 0.0, l.Size)
	assert.Equal(t, 0, l.NumberOfRooms)
	assert.Equal(t, "0", l.Floor.String())
	assert.Equal(t, 0, l.IsFurnished)
	assert.Equal(t, "", l.HousingType)
	assert.Nil(t, l.AvailableFrom)
	assert.Equal(t, "2200", l.ZipCode)
	assert.Equal(t, "København N", l.District)
}

func TestAssembleZeroRentIsDivisionUndefined(t *testing.T) {
	page := samplePage()
	page.Attributes[LabelMonthlyRent] = "0 kr."

	_, err := newTestAssembler(englishTranslator()).Assemble(context.Background(), "u", page)
	assert.ErrorIs(t, err, ErrDivisionUndefined)
}

func TestAssembleTranslationFailureDropsRecord(t *testing.T) {
	_, err := newTestAssembler(&dictTranslator{err: errors.New("quota exceeded")}).
		Assemble(context.Background(), "u", samplePage())

	var trErr *TranslationError
	require.True(t, errors.As(err, &trErr))
}

func TestAssembleBadCreationDate(t *testing.T) {
	page := samplePage()
	page.Attributes[LabelCreationDate] = "i går"

	_, err := newTestAssembler(englishTranslator()).Assemble(context.Background(), "u", page)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "creation_date", parseErr.Field)
}

func TestSplitAddress(t *testing.T) {
	cases := []struct {
		block                  string
		street, zip, district string
	}{
		{"Main St, 2100 - Østerbro, Copenhagen", "Main St", "2100", "Østerbro"},
		{"Main St, 2100 - Østerbro", "Main St", "2100", "Østerbro"},
		{"Jagtvej 10, 2200, København N - Nørrebro", "Jagtvej 10", "2200", "København N"},
		{"Vesterbrogade 5, 1620 København V", "Vesterbrogade 5", "1620", "København V"},
		{"A, 8000 Aarhus C, Region, Extra", "A", "8000", "Aarhus C"},
	}
	for _, c := range cases {
		street, zip, district, err := SplitAddress(c.block)
		require.NoError(t, err, c.block)
		assert.Equal(t, c.street, street, c.block)
		assert.Equal(t, c.zip, zip, c.block)
		assert.Equal(t, c.district, district, c.block)
	}
}

func TestSplitAddressRejectsSinglePart(t *testing.T) {
	_, _, _, err := SplitAddress("Somewhere without commas")
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "full_address", parseErr.Field)
}
