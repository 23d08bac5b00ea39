package services

import (
	"context"
	"strings"
	"time"

	"github.com/aleenprd/boligportal-scraper/models"
	"github.com/aleenprd/boligportal-scraper/utils"
)

// Detail page labels.
const (
	LabelHousingType    = "Boligtype"
	LabelSize           = "Størrelse"
	LabelRooms          = "Værelser"
	LabelFloor          = "Etage"
	LabelFurnished      = "Møbleret"
	LabelShareable      = "Delevenlig"
	LabelPetsAllowed    = "Husdyr tilladt"
	LabelElevator       = "Elevator"
	LabelStudentsOnly   = "Kun for studerende"
	LabelBalcony        = "Balkon/altan"
	LabelParking        = "Parkering"
	LabelRentalPeriod   = "Lejeperiode"
	LabelAvailableFrom  = "Ledig fra"
	LabelMonthlyRent    = "Månedlig leje"
	LabelAconto         = "Aconto"
	LabelDeposit        = "Depositum"
	LabelPrepaidRent    = "Forudbetalt husleje"
	LabelOccupancyPrice = "Indflytningspris"
	LabelCreationDate   = "Oprettelsesdato"
)

const (
	defaultNumber = "0"
	defaultFlag   = "Nej"
)

// Assembler turns one detail page into a Listing.
type Assembler struct {
	normalizer *Normalizer
	logger     *utils.Logger
	now        func() time.Time
}

// NewAssembler creates an Assembler. now may be nil, meaning time.Now.
func NewAssembler(normalizer *Normalizer, logger *utils.Logger, now func() time.Time) *Assembler {
	if now == nil {
		now = time.Now
	}
	return &Assembler{normalizer: normalizer, logger: logger, now: now}
}

// Assemble builds the Listing for url from its raw page. Any error means the
// record must be dropped.
func (a *Assembler) Assemble(ctx context.Context, url string, page *models.RawPage) (*models.Listing, error) {
	attrs := page.Attributes
	today := models.NewDate(a.now())

	l := &models.Listing{
		URL:         url,
		ScrapedDate: today,
		FullAddress: page.AddressBlock,
	}

	var err error
	ints := []struct {
		field string
		label string
		dst   *int
	}{
		{"number_of_rooms", LabelRooms, &l.NumberOfRooms},
		{"monthly_rent", LabelMonthlyRent, &l.MonthlyRent},
		{"aconto", LabelAconto, &l.Aconto},
		{"deposit", LabelDeposit, &l.Deposit},
		{"prepaid_rent", LabelPrepaidRent, &l.PrepaidRent},
		{"occupancy_price", LabelOccupancyPrice, &l.OccupancyPrice},
	}
	for _, f := range ints {
		if *f.dst, err = ParseInt(f.field, attrs.Get(f.label, defaultNumber)); err != nil {
			return nil, err
		}
	}

	if l.Size, err = ParseFloat("size", attrs.Get(LabelSize, defaultNumber)); err != nil {
		return nil, err
	}
	if l.Floor, err = a.normalizer.ParseFloor(ctx, attrs.Get(LabelFloor, defaultNumber)); err != nil {
		return nil, err
	}

	l.IsFurnished = ParseBinary(attrs.Get(LabelFurnished, defaultFlag))
	l.IsShareable = ParseBinary(attrs.Get(LabelShareable, defaultFlag))
	l.PetsAllowed = ParseBinary(attrs.Get(LabelPetsAllowed, defaultFlag))
	l.HasElevator = ParseBinary(attrs.Get(LabelElevator, defaultFlag))
	l.StudentsOnly = ParseBinary(attrs.Get(LabelStudentsOnly, defaultFlag))
	l.HasBalcony = ParseBinary(attrs.Get(LabelBalcony, defaultFlag))
	l.HasParking = ParseBinary(attrs.Get(LabelParking, defaultFlag))

	if l.Street, l.ZipCode, l.District, err = SplitAddress(page.AddressBlock); err != nil {
		return nil, err
	}

	if l.CreationDate, err = ParseCreationDate(attrs.Get(LabelCreationDate, "")); err != nil {
		return nil, err
	}
	if l.AvailableFrom, err = a.normalizer.ParseAvailableFrom(ctx, attrs.Get(LabelAvailableFrom, ""), today); err != nil {
		return nil, err
	}

	if l.HousingType, err = a.normalizer.Translate(ctx, "housing_type", attrs.Get(LabelHousingType, "")); err != nil {
		return nil, err
	}
	if l.RentalPeriod, err = a.normalizer.Translate(ctx, "rental_period", attrs.Get(LabelRentalPeriod, "")); err != nil {
		return nil, err
	}
	if l.Summary, err = a.normalizer.Translate(ctx, "summary", cleanSummary(page.SummaryBlock)); err != nil {
		return nil, err
	}

	if err := deriveCosts(l); err != nil {
		return nil, err
	}
	return l, nil
}

// deriveCosts fills the computed financial fields.
func deriveCosts(l *models.Listing) error {
	l.TotalMonthlyCost = l.MonthlyRent + l.Aconto
	if l.MonthlyRent == 0 {
		return ErrDivisionUndefined
	}
	l.MonthsOfPrepaidRent = l.PrepaidRent / l.MonthlyRent
	l.MonthsOfDeposit = l.Deposit / l.MonthlyRent
	return nil
}

func cleanSummary(s string) string {
	return strings.NewReplacer("\n", "", "\t", "").Replace(s)
}

// SplitAddress breaks "street, zip - district[, region]" into its parts.
// The district comes from the zip-district part; the region is only used
// when that part carries no district name.
func SplitAddress(block string) (street, zip, district string, err error) {
	parts := strings.Split(block, ",")
	if len(parts) < 2 {
		return "", "", "", &ParseError{Field: "full_address", Value: block}
	}

	street = strings.TrimSpace(parts[0])
	zipDistrict := parts[1]

	zip = OnlyNumbers(strings.SplitN(zipDistrict, "-", 2)[0])
	zip = strings.ReplaceAll(zip, ".", "")
	if zip == "" {
		return "", "", "", &ParseError{Field: "zip_code", Value: block}
	}

	district = strings.Trim(strings.Replace(zipDistrict, zip, "", 1), " -\t")
	if district == "" && len(parts) == 3 {
		district = strings.TrimSpace(strings.SplitN(parts[2], "-", 2)[0])
	}
	return street, zip, district, nil
}
