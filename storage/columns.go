package storage

import (
	"fmt"
	"strconv"

	"github.com/aleenprd/boligportal-scraper/models"
)

// Columns is the record file header, in order.
var Columns = []string{
	"url", "creation_date", "scraped_date", "full_address", "street", "zip_code", "district",
	"housing_type", "size", "number_of_rooms", "floor", "rental_period", "available_from", "summary",
	"monthly_rent", "aconto", "deposit", "prepaid_rent", "occupancy_price",
	"total_monthly_cost", "months_of_prepaid_rent", "months_of_deposit",
	"is_furnished", "is_shareable", "pets_allowed", "has_elevator", "students_only", "has_balcony", "has_parking",
}

// values returns the cells of l in Columns order. Dates are MM/DD/YYYY and
// a missing available_from is an empty string.
func values(l *models.Listing) []interface{} {
	var availableFrom string
	if l.AvailableFrom != nil {
		availableFrom = l.AvailableFrom.String()
	}

	var floor interface{} = l.Floor.String()
	if n, ok := l.Floor.Number(); ok {
		floor = n
	}

	return []interface{}{
		l.URL, l.CreationDate.String(), l.ScrapedDate.String(), l.FullAddress, l.Street, l.ZipCode, l.District,
		l.HousingType, l.Size, l.NumberOfRooms, floor, l.RentalPeriod, availableFrom, l.Summary,
		l.MonthlyRent, l.Aconto, l.Deposit, l.PrepaidRent, l.OccupancyPrice,
		l.TotalMonthlyCost, l.MonthsOfPrepaidRent, l.MonthsOfDeposit,
		l.IsFurnished, l.IsShareable, l.PetsAllowed, l.HasElevator, l.StudentsOnly, l.HasBalcony, l.HasParking,
	}
}

// row is values rendered as strings.
func row(l *models.Listing) []string {
	vals := values(l)
	out := make([]string, len(vals))
	for i, v := range vals {
		switch v := v.(type) {
		case string:
			out[i] = v
		case int:
			out[i] = strconv.Itoa(v)
		case float64:
			out[i] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

// cellReader reads typed cells of one record by column name and keeps the
// first error.
type cellReader struct {
	index map[string]int
	cells []string
	err   error
}

func (r *cellReader) str(col string) string {
	i := r.index[col]
	if i >= len(r.cells) {
		return ""
	}
	return r.cells[i]
}

func (r *cellReader) integer(col string) int {
	if r.err != nil {
		return 0
	}
	n, err := strconv.Atoi(r.str(col))
	if err != nil {
		r.err = fmt.Errorf("column %s: %w", col, err)
	}
	return n
}

func (r *cellReader) decimal(col string) float64 {
	if r.err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(r.str(col), 64)
	if err != nil {
		r.err = fmt.Errorf("column %s: %w", col, err)
	}
	return f
}

func (r *cellReader) date(col string) models.Date {
	if r.err != nil {
		return models.Date{}
	}
	d, err := models.ParseDate(r.str(col))
	if err != nil {
		r.err = fmt.Errorf("column %s: %w", col, err)
	}
	return d
}

func (r *cellReader) optionalDate(col string) *models.Date {
	if r.str(col) == "" {
		return nil
	}
	d := r.date(col)
	return &d
}

// listing builds a Listing from the current cells.
func (r *cellReader) listing() (*models.Listing, error) {
	l := &models.Listing{
		URL:           r.str("url"),
		CreationDate:  r.date("creation_date"),
		ScrapedDate:   r.date("scraped_date"),
		FullAddress:   r.str("full_address"),
		Street:        r.str("street"),
		ZipCode:       r.str("zip_code"),
		District:      r.str("district"),
		HousingType:   r.str("housing_type"),
		Size:          r.decimal("size"),
		NumberOfRooms: r.integer("number_of_rooms"),
		Floor:         models.ParseFloorCell(r.str("floor")),
		RentalPeriod:  r.str("rental_period"),
		AvailableFrom: r.optionalDate("available_from"),
		Summary:       r.str("summary"),

		MonthlyRent:    r.integer("monthly_rent"),
		Aconto:         r.integer("aconto"),
		Deposit:        r.integer("deposit"),
		PrepaidRent:    r.integer("prepaid_rent"),
		OccupancyPrice: r.integer("occupancy_price"),

		TotalMonthlyCost:    r.integer("total_monthly_cost"),
		MonthsOfPrepaidRent: r.integer("months_of_prepaid_rent"),
		MonthsOfDeposit:     r.integer("months_of_deposit"),

		IsFurnished:  r.integer("is_furnished"),
		IsShareable:  r.integer("is_shareable"),
		PetsAllowed:  r.integer("pets_allowed"),
		HasElevator:  r.integer("has_elevator"),
		StudentsOnly: r.integer("students_only"),
		HasBalcony:   r.integer("has_balcony"),
		HasParking:   r.integer("has_parking"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return l, nil
}
