package models

import (
	"strconv"
	"time"
)

// DateLayout is the MM/DD/YYYY format used for dates in record files.
const DateLayout = "01/02/2006"

// Date is a calendar date without a time of day, stored as midnight UTC.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate reads a MM/DD/YYYY string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return NewDate(t), nil
}

// String formats the date as MM/DD/YYYY.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// AddDays returns the date n days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{d.AddDate(0, 0, n)}
}

// RawAttributes is the label → text bag collected from a detail page.
type RawAttributes map[string]string

// Get returns the value for label, or fallback when the label is absent.
func (a RawAttributes) Get(label, fallback string) string {
	if v, ok := a[label]; ok {
		return v
	}
	return fallback
}

// RawPage is everything the assembler needs from one detail page.
type RawPage struct {
	Attributes   RawAttributes
	AddressBlock string
	SummaryBlock string
}

// Listing is one assembled rental listing. It is never mutated after
// assembly.
type Listing struct {
	URL           string
	CreationDate  Date
	ScrapedDate   Date
	FullAddress   string
	Street        string
	ZipCode       string
	District      string
	HousingType   string
	Size          float64
	NumberOfRooms int
	Floor         Floor
	RentalPeriod  string
	AvailableFrom *Date
	Summary       string

	MonthlyRent    int
	Aconto         int
	Deposit        int
	PrepaidRent    int
	OccupancyPrice int

	TotalMonthlyCost    int
	MonthsOfPrepaidRent int
	MonthsOfDeposit     int

	IsFurnished  int
	IsShareable  int
	PetsAllowed  int
	HasElevator  int
	StudentsOnly int
	HasBalcony   int
	HasParking   int
}

// ZipNumber returns the zip code as an integer.
func (l *Listing) ZipNumber() (int, bool) {
	n, err := strconv.Atoi(l.ZipCode)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Shortlisted is a listing that survived filtering, with its 0-based
// position in the input collection.
type Shortlisted struct {
	Position int
	Listing  *Listing
}

// ScrapeReport summarises one scrape run.
type ScrapeReport struct {
	LinksFound          int
	Assembled           int
	Dropped             int
	AverageMonthlyCost  float64
	CheapestMonthlyCost *Listing
	ListingsByDistrict  map[string]int
}
