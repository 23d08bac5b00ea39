package config

import (
	"fmt"

	"github.com/aleenprd/boligportal-scraper/models"
)

// Zip code filter types.
const (
	ZipFilterRange   = "range"
	ZipFilterList    = "list"
	ZipFilterExclude = "exclude"
)

// FilterConfig holds the criteria of a filter run. It is built once and
// never modified afterwards.
type FilterConfig struct {
	InputPath  string `yaml:"INPUT_PATH"`
	OutputPath string `yaml:"OUTPUT_PATH"`

	MaxDaysSinceCreation int        `yaml:"MAX_DAYS_SINCE_CREATION"`
	RentalPeriodFilter   StringList `yaml:"RENTAL_PERIOD_FILTER"`
	AvailableFromRange   StringList `yaml:"AVAILABLE_FROM_RANGE"`

	UseZipcodeFilter     string  `yaml:"USE_ZIPCODE_FILTER"`
	ZipcodeFilterType    string  `yaml:"ZIPCODE_FILTER_TYPE"`
	ZipcodeListFilter    IntList `yaml:"ZIPCODE_LIST_FILTER"`
	ZipcodeRangeFilter   IntList `yaml:"ZIPCODE_RANGE_FILTER"`
	ZipcodeExcludeFilter IntList `yaml:"ZIPCODE_EXCLUDE_FILTER"`

	UseDistrictFilter string     `yaml:"USE_DISTRICT_FILTER"`
	DistrictFilter    StringList `yaml:"DISTRICT_FILTER"`

	TotalRentMax      int    `yaml:"TOTAL_RENT_MAX"`
	DepositMax        int    `yaml:"DEPOSIT_MAX"`
	PrepaidRent       string `yaml:"PREPAID_RENT"`
	PrepaidRentMax    int    `yaml:"PREPAID_RENT_MAX"`
	OccupancyPriceMax int    `yaml:"OCCUPANCY_PRICE_MAX"`

	UseHousingTypeFilter string     `yaml:"USE_HOUSING_TYPE_FILTER"`
	HousingTypeFilter    StringList `yaml:"HOUSING_TYPE_FILTER"`
	NumberOfRoomsFilter  []int      `yaml:"NUMBER_OF_ROOMS_FILTER"`
	SizeFilter           []float64  `yaml:"SIZE_FILTER"`

	Furnished    IntList `yaml:"FURNISHED"`
	Shareable    IntList `yaml:"SHAREABLE"`
	PetsAllowed  IntList `yaml:"PETS_ALLOWED"`
	HasElevator  IntList `yaml:"HAS_ELEVATOR"`
	StudentsOnly IntList `yaml:"STUDENTS_ONLY"`
	HasBalcony   IntList `yaml:"HAS_BALCONY"`
	HasParking   IntList `yaml:"HAS_PARKING"`

	// AvailableFrom is AvailableFromRange parsed as dates.
	AvailableFrom [2]models.Date `yaml:"-"`
	Options       Options        `yaml:"-"`
}

var filterRequiredKeys = []string{
	"INPUT_PATH", "OUTPUT_PATH",
	"MAX_DAYS_SINCE_CREATION", "RENTAL_PERIOD_FILTER", "AVAILABLE_FROM_RANGE",
	"USE_ZIPCODE_FILTER", "ZIPCODE_FILTER_TYPE", "ZIPCODE_LIST_FILTER", "ZIPCODE_RANGE_FILTER", "ZIPCODE_EXCLUDE_FILTER",
	"USE_DISTRICT_FILTER", "DISTRICT_FILTER",
	"TOTAL_RENT_MAX", "DEPOSIT_MAX", "PREPAID_RENT", "PREPAID_RENT_MAX", "OCCUPANCY_PRICE_MAX",
	"USE_HOUSING_TYPE_FILTER", "HOUSING_TYPE_FILTER", "NUMBER_OF_ROOMS_FILTER", "SIZE_FILTER",
	"FURNISHED", "SHAREABLE", "PETS_ALLOWED", "HAS_ELEVATOR", "STUDENTS_ONLY", "HAS_BALCONY", "HAS_PARKING",
}

// LoadFilterConfig reads and validates the filter options file.
func LoadFilterConfig(path string) (*FilterConfig, error) {
	cfg := &FilterConfig{}
	raw, err := readOptions(path, filterRequiredKeys, cfg)
	if err != nil {
		return nil, err
	}
	cfg.Options = raw

	if invalid := cfg.validate(); len(invalid) > 0 {
		return nil, &ConfigError{Path: path, Invalid: invalid}
	}
	return cfg, nil
}

func (c *FilterConfig) validate() []string {
	var invalid []string

	if len(c.AvailableFromRange) != 2 {
		invalid = append(invalid, fmt.Sprintf("AVAILABLE_FROM_RANGE needs 2 dates, got %d", len(c.AvailableFromRange)))
	} else {
		for i, s := range c.AvailableFromRange {
			d, err := models.ParseDate(s)
			if err != nil {
				invalid = append(invalid, fmt.Sprintf("AVAILABLE_FROM_RANGE[%d] %q is not MM/DD/YYYY", i, s))
				continue
			}
			c.AvailableFrom[i] = d
		}
	}

	if c.ZipFilterEnabled() && c.ZipcodeFilterType == ZipFilterRange && len(c.ZipcodeRangeFilter) != 2 {
		invalid = append(invalid, fmt.Sprintf("ZIPCODE_RANGE_FILTER needs 2 values, got %d", len(c.ZipcodeRangeFilter)))
	}
	if len(c.NumberOfRoomsFilter) != 2 {
		invalid = append(invalid, fmt.Sprintf("NUMBER_OF_ROOMS_FILTER needs 2 values, got %d", len(c.NumberOfRoomsFilter)))
	}
	if len(c.SizeFilter) != 2 {
		invalid = append(invalid, fmt.Sprintf("SIZE_FILTER needs 2 values, got %d", len(c.SizeFilter)))
	}
	if c.MaxDaysSinceCreation < 0 {
		invalid = append(invalid, "MAX_DAYS_SINCE_CREATION must not be negative")
	}

	return invalid
}

// ZipFilterEnabled reports whether USE_ZIPCODE_FILTER is "yes".
func (c *FilterConfig) ZipFilterEnabled() bool { return c.UseZipcodeFilter == "yes" }

// DistrictFilterEnabled reports whether USE_DISTRICT_FILTER is "yes".
func (c *FilterConfig) DistrictFilterEnabled() bool { return c.UseDistrictFilter == "yes" }

// PrepaidRentFilterEnabled reports whether PREPAID_RENT is "yes".
func (c *FilterConfig) PrepaidRentFilterEnabled() bool { return c.PrepaidRent == "yes" }

// HousingTypeFilterEnabled reports whether USE_HOUSING_TYPE_FILTER is "yes".
func (c *FilterConfig) HousingTypeFilterEnabled() bool { return c.UseHousingTypeFilter == "yes" }
