package services

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleenprd/boligportal-scraper/config"
	"github.com/aleenprd/boligportal-scraper/models"
)

// today is D in the scenarios below.
var today = day(2024, time.May, 10)

func filterClock() time.Time { return today.Time.Add(9 * time.Hour) }

// openFilter accepts every listing produced by listing().
func openFilter() *config.FilterConfig {
	both := config.IntList{0, 1}
	return &config.FilterConfig{
		MaxDaysSinceCreation: 30,
		RentalPeriodFilter:   config.StringList{"Unlimited", "24+ months"},
		AvailableFrom:        [2]models.Date{day(2024, time.January, 1), day(2024, time.December, 31)},
		UseZipcodeFilter:     "no",
		ZipcodeFilterType:    config.ZipFilterRange,
		ZipcodeRangeFilter:   config.IntList{1000, 2999},
		UseDistrictFilter:    "no",
		TotalRentMax:         20000,
		DepositMax:           3,
		PrepaidRent:          "yes",
		PrepaidRentMax:       3,
		OccupancyPriceMax:    100000,
		UseHousingTypeFilter: "no",
		NumberOfRoomsFilter:  []int{1, 5},
		SizeFilter:           []float64{20, 150},
		Furnished:            both,
		Shareable:            both,
		PetsAllowed:          both,
		HasElevator:          both,
		StudentsOnly:         both,
		HasBalcony:           both,
		HasParking:           both,
	}
}

func listing(url, zip string) *models.Listing {
	available := day(2024, time.June, 1)
	return &models.Listing{
		URL:                 url,
		CreationDate:        today.AddDays(-5),
		ZipCode:             zip,
		District:            "Østerbro",
		HousingType:         "Apartment",
		Size:                75,
		NumberOfRooms:       3,
		Floor:               models.FloorNumber(2),
		RentalPeriod:        "Unlimited",
		AvailableFrom:       &available,
		MonthlyRent:         12000,
		Aconto:              800,
		Deposit:             36000,
		PrepaidRent:         12000,
		OccupancyPrice:      60000,
		TotalMonthlyCost:    12800,
		MonthsOfDeposit:     3,
		MonthsOfPrepaidRent: 1,
	}
}

func urls(s []models.Shortlisted) []string {
	out := make([]string, len(s))
	for i, x := range s {
		out[i] = x.Listing.URL
	}
	return out
}

func TestFilterKeepsEverythingWithOpenCriteria(t *testing.T) {
	in := []*models.Listing{listing("a", "2100"), listing("b", "2200")}

	out := NewFilterEngine(openFilter(), quietLogger(), filterClock).Filter(in)
	assert.Equal(t, []string{"a", "b"}, urls(out))
	assert.Equal(t, 0, out[0].Position)
	assert.Equal(t, 1, out[1].Position)
}

func TestFilterCreationWindow(t *testing.T) {
	old := listing("old", "2100")
	old.CreationDate = today.AddDays(-31)
	recent := listing("recent", "2100")
	recent.CreationDate = today.AddDays(-29)
	edge := listing("edge", "2100")
	edge.CreationDate = today.AddDays(-30)

	out := NewFilterEngine(openFilter(), quietLogger(), filterClock).Filter([]*models.Listing{old, recent, edge})
	assert.Equal(t, []string{"recent", "edge"}, urls(out))
	assert.Equal(t, 1, out[0].Position)
	assert.Equal(t, 2, out[1].Position)
}

func TestFilterZipExclude(t *testing.T) {
	cfg := openFilter()
	cfg.UseZipcodeFilter = "yes"
	cfg.ZipcodeFilterType = config.ZipFilterExclude
	cfg.ZipcodeExcludeFilter = config.IntList{2100}

	in := []*models.Listing{listing("a", "2100"), listing("b", "2200"), listing("c", "1620")}
	out := NewFilterEngine(cfg, quietLogger(), filterClock).Filter(in)
	assert.Equal(t, []string{"b", "c"}, urls(out))
}

func TestFilterZipRangeAndList(t *testing.T) {
	in := []*models.Listing{listing("a", "1000"), listing("b", "2999"), listing("c", "3000"), listing("d", "0999")}

	cfg := openFilter()
	cfg.UseZipcodeFilter = "yes"
	out := NewFilterEngine(cfg, quietLogger(), filterClock).Filter(in)
	assert.Equal(t, []string{"a", "b"}, urls(out))

	cfg.ZipcodeFilterType = config.ZipFilterList
	cfg.ZipcodeListFilter = config.IntList{3000, 999}
	out = NewFilterEngine(cfg, quietLogger(), filterClock).Filter(in)
	assert.Equal(t, []string{"c", "d"}, urls(out))
}

func TestFilterUnknownZipTypePassesThrough(t *testing.T) {
	cfg := openFilter()
	cfg.UseZipcodeFilter = "yes"
	cfg.ZipcodeFilterType = "nearby"

	in := []*models.Listing{listing("a", "2100"), listing("b", "9000")}
	out := NewFilterEngine(cfg, quietLogger(), filterClock).Filter(in)
	assert.Len(t, out, 2)
}

func TestFilterAvailableFromRange(t *testing.T) {
	cfg := openFilter()
	cfg.AvailableFrom = [2]models.Date{day(2024, time.June, 1), day(2024, time.June, 30)}

	first := listing("first", "2100")
	last := listing("last", "2100")
	lastDay := day(2024, time.June, 30)
	last.AvailableFrom = &lastDay
	late := listing("late", "2100")
	julyFirst := day(2024, time.July, 1)
	late.AvailableFrom = &julyFirst
	unknown := listing("unknown", "2100")
	unknown.AvailableFrom = nil

	out := NewFilterEngine(cfg, quietLogger(), filterClock).Filter([]*models.Listing{first, last, late, unknown})
	assert.Equal(t, []string{"first", "last"}, urls(out))
}

func TestFilterOptionalCriteria(t *testing.T) {
	pricey := listing("pricey", "2100")
	pricey.MonthsOfPrepaidRent = 4
	pricey.District = "Valby"
	pricey.HousingType = "House"
	plain := listing("plain", "2100")

	cfg := openFilter()
	cfg.PrepaidRent = "no"
	cfg.DistrictFilter = config.StringList{"Østerbro"}
	cfg.HousingTypeFilter = config.StringList{"Apartment"}
	out := NewFilterEngine(cfg, quietLogger(), filterClock).Filter([]*models.Listing{pricey, plain})
	assert.Len(t, out, 2, "disabled criteria must not narrow")

	cfg.PrepaidRent = "yes"
	cfg.UseDistrictFilter = "yes"
	cfg.UseHousingTypeFilter = "yes"
	engine := NewFilterEngine(cfg, quietLogger(), filterClock)
	out = engine.Filter([]*models.Listing{pricey, plain})
	assert.Equal(t, []string{"plain"}, urls(out))
	assert.Len(t, engine.Stages(), 18)
}

func TestFilterNumericBoundsAreInclusive(t *testing.T) {
	cfg := openFilter()
	cfg.TotalRentMax = 12800
	cfg.NumberOfRoomsFilter = []int{3, 3}
	cfg.SizeFilter = []float64{75, 75}

	over := listing("over", "2100")
	over.TotalMonthlyCost = 12801

	out := NewFilterEngine(cfg, quietLogger(), filterClock).Filter([]*models.Listing{listing("exact", "2100"), over})
	assert.Equal(t, []string{"exact"}, urls(out))
}

func TestFilterAmenityFlags(t *testing.T) {
	cfg := openFilter()
	cfg.StudentsOnly = config.IntList{0}
	cfg.HasElevator = config.IntList{1}

	students := listing("students", "2100")
	students.StudentsOnly = 1
	students.HasElevator = 1
	lift := listing("lift", "2100")
	lift.HasElevator = 1
	stairs := listing("stairs", "2100")

	out := NewFilterEngine(cfg, quietLogger(), filterClock).Filter([]*models.Listing{students, lift, stairs})
	assert.Equal(t, []string{"lift"}, urls(out))
}

func mixedListings() []*models.Listing {
	var out []*models.Listing
	zips := []string{"2100", "2200", "1620", "8000"}
	for i := 0; i < 40; i++ {
		l := listing(string(rune('A'+i%26))+string(rune('a'+i/26)), zips[i%len(zips)])
		l.CreationDate = today.AddDays(-(i % 40))
		l.TotalMonthlyCost = 9000 + 500*(i%12)
		l.NumberOfRooms = 1 + i%6
		l.Size = float64(30 + 7*(i%15))
		l.IsFurnished = i % 2
		l.HasParking = (i / 3) % 2
		if i%9 == 0 {
			l.AvailableFrom = nil
		}
		out = append(out, l)
	}
	return out
}

func narrowFilter() *config.FilterConfig {
	cfg := openFilter()
	cfg.UseZipcodeFilter = "yes"
	cfg.ZipcodeFilterType = config.ZipFilterExclude
	cfg.ZipcodeExcludeFilter = config.IntList{8000}
	cfg.TotalRentMax = 13000
	cfg.NumberOfRoomsFilter = []int{2, 4}
	cfg.SizeFilter = []float64{40, 120}
	cfg.Furnished = config.IntList{1}
	return cfg
}

func TestFilterNeverWidens(t *testing.T) {
	in := mixedListings()
	out := NewFilterEngine(narrowFilter(), quietLogger(), filterClock).Filter(in)

	assert.LessOrEqual(t, len(out), len(in))
	assert.NotEmpty(t, out)
	for i := 1; i < len(out); i++ {
		assert.Less(t, out[i-1].Position, out[i].Position)
	}
	for _, s := range out {
		assert.Same(t, in[s.Position], s.Listing)
	}
}

func TestFilterStageOrderDoesNotMatter(t *testing.T) {
	in := mixedListings()
	engine := NewFilterEngine(narrowFilter(), quietLogger(), filterClock)
	want := urls(engine.Filter(in))

	stages := engine.Stages()
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 5; round++ {
		rng.Shuffle(len(stages), func(i, j int) { stages[i], stages[j] = stages[j], stages[i] })

		selection := make([]models.Shortlisted, len(in))
		for i, l := range in {
			selection[i] = models.Shortlisted{Position: i, Listing: l}
		}
		for _, st := range stages {
			selection = applyStage(selection, st.Keep)
		}
		require.Equal(t, want, urls(selection), "round %d", round)
	}
}

func TestFilterEmptyInput(t *testing.T) {
	out := NewFilterEngine(openFilter(), quietLogger(), filterClock).Filter(nil)
	assert.Empty(t, out)
}
