package services

import (
	"time"

	"github.com/aleenprd/boligportal-scraper/config"
	"github.com/aleenprd/boligportal-scraper/models"
	"github.com/aleenprd/boligportal-scraper/utils"
)

// Predicate decides whether a listing stays in the selection.
type Predicate func(l *models.Listing) bool

// Stage is one named step of the filter pipeline.
type Stage struct {
	Name string
	Keep Predicate
}

// FilterEngine narrows a listing collection with the criteria of a
// FilterConfig.
type FilterEngine struct {
	cfg    *config.FilterConfig
	logger *utils.Logger
	now    func() time.Time
}

// NewFilterEngine creates a FilterEngine. now may be nil, meaning time.Now.
func NewFilterEngine(cfg *config.FilterConfig, logger *utils.Logger, now func() time.Time) *FilterEngine {
	if now == nil {
		now = time.Now
	}
	return &FilterEngine{cfg: cfg, logger: logger, now: now}
}

// Filter returns the listings that satisfy every active criterion, in input
// order, each with its position in listings.
func (f *FilterEngine) Filter(listings []*models.Listing) []models.Shortlisted {
	f.logger.Info("[filter] Initial selection of %d listings", len(listings))

	selection := make([]models.Shortlisted, len(listings))
	for i, l := range listings {
		selection[i] = models.Shortlisted{Position: i, Listing: l}
	}

	for _, stage := range f.Stages() {
		selection = applyStage(selection, stage.Keep)
		f.logger.Debug("[filter] %s: %d listings left", stage.Name, len(selection))
	}

	f.logger.Info("[filter] Selection reduced to %d listings", len(selection))
	return selection
}

func applyStage(in []models.Shortlisted, keep Predicate) []models.Shortlisted {
	out := in[:0:0]
	for _, s := range in {
		if keep(s.Listing) {
			out = append(out, s)
		}
	}
	return out
}

// Stages returns the active predicates in evaluation order. Optional
// criteria that are switched off are left out.
func (f *FilterEngine) Stages() []Stage {
	cfg := f.cfg
	earliest := models.NewDate(f.now()).AddDays(-cfg.MaxDaysSinceCreation)
	from, to := cfg.AvailableFrom[0], cfg.AvailableFrom[1]

	stages := []Stage{
		{"creation date", func(l *models.Listing) bool {
			return !l.CreationDate.Before(earliest.Time)
		}},
		{"rental period", func(l *models.Listing) bool {
			return cfg.RentalPeriodFilter.Contains(l.RentalPeriod)
		}},
		{"available from", func(l *models.Listing) bool {
			if l.AvailableFrom == nil {
				return false
			}
			return !l.AvailableFrom.Before(from.Time) && !l.AvailableFrom.After(to.Time)
		}},
	}

	if cfg.ZipFilterEnabled() {
		if zip := f.zipStage(); zip != nil {
			stages = append(stages, *zip)
		}
	}
	if cfg.DistrictFilterEnabled() {
		stages = append(stages, Stage{"district", func(l *models.Listing) bool {
			return cfg.DistrictFilter.Contains(l.District)
		}})
	}

	stages = append(stages,
		Stage{"total monthly cost", func(l *models.Listing) bool {
			return l.TotalMonthlyCost <= cfg.TotalRentMax
		}},
		Stage{"months of deposit", func(l *models.Listing) bool {
			return l.MonthsOfDeposit <= cfg.DepositMax
		}},
	)
	if cfg.PrepaidRentFilterEnabled() {
		stages = append(stages, Stage{"months of prepaid rent", func(l *models.Listing) bool {
			return l.MonthsOfPrepaidRent <= cfg.PrepaidRentMax
		}})
	}
	stages = append(stages, Stage{"occupancy price", func(l *models.Listing) bool {
		return l.OccupancyPrice <= cfg.OccupancyPriceMax
	}})
	if cfg.HousingTypeFilterEnabled() {
		stages = append(stages, Stage{"housing type", func(l *models.Listing) bool {
			return cfg.HousingTypeFilter.Contains(l.HousingType)
		}})
	}

	minRooms, maxRooms := cfg.NumberOfRoomsFilter[0], cfg.NumberOfRoomsFilter[1]
	minSize, maxSize := cfg.SizeFilter[0], cfg.SizeFilter[1]
	stages = append(stages,
		Stage{"number of rooms", func(l *models.Listing) bool {
			return l.NumberOfRooms >= minRooms && l.NumberOfRooms <= maxRooms
		}},
		Stage{"size", func(l *models.Listing) bool {
			return l.Size >= minSize && l.Size <= maxSize
		}},
		flagStage("furnished", cfg.Furnished, func(l *models.Listing) int { return l.IsFurnished }),
		flagStage("shareable", cfg.Shareable, func(l *models.Listing) int { return l.IsShareable }),
		flagStage("pets allowed", cfg.PetsAllowed, func(l *models.Listing) int { return l.PetsAllowed }),
		flagStage("elevator", cfg.HasElevator, func(l *models.Listing) int { return l.HasElevator }),
		flagStage("students only", cfg.StudentsOnly, func(l *models.Listing) int { return l.StudentsOnly }),
		flagStage("balcony", cfg.HasBalcony, func(l *models.Listing) int { return l.HasBalcony }),
		flagStage("parking", cfg.HasParking, func(l *models.Listing) int { return l.HasParking }),
	)
	return stages
}

func flagStage(name string, accepted config.IntList, flag func(*models.Listing) int) Stage {
	return Stage{name, func(l *models.Listing) bool {
		return accepted.Contains(flag(l))
	}}
}

// zipStage returns nil for an unknown filter type.
func (f *FilterEngine) zipStage() *Stage {
	cfg := f.cfg
	switch cfg.ZipcodeFilterType {
	case config.ZipFilterRange:
		lo, hi := cfg.ZipcodeRangeFilter[0], cfg.ZipcodeRangeFilter[1]
		return &Stage{"zip code range", func(l *models.Listing) bool {
			zip, ok := l.ZipNumber()
			return ok && zip >= lo && zip <= hi
		}}
	case config.ZipFilterList:
		return &Stage{"zip code list", func(l *models.Listing) bool {
			zip, ok := l.ZipNumber()
			return ok && cfg.ZipcodeListFilter.Contains(zip)
		}}
	case config.ZipFilterExclude:
		return &Stage{"zip code exclude", func(l *models.Listing) bool {
			zip, ok := l.ZipNumber()
			return !ok || !cfg.ZipcodeExcludeFilter.Contains(zip)
		}}
	default:
		f.logger.Warn("[filter] Unknown ZIPCODE_FILTER_TYPE %q, zip code filter not applied", cfg.ZipcodeFilterType)
		return nil
	}
}
