package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aleenprd/boligportal-scraper/models"
	"github.com/aleenprd/boligportal-scraper/utils"
)

// ReportService summarises a scrape run.
type ReportService struct {
	logger *utils.Logger
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

// Generate builds the report for the listings assembled out of linksFound
// detail pages.
func (s *ReportService) Generate(linksFound int, listings []*models.Listing) *models.ScrapeReport {
	report := &models.ScrapeReport{
		LinksFound:         linksFound,
		Assembled:          len(listings),
		Dropped:            linksFound - len(listings),
		ListingsByDistrict: make(map[string]int),
	}
	if report.Dropped < 0 {
		report.Dropped = 0
	}

	if len(listings) == 0 {
		return report
	}

	var total int
	for _, l := range listings {
		total += l.TotalMonthlyCost
		if report.CheapestMonthlyCost == nil || l.TotalMonthlyCost < report.CheapestMonthlyCost.TotalMonthlyCost {
			report.CheapestMonthlyCost = l
		}
		if l.District != "" {
			report.ListingsByDistrict[l.District]++
		}
	}
	report.AverageMonthlyCost = round2(float64(total) / float64(len(listings)))

	s.logger.Info("[report] %d links, %d assembled, %d dropped", report.LinksFound, report.Assembled, report.Dropped)
	return report
}

// Print writes a human readable version of r to w.
func (s *ReportService) Print(w io.Writer, r *models.ScrapeReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n%s\n", sep)
	fmt.Fprintf(w, "  BOLIGPORTAL SCRAPE SUMMARY\n")
	fmt.Fprintf(w, "%s\n\n", sep)

	fmt.Fprintf(w, "  Overview\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Links found        : %d\n", r.LinksFound)
	fmt.Fprintf(w, "  Listings assembled : %d\n", r.Assembled)
	fmt.Fprintf(w, "  Listings dropped   : %d\n", r.Dropped)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Monthly cost (rent + aconto)\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.CheapestMonthlyCost != nil {
		fmt.Fprintf(w, "  Average  : %.2f kr.\n", r.AverageMonthlyCost)
		fmt.Fprintf(w, "  Cheapest : %d kr. %s\n", r.CheapestMonthlyCost.TotalMonthlyCost, truncate(r.CheapestMonthlyCost.Street, 36))
		fmt.Fprintf(w, "             %s\n", r.CheapestMonthlyCost.URL)
	} else {
		fmt.Fprintf(w, "  No listings assembled\n")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Listings by district\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ListingsByDistrict) == 0 {
		fmt.Fprintf(w, "  No district data\n")
	} else {
		for _, dc := range sortedDistricts(r.ListingsByDistrict) {
			fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(dc.district, 28), strings.Repeat("█", dc.count), dc.count)
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", sep)
}

type districtCount struct {
	district string
	count    int
}

// sortedDistricts orders by count descending, then name.
func sortedDistricts(m map[string]int) []districtCount {
	out := make([]districtCount, 0, len(m))
	for d, c := range m {
		out = append(out, districtCount{d, c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].district < out[j].district
	})
	return out
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
