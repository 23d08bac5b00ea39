package boligportal

import (
	"context"
	"errors"
	"time"

	"github.com/aleenprd/boligportal-scraper/models"
	"github.com/aleenprd/boligportal-scraper/services"
	"github.com/aleenprd/boligportal-scraper/utils"
)

// Result is the outcome of one scrape run.
type Result struct {
	Links    []string
	Listings []*models.Listing
}

// Scraper drives the boligportal.dk scrape: collect links, then visit each
// detail page in turn.
type Scraper struct {
	fetcher   Fetcher
	collector *Collector
	extractor *Extractor
	assembler *services.Assembler
	logger    *utils.Logger
}

// New creates a Scraper.
func New(fetcher Fetcher, sel Selectors, assembler *services.Assembler, logger *utils.Logger) *Scraper {
	return &Scraper{
		fetcher:   fetcher,
		collector: NewCollector(fetcher, sel, logger),
		extractor: NewExtractor(sel),
		assembler: assembler,
		logger:    logger,
	}
}

// Scrape collects up to pages result pages of queryURL and assembles every
// linked listing. Listings that fail are logged and skipped. Cancelling ctx
// discards everything.
func (s *Scraper) Scrape(ctx context.Context, queryURL string, pages int) (*Result, error) {
	s.logger.Info("[boligportal] Starting scrape of %d result pages", pages)
	start := time.Now()

	links, err := s.collector.Collect(ctx, queryURL, pages)
	if err != nil {
		return nil, err
	}

	result := &Result{Links: links, Listings: make([]*models.Listing, 0, len(links))}
	for i, link := range links {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		log := s.logger.WithField("url", link)
		log.Info("[boligportal] (%d/%d) Scraping listing", i+1, len(links))

		listing, err := s.scrapeListing(ctx, link)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.WithError(err).Warn("[boligportal] Dropping listing: %s", dropReason(err))
			continue
		}
		result.Listings = append(result.Listings, listing)
	}

	s.logger.Info("[boligportal] Scrape complete in %v: %d links, %d listings assembled",
		time.Since(start).Round(time.Second), len(links), len(result.Listings))
	return result, nil
}

func (s *Scraper) scrapeListing(ctx context.Context, link string) (*models.Listing, error) {
	doc, err := s.fetcher.Fetch(ctx, link)
	if err != nil {
		return nil, err
	}
	page, err := s.extractor.Extract(doc)
	if err != nil {
		return nil, err
	}
	return s.assembler.Assemble(ctx, link, page)
}

func dropReason(err error) string {
	var (
		parseErr     *services.ParseError
		translateErr *services.TranslationError
	)
	switch {
	case errors.Is(err, ErrStructureMismatch):
		return "unexpected page structure"
	case errors.Is(err, services.ErrDivisionUndefined):
		return "monthly rent is zero"
	case errors.As(err, &parseErr):
		return "unparsable " + parseErr.Field
	case errors.As(err, &translateErr):
		return "translation failed for " + translateErr.Field
	default:
		return "fetch failed"
	}
}
