package boligportal

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/aleenprd/boligportal-scraper/utils"
)

// PageSize is the number of result cards on one search page.
const PageSize = 18

// Collector walks the search result pages and gathers detail page links.
type Collector struct {
	fetcher Fetcher
	sel     Selectors
	logger  *utils.Logger
}

func NewCollector(fetcher Fetcher, sel Selectors, logger *utils.Logger) *Collector {
	return &Collector{fetcher: fetcher, sel: sel, logger: logger}
}

// PageURL returns the URL of result page i (0-based) of queryURL.
func PageURL(queryURL string, i int) (string, error) {
	if i == 0 {
		return queryURL, nil
	}
	u, err := url.Parse(queryURL)
	if err != nil {
		return "", fmt.Errorf("parse query url: %w", err)
	}
	q := u.Query()
	q.Set("offset", strconv.Itoa(PageSize*i))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Collect returns the unique detail page links found on the first pages
// result pages, in the order they were first seen. A failed page fetch
// aborts the collection.
func (c *Collector) Collect(ctx context.Context, queryURL string, pages int) ([]string, error) {
	start := time.Now()

	base, err := url.Parse(queryURL)
	if err != nil {
		return nil, fmt.Errorf("parse query url: %w", err)
	}

	links := utils.NewURLSet()
	for i := 0; i < pages; i++ {
		pageURL, err := PageURL(queryURL, i)
		if err != nil {
			return nil, err
		}

		doc, err := c.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("result page %d: %w", i+1, err)
		}

		found := 0
		doc.Find(c.sel.ResultCard).Each(func(_ int, card *goquery.Selection) {
			href, ok := card.Find(c.sel.CardLink).First().Attr("href")
			if !ok || strings.TrimSpace(href) == "" {
				c.logger.Warn("[collector] Result card without link on page %d", i+1)
				return
			}
			abs, err := base.Parse(strings.TrimSpace(href))
			if err != nil {
				c.logger.Warn("[collector] Bad link %q on page %d: %v", href, i+1, err)
				return
			}
			if links.Add(abs.String()) {
				found++
			}
		})

		c.logger.Info("[collector] Page %d/%d: %d new links", i+1, pages, found)
	}

	c.logger.Info("[collector] Found %d links in %v", links.Size(), time.Since(start).Round(time.Millisecond))
	return links.Slice(), nil
}
