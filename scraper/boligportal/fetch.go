package boligportal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"github.com/aleenprd/boligportal-scraper/utils"
)

// Fetcher retrieves a page and parses it into a goquery document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// FetcherOptions tune page retrieval.
type FetcherOptions struct {
	UserAgent  string
	Timeout    time.Duration
	RateLimit  time.Duration
	MaxRetries int
	ChromeBin  string
}

func (o FetcherOptions) retry(logger *utils.Logger) *utils.RetryConfig {
	return &utils.RetryConfig{
		MaxAttempts: o.MaxRetries,
		BaseDelay:   2 * time.Second,
		Logger:      logger,
	}
}

// HTTPFetcher fetches server-rendered pages with plain GET requests.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	throttle  *utils.Throttle
	retry     *utils.RetryConfig
	logger    *utils.Logger
}

// NewHTTPFetcher creates an HTTPFetcher.
func NewHTTPFetcher(opts FetcherOptions, logger *utils.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		client:    &http.Client{Timeout: opts.Timeout},
		userAgent: opts.UserAgent,
		throttle:  utils.NewThrottle(opts.RateLimit),
		retry:     opts.retry(logger),
		logger:    logger,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	var doc *goquery.Document

	err := f.retry.Do(ctx, "fetch "+url, func() error {
		if err := f.throttle.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		if f.userAgent != "" {
			req.Header.Set("User-Agent", f.userAgent)
		}
		req.Header.Set("Accept-Language", "da-DK,da;q=0.9")

		resp, err := f.client.Do(req)
		if err != nil {
			return fmt.Errorf("GET %s: %w", url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
		}

		doc, err = goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return fmt.Errorf("parse %s: %w", url, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	f.logger.Debug("[fetch] %s", url)
	return doc, nil
}

// BrowserFetcher renders pages in headless Chrome. One browser is shared by
// every Fetch; each page gets its own tab.
type BrowserFetcher struct {
	browserCtx context.Context
	cancel     context.CancelFunc
	timeout    time.Duration
	throttle   *utils.Throttle
	retry      *utils.RetryConfig
	logger     *utils.Logger
}

// NewBrowserFetcher starts headless Chrome. Close must be called to stop it.
func NewBrowserFetcher(opts FetcherOptions, logger *utils.Logger) (*BrowserFetcher, error) {
	chromeBin := findChromeBinary(opts.ChromeBin)
	logger.Info("[browser] Using browser binary: %q", chromeBin)

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if chromeBin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// Start the browser now so a missing binary fails early.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &BrowserFetcher{
		browserCtx: browserCtx,
		cancel: func() {
			cancelBrowser()
			cancelAlloc()
		},
		timeout:  timeout,
		throttle: utils.NewThrottle(opts.RateLimit),
		retry:    opts.retry(logger),
		logger:   logger,
	}, nil
}

func (b *BrowserFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	var doc *goquery.Document

	err := b.retry.Do(ctx, "render "+url, func() error {
		if err := b.throttle.Wait(ctx); err != nil {
			return err
		}

		tabCtx, cancelTab := chromedp.NewContext(b.browserCtx)
		defer cancelTab()
		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, b.timeout)
		defer cancelTimeout()
		stop := context.AfterFunc(ctx, cancelTimeout)
		defer stop()

		var html string
		err := chromedp.Run(tabCtx,
			chromedp.Navigate(url),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		)
		if err != nil {
			return fmt.Errorf("chromedp render %s: %w", url, err)
		}

		doc, err = goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return fmt.Errorf("parse %s: %w", url, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	b.logger.Debug("[browser] %s", url)
	return doc, nil
}

// Close shuts the browser down.
func (b *BrowserFetcher) Close() {
	b.cancel()
}

// findChromeBinary locates Chrome/Chromium. An empty result lets chromedp
// use its own lookup.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
