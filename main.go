package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/aleenprd/boligportal-scraper/config"
	"github.com/aleenprd/boligportal-scraper/models"
	"github.com/aleenprd/boligportal-scraper/scraper/boligportal"
	"github.com/aleenprd/boligportal-scraper/services"
	"github.com/aleenprd/boligportal-scraper/storage"
	"github.com/aleenprd/boligportal-scraper/utils"
)

const (
	modeScrape = "scrape"
	modeFilter = "filter"
	modeFull   = "full"

	runSuffixLayout = "_20060102_150405"
)

var errInvalidMode = errors.New("invalid mode")

func main() {
	var mode, scraperConfigPath, filterConfigPath string
	flag.StringVar(&mode, "mode", "", "run mode: scrape, filter or full")
	flag.StringVar(&scraperConfigPath, "scraper_config", "config/scraper_config.json", "scraper options file")
	flag.StringVar(&filterConfigPath, "filter_config", "config/filter_config.json", "filter options file")
	flag.Parse()

	settings, err := config.LoadSettings()
	if err != nil {
		utils.NewLogger().Error("Failed to load settings: %v", err)
		os.Exit(1)
	}

	logger := utils.NewLoggerWithOptions(utils.LoggerOptions{
		Production: settings.IsProduction(),
		Level:      settings.LogLevel,
	})
	if !settings.DotEnvLoaded {
		logger.Debug("No .env file found, using process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	start := time.Now()

	err = run(ctx, mode, scraperConfigPath, filterConfigPath, settings, logger)
	stop()
	if err != nil {
		var cfgErr *config.ConfigError
		switch {
		case errors.As(err, &cfgErr):
			logger.Error("Configuration error: %v", err)
		case errors.Is(err, errInvalidMode):
			logger.Error("%v", err)
			flag.Usage()
		default:
			logger.Error("Run failed: %v", err)
		}
		os.Exit(1)
	}

	logger.Info("=== Done in %v ===", time.Since(start).Round(time.Millisecond))
}

func run(ctx context.Context, mode, scraperConfigPath, filterConfigPath string, settings *config.Settings, logger *utils.Logger) error {
	if mode != modeScrape && mode != modeFilter && mode != modeFull {
		return fmt.Errorf("%w %q: use --mode scrape, filter or full", errInvalidMode, mode)
	}
	logger.Info("=== Boligportal %s run starting ===", mode)

	// Both files are validated before any work starts.
	var (
		scraperCfg *config.ScraperConfig
		filterCfg  *config.FilterConfig
		err        error
	)
	if mode != modeFilter {
		if scraperCfg, err = config.LoadScraperConfig(scraperConfigPath); err != nil {
			return err
		}
		printOptions(logger, "Scraper", scraperCfg.Options)
	}
	if mode != modeScrape {
		if filterCfg, err = config.LoadFilterConfig(filterConfigPath); err != nil {
			return err
		}
		printOptions(logger, "Filter", filterCfg.Options)
	}

	switch mode {
	case modeScrape:
		return runScrape(ctx, scraperCfg, scraperCfg.OutputPath, settings, logger)
	case modeFilter:
		return runFilter(filterCfg, filterCfg.InputPath, filterCfg.OutputPath, logger)
	default:
		suffix := time.Now().Format(runSuffixLayout)
		scrapeOut := withSuffix(scraperCfg.OutputPath, suffix)
		if err := runScrape(ctx, scraperCfg, scrapeOut, settings, logger); err != nil {
			return err
		}
		return runFilter(filterCfg, scrapeOut, withSuffix(filterCfg.OutputPath, suffix), logger)
	}
}

func runScrape(ctx context.Context, cfg *config.ScraperConfig, outputPath string, settings *config.Settings, logger *utils.Logger) error {
	selectors, err := boligportal.DefaultSelectors().WithOverrides(cfg.Selectors)
	if err != nil {
		return &config.ConfigError{Path: "SELECTORS", Err: err}
	}

	fetcher, closeFetcher, err := newFetcher(settings, logger)
	if err != nil {
		return err
	}
	defer closeFetcher()

	normalizer := services.NewNormalizer(newTranslator(settings, logger),
		settings.SourceLang, settings.TargetLang, cfg.AvailableFromLayouts, logger)
	assembler := services.NewAssembler(normalizer, logger, nil)

	result, err := boligportal.New(fetcher, selectors, assembler, logger).Scrape(ctx, cfg.MainURL, cfg.ResultsPages)
	if err != nil {
		return fmt.Errorf("scrape: %w", err)
	}

	if err := storage.WriteCSV(outputPath, result.Listings); err != nil {
		return err
	}
	logger.Info("Saved %d listings to %s", len(result.Listings), outputPath)

	reports := services.NewReportService(logger)
	reports.Print(os.Stdout, reports.Generate(len(result.Links), result.Listings))

	if settings.PostgresDSN != "" {
		mirrorToPostgres(ctx, settings.PostgresDSN, result.Listings, logger)
	}
	return nil
}

func runFilter(cfg *config.FilterConfig, inputPath, outputPath string, logger *utils.Logger) error {
	listings, err := storage.ReadCSV(inputPath)
	if err != nil {
		return err
	}

	shortlist := services.NewFilterEngine(cfg, logger, nil).Filter(listings)

	var writer storage.ShortlistWriter = storage.XLSXWriter{}
	if err := writer.WriteShortlist(outputPath, shortlist); err != nil {
		return err
	}
	logger.Info("Saved %d of %d listings to %s", len(shortlist), len(listings), outputPath)
	return nil
}

func newFetcher(settings *config.Settings, logger *utils.Logger) (boligportal.Fetcher, func(), error) {
	opts := boligportal.FetcherOptions{
		UserAgent:  settings.UserAgent,
		Timeout:    settings.RequestTimeout(),
		RateLimit:  settings.RateLimit(),
		MaxRetries: settings.MaxRetries,
		ChromeBin:  settings.ChromeBin,
	}

	switch settings.Fetcher {
	case "http", "":
		return boligportal.NewHTTPFetcher(opts, logger), func() {}, nil
	case "browser":
		b, err := boligportal.NewBrowserFetcher(opts, logger)
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil
	default:
		return nil, nil, &config.ConfigError{Path: ".env", Invalid: []string{fmt.Sprintf("FETCHER %q must be http or browser", settings.Fetcher)}}
	}
}

func newTranslator(settings *config.Settings, logger *utils.Logger) services.Translator {
	if settings.TranslateURL == "" {
		logger.Warn("TRANSLATE_URL is not set, scraped text is kept in %s", settings.SourceLang)
		return services.NoopTranslator{}
	}
	return services.NewHTTPTranslator(settings.TranslateURL, settings.TranslateAPIKey, settings.RequestTimeout(), logger)
}

// mirrorToPostgres copies the run into Postgres. Failures are only logged.
func mirrorToPostgres(ctx context.Context, dsn string, listings []*models.Listing, logger *utils.Logger) {
	pg, err := storage.NewPostgresWriter(ctx, dsn, logger)
	if err != nil {
		logger.WithError(err).Warn("Postgres mirror unavailable")
		return
	}
	defer pg.Close()

	var writer storage.ListingWriter = pg
	if err := writer.Write(listings); err != nil {
		logger.WithError(err).Warn("Postgres mirror write failed")
		return
	}
	if n, err := pg.Count(); err == nil {
		logger.Info("Postgres mirror holds %d listings", n)
	}
}

func printOptions(logger *utils.Logger, name string, opts config.Options) {
	logger.Info("%s options:", name)
	for _, line := range opts.Lines() {
		logger.Info("  %s", line)
	}
}

// withSuffix inserts suffix before the file extension.
func withSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}
