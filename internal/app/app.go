package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/seoscan/seoscan/internal/cache"
	"github.com/seoscan/seoscan/internal/extract"
	"github.com/seoscan/seoscan/internal/fetch"
	"github.com/seoscan/seoscan/internal/record"
	"github.com/seoscan/seoscan/internal/report"
	"github.com/seoscan/seoscan/internal/robots"
	"github.com/seoscan/seoscan/internal/urls"
)

// Defaults shared between flag parsing and file config overlay.
const (
	DefaultOutputPath = "website_metadata.csv"
	DefaultTimeout    = fetch.DefaultTimeout
	DefaultDelayMin   = 1 * time.Second
	DefaultDelayMax   = 3 * time.Second
)

// ErrNoInputURLs is returned when neither the input file nor the command line
// supplied any URL to scrape.
var ErrNoInputURLs = errors.New("no input URLs")

// pageGetter abstracts the minimal fetch method used for tests.
type pageGetter interface {
	Get(ctx context.Context, url string) ([]byte, string, error)
}

// App drives the per-URL pipeline over the configured URL list: politeness
// delay, fetch, parse, record, then one CSV table plus a summary at the end.
type App struct {
	cfg       Config
	fetcher   pageGetter
	robots    *robots.Manager
	pageCache *cache.PageCache

	// Progress and summary output; os.Stdout unless overridden in tests.
	out io.Writer
	// sleep and rng are swappable so tests run without real delays.
	sleep func(time.Duration)
	rng   *rand.Rand
}

func New(cfg Config) *App {
	a := &App{
		cfg:   cfg,
		out:   os.Stdout,
		sleep: time.Sleep,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			_ = cache.ClearDir(cfg.CacheDir)
		}
		if cfg.CacheMaxAge > 0 {
			_, _ = cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge)
		}
		a.pageCache = &cache.PageCache{Dir: cfg.CacheDir}
	}
	a.fetcher = &fetch.Client{
		UserAgent:         cfg.UserAgent,
		MaxAttempts:       cfg.MaxAttempts,
		PerRequestTimeout: cfg.Timeout,
		Cache:             a.pageCache,
	}
	if cfg.RespectRobots {
		ua := cfg.UserAgent
		if ua == "" {
			ua = fetch.DefaultUserAgent
		}
		a.robots = &robots.Manager{UserAgent: ua}
	}
	return a
}

// Run processes every URL in input order and writes the report. Per-URL
// failures are recorded, never fatal; the only fatal errors are an unusable
// input list and a failed output write.
func (a *App) Run(ctx context.Context) error {
	list, err := a.inputURLs()
	if err != nil {
		return err
	}

	records := make([]record.MetadataRecord, 0, len(list))
	for i, u := range list {
		fmt.Fprintf(a.out, "Scraping [%d/%d]: %s\n", i+1, len(list), u)
		records = append(records, a.scrapeOne(ctx, u))
	}

	if err := report.WriteCSVFile(a.cfg.OutputPath, records); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info().Str("out", a.cfg.OutputPath).Int("rows", len(records)).Msg("wrote report")
	fmt.Fprintf(a.out, "\nResults saved to %s\n", a.cfg.OutputPath)

	summary := report.Summarize(records)
	fmt.Fprintln(a.out)
	for _, line := range summary.Lines() {
		fmt.Fprintln(a.out, line)
	}

	if a.cfg.OutputPDFPath != "" {
		if err := report.WriteSummaryPDF(summary, a.cfg.OutputPDFPath); err != nil {
			log.Warn().Err(err).Str("out", a.cfg.OutputPDFPath).Msg("pdf summary failed")
		} else {
			log.Info().Str("out", a.cfg.OutputPDFPath).Msg("wrote pdf summary")
		}
	}
	return nil
}

// scrapeOne turns a single URL into one record. Every failure mode lands in
// the record's error field; the schema stays identical either way.
func (a *App) scrapeOne(ctx context.Context, pageURL string) record.MetadataRecord {
	a.sleep(a.randomDelay())

	if a.robots != nil && !a.robots.Allowed(ctx, pageURL) {
		log.Debug().Str("url", pageURL).Msg("blocked by robots.txt")
		return record.Failed(pageURL, "blocked by robots.txt")
	}

	body, contentType, err := a.fetcher.Get(ctx, pageURL)
	if err != nil {
		log.Warn().Err(err).Str("url", pageURL).Msg("fetch failed")
		return record.Failed(pageURL, failureReason(err))
	}

	doc, err := extract.Parse(body, contentType)
	if err != nil {
		log.Warn().Err(err).Str("url", pageURL).Msg("parse failed")
		return record.Failed(pageURL, failureReason(err))
	}
	return record.FromDocument(pageURL, doc)
}

func (a *App) inputURLs() ([]string, error) {
	var list []string
	if a.cfg.InputPath != "" {
		fromFile, err := urls.ReadFile(a.cfg.InputPath)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		list = fromFile
	}
	list = append(list, a.cfg.URLs...)
	if len(list) == 0 {
		return nil, ErrNoInputURLs
	}
	return list, nil
}

// randomDelay draws a uniform duration from [DelayMin, DelayMax].
func (a *App) randomDelay() time.Duration {
	min, max := a.cfg.DelayMin, a.cfg.DelayMax
	if max <= min {
		return min
	}
	return min + time.Duration(a.rng.Int63n(int64(max-min)+1))
}

// failureReason renders a fetch or parse error as the record's error text.
// Timeouts collapse to a stable description; everything else keeps the error
// message as-is.
func failureReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return "timeout"
	}
	return err.Error()
}
