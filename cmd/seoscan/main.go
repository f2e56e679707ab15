package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/seoscan/seoscan/internal/app"
	"github.com/seoscan/seoscan/internal/fetch"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Allow a local .env to supply SEOSCAN_* variables used as flag defaults.
	_ = app.LoadEnvFiles(".env")

	var (
		configPath    string
		inputPath     string
		outputPath    string
		outputPDF     string
		userAgent     string
		timeout       time.Duration
		maxAttempts   int
		delayMin      time.Duration
		delayMax      time.Duration
		respectRobots bool
		cacheDir      string
		cacheMaxAge   time.Duration
		cacheClear    bool
		verbose       bool
	)

	flag.StringVar(&configPath, "config", os.Getenv("SEOSCAN_CONFIG"), "Path to YAML or JSON config file")
	flag.StringVar(&inputPath, "input", os.Getenv("SEOSCAN_INPUT"), "Path to URL list (text, CSV with a url column, or NDJSON)")
	flag.StringVar(&outputPath, "output", app.DefaultOutputPath, "Path to write the CSV report")
	flag.StringVar(&outputPDF, "output.pdf", "", "Optional path to write a PDF summary")
	flag.StringVar(&userAgent, "ua", fetch.DefaultUserAgent, "User-Agent header for page requests")
	flag.DurationVar(&timeout, "timeout", app.DefaultTimeout, "Per-request timeout")
	flag.IntVar(&maxAttempts, "max.attempts", 1, "Attempts per URL (1 disables retries)")
	flag.DurationVar(&delayMin, "delay.min", app.DefaultDelayMin, "Minimum politeness delay before each request")
	flag.DurationVar(&delayMax, "delay.max", app.DefaultDelayMax, "Maximum politeness delay before each request")
	flag.BoolVar(&respectRobots, "robots", false, "Honor robots.txt (disallowed URLs become failure rows)")
	flag.StringVar(&cacheDir, "cache.dir", os.Getenv("SEOSCAN_CACHE_DIR"), "Directory for the on-disk page cache (empty disables)")
	flag.DurationVar(&cacheMaxAge, "cache.maxAge", 0, "Max age for cache entries before purge (e.g. 24h); 0 disables")
	flag.BoolVar(&cacheClear, "cache.clear", false, "Clear cache directory before run")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := app.Config{
		InputPath:     inputPath,
		OutputPath:    outputPath,
		OutputPDFPath: outputPDF,
		URLs:          flag.Args(),
		UserAgent:     userAgent,
		Timeout:       timeout,
		MaxAttempts:   maxAttempts,
		DelayMin:      delayMin,
		DelayMax:      delayMax,
		RespectRobots: respectRobots,
		CacheDir:      cacheDir,
		CacheMaxAge:   cacheMaxAge,
		CacheClear:    cacheClear,
		Verbose:       verbose,
	}

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("config", configPath).Msg("load config failed")
			os.Exit(1)
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	if err := app.ValidateConfig(cfg); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	a := app.New(cfg)
	if err := a.Run(context.Background()); err != nil {
		return fmt.Errorf("scrape: %w", err)
	}
	return nil
}
