package app

import "time"

// Config holds runtime configuration for a scrape run.
type Config struct {
	// InputPath is an optional URL list file (text, CSV with a url column, or
	// NDJSON). URLs may also be provided directly.
	InputPath  string
	OutputPath string
	// OutputPDFPath, when set, additionally renders the run summary as a PDF.
	OutputPDFPath string
	// URLs given on the command line; appended after the input file's list.
	URLs []string

	// Fetching
	UserAgent   string
	Timeout     time.Duration
	MaxAttempts int

	// Politeness
	DelayMin      time.Duration
	DelayMax      time.Duration
	RespectRobots bool

	// Cache
	CacheDir    string
	CacheMaxAge time.Duration
	CacheClear  bool

	Verbose bool
}
