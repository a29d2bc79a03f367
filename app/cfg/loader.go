package cfg

import (
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	if Version == "" {
		return "unknown"
	}
	return Version
}

type rawCfg struct {
	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./data/gradstats.db" description:"Path to the SQLite database file"`

	// Application configuration
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	DataDir           string `long:"data-dir" env:"DATA_DIR" default:"./data" description:"Directory containing canonical vocabularies and fix tables"`
	InputFile         string `long:"input-file" env:"INPUT_FILE" description:"Read raw records from a JSON/NDJSON file instead of scraping (offline mode)"`
	OutputFile        string `long:"output-file" env:"OUTPUT_FILE" default:"./data/standardized_records.jsonl" description:"NDJSON file standardized records are appended to"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"4" description:"Number of pipeline workers for record standardization"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"0" description:"Interval in seconds between automatic data pulls (0 disables)"`

	// Scraper configuration
	ScrapeBaseURL  string `long:"scrape-base-url" env:"SCRAPE_BASE_URL" default:"https://www.thegradcafe.com" description:"Base URL of the admissions survey site"`
	ScrapeMaxPages int    `long:"scrape-max-pages" env:"SCRAPE_MAX_PAGES" default:"150" description:"Maximum number of survey pages to scrape per pull"`
	ScrapeDelay    int    `long:"scrape-delay" env:"SCRAPE_DELAY" default:"1" description:"Delay in seconds between page requests"`

	// Auxiliary generator configuration
	GeneratorURL       string `long:"generator-url" env:"GENERATOR_URL" default:"http://localhost:8000" description:"Base URL of the auxiliary name generator service"`
	GeneratorTimeout   int    `long:"generator-timeout" env:"GENERATOR_TIMEOUT" default:"20" description:"Timeout in seconds for a single generator call"`
	GeneratorMaxTokens int    `long:"generator-max-tokens" env:"GENERATOR_MAX_TOKENS" default:"64" description:"Maximum completion tokens requested from the generator"`

	// Canonical matching policy
	UniversityThreshold float64 `long:"university-threshold" env:"UNIVERSITY_THRESHOLD" default:"0.93" description:"Minimum similarity for a university canonical match"`
	ProgramThreshold    float64 `long:"program-threshold" env:"PROGRAM_THRESHOLD" default:"0.85" description:"Minimum similarity for a program canonical match"`
	DissimilarityBound  float64 `long:"dissimilarity-bound" env:"DISSIMILARITY_BOUND" default:"0.55" description:"Generator proposals below this similarity to the original are rejected as hallucinations"`

	// Analysis configuration
	TargetTerm string `long:"target-term" env:"TARGET_TERM" default:"Fall 2026" description:"Admission term the analysis page focuses on"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"GradStats/1.0 (Educational Research Bot)" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:              raw.DBPath,
		Port:                raw.Port,
		DataDir:             raw.DataDir,
		InputFile:           raw.InputFile,
		OutputFile:          raw.OutputFile,
		WorkerCount:         raw.WorkerCount,
		SchedulerInterval:   raw.SchedulerInterval,
		ScrapeBaseURL:       raw.ScrapeBaseURL,
		ScrapeMaxPages:      raw.ScrapeMaxPages,
		ScrapeDelay:         raw.ScrapeDelay,
		GeneratorURL:        raw.GeneratorURL,
		GeneratorTimeout:    raw.GeneratorTimeout,
		GeneratorMaxTokens:  raw.GeneratorMaxTokens,
		UniversityThreshold: raw.UniversityThreshold,
		ProgramThreshold:    raw.ProgramThreshold,
		DissimilarityBound:  raw.DissimilarityBound,
		TargetTerm:          raw.TargetTerm,
		UserAgent:           raw.UserAgent,
		Timezone:            raw.Timezone,
		Debug:               raw.Debug,
		Version:             GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
