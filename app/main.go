package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gradstats/app/analysis"
	"gradstats/app/api"
	"gradstats/app/cfg"
	"gradstats/app/clean"
	"gradstats/app/database"
	"gradstats/app/llm"
	"gradstats/app/scrape"
	"gradstats/app/tasks"
	"gradstats/app/vocab"
)

func main() {
	config, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if config == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if config.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting GradStats server", "version", config.Version)

	db, err := database.NewConnection(config.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", config.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", config.DBPath, "schema_version", version, "dirty", dirty)

	universities, err := vocab.Load(filepath.Join(config.DataDir, "universities.txt"), vocab.KindUniversity)
	if err != nil {
		slog.Error("Failed to load university vocabulary", "error", err)
		os.Exit(1)
	}
	programs, err := vocab.Load(filepath.Join(config.DataDir, "programs.txt"), vocab.KindProgram)
	if err != nil {
		slog.Error("Failed to load program vocabulary", "error", err)
		os.Exit(1)
	}
	fixes, err := vocab.LoadFixTables(filepath.Join(config.DataDir, "fixes.yml"))
	if err != nil {
		slog.Error("Failed to load fix tables", "error", err)
		os.Exit(1)
	}
	slog.Info("Vocabularies loaded",
		"universities", universities.Len(),
		"programs", programs.Len(),
		"university_fixes", fixes.Universities.Len(),
		"program_fixes", fixes.Programs.Len())

	generator := llm.NewClient(config)
	standardizer := clean.NewStandardizer(generator, universities, programs, fixes, clean.StandardizerOptions{
		UniversityThreshold: config.UniversityThreshold,
		ProgramThreshold:    config.ProgramThreshold,
		DissimilarityBound:  config.DissimilarityBound,
	})
	pipeline := clean.NewPipeline(clean.NewNormalizer(), standardizer, config.WorkerCount)

	applicantRepo := database.NewApplicantRepository(db)
	statsRepo := database.NewStatsRepository(db)

	service := analysis.NewService(statsRepo, config.TargetTerm)
	cache := analysis.NewCache()

	// Warm the analysis cache from whatever a previous run loaded.
	if count, err := applicantRepo.GetApplicantCount(); err == nil && count > 0 {
		if metrics, err := service.Compute(); err == nil {
			cache.Set(metrics)
			slog.Info("Analysis cache warmed", "applicants", count)
		}
	}

	newSource := func(ctx context.Context) (clean.Source, error) {
		if config.InputFile != "" {
			return scrape.NewFileSource(config.InputFile)
		}
		return scrape.NewSiteSource(config), nil
	}
	newPullTask := func() tasks.TaskInterface {
		return tasks.NewPullDataTask(newSource, pipeline, applicantRepo, service, cache, config.OutputFile)
	}
	newRefreshTask := func() tasks.TaskInterface {
		return tasks.NewRefreshAnalysisTask(service, cache)
	}

	scheduler := tasks.NewScheduler(newPullTask)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", config.WorkerCount, "interval", config.SchedulerInterval)

	apiHandler := api.NewHandler(applicantRepo, cache, scheduler, newPullTask, newRefreshTask)
	server := api.NewServer(apiHandler)

	httpServer := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", config.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
