package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"gradstats/app/analysis"
	"gradstats/app/clean"
	"gradstats/app/database"
	"gradstats/app/scrape"
)

// PullDataTask runs one end-to-end batch: fetch raw postings, clean and
// standardize them, and load the results into the database and the NDJSON
// archive. Pulls never retry automatically; a failed scrape is surfaced and
// the operator decides whether to pull again.
type PullDataTask struct {
	Task
	newSource  func(ctx context.Context) (clean.Source, error)
	pipeline   *clean.Pipeline
	applicants database.ApplicantRepository
	service    *analysis.Service
	cache      *analysis.Cache
	outputFile string
}

func NewPullDataTask(newSource func(ctx context.Context) (clean.Source, error),
	pipeline *clean.Pipeline, applicants database.ApplicantRepository,
	service *analysis.Service, cache *analysis.Cache, outputFile string) *PullDataTask {
	task := NewTask(TaskTypePullData)
	task.MaxRetries = 0

	return &PullDataTask{
		Task:       task,
		newSource:  newSource,
		pipeline:   pipeline,
		applicants: applicants,
		service:    service,
		cache:      cache,
		outputFile: outputFile,
	}
}

func (t *PullDataTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	source, err := t.newSource(ctx)
	if err != nil {
		return fmt.Errorf("failed to open record source: %w", err)
	}

	seen, err := t.applicants.GetKnownURLs()
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %w", err)
	}
	slog.Debug("Loaded pull checkpoint", "known_urls", len(seen))

	writer, err := scrape.NewRecordWriter(t.outputFile)
	if err != nil {
		return fmt.Errorf("failed to open record writer: %w", err)
	}
	defer writer.Close()

	sink := multiSink{writer, &applicantSink{repo: t.applicants}}

	report, err := t.pipeline.Run(ctx, source, sink, seen)
	if report != nil {
		slog.Info("Pull completed", "type", t.GetType(), "duration", t.GetDuration(), "report", report.JSON())
		t.cache.SetReport(report)
	}
	if err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}

	metrics, err := t.service.Compute()
	if err != nil {
		return fmt.Errorf("failed to refresh analysis after pull: %w", err)
	}
	t.cache.Set(metrics)

	return nil
}

// applicantSink adapts the applicant repository to the pipeline sink shape.
type applicantSink struct {
	repo database.ApplicantRepository
}

func (s *applicantSink) Write(rec clean.StandardizedRecord) error {
	_, err := s.repo.InsertApplicant(database.NewApplicant(rec))
	return err
}

// multiSink fans one record out to several sinks; the first failure wins.
type multiSink []clean.Sink

func (m multiSink) Write(rec clean.StandardizedRecord) error {
	for _, sink := range m {
		if err := sink.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
