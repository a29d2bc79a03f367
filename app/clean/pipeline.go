package clean

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Pipeline composes the normalizer and standardizer over a batch of raw
// records. Standardization runs on a bounded worker pool; completed records
// are written to the sink from a single collector so no partial record is
// ever emitted and every output derives from one input snapshot.
type Pipeline struct {
	normalizer   *Normalizer
	standardizer *Standardizer
	workerCount  int
}

func NewPipeline(normalizer *Normalizer, standardizer *Standardizer, workerCount int) *Pipeline {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Pipeline{
		normalizer:   normalizer,
		standardizer: standardizer,
		workerCount:  workerCount,
	}
}

// Run drains the source through the pipeline into the sink. The seen set is
// the resume checkpoint: records whose URL is already present are skipped,
// so rerunning a batch is a no-op for processed postings. Output order is
// unspecified; per-record processing is deterministic. A failing record
// degrades and is still emitted; only a source-level failure aborts the run.
func (p *Pipeline) Run(ctx context.Context, src Source, sink Sink, seen map[string]struct{}) (*QualityReport, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if seen == nil {
		seen = make(map[string]struct{})
	}

	report := NewQualityReport()
	var mu sync.Mutex

	jobs := make(chan RawRecord)
	results := make(chan StandardizedRecord)

	var srcErr error
	go func() {
		defer close(jobs)
		for {
			raw, err := src.Next(ctx)
			if err != nil {
				mu.Lock()
				srcErr = err
				mu.Unlock()
				cancel()
				return
			}
			if raw == nil {
				return
			}

			mu.Lock()
			report.TotalRecords++
			if raw.URL != "" {
				if _, dup := seen[raw.URL]; dup {
					report.SkippedKnown++
					mu.Unlock()
					continue
				}
				seen[raw.URL] = struct{}{}
			}
			mu.Unlock()

			select {
			case jobs <- *raw:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < p.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for raw := range jobs {
				normalized, notes := p.normalizer.Run(raw)

				standardized, genErr := p.standardizer.Run(ctx, normalized)
				if genErr != nil {
					slog.Warn("Generator unavailable, record kept unchanged",
						"url", normalized.URL, "error", genErr)
				}

				mu.Lock()
				report.observe(notes)
				report.observeBranch(standardized.Branch)
				if genErr != nil {
					report.GeneratorFailures++
				}
				mu.Unlock()

				select {
				case results <- standardized:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for standardized := range results {
		if err := sink.Write(standardized); err != nil {
			mu.Lock()
			report.WriteErrors++
			mu.Unlock()
			slog.Warn("Failed to write record", "url", standardized.URL, "error", err)
			continue
		}
		mu.Lock()
		report.Written++
		mu.Unlock()
	}

	if srcErr != nil {
		if errors.Is(srcErr, context.Canceled) || errors.Is(srcErr, context.DeadlineExceeded) {
			return report, srcErr
		}
		return report, fmt.Errorf("record source failed: %w", srcErr)
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}
