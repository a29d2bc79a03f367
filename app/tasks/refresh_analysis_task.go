package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"gradstats/app/analysis"
)

// RefreshAnalysisTask recomputes the cached analysis snapshot from whatever
// is currently in the database.
type RefreshAnalysisTask struct {
	Task
	service *analysis.Service
	cache   *analysis.Cache
}

func NewRefreshAnalysisTask(service *analysis.Service, cache *analysis.Cache) *RefreshAnalysisTask {
	return &RefreshAnalysisTask{
		Task:    NewTask(TaskTypeRefreshAnalysis),
		service: service,
		cache:   cache,
	}
}

func (t *RefreshAnalysisTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	metrics, err := t.service.Compute()
	if err != nil {
		return fmt.Errorf("failed to compute analysis: %w", err)
	}
	t.cache.Set(metrics)

	slog.Info("Task completed", "type", t.GetType(), "duration", t.GetDuration(), "metrics", len(metrics))
	return nil
}
