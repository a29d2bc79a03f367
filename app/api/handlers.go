package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gradstats/app/tasks"
)

func (h *Handler) GetIndex(c *gin.Context) {
	c.Redirect(http.StatusFound, "/analysis")
}

// GetAnalysis renders the analysis page from the cached snapshot. The page
// never computes anything itself: until the first pull or refresh completes
// it shows an empty state.
func (h *Handler) GetAnalysis(c *gin.Context) {
	metrics, computedAt, ok := h.cache.Get()

	data := gin.H{
		"Metrics":     metrics,
		"HasAnalysis": ok,
		"PullRunning": h.scheduler.IsPullRunning(),
	}
	if ok {
		data["ComputedAt"] = computedAt.Format("2006-01-02 15:04:05")
	}

	c.HTML(http.StatusOK, "analysis.html", data)
}

// PullData starts a background pull. While one is running further pulls are
// rejected with 409 so two scrapes never overlap.
func (h *Handler) PullData(c *gin.Context) {
	if h.scheduler.IsPullRunning() {
		c.JSON(http.StatusConflict, gin.H{"error": "A data pull is already in progress"})
		return
	}

	if err := h.scheduler.EnqueueTask(h.newPullTask()); err != nil {
		if errors.Is(err, tasks.ErrPullInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": "A data pull is already in progress"})
			return
		}
		slog.Error("Failed to enqueue pull task", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start data pull"})
		return
	}

	c.Redirect(http.StatusSeeOther, "/analysis")
}

// UpdateAnalysis recomputes the cached snapshot. Refused while a pull is
// running: the recompute would race the load and show a half-loaded batch.
func (h *Handler) UpdateAnalysis(c *gin.Context) {
	if h.scheduler.IsPullRunning() {
		c.JSON(http.StatusConflict, gin.H{"error": "A data pull is in progress, try again when it finishes"})
		return
	}

	if err := h.scheduler.EnqueueTask(h.newRefreshTask()); err != nil {
		slog.Error("Failed to enqueue refresh task", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh analysis"})
		return
	}

	c.Redirect(http.StatusSeeOther, "/analysis")
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if count, err := h.applicants.GetApplicantCount(); err == nil {
		health["applicants"] = count
	}

	health["pull_running"] = h.scheduler.IsPullRunning()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	count, err := h.applicants.GetApplicantCount()
	if err != nil {
		slog.Error("Database error", "operation", "get_applicant_count", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read statistics"})
		return
	}

	stats := gin.H{
		"applicants":   count,
		"pull_running": h.scheduler.IsPullRunning(),
	}

	metrics, computedAt, ok := h.cache.Get()
	if ok {
		stats["analysis_computed_at"] = computedAt.Format(time.RFC3339)
		stats["analysis"] = metrics
	}
	if report := h.cache.LastReport(); report != nil {
		stats["last_pull_report"] = report
	}

	c.JSON(http.StatusOK, stats)
}
