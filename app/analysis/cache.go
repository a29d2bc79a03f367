package analysis

import (
	"sync"
	"time"

	"gradstats/app/clean"
)

// Cache holds the last computed analysis snapshot. The page handler reads
// it; the refresh and pull tasks replace it.
type Cache struct {
	mu         sync.RWMutex
	metrics    []Metric
	computedAt time.Time
	lastReport *clean.QualityReport
}

func NewCache() *Cache {
	return &Cache{}
}

func (c *Cache) Set(metrics []Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = metrics
	c.computedAt = time.Now()
}

func (c *Cache) SetReport(report *clean.QualityReport) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastReport = report
}

// Get returns the cached snapshot and when it was computed. The boolean is
// false until the first successful computation.
func (c *Cache) Get() ([]Metric, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.metrics, c.computedAt, c.metrics != nil
}

func (c *Cache) LastReport() *clean.QualityReport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastReport
}
