package analysis

import (
	"strings"
	"testing"

	"gradstats/app/database"
)

type stubStats struct {
	stats *database.Stats
}

func (s *stubStats) GetStats(_ string) (*database.Stats, error) {
	return s.stats, nil
}

func (s *stubStats) GetTopUniversities(_ string, _ int) ([]database.UniversityCount, error) {
	return s.stats.TopUniversities, nil
}

func TestComputeFormatsAnswers(t *testing.T) {
	pct := 52.4567
	gpa := 3.74999
	service := NewService(&stubStats{stats: &database.Stats{
		TermApplicants:       1234,
		InternationalPercent: &pct,
		AvgGPA:               &gpa,
		TopUniversities: []database.UniversityCount{
			{University: "Yale University", Count: 42},
			{University: "Stanford University", Count: 17},
		},
	}}, "Fall 2026")

	metrics, err := service.Compute()
	if err != nil {
		t.Fatal(err)
	}
	if len(metrics) != 11 {
		t.Fatalf("Expected 11 metrics, got %d", len(metrics))
	}

	byQuestion := make(map[string]string, len(metrics))
	for _, m := range metrics {
		byQuestion[m.Question] = m.Answer
	}

	if got := byQuestion["How many entries applied for Fall 2026?"]; got != "1234" {
		t.Errorf("Term applicants = %q", got)
	}
	if got := byQuestion["What percentage of entries are international students?"]; got != "52.46%" {
		t.Errorf("International percentage = %q", got)
	}
	if got := byQuestion["Which universities have the most entries (standardized names)?"]; got != "Yale University: 42; Stanford University: 17" {
		t.Errorf("Top universities = %q", got)
	}

	averages := byQuestion["What are the average GPA, GRE, GRE V and GRE AW of entries that provide them?"]
	if !strings.Contains(averages, "GPA: 3.75") {
		t.Errorf("Averages = %q", averages)
	}
	if !strings.Contains(averages, "GRE: N/A") {
		t.Errorf("Absent averages should render N/A, got %q", averages)
	}
}

func TestComputeEmptyStats(t *testing.T) {
	service := NewService(&stubStats{stats: &database.Stats{}}, "Fall 2026")

	metrics, err := service.Compute()
	if err != nil {
		t.Fatal(err)
	}

	for _, m := range metrics {
		if m.Answer == "" {
			t.Errorf("%q: empty answer", m.Question)
		}
	}
	if metrics[1].Answer != "N/A" {
		t.Errorf("Percentage over empty table = %q, want N/A", metrics[1].Answer)
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := formatFloat(nil); got != "N/A" {
		t.Errorf("formatFloat(nil) = %q", got)
	}
	v := 3.0
	if got := formatFloat(&v); got != "3.00" {
		t.Errorf("formatFloat(3.0) = %q", got)
	}
	if got := formatPercent(&v); got != "3.00%" {
		t.Errorf("formatPercent(3.0) = %q", got)
	}
	if got := formatTopUniversities(nil); got != "N/A" {
		t.Errorf("formatTopUniversities(nil) = %q", got)
	}
}

func TestCache(t *testing.T) {
	cache := NewCache()

	if _, _, ok := cache.Get(); ok {
		t.Error("Fresh cache should be empty")
	}

	cache.Set([]Metric{{Question: "q", Answer: "a"}})
	metrics, computedAt, ok := cache.Get()
	if !ok || len(metrics) != 1 {
		t.Fatalf("Cache miss after Set: %v %v", metrics, ok)
	}
	if computedAt.IsZero() {
		t.Error("computedAt should be set")
	}
}
