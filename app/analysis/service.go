// Package analysis turns the stored applicant rows into the labeled answer
// list shown on the analysis page, and caches the last computed snapshot so
// page loads never touch the database.
package analysis

import (
	"fmt"

	"gradstats/app/database"
)

// Metric is one question/answer pair on the analysis page.
type Metric struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Service struct {
	stats database.StatsRepository
	term  string
}

// NewService builds the analysis service for one target application term.
func NewService(stats database.StatsRepository, term string) *Service {
	return &Service{stats: stats, term: term}
}

// Compute answers every analysis question from the current table contents.
func (s *Service) Compute() ([]Metric, error) {
	stats, err := s.stats.GetStats(s.term)
	if err != nil {
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}

	metrics := []Metric{
		{
			Question: fmt.Sprintf("How many entries applied for %s?", s.term),
			Answer:   fmt.Sprintf("%d", stats.TermApplicants),
		},
		{
			Question: "What percentage of entries are international students?",
			Answer:   formatPercent(stats.InternationalPercent),
		},
		{
			Question: "What are the average GPA, GRE, GRE V and GRE AW of entries that provide them?",
			Answer: fmt.Sprintf("GPA: %s, GRE: %s, GRE V: %s, GRE AW: %s",
				formatFloat(stats.AvgGPA), formatFloat(stats.AvgGRE),
				formatFloat(stats.AvgGREVerbal), formatFloat(stats.AvgGREWriting)),
		},
		{
			Question: fmt.Sprintf("What is the average GPA of American students in %s?", s.term),
			Answer:   formatFloat(stats.AvgGPAAmericanTerm),
		},
		{
			Question: fmt.Sprintf("What percentage of %s entries are acceptances?", s.term),
			Answer:   formatPercent(stats.TermAcceptancePercent),
		},
		{
			Question: fmt.Sprintf("What is the average GPA of %s acceptances?", s.term),
			Answer:   formatFloat(stats.AvgGPAAcceptedTerm),
		},
		{
			Question: "How many entries applied to Johns Hopkins University for a Masters in Computer Science?",
			Answer:   fmt.Sprintf("%d", stats.JHUMastersCS),
		},
		{
			Question: fmt.Sprintf("How many %s acceptances are for a PhD in Computer Science at Georgetown, MIT, Stanford or Carnegie Mellon (scraped names)?", s.term),
			Answer:   fmt.Sprintf("%d", stats.TermAcceptedPhDCS),
		},
		{
			Question: fmt.Sprintf("How many %s acceptances are for a PhD in Computer Science at Georgetown, MIT, Stanford or Carnegie Mellon (standardized names)?", s.term),
			Answer:   fmt.Sprintf("%d", stats.TermAcceptedPhDCSLLM),
		},
		{
			Question: "Which universities have the most entries (standardized names)?",
			Answer:   formatTopUniversities(stats.TopUniversities),
		},
		{
			Question: "What percentage of all entries are acceptances?",
			Answer:   formatPercent(stats.OverallAcceptancePercent),
		},
	}

	return metrics, nil
}
