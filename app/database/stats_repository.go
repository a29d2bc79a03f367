package database

import (
	"database/sql"
	"fmt"
)

// StatsRepositoryImpl computes the aggregate statistics served by the
// analysis page. Every query that takes a row limit clamps it to a safe
// range before it reaches SQL.
type StatsRepositoryImpl struct {
	db *DB
}

func NewStatsRepository(db *DB) *StatsRepositoryImpl {
	return &StatsRepositoryImpl{db: db}
}

const (
	minLimit = 1
	maxLimit = 100
)

func clampLimit(limit int) int {
	if limit < minLimit {
		return minLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// GetStats answers the full metric set for one application term.
func (r *StatsRepositoryImpl) GetStats(term string) (*Stats, error) {
	stats := &Stats{}

	if err := r.db.QueryRow(`
		SELECT COUNT(*) FROM applicants WHERE TRIM(term) = ?
	`, term).Scan(&stats.TermApplicants); err != nil {
		return nil, fmt.Errorf("failed to count term applicants: %w", err)
	}

	if err := r.scanFloat(&stats.InternationalPercent, `
		SELECT 100.0 * COUNT(*) / NULLIF((SELECT COUNT(*) FROM applicants), 0)
		FROM applicants
		WHERE us_or_international = 'International'
	`); err != nil {
		return nil, err
	}

	err := r.db.QueryRow(`
		SELECT AVG(gpa), AVG(gre), AVG(gre_v), AVG(gre_aw)
		FROM applicants
		WHERE gpa IS NOT NULL
		   OR gre IS NOT NULL
		   OR gre_v IS NOT NULL
		   OR gre_aw IS NOT NULL
	`).Scan(&stats.AvgGPA, &stats.AvgGRE, &stats.AvgGREVerbal, &stats.AvgGREWriting)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to compute score averages: %w", err)
	}

	if err := r.scanFloat(&stats.AvgGPAAmericanTerm, `
		SELECT AVG(gpa)
		FROM applicants
		WHERE TRIM(term) = ?
		  AND us_or_international = 'American'
		  AND gpa IS NOT NULL
	`, term); err != nil {
		return nil, err
	}

	if err := r.scanFloat(&stats.TermAcceptancePercent, `
		SELECT 100.0 * COUNT(*) /
		       NULLIF((SELECT COUNT(*) FROM applicants WHERE TRIM(term) = ?), 0)
		FROM applicants
		WHERE TRIM(term) = ? AND status = 'Accepted'
	`, term, term); err != nil {
		return nil, err
	}

	if err := r.scanFloat(&stats.AvgGPAAcceptedTerm, `
		SELECT AVG(gpa)
		FROM applicants
		WHERE TRIM(term) = ?
		  AND status = 'Accepted'
		  AND gpa IS NOT NULL
	`, term); err != nil {
		return nil, err
	}

	if err := r.db.QueryRow(`
		SELECT COUNT(*)
		FROM applicants
		WHERE program LIKE '%Johns Hopkins%'
		  AND program LIKE '%Computer Science%'
		  AND degree = 'Masters'
	`).Scan(&stats.JHUMastersCS); err != nil {
		return nil, fmt.Errorf("failed to count JHU masters CS applicants: %w", err)
	}

	if err := r.db.QueryRow(`
		SELECT COUNT(*)
		FROM applicants
		WHERE TRIM(term) = ?
		  AND status = 'Accepted'
		  AND degree = 'PhD'
		  AND program LIKE '%Computer Science%'
		  AND (
		    program LIKE '%Georgetown%' OR
		    program LIKE '%MIT%' OR
		    program LIKE '%Stanford%' OR
		    program LIKE '%Carnegie Mellon%'
		  )
	`, term).Scan(&stats.TermAcceptedPhDCS); err != nil {
		return nil, fmt.Errorf("failed to count accepted PhD CS applicants: %w", err)
	}

	if err := r.db.QueryRow(`
		SELECT COUNT(*)
		FROM applicants
		WHERE TRIM(term) = ?
		  AND status = 'Accepted'
		  AND degree = 'PhD'
		  AND llm_generated_program LIKE '%Computer Science%'
		  AND (
		    llm_generated_university LIKE '%Georgetown%' OR
		    llm_generated_university LIKE '%MIT%' OR
		    llm_generated_university LIKE '%Stanford%' OR
		    llm_generated_university LIKE '%Carnegie Mellon%'
		  )
	`, term).Scan(&stats.TermAcceptedPhDCSLLM); err != nil {
		return nil, fmt.Errorf("failed to count accepted PhD CS applicants (standardized): %w", err)
	}

	top, err := r.GetTopUniversities(term, 5)
	if err != nil {
		return nil, err
	}
	stats.TopUniversities = top

	if err := r.scanFloat(&stats.OverallAcceptancePercent, `
		SELECT 100.0 * (SELECT COUNT(*) FROM applicants WHERE status = 'Accepted') /
		       NULLIF((SELECT COUNT(*) FROM applicants), 0)
	`); err != nil {
		return nil, err
	}

	return stats, nil
}

// GetTopUniversities ranks standardized university names by posting count.
func (r *StatsRepositoryImpl) GetTopUniversities(_ string, limit int) ([]UniversityCount, error) {
	rows, err := r.db.Query(`
		SELECT llm_generated_university, COUNT(*)
		FROM applicants
		WHERE llm_generated_university IS NOT NULL
		GROUP BY llm_generated_university
		ORDER BY COUNT(*) DESC, llm_generated_university
		LIMIT ?
	`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query top universities: %w", err)
	}
	defer rows.Close()

	var result []UniversityCount
	for rows.Next() {
		var uc UniversityCount
		if err := rows.Scan(&uc.University, &uc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan university count: %w", err)
		}
		result = append(result, uc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate university counts: %w", err)
	}
	return result, nil
}

func (r *StatsRepositoryImpl) scanFloat(dest **float64, query string, args ...interface{}) error {
	var value sql.NullFloat64
	if err := r.db.QueryRow(query, args...).Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return fmt.Errorf("failed to compute statistic: %w", err)
	}
	if value.Valid {
		f := value.Float64
		*dest = &f
	}
	return nil
}
