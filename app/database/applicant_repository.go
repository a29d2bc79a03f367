package database

import (
	"fmt"
)

// ApplicantRepositoryImpl handles database operations for applicant records
type ApplicantRepositoryImpl struct {
	db *DB
}

func NewApplicantRepository(db *DB) *ApplicantRepositoryImpl {
	return &ApplicantRepositoryImpl{db: db}
}

// InsertApplicant stores one applicant record. Loads are idempotent by URL:
// a record whose URL is already present is silently skipped and the return
// value reports whether a row was actually inserted.
func (r *ApplicantRepositoryImpl) InsertApplicant(a Applicant) (bool, error) {
	result, err := r.db.Exec(`
		INSERT INTO applicants (
			program, comments, date_added, url, status, term,
			us_or_international, gpa, gre, gre_v, gre_aw, degree,
			llm_generated_program, llm_generated_university
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (url) DO NOTHING
	`, nullable(a.Program), nullable(a.Comments), a.DateAdded, nullable(a.URL),
		nullable(a.Status), nullable(a.Term), nullable(a.USOrInternational),
		a.GPA, a.GRE, a.GREVerbal, a.GREAnalyticalWriting, nullable(a.Degree),
		nullable(a.LLMGeneratedProgram), nullable(a.LLMGeneratedUniversity))
	if err != nil {
		return false, fmt.Errorf("failed to insert applicant: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected > 0, nil
}

// GetApplicantCount returns the total number of stored records
func (r *ApplicantRepositoryImpl) GetApplicantCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM applicants`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count applicants: %w", err)
	}
	return count, nil
}

// GetKnownURLs returns the URL set of all stored records. The pipeline uses
// it as its resume checkpoint so reruns skip already-loaded postings.
func (r *ApplicantRepositoryImpl) GetKnownURLs() (map[string]struct{}, error) {
	rows, err := r.db.Query(`SELECT url FROM applicants WHERE url IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to query known urls: %w", err)
	}
	defer rows.Close()

	urls := make(map[string]struct{})
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan url: %w", err)
		}
		urls[url] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate urls: %w", err)
	}
	return urls, nil
}

// nullable maps empty strings to NULL so the unique URL index and the
// statistics queries treat absent values uniformly.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
