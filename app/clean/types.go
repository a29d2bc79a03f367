// Package clean turns noisy scraped admission records into normalized, typed
// records and reconciles their free-text names against the canonical
// vocabularies with a guardrailed auxiliary generator.
package clean

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrFatalInput marks input that is not a well-formed record collection at
// all. It is the only per-batch condition that aborts the pipeline.
var ErrFatalInput = errors.New("input is not a well-formed record collection")

// RawRecord is a loosely-typed scraped posting, exactly as produced by the
// fetch step. The URL is the natural identifier, unique per posting.
type RawRecord struct {
	University     string `json:"university,omitempty"`
	Program        string `json:"program,omitempty"`
	Degree         string `json:"degree,omitempty"`
	AddedDate      string `json:"added_date,omitempty"`
	DecisionStatus string `json:"decision_status,omitempty"`
	DecisionDate   string `json:"decision_date,omitempty"`
	URL            string `json:"url,omitempty"`
	Comments       string `json:"comments,omitempty"`
	Semester       string `json:"semester,omitempty"`
	Year           string `json:"year,omitempty"`
	International  string `json:"international,omitempty"`
	GREScore       string `json:"gre_score,omitempty"`
	GREVerbal      string `json:"gre_verbal,omitempty"`
	GREWriting     string `json:"gre_writing,omitempty"`
	GPA            string `json:"gpa,omitempty"`
}

type DecisionStatus string

const (
	StatusAccepted   DecisionStatus = "Accepted"
	StatusRejected   DecisionStatus = "Rejected"
	StatusWaitlisted DecisionStatus = "Waitlisted"
	StatusUnknown    DecisionStatus = "Unknown"
)

type Degree string

const (
	DegreeMasters Degree = "Masters"
	DegreePhD     Degree = "PhD"
	DegreeUnknown Degree = "Unknown"
)

type Citizenship string

const (
	CitizenshipInternational Citizenship = "International"
	CitizenshipAmerican      Citizenship = "American"
	CitizenshipUnknown       Citizenship = "Unknown"
)

// PartialDate is a calendar date whose year may be unknown. Postings often
// carry decision dates like "26 Jan" with no year; guessing the year across a
// year boundary is wrong, so Year stays 0 and downstream code tolerates it.
type PartialDate struct {
	Year  int        `json:"year,omitempty"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

func (d PartialDate) HasYear() bool {
	return d.Year != 0
}

// String renders ISO-style dates, with the year segment blank when unknown
// ("--01-26").
func (d PartialDate) String() string {
	if !d.HasYear() {
		return fmt.Sprintf("--%02d-%02d", d.Month, d.Day)
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// NormalizedRecord has the same logical shape as RawRecord with typed,
// range-validated fields. Absent is represented by nil pointers, empty
// strings, zero Year, or the Unknown categorical values.
type NormalizedRecord struct {
	University     string         `json:"university,omitempty"`
	Program        string         `json:"program,omitempty"`
	Degree         Degree         `json:"degree"`
	DecisionStatus DecisionStatus `json:"decision_status"`
	Citizenship    Citizenship    `json:"international"`
	AddedDate      *PartialDate   `json:"added_date,omitempty"`
	DecisionDate   *PartialDate   `json:"decision_date,omitempty"`
	URL            string         `json:"url,omitempty"`
	Comments       string         `json:"comments,omitempty"`
	Semester       string         `json:"semester,omitempty"`
	Year           int            `json:"year,omitempty"`
	GPA            *float64       `json:"gpa,omitempty"`
	GREScore       *float64       `json:"gre_score,omitempty"`
	GREVerbal      *float64       `json:"gre_verbal,omitempty"`
	GREWriting     *float64       `json:"gre_writing,omitempty"`
}

// Term combines semester and year into the usual "Fall 2026" form, or ""
// when either part is missing.
func (r NormalizedRecord) Term() string {
	if r.Semester == "" || r.Year == 0 {
		return ""
	}
	return fmt.Sprintf("%s %d", r.Semester, r.Year)
}

// Branch records which arm of the standardization state machine produced the
// advisory fields of a record.
type Branch string

const (
	// BranchCanonicalMatch - the proposal was repaired to a canonical entry.
	BranchCanonicalMatch Branch = "canonical_match"
	// BranchFixTable - a hand-maintained fix-table entry overrode the proposal.
	BranchFixTable Branch = "fix_table"
	// BranchAcceptedProposal - the generator's proposal was accepted as-is.
	BranchAcceptedProposal Branch = "accepted_proposal"
	// BranchRejectedToOriginal - the guardrail rejected the proposal as a
	// likely hallucination and fell back to the original text.
	BranchRejectedToOriginal Branch = "rejected_to_original"
	// BranchUnchanged - the generator was unavailable or had nothing to work
	// with; advisory fields mirror the originals.
	BranchUnchanged Branch = "unchanged"
)

// StandardizedRecord is a NormalizedRecord plus two advisory fields. The
// advisory fields are explicitly lower-trust than the originals and never
// overwrite them.
type StandardizedRecord struct {
	NormalizedRecord
	GeneratedUniversity string `json:"generated_university,omitempty"`
	GeneratedProgram    string `json:"generated_program,omitempty"`
	Branch              Branch `json:"standardization_branch"`
}

// Proposal is the generator's suggested split/corrected name pair.
type Proposal struct {
	University string
	Program    string
}

// Generator proposes split and corrected university/program names for a raw
// text. Implementations are external and unreliable; callers must guard the
// result; see Standardizer.
type Generator interface {
	ProposeNames(ctx context.Context, raw string) (Proposal, error)
}

// Source yields raw records lazily. Next returns nil when the sequence is
// exhausted; any error is treated as fatal for the batch.
type Source interface {
	Next(ctx context.Context) (*RawRecord, error)
}

// Sink receives completed standardized records. Writes happen sequentially
// from the pipeline's collector goroutine.
type Sink interface {
	Write(rec StandardizedRecord) error
}
