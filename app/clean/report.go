package clean

import (
	"encoding/json"
)

// QualityReport aggregates per-batch counts for operators. It is written to
// the log side channel at end of batch and never mixed into the record
// stream.
type QualityReport struct {
	TotalRecords        int            `json:"total_records"`
	SkippedKnown        int            `json:"skipped_known"`
	Written             int            `json:"written"`
	WriteErrors         int            `json:"write_errors"`
	MissingFields       map[string]int `json:"missing_fields"`
	SeparatorNotFound   int            `json:"separator_not_found"`
	MissingYearDates    int            `json:"missing_year_dates"`
	GeneratorFailures   int            `json:"generator_failures"`
	GuardrailRejections int            `json:"guardrail_rejections"`
	FixTableCorrections int            `json:"fix_table_corrections"`
	CanonicalMatches    int            `json:"canonical_matches"`
	AcceptedProposals   int            `json:"accepted_proposals"`
}

func NewQualityReport() *QualityReport {
	return &QualityReport{MissingFields: make(map[string]int)}
}

// observe folds one record's normalization notes into the report. Callers
// hold the pipeline's mutex.
func (r *QualityReport) observe(notes NormalizationNotes) {
	for _, field := range notes.MissingFields {
		r.MissingFields[field]++
	}
	if notes.SeparatorNotFound {
		r.SeparatorNotFound++
	}
	if notes.MissingYear {
		r.MissingYearDates++
	}
}

// observeBranch counts the standardization outcome of one record.
func (r *QualityReport) observeBranch(branch Branch) {
	switch branch {
	case BranchCanonicalMatch:
		r.CanonicalMatches++
	case BranchFixTable:
		r.FixTableCorrections++
	case BranchAcceptedProposal:
		r.AcceptedProposals++
	case BranchRejectedToOriginal:
		r.GuardrailRejections++
	}
}

// JSON renders the report as a single JSON object for the side-channel log.
func (r *QualityReport) JSON() string {
	data, err := json.Marshal(r)
	if err != nil {
		return "{}"
	}
	return string(data)
}
