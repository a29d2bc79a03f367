package database

import (
	"time"

	"gradstats/app/clean"
)

// Applicant is one stored admission posting. Program carries the combined
// "Program, University" text the way the site displays it; the two
// llm_generated columns hold the advisory standardized names and are kept
// apart from the scraped originals.
type Applicant struct {
	ID                     int
	Program                string
	Comments               string
	DateAdded              *time.Time
	URL                    string
	Status                 string
	Term                   string
	USOrInternational      string
	GPA                    *float64
	GRE                    *float64
	GREVerbal              *float64
	GREAnalyticalWriting   *float64
	Degree                 string
	LLMGeneratedProgram    string
	LLMGeneratedUniversity string
	CreatedAt              time.Time
}

// NewApplicant maps a standardized pipeline record onto the storage shape.
func NewApplicant(rec clean.StandardizedRecord) Applicant {
	a := Applicant{
		Program:                combineProgram(rec.Program, rec.University),
		Comments:               rec.Comments,
		URL:                    rec.URL,
		Term:                   rec.Term(),
		GPA:                    rec.GPA,
		GRE:                    rec.GREScore,
		GREVerbal:              rec.GREVerbal,
		GREAnalyticalWriting:   rec.GREWriting,
		LLMGeneratedProgram:    rec.GeneratedProgram,
		LLMGeneratedUniversity: rec.GeneratedUniversity,
	}

	if rec.DecisionStatus != clean.StatusUnknown {
		a.Status = string(rec.DecisionStatus)
	}
	if rec.Degree != clean.DegreeUnknown {
		a.Degree = string(rec.Degree)
	}
	if rec.Citizenship != clean.CitizenshipUnknown {
		a.USOrInternational = string(rec.Citizenship)
	}

	if d := rec.AddedDate; d != nil && d.HasYear() {
		added := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
		a.DateAdded = &added
	}

	return a
}

func combineProgram(program, university string) string {
	switch {
	case program == "":
		return university
	case university == "":
		return program
	default:
		return program + ", " + university
	}
}
