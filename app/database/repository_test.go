package database

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"gradstats/app/clean"
)

func testDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatal(err)
	}
	return db
}

func floatPtr(f float64) *float64 { return &f }

func testApplicant(url string) Applicant {
	return Applicant{
		Program:                "Computer Science, Yale University",
		URL:                    url,
		Status:                 "Accepted",
		Term:                   "Fall 2026",
		USOrInternational:      "International",
		GPA:                    floatPtr(3.9),
		Degree:                 "PhD",
		LLMGeneratedProgram:    "Computer Science",
		LLMGeneratedUniversity: "Yale University",
	}
}

func TestInsertApplicantIdempotentByURL(t *testing.T) {
	repo := NewApplicantRepository(testDB(t))

	inserted, err := repo.InsertApplicant(testApplicant("https://example.com/result/1"))
	if err != nil {
		t.Fatal(err)
	}
	if !inserted {
		t.Error("First insert should report a new row")
	}

	inserted, err = repo.InsertApplicant(testApplicant("https://example.com/result/1"))
	if err != nil {
		t.Fatal(err)
	}
	if inserted {
		t.Error("Duplicate URL should be skipped, not inserted")
	}

	count, err := repo.GetApplicantCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Expected 1 row, got %d", count)
	}
}

func TestInsertApplicantWithoutURL(t *testing.T) {
	repo := NewApplicantRepository(testDB(t))

	// Records without URLs never collide with each other.
	for i := 0; i < 3; i++ {
		if _, err := repo.InsertApplicant(testApplicant("")); err != nil {
			t.Fatal(err)
		}
	}

	count, err := repo.GetApplicantCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("Expected 3 rows, got %d", count)
	}
}

func TestGetKnownURLs(t *testing.T) {
	repo := NewApplicantRepository(testDB(t))

	for _, url := range []string{"https://example.com/result/1", "https://example.com/result/2", ""} {
		if _, err := repo.InsertApplicant(testApplicant(url)); err != nil {
			t.Fatal(err)
		}
	}

	urls, err := repo.GetKnownURLs()
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 2 {
		t.Fatalf("Expected 2 known URLs, got %d", len(urls))
	}
	if _, ok := urls["https://example.com/result/1"]; !ok {
		t.Error("Missing known URL")
	}
}

func TestNewApplicantMapping(t *testing.T) {
	gpa := 3.95
	rec := clean.StandardizedRecord{
		NormalizedRecord: clean.NormalizedRecord{
			University:     "Yale University",
			Program:        "Statistics and Data Science",
			Degree:         clean.DegreeMasters,
			DecisionStatus: clean.StatusAccepted,
			Citizenship:    clean.CitizenshipUnknown,
			AddedDate:      &clean.PartialDate{Year: 2026, Month: time.January, Day: 26},
			DecisionDate:   &clean.PartialDate{Month: time.January, Day: 26},
			URL:            "https://example.com/result/1",
			Semester:       "Fall",
			Year:           2026,
			GPA:            &gpa,
		},
		GeneratedUniversity: "Yale University",
		GeneratedProgram:    "Statistics and Data Science",
		Branch:              clean.BranchCanonicalMatch,
	}

	a := NewApplicant(rec)
	if a.Program != "Statistics and Data Science, Yale University" {
		t.Errorf("program = %q", a.Program)
	}
	if a.Term != "Fall 2026" {
		t.Errorf("term = %q", a.Term)
	}
	if a.Status != "Accepted" || a.Degree != "Masters" {
		t.Errorf("status = %q, degree = %q", a.Status, a.Degree)
	}
	if a.USOrInternational != "" {
		t.Errorf("Unknown citizenship should map to empty, got %q", a.USOrInternational)
	}
	if a.DateAdded == nil || a.DateAdded.Year() != 2026 {
		t.Errorf("date_added = %v", a.DateAdded)
	}
	if a.GPA == nil || *a.GPA != 3.95 {
		t.Errorf("gpa = %v", a.GPA)
	}
}

func TestGetStats(t *testing.T) {
	db := testDB(t)
	repo := NewApplicantRepository(db)
	stats := NewStatsRepository(db)

	applicants := []Applicant{
		{
			Program: "Computer Science, Johns Hopkins University", Degree: "Masters",
			Term: "Fall 2026", Status: "Accepted", USOrInternational: "American",
			GPA: floatPtr(3.8), URL: "https://example.com/result/1",
			LLMGeneratedUniversity: "Johns Hopkins University",
		},
		{
			Program: "Computer Science, Stanford University", Degree: "PhD",
			Term: "Fall 2026", Status: "Accepted", USOrInternational: "International",
			GPA: floatPtr(4.0), GRE: floatPtr(330), URL: "https://example.com/result/2",
			LLMGeneratedProgram: "Computer Science", LLMGeneratedUniversity: "Stanford University",
		},
		{
			Program: "History, Yale University", Degree: "PhD",
			Term: "Fall 2026", Status: "Rejected", USOrInternational: "International",
			URL: "https://example.com/result/3", LLMGeneratedUniversity: "Yale University",
		},
		{
			Program: "Statistics, Yale University", Degree: "Masters",
			Term: "Spring 2026", Status: "Accepted", USOrInternational: "American",
			GPA: floatPtr(3.0), URL: "https://example.com/result/4",
			LLMGeneratedUniversity: "Yale University",
		},
	}
	for _, a := range applicants {
		if _, err := repo.InsertApplicant(a); err != nil {
			t.Fatal(err)
		}
	}

	s, err := stats.GetStats("Fall 2026")
	if err != nil {
		t.Fatal(err)
	}

	if s.TermApplicants != 3 {
		t.Errorf("TermApplicants = %d, want 3", s.TermApplicants)
	}
	if s.InternationalPercent == nil || *s.InternationalPercent != 50.0 {
		t.Errorf("InternationalPercent = %v, want 50", s.InternationalPercent)
	}
	if s.AvgGPA == nil || math.Abs(*s.AvgGPA-3.6) > 1e-9 {
		t.Errorf("AvgGPA = %v, want 3.6", s.AvgGPA)
	}
	if s.AvgGRE == nil || *s.AvgGRE != 330 {
		t.Errorf("AvgGRE = %v, want 330", s.AvgGRE)
	}
	if s.AvgGPAAmericanTerm == nil || *s.AvgGPAAmericanTerm != 3.8 {
		t.Errorf("AvgGPAAmericanTerm = %v, want 3.8", s.AvgGPAAmericanTerm)
	}
	if s.TermAcceptancePercent == nil || math.Abs(*s.TermAcceptancePercent-200.0/3.0) > 1e-9 {
		t.Errorf("TermAcceptancePercent = %v, want ~66.67", s.TermAcceptancePercent)
	}
	if s.AvgGPAAcceptedTerm == nil || *s.AvgGPAAcceptedTerm != 3.9 {
		t.Errorf("AvgGPAAcceptedTerm = %v, want 3.9", s.AvgGPAAcceptedTerm)
	}
	if s.JHUMastersCS != 1 {
		t.Errorf("JHUMastersCS = %d, want 1", s.JHUMastersCS)
	}
	if s.TermAcceptedPhDCS != 1 {
		t.Errorf("TermAcceptedPhDCS = %d, want 1", s.TermAcceptedPhDCS)
	}
	if s.TermAcceptedPhDCSLLM != 1 {
		t.Errorf("TermAcceptedPhDCSLLM = %d, want 1", s.TermAcceptedPhDCSLLM)
	}
	if s.OverallAcceptancePercent == nil || *s.OverallAcceptancePercent != 75.0 {
		t.Errorf("OverallAcceptancePercent = %v, want 75", s.OverallAcceptancePercent)
	}

	if len(s.TopUniversities) != 3 {
		t.Fatalf("TopUniversities = %v", s.TopUniversities)
	}
	if s.TopUniversities[0].University != "Yale University" || s.TopUniversities[0].Count != 2 {
		t.Errorf("Top university = %+v", s.TopUniversities[0])
	}
}

func TestGetStatsEmptyDatabase(t *testing.T) {
	stats := NewStatsRepository(testDB(t))

	s, err := stats.GetStats("Fall 2026")
	if err != nil {
		t.Fatal(err)
	}
	if s.TermApplicants != 0 {
		t.Errorf("TermApplicants = %d", s.TermApplicants)
	}
	if s.InternationalPercent != nil {
		t.Errorf("InternationalPercent should be nil on an empty table, got %v", *s.InternationalPercent)
	}
	if s.AvgGPA != nil {
		t.Errorf("AvgGPA should be nil, got %v", *s.AvgGPA)
	}
	if len(s.TopUniversities) != 0 {
		t.Errorf("TopUniversities = %v", s.TopUniversities)
	}
}

func TestClampLimit(t *testing.T) {
	cases := map[int]int{-5: 1, 0: 1, 1: 1, 50: 50, 100: 100, 1000: 100}
	for input, expected := range cases {
		if got := clampLimit(input); got != expected {
			t.Errorf("clampLimit(%d) = %d, want %d", input, got, expected)
		}
	}
}
