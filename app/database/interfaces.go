package database

type ApplicantRepository interface {
	InsertApplicant(a Applicant) (bool, error)
	GetApplicantCount() (int, error)
	GetKnownURLs() (map[string]struct{}, error)
}

// Stats is the full set of aggregate answers served by the analysis page.
// Pointer fields are nil when the underlying rows are absent (for example an
// average over zero providers).
type Stats struct {
	TermApplicants           int
	InternationalPercent     *float64
	AvgGPA                   *float64
	AvgGRE                   *float64
	AvgGREVerbal             *float64
	AvgGREWriting            *float64
	AvgGPAAmericanTerm       *float64
	TermAcceptancePercent    *float64
	AvgGPAAcceptedTerm       *float64
	JHUMastersCS             int
	TermAcceptedPhDCS        int
	TermAcceptedPhDCSLLM     int
	TopUniversities          []UniversityCount
	OverallAcceptancePercent *float64
}

type UniversityCount struct {
	University string
	Count      int
}

type StatsRepository interface {
	GetStats(term string) (*Stats, error)
	GetTopUniversities(term string, limit int) ([]UniversityCount, error)
}
