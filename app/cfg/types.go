package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	Port              string
	DataDir           string
	InputFile         string
	OutputFile        string
	WorkerCount       int
	SchedulerInterval int

	// Scraper configuration
	ScrapeBaseURL  string
	ScrapeMaxPages int
	ScrapeDelay    int

	// Auxiliary generator configuration
	GeneratorURL       string
	GeneratorTimeout   int
	GeneratorMaxTokens int

	// Canonical matching policy
	UniversityThreshold float64
	ProgramThreshold    float64
	DissimilarityBound  float64

	// Analysis configuration
	TargetTerm string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
