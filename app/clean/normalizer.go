package clean

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

// Normalizer applies the per-field cleaning rules. It is pure and stateless:
// malformed or out-of-policy values normalize to absent, never to an error.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizationNotes reports which fields a record lost during cleaning, for
// the batch QualityReport.
type NormalizationNotes struct {
	MissingFields     []string
	SeparatorNotFound bool
	MissingYear       bool
}

var (
	tagRE    = regexp.MustCompile(`<[^>]+>`)
	numberRE = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
)

// sentinelTokens are placeholder values that mean "no data".
var sentinelTokens = map[string]struct{}{
	"n/a":     {},
	"na":      {},
	"none":    {},
	"unknown": {},
	"-":       {},
}

// bulletSeparators are the separators the survey site uses between a program
// name and its university when both land in one cell.
var bulletSeparators = []string{"•", "|"}

// Run cleans one raw record into a typed normalized record. Rerunning it on
// already-clean input produces identical output.
func (n *Normalizer) Run(raw RawRecord) (NormalizedRecord, NormalizationNotes) {
	var notes NormalizationNotes

	rec := NormalizedRecord{
		University: cleanText(raw.University),
		Program:    cleanText(raw.Program),
		URL:        cleanText(raw.URL),
		Comments:   cleanText(raw.Comments),
		Semester:   cleanSemester(raw.Semester),
	}

	n.splitProgram(&rec, &notes)

	rec.DecisionStatus = mapDecisionStatus(raw.DecisionStatus)
	rec.Degree = mapDegree(raw.Degree)
	rec.Citizenship = mapCitizenship(raw.International)

	rec.GPA = numberInRange(raw.GPA, 0.0, 4.0)
	rec.GREScore = numberInRange(raw.GREScore, 130, 340)
	rec.GREVerbal = numberInRange(raw.GREVerbal, 130, 340)
	rec.GREWriting = numberInRange(raw.GREWriting, 0.0, 6.0)

	if year := numberInRange(raw.Year, 1990, 2100); year != nil {
		rec.Year = int(*year)
	}

	rec.AddedDate = parseDate(cleanText(raw.AddedDate))
	rec.DecisionDate = parseDate(cleanText(raw.DecisionDate))
	for _, d := range []*PartialDate{rec.AddedDate, rec.DecisionDate} {
		if d != nil && !d.HasYear() {
			notes.MissingYear = true
		}
	}

	n.noteMissing(raw, rec, &notes)

	return rec, notes
}

// splitProgram handles the combined "Program • University" cell shape. When
// the university field is empty and no separator is present, the whole string
// stays in program and the case is reported, not failed.
func (n *Normalizer) splitProgram(rec *NormalizedRecord, notes *NormalizationNotes) {
	if rec.University != "" || rec.Program == "" {
		return
	}

	for _, sep := range bulletSeparators {
		if !strings.Contains(rec.Program, sep) {
			continue
		}
		parts := strings.SplitN(rec.Program, sep, 2)
		rec.Program = cleanText(parts[0])
		rec.University = cleanText(parts[1])
		return
	}

	notes.SeparatorNotFound = true
}

func (n *Normalizer) noteMissing(raw RawRecord, rec NormalizedRecord, notes *NormalizationNotes) {
	missing := func(field string, rawValue string, absent bool) {
		if absent && strings.TrimSpace(rawValue) != "" {
			// The field had content and lost it to validation.
			notes.MissingFields = append(notes.MissingFields, field)
		}
	}

	missing("gpa", raw.GPA, rec.GPA == nil)
	missing("gre_score", raw.GREScore, rec.GREScore == nil)
	missing("gre_verbal", raw.GREVerbal, rec.GREVerbal == nil)
	missing("gre_writing", raw.GREWriting, rec.GREWriting == nil)
	missing("decision_status", raw.DecisionStatus, rec.DecisionStatus == StatusUnknown)
	missing("degree", raw.Degree, rec.Degree == DegreeUnknown)
	missing("international", raw.International, rec.Citizenship == CitizenshipUnknown)
	missing("added_date", raw.AddedDate, rec.AddedDate == nil)
	missing("decision_date", raw.DecisionDate, rec.DecisionDate == nil)
	missing("university", raw.University, rec.University == "")
	missing("url", raw.URL, rec.URL == "")
}

// cleanText strips markup fragments, decodes HTML entities, collapses
// whitespace and normalizes sentinel tokens to absent.
func cleanText(s string) string {
	s = tagRE.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = strings.Join(strings.Fields(s), " ")
	if _, ok := sentinelTokens[strings.ToLower(s)]; ok {
		return ""
	}
	return s
}

func cleanSemester(s string) string {
	s = strings.ToLower(cleanText(s))
	switch s {
	case "fall", "spring", "summer", "winter":
		return strings.ToUpper(s[:1]) + s[1:]
	}
	return ""
}

// numberInRange extracts the first numeric token from free text and accepts
// it only inside [min, max]. Out-of-range values are dropped, not clamped.
func numberInRange(s string, min, max float64) *float64 {
	token := numberRE.FindString(cleanText(s))
	if token == "" {
		return nil
	}
	value, err := strconv.ParseFloat(token, 64)
	if err != nil || value < min || value > max {
		return nil
	}
	return &value
}

// statusSynonyms is scanned in order; substring matching mirrors the messy
// phrasing in the wild ("Accepted via E-mail on 26 Jan").
var statusSynonyms = []struct {
	token  string
	status DecisionStatus
}{
	{"accept", StatusAccepted},
	{"admit", StatusAccepted},
	{"reject", StatusRejected},
	{"denied", StatusRejected},
	{"wait list", StatusWaitlisted},
	{"waitlist", StatusWaitlisted},
	{"wait-list", StatusWaitlisted},
}

func mapDecisionStatus(s string) DecisionStatus {
	s = strings.ToLower(cleanText(s))
	if s == "" {
		return StatusUnknown
	}
	for _, syn := range statusSynonyms {
		if strings.Contains(s, syn.token) {
			return syn.status
		}
	}
	return StatusUnknown
}

var (
	phdRE     = regexp.MustCompile(`(?i)\b(?:ph\.?\s?d|doctorate|doctoral)\b`)
	mastersRE = regexp.MustCompile(`(?i)\b(?:masters?|master's|m\.?s\.?c?|m\.?a|m\.?eng|mba|m\.?f\.?a)\b`)
)

func mapDegree(s string) Degree {
	s = cleanText(s)
	switch {
	case s == "":
		return DegreeUnknown
	case phdRE.MatchString(s):
		return DegreePhD
	case mastersRE.MatchString(s):
		return DegreeMasters
	}
	return DegreeUnknown
}

func mapCitizenship(s string) Citizenship {
	s = strings.ToLower(cleanText(s))
	if s == "" {
		return CitizenshipUnknown
	}
	if strings.Contains(s, "international") || strings.Contains(s, "intl") {
		return CitizenshipInternational
	}
	// Token-wise check: "us" as a substring would also match "australian".
	for _, token := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '.' || r == ','
	}) {
		switch token {
		case "american", "domestic", "us", "usa", "u", "s":
			return CitizenshipAmerican
		}
	}
	return CitizenshipUnknown
}
