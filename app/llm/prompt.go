package llm

import (
	"fmt"
	"strings"
)

// The worked examples anchor the output format. Without them small models
// wander into prose answers that the parser cannot recover.
var promptExamples = []struct {
	raw        string
	university string
	program    string
}{
	{
		raw:        "Statistics and Data Science, Yale University",
		university: "Yale University",
		program:    "Statistics and Data Science",
	},
	{
		raw:        "UBC - Comp Sci",
		university: "University of British Columbia",
		program:    "Computer Science",
	},
	{
		raw:        "mcgill university, information studies",
		university: "McGill University",
		program:    "Information Studies",
	},
}

// buildPrompt produces the few-shot standardization prompt for one raw
// posting text.
func buildPrompt(raw string) string {
	var b strings.Builder

	b.WriteString("Standardize the university and program names in graduate admission postings.\n")
	b.WriteString("Expand abbreviations, fix spelling and use official names.\n")
	b.WriteString("Reply with exactly one line in the form: University | Program\n\n")

	for _, example := range promptExamples {
		fmt.Fprintf(&b, "Input: %s\nAnswer: %s | %s\n\n", example.raw, example.university, example.program)
	}

	fmt.Fprintf(&b, "Input: %s\nAnswer:", raw)
	return b.String()
}
