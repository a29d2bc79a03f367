package analysis

import (
	"fmt"
	"strings"

	"gradstats/app/database"
)

const notAvailable = "N/A"

// Answers round to two decimals; absent aggregates render as N/A rather
// than zero so an empty table is not mistaken for a measured zero.

func formatFloat(value *float64) string {
	if value == nil {
		return notAvailable
	}
	return fmt.Sprintf("%.2f", *value)
}

func formatPercent(value *float64) string {
	if value == nil {
		return notAvailable
	}
	return fmt.Sprintf("%.2f%%", *value)
}

func formatTopUniversities(top []database.UniversityCount) string {
	if len(top) == 0 {
		return notAvailable
	}

	parts := make([]string, len(top))
	for i, uc := range top {
		parts[i] = fmt.Sprintf("%s: %d", uc.University, uc.Count)
	}
	return strings.Join(parts, "; ")
}
