package clean

import (
	"regexp"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
)

// dayMonthRE matches the site's year-less decision dates ("26 Jan",
// "2 March"). An optional trailing year is accepted too.
var dayMonthRE = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]{3,9})\.?(?:\s+(\d{4}))?$`)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// parseDate supports the two shapes seen in scraped postings: full dates
// ("January 26, 2026", "2026-01-26") and day + abbreviated month with no
// year ("26 Jan"). A missing year is kept absent, never guessed across a
// year boundary. Unparseable input yields nil.
func parseDate(s string) *PartialDate {
	if s == "" {
		return nil
	}

	if m := dayMonthRE.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, ok := monthForName(m[2])
		if !ok || day < 1 || day > 31 {
			return nil
		}
		d := &PartialDate{Month: month, Day: day}
		if m[3] != "" {
			d.Year, _ = strconv.Atoi(m[3])
		}
		return d
	}

	t, err := dateparse.ParseAny(s)
	if err != nil {
		return nil
	}
	return &PartialDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func monthForName(name string) (time.Month, bool) {
	if len(name) < 3 {
		return 0, false
	}
	lower := make([]byte, 3)
	for i := 0; i < 3; i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		lower[i] = c
	}
	month, ok := monthsByPrefix[string(lower)]
	return month, ok
}
