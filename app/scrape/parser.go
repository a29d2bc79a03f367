// Package scrape fetches admission postings from the survey site and turns
// its HTML result tables into raw records. It also provides the file-backed
// record source and the NDJSON record writer used by the pipeline.
package scrape

import (
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"gradstats/app/clean"
)

var (
	termRE         = regexp.MustCompile(`(?i)(Fall|Spring|Summer|Winter)\s+(\d{4})`)
	gpaRE          = regexp.MustCompile(`(?i)^GPA\s+([\d.]+)`)
	greGeneralRE   = regexp.MustCompile(`(?i)^GRE\s+(\d+)$`)
	greVerbalRE    = regexp.MustCompile(`(?i)^GRE\s+V\s+(\d+)`)
	greWritingRE   = regexp.MustCompile(`(?i)^GRE\s+AW\s+([\d.]+)`)
	decisionDateRE = regexp.MustCompile(`on\s+(\d+\s+\w+)`)
	resultLinkRE   = regexp.MustCompile(`/result/\d+`)
)

// ParsePage extracts all postings from one survey results page. The table
// interleaves main rows (five cells) with detail rows that carry badges and
// comments under a colspan cell; a main row owns every detail row that
// follows it.
func ParsePage(baseURL string, body io.Reader) ([]clean.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, err
	}

	var records []clean.RawRecord

	rows := doc.Find("table tbody tr")
	for i := 0; i < rows.Length(); i++ {
		row := rows.Eq(i)
		cells := row.Find("td")
		if cells.Length() < 5 {
			continue
		}

		record := parseMainRow(baseURL, cells)

		// Collect the detail rows belonging to this posting.
		for j := i + 1; j < rows.Length(); j++ {
			detail := rows.Eq(j)
			if _, colspan := detail.Find("td[colspan]").Attr("colspan"); !colspan {
				break
			}
			parseDetailRow(detail, &record)
			i = j
		}

		records = append(records, record)
	}

	return records, nil
}

func parseMainRow(baseURL string, cells *goquery.Selection) clean.RawRecord {
	record := clean.RawRecord{
		University: text(cells.Eq(0)),
		AddedDate:  text(cells.Eq(2)),
	}

	// The program cell holds "Program" and "Degree" in separate spans.
	spans := cells.Eq(1).Find("span")
	if spans.Length() > 0 {
		record.Program = text(spans.Eq(0))
		if spans.Length() > 1 {
			record.Degree = text(spans.Eq(1))
		}
	} else {
		record.Program = text(cells.Eq(1))
	}

	decision := text(cells.Eq(3))
	record.DecisionStatus = decisionStatus(decision)
	if m := decisionDateRE.FindStringSubmatch(decision); m != nil {
		record.DecisionDate = m[1]
	}

	cells.Eq(4).Find("a").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, ok := link.Attr("href")
		if !ok || !resultLinkRE.MatchString(href) {
			return true
		}
		record.URL = absoluteURL(baseURL, href)
		return false
	})

	return record
}

// parseDetailRow folds one badge/comment row into the record. Badge rows
// carry term, citizenship, GPA and GRE chips; comment rows carry a single
// paragraph.
func parseDetailRow(row *goquery.Selection, record *clean.RawRecord) {
	row.Find("div").Each(func(_ int, badge *goquery.Selection) {
		if badge.Children().Length() > 0 {
			return
		}
		applyBadge(text(badge), record)
	})

	if record.Comments == "" {
		if p := row.Find("p"); p.Length() > 0 {
			record.Comments = text(p.First())
		}
	}
}

func applyBadge(badge string, record *clean.RawRecord) {
	switch {
	case badge == "International" || badge == "American":
		record.International = badge
	case termRE.MatchString(badge):
		m := termRE.FindStringSubmatch(badge)
		record.Semester = m[1]
		record.Year = m[2]
	case gpaRE.MatchString(badge):
		record.GPA = gpaRE.FindStringSubmatch(badge)[1]
	case greVerbalRE.MatchString(badge):
		record.GREVerbal = greVerbalRE.FindStringSubmatch(badge)[1]
	case greWritingRE.MatchString(badge):
		record.GREWriting = greWritingRE.FindStringSubmatch(badge)[1]
	case greGeneralRE.MatchString(badge):
		record.GREScore = greGeneralRE.FindStringSubmatch(badge)[1]
	}
}

func decisionStatus(decision string) string {
	for _, status := range []string{"Accepted", "Rejected", "Wait listed", "Waitlisted", "Interview"} {
		if strings.Contains(decision, status) {
			return status
		}
	}
	return ""
}

func absoluteURL(baseURL, href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return strings.TrimSuffix(baseURL, "/") + href
}

func text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}
