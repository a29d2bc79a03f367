package scrape

import (
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html><body>
<table class="tw-min-w-full">
<tbody>
<tr>
  <td>Yale University</td>
  <td><span>Statistics and Data Science</span> <span>Masters</span></td>
  <td>January 26, 2026</td>
  <td>Accepted on 26 Jan</td>
  <td><a href="/result/12345">See More</a></td>
</tr>
<tr>
  <td colspan="100%">
    <div class="tw-inline-flex tw-items-center">Fall 2026</div>
    <div class="tw-inline-flex tw-items-center">International</div>
    <div class="tw-inline-flex tw-items-center">GPA 3.95</div>
    <div class="tw-inline-flex tw-items-center">GRE 330</div>
    <div class="tw-inline-flex tw-items-center">GRE V 165</div>
    <div class="tw-inline-flex tw-items-center">GRE AW 4.5</div>
  </td>
</tr>
<tr class="tw-border-none">
  <td colspan="100%"><p class="tw-text-gray-500">Thrilled to be admitted!</p></td>
</tr>
<tr>
  <td>University of British Columbia</td>
  <td><span>Computer Science</span> <span>PhD</span></td>
  <td>January 25, 2026</td>
  <td>Rejected on 25 Jan</td>
  <td><a href="https://www.thegradcafe.com/result/12346">See More</a></td>
</tr>
<tr>
  <td>Stanford University</td>
  <td>History</td>
  <td>January 24, 2026</td>
  <td>Wait listed on 24 Jan</td>
  <td><a href="/cgi-bin/other">Other</a></td>
</tr>
</tbody>
</table>
</body></html>`

func TestParsePage(t *testing.T) {
	records, err := ParsePage("https://www.thegradcafe.com", strings.NewReader(samplePage))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	first := records[0]
	if first.University != "Yale University" {
		t.Errorf("university = %q", first.University)
	}
	if first.Program != "Statistics and Data Science" {
		t.Errorf("program = %q", first.Program)
	}
	if first.Degree != "Masters" {
		t.Errorf("degree = %q", first.Degree)
	}
	if first.AddedDate != "January 26, 2026" {
		t.Errorf("added_date = %q", first.AddedDate)
	}
	if first.DecisionStatus != "Accepted" {
		t.Errorf("decision_status = %q", first.DecisionStatus)
	}
	if first.DecisionDate != "26 Jan" {
		t.Errorf("decision_date = %q", first.DecisionDate)
	}
	if first.URL != "https://www.thegradcafe.com/result/12345" {
		t.Errorf("url = %q", first.URL)
	}
	if first.Semester != "Fall" || first.Year != "2026" {
		t.Errorf("term = %q %q", first.Semester, first.Year)
	}
	if first.International != "International" {
		t.Errorf("international = %q", first.International)
	}
	if first.GPA != "3.95" {
		t.Errorf("gpa = %q", first.GPA)
	}
	if first.GREScore != "330" || first.GREVerbal != "165" || first.GREWriting != "4.5" {
		t.Errorf("gre = %q %q %q", first.GREScore, first.GREVerbal, first.GREWriting)
	}
	if first.Comments != "Thrilled to be admitted!" {
		t.Errorf("comments = %q", first.Comments)
	}

	second := records[1]
	if second.University != "University of British Columbia" {
		t.Errorf("university = %q", second.University)
	}
	if second.DecisionStatus != "Rejected" {
		t.Errorf("decision_status = %q", second.DecisionStatus)
	}
	if second.URL != "https://www.thegradcafe.com/result/12346" {
		t.Errorf("absolute url should be kept, got %q", second.URL)
	}
	if second.Comments != "" {
		t.Errorf("second record has no comments, got %q", second.Comments)
	}

	third := records[2]
	if third.Program != "History" {
		t.Errorf("span-less program cell should be kept whole, got %q", third.Program)
	}
	if third.DecisionStatus != "Wait listed" {
		t.Errorf("decision_status = %q", third.DecisionStatus)
	}
	if third.URL != "" {
		t.Errorf("non-result links must be ignored, got %q", third.URL)
	}
}

func TestParsePageEmpty(t *testing.T) {
	records, err := ParsePage("https://www.thegradcafe.com", strings.NewReader("<html><body><p>No results</p></body></html>"))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
}
