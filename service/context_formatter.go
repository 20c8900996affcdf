package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"recap-backend/models"
)

const (
	// NoCasesFound is the context produced for an empty result set
	NoCasesFound = "No relevant cases found."

	maxRenderedSummary = 500
	topCitedCases      = 5
)

// dateLayouts are tried in order when rendering a case date
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// CitationCount is how often one case id is cited across a result set
type CitationCount struct {
	CaseID int
	Count  int
}

// FormatContext renders records as the text block handed to the model:
// records grouped by forum in first-seen order, one labelled block per case,
// and a trailing citation network summary. Output depends only on the order
// and contents of records.
func FormatContext(records []models.CaseRecord) string {
	if len(records) == 0 {
		return NoCasesFound
	}

	var b strings.Builder

	for _, group := range groupByForum(records) {
		fmt.Fprintf(&b, "\nCOURT: %s\n", group.forum)
		fmt.Fprintf(&b, "CASES: %d\n\n", len(group.records))

		for i, c := range group.records {
			fmt.Fprintf(&b, "CASE %d:\n", i+1)
			fmt.Fprintf(&b, "TITLE: \"%s\"\n", c.Title)
			fmt.Fprintf(&b, "CITATION: \"%s\"\n", c.Citations)
			fmt.Fprintf(&b, "DATE: \"%s\"\n", FormatCaseDate(c.Date))
			fmt.Fprintf(&b, "DOCKET: \"%s\"\n", c.DocketNumber)
			fmt.Fprintf(&b, "JUDGE: \"%s\"\n", c.Judge)
			fmt.Fprintf(&b, "STATUS: \"%s\"\n", c.Status)
			fmt.Fprintf(&b, "TYPE: \"%s\"\n", c.Type)
			fmt.Fprintf(&b, "CITE_COUNT: %d\n", c.CiteCount)
			fmt.Fprintf(&b, "CITES: %d cases\n", len(c.Cites))
			fmt.Fprintf(&b, "SUIT_NATURE: \"%s\"\n", c.SuitNature)
			fmt.Fprintf(&b, "URL: \"%s\"\n", c.URL)
			fmt.Fprintf(&b, "DOWNLOAD_URL: \"%s\"\n", c.DownloadURL)
			fmt.Fprintf(&b, "SUMMARY: \"%s\"\n\n", cleanSummary(c.Summary))
		}
	}

	b.WriteString("\nCITATION NETWORK ANALYSIS:\n")
	b.WriteString("Most commonly cited cases across all results:\n")
	for _, cc := range TopCitations(records, topCitedCases) {
		fmt.Fprintf(&b, "- Case ID %d: Cited %d times\n", cc.CaseID, cc.Count)
	}

	return b.String()
}

type forumGroup struct {
	forum   string
	records []models.CaseRecord
}

func groupByForum(records []models.CaseRecord) []forumGroup {
	index := make(map[string]int)
	groups := make([]forumGroup, 0)
	for _, r := range records {
		key := r.Forum()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, forumGroup{forum: key})
		}
		groups[i].records = append(groups[i].records, r)
	}
	return groups
}

// TopCitations counts every cited id across records, repeats included, and
// returns the n most cited. Ties keep first-seen order.
func TopCitations(records []models.CaseRecord, n int) []CitationCount {
	index := make(map[int]int)
	counts := make([]CitationCount, 0)
	for _, r := range records {
		for _, id := range r.Cites {
			i, ok := index[id]
			if !ok {
				i = len(counts)
				index[id] = i
				counts = append(counts, CitationCount{CaseID: id})
			}
			counts[i].Count++
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// FormatCaseDate renders a parseable date as M/D/YYYY and returns anything
// else unchanged
func FormatCaseDate(raw string) string {
	value := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("1/2/2006")
		}
	}
	return raw
}

// cleanSummary collapses whitespace runs and caps the rendered length
func cleanSummary(summary string) string {
	return truncateRunes(strings.Join(strings.Fields(summary), " "), maxRenderedSummary)
}
