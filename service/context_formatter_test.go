package service

import (
	"strings"
	"testing"

	"recap-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatContext_Empty(t *testing.T) {
	assert.Equal(t, "No relevant cases found.", FormatContext(nil))
	assert.Equal(t, "No relevant cases found.", FormatContext([]models.CaseRecord{}))
}

func TestFormatContext_GroupsByForumInFirstSeenOrder(t *testing.T) {
	records := []models.CaseRecord{
		{Title: "A", Court: "X"},
		{Title: "B", Court: "Y"},
		{Title: "C", Court: "X"},
	}

	out := FormatContext(records)

	x := strings.Index(out, "COURT: X\n")
	y := strings.Index(out, "COURT: Y\n")
	require.NotEqual(t, -1, x)
	require.NotEqual(t, -1, y)
	assert.Less(t, x, y)

	a := strings.Index(out, `TITLE: "A"`)
	b := strings.Index(out, `TITLE: "B"`)
	c := strings.Index(out, `TITLE: "C"`)
	assert.Less(t, a, c)
	assert.Less(t, c, y)
	assert.Greater(t, b, y)

	assert.Contains(t, out, "COURT: X\nCASES: 2\n\nCASE 1:\nTITLE: \"A\"\n")
	assert.Contains(t, out, "CASE 2:\nTITLE: \"C\"\n")
}

func TestFormatContext_PrefersCourtCitationString(t *testing.T) {
	records := []models.CaseRecord{
		{Title: "A", Court: "District Court, D. Minnesota", CourtCitationString: "D. Minn."},
		{Title: "B", Court: "D. Minn."},
	}

	out := FormatContext(records)

	assert.Equal(t, 1, strings.Count(out, "\nCOURT: "))
	assert.Contains(t, out, "COURT: D. Minn.\nCASES: 2\n")
}

func TestFormatContext_CaseBlock(t *testing.T) {
	record := models.CaseRecord{
		Title:        "Smith v. Acme",
		Date:         "2021-03-04",
		Summary:      "  a   defective\n\tpacemaker ",
		URL:          "https://www.courtlistener.com/opinion/1/",
		Court:        "D. Minn.",
		Citations:    "123 F.3d 456",
		Judge:        "Jane Roe",
		DocketNumber: "1:20-cv-01234",
		Status:       "Published",
		CiteCount:    4,
		Cites:        []int{7, 8},
		DownloadURL:  "https://example.com/op.pdf",
		SuitNature:   "Product Liability",
		Type:         "010combined",
	}

	out := FormatContext([]models.CaseRecord{record})

	want := "CASE 1:\n" +
		"TITLE: \"Smith v. Acme\"\n" +
		"CITATION: \"123 F.3d 456\"\n" +
		"DATE: \"3/4/2021\"\n" +
		"DOCKET: \"1:20-cv-01234\"\n" +
		"JUDGE: \"Jane Roe\"\n" +
		"STATUS: \"Published\"\n" +
		"TYPE: \"010combined\"\n" +
		"CITE_COUNT: 4\n" +
		"CITES: 2 cases\n" +
		"SUIT_NATURE: \"Product Liability\"\n" +
		"URL: \"https://www.courtlistener.com/opinion/1/\"\n" +
		"DOWNLOAD_URL: \"https://example.com/op.pdf\"\n" +
		"SUMMARY: \"a defective pacemaker\"\n\n"
	assert.Contains(t, out, want)
	assert.True(t, strings.HasPrefix(out, "\nCOURT: D. Minn.\nCASES: 1\n\n"))
}

func TestFormatContext_SummaryCapped(t *testing.T) {
	record := models.CaseRecord{Court: "X", Summary: strings.Repeat("b", 800)}

	out := FormatContext([]models.CaseRecord{record})

	assert.Contains(t, out, "SUMMARY: \""+strings.Repeat("b", 500)+"\"\n")
	assert.NotContains(t, out, strings.Repeat("b", 501))
}

func TestFormatContext_CitationRanking(t *testing.T) {
	records := []models.CaseRecord{
		{Title: "A", Court: "X", Cites: []int{1, 2}},
		{Title: "B", Court: "X", Cites: []int{2, 2}},
		{Title: "C", Court: "X", Cites: []int{3}},
	}

	out := FormatContext(records)

	assert.True(t, strings.HasSuffix(out,
		"\nCITATION NETWORK ANALYSIS:\n"+
			"Most commonly cited cases across all results:\n"+
			"- Case ID 2: Cited 3 times\n"+
			"- Case ID 1: Cited 1 times\n"+
			"- Case ID 3: Cited 1 times\n"))
}

func TestFormatContext_NoCitationsStillHasTrailer(t *testing.T) {
	out := FormatContext([]models.CaseRecord{{Title: "A", Court: "X"}})

	assert.True(t, strings.HasSuffix(out,
		"\nCITATION NETWORK ANALYSIS:\nMost commonly cited cases across all results:\n"))
}

func TestFormatContext_Idempotent(t *testing.T) {
	records := []models.CaseRecord{
		{Title: "A", Court: "X", Cites: []int{5, 6, 6}},
		{Title: "B", Court: "Y", Cites: []int{6, 7}},
	}

	assert.Equal(t, FormatContext(records), FormatContext(records))
}

func TestTopCitations_Limit(t *testing.T) {
	records := []models.CaseRecord{
		{Cites: []int{1, 2, 3, 4, 5, 6, 7}},
		{Cites: []int{7}},
	}

	top := TopCitations(records, 5)

	require.Len(t, top, 5)
	assert.Equal(t, CitationCount{CaseID: 7, Count: 2}, top[0])
	assert.Equal(t, []CitationCount{{1, 1}, {2, 1}, {3, 1}, {4, 1}}, top[1:])
}

func TestFormatCaseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2021-03-04", "3/4/2021"},
		{"2019-12-31T23:00:00Z", "12/31/2019"},
		{"2020-07-01T08:09:10.123456", "7/1/2020"},
		{"2018-02-03 04:05:06", "2/3/2018"},
		{models.DateUnknown, models.DateUnknown},
		{"not a date", "not a date"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCaseDate(tt.in))
		})
	}
}
