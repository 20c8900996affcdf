package service

import (
	"regexp"
	"strings"

	"recap-backend/models"
)

// maxPlainTextSummary caps a summary taken from the full opinion body
const maxPlainTextSummary = 1000

// highlightRe matches a search-highlight span together with its contents
var highlightRe = regexp.MustCompile(`(?s)<mark>.*?</mark>`)

// NormalizeOpinion maps one raw search hit onto a CaseRecord. Each field is
// resolved on its own from its source chain; an absent or empty source falls
// through to the next, and the literal fallback is used last.
func NormalizeOpinion(raw models.RawOpinion, baseURL string) models.CaseRecord {
	cites := make([]int, len(raw.Cites))
	copy(cites, raw.Cites)

	citeCount := 0
	if raw.CiteCount != nil && *raw.CiteCount > 0 {
		citeCount = *raw.CiteCount
	}

	return models.CaseRecord{
		Title:               firstNonEmpty(models.UntitledCase, raw.CaseName, raw.DocketNumber),
		Date:                firstNonEmpty(models.DateUnknown, raw.DateFiled, raw.DateCreated),
		Summary:             normalizeSummary(raw),
		URL:                 baseURL + deref(raw.AbsoluteURL),
		Court:               firstNonEmpty(models.UnknownCourt, raw.Court, raw.CourtCitationString),
		Citations:           normalizeCitations(raw),
		Judge:               firstNonEmpty(models.JudgeNotSpecified, raw.Judge),
		DocketNumber:        firstNonEmpty(models.NoDocketNumber, raw.DocketNumber),
		Status:              firstNonEmpty(models.StatusUnknown, raw.Status),
		CiteCount:           citeCount,
		Cites:               cites,
		CourtCitationString: deref(raw.CourtCitationString),
		DownloadURL:         deref(raw.DownloadURL),
		SuitNature:          deref(raw.SuitNature),
		Type:                deref(raw.Type),
	}
}

// NormalizeOpinions maps a batch of raw hits in order
func NormalizeOpinions(raws []models.RawOpinion, baseURL string) []models.CaseRecord {
	records := make([]models.CaseRecord, 0, len(raws))
	for _, raw := range raws {
		records = append(records, NormalizeOpinion(raw, baseURL))
	}
	return records
}

// normalizeSummary prefers the highlighted snippet, with highlight spans
// removed, over the head of the opinion body
func normalizeSummary(raw models.RawOpinion) string {
	if snippet := deref(raw.Snippet); snippet != "" {
		return highlightRe.ReplaceAllString(snippet, "")
	}
	if body := deref(raw.PlainText); body != "" {
		return truncateRunes(body, maxPlainTextSummary)
	}
	return models.NoSummary
}

func normalizeCitations(raw models.RawOpinion) string {
	if len(raw.Citation) > 0 {
		return strings.Join(raw.Citation, ", ")
	}
	return firstNonEmpty(models.NoCitation, raw.LexisCite, raw.NeutralCite)
}

func firstNonEmpty(fallback string, candidates ...*string) string {
	for _, c := range candidates {
		if c != nil && *c != "" {
			return *c
		}
	}
	return fallback
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// truncateRunes returns at most n characters of s
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
