package models

// Fallback literals used when a search hit omits a field
const (
	UntitledCase      = "Untitled Case"
	DateUnknown       = "Date unknown"
	NoSummary         = "No summary available"
	UnknownCourt      = "Unknown Court"
	NoCitation        = "No citation available"
	JudgeNotSpecified = "Judge not specified"
	NoDocketNumber    = "No docket number"
	StatusUnknown     = "Status unknown"
)

// RawOpinion is one CourtListener search hit as it arrives on the wire.
// Every field is optional; absence is resolved by normalization, never here.
type RawOpinion struct {
	CaseName            *string  `json:"caseName"`
	DocketNumber        *string  `json:"docketNumber"`
	DateFiled           *string  `json:"dateFiled"`
	DateCreated         *string  `json:"date_created"`
	Snippet             *string  `json:"snippet"`
	PlainText           *string  `json:"plain_text"`
	AbsoluteURL         *string  `json:"absolute_url"`
	Court               *string  `json:"court"`
	CourtCitationString *string  `json:"court_citation_string"`
	Citation            []string `json:"citation"`
	LexisCite           *string  `json:"lexisCite"`
	NeutralCite         *string  `json:"neutralCite"`
	Judge               *string  `json:"judge"`
	Status              *string  `json:"status"`
	CiteCount           *int     `json:"citeCount"`
	Cites               []int    `json:"cites"`
	DownloadURL         *string  `json:"download_url"`
	SuitNature          *string  `json:"suitNature"`
	Type                *string  `json:"type"`
}

// CaseRecord is a normalized, fallback-complete search result
type CaseRecord struct {
	Title               string `json:"title"`
	Date                string `json:"date"`
	Summary             string `json:"summary"`
	URL                 string `json:"url"`
	Court               string `json:"court"`
	Citations           string `json:"citations"`
	Judge               string `json:"judge"`
	DocketNumber        string `json:"docketNumber"`
	Status              string `json:"status"`
	CiteCount           int    `json:"citeCount"`
	Cites               []int  `json:"cites"`
	CourtCitationString string `json:"courtCitationString"`
	DownloadURL         string `json:"downloadUrl"`
	SuitNature          string `json:"suitNature"`
	Type                string `json:"type"`
}

// Forum returns the key used to group records by court
func (c CaseRecord) Forum() string {
	if c.CourtCitationString != "" {
		return c.CourtCitationString
	}
	return c.Court
}

// SearchOptions narrows a provider search
type SearchOptions struct {
	Limit       int
	OrderBy     string // e.g. "score desc", "dateFiled desc"
	Court       string // CourtListener court id, e.g. "cand"
	FiledAfter  string // YYYY-MM-DD
	FiledBefore string // YYYY-MM-DD
}
