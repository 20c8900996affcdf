package models

// DomainProfile biases query escalation and the system prompt toward one
// subject area. Profiles are loaded from YAML or taken from the built-in set.
type DomainProfile struct {
	Name          string   `yaml:"name" json:"name"`
	Subject       string   `yaml:"subject" json:"subject"`
	SpecificQuery string   `yaml:"specific_query" json:"specific_query"`
	BroadQuery    string   `yaml:"broad_query" json:"broad_query"`
	Stoplist      []string `yaml:"stoplist" json:"stoplist"`
	AnchorTerms   []string `yaml:"anchor_terms" json:"anchor_terms"`
	MinWordLength int      `yaml:"min_word_length" json:"min_word_length"` // words of this length or shorter are dropped
	MaxTerms      int      `yaml:"max_terms" json:"max_terms"`
	// Framework is the full system prompt. It must contain CasesPlaceholder.
	// When empty the generic framework built from Subject is used.
	Framework string `yaml:"framework" json:"framework,omitempty"`
}

const (
	// DefaultProfileName is the profile used when none is configured
	DefaultProfileName = "medical-device"

	DefaultMinWordLength = 3
	DefaultMaxTerms      = 5

	// CasesPlaceholder marks where the formatted cases go in a Framework
	CasesPlaceholder = "{{cases}}"
)

// WithDefaults fills a zero MinWordLength or MaxTerms with the default
// derivation rules
func (p DomainProfile) WithDefaults() DomainProfile {
	if p.MinWordLength == 0 {
		p.MinWordLength = DefaultMinWordLength
	}
	if p.MaxTerms == 0 {
		p.MaxTerms = DefaultMaxTerms
	}
	return p
}

// MedicalDeviceProfile returns the built-in medical device product liability profile
func MedicalDeviceProfile() DomainProfile {
	return DomainProfile{
		Name:          DefaultProfileName,
		Subject:       "medical device product liability",
		SpecificQuery: "medical device product liability defective",
		BroadQuery:    "medical device liability",
		Stoplist: []string{
			"analyze", "legal", "precedents", "risks", "around", "common", "patterns",
			"factors", "consider", "recent", "trends", "jurisdictional",
			"considerations", "impact", "status",
		},
		AnchorTerms:   []string{"medical", "device", "product", "liability"},
		MinWordLength: DefaultMinWordLength,
		MaxTerms:      DefaultMaxTerms,
		Framework:     medicalDeviceFramework,
	}
}

const medicalDeviceFramework = `You are a legal research assistant specializing in medical device product liability cases. Your task is to analyze the following court cases and provide insights based on the data provided.

RELEVANT CASES FROM RECAP:
` + CasesPlaceholder + `

ANALYSIS REQUIREMENTS:

1. CASE ANALYSIS FRAMEWORK:
   - For each case, identify:
     * The specific medical device involved
     * The type of liability claim (design defect, manufacturing defect, failure to warn)
     * The court's jurisdiction and level
     * Key legal issues and holdings
     * Procedural history and current status

2. PATTERN ANALYSIS:
   - Identify common themes across cases:
     * Types of medical devices most frequently involved
     * Most common types of defects alleged
     * Jurisdictional trends (federal vs. state courts)
     * Settlement patterns and amounts
     * Impact of FDA approval status on outcomes

3. PRACTICAL IMPLICATIONS:
   - For each case, provide:
     * Key takeaways for medical device manufacturers
     * Risk mitigation strategies
     * Best practices for product development and warnings
     * Litigation strategy considerations

4. CITATION ANALYSIS:
   - Analyze the citation network:
     * Most cited cases and why
     * Emerging legal principles
     * Conflicting precedents
     * Recent developments in the law

5. RESPONSE FORMAT:
   - Organize your analysis into sections:
     1. Executive Summary
     2. Case-by-Case Analysis
     3. Pattern Recognition
     4. Practical Implications
     5. Citation Network Analysis
     6. Recommendations

6. DATA VALIDATION:
   - Verify that your analysis includes:
     * Specific case references (titles, dockets, dates)
     * Court citations and holdings
     * Judge names and jurisdictions
     * Procedural history
     * Current status

7. IMPORTANT NOTES:
   - Base all analysis on the actual case data provided
   - Support conclusions with specific case references
   - Highlight any data limitations or gaps
   - Suggest additional search terms if needed
   - Provide actionable insights for legal practice

IMPORTANT: The cases above are real court cases from the CourtListener database. You must analyze them and provide meaningful insights, even if they are not directly on point. If cases are not directly related to medical device liability, explain why they might still be relevant and suggest more specific search terms.`
