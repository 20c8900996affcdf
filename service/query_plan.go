package service

import (
	"strings"
	"unicode/utf8"

	"recap-backend/models"
)

// Escalation stages, most specific first
const (
	StageSpecific = "specific"
	StageBroad    = "broad"
	StageDerived  = "derived"
)

// QueryCandidate is one search attempt in an escalation
type QueryCandidate struct {
	Stage string
	Query string
}

// QueryPlan is the ordered list of candidates tried for a single request
type QueryPlan []QueryCandidate

// Queries returns the candidate query strings in order
func (p QueryPlan) Queries() []string {
	queries := make([]string, 0, len(p))
	for _, c := range p {
		queries = append(queries, c.Query)
	}
	return queries
}

// BuildQueryPlan returns the escalation for an utterance: the profile's
// specific query, its broad query, then the query derived from the utterance.
// Blank candidates are left out.
func BuildQueryPlan(profile models.DomainProfile, utterance string) QueryPlan {
	candidates := []QueryCandidate{
		{Stage: StageSpecific, Query: profile.SpecificQuery},
		{Stage: StageBroad, Query: profile.BroadQuery},
		{Stage: StageDerived, Query: DeriveQuery(profile, utterance)},
	}

	plan := make(QueryPlan, 0, len(candidates))
	for _, c := range candidates {
		c.Query = strings.TrimSpace(c.Query)
		if c.Query == "" {
			continue
		}
		plan = append(plan, c)
	}
	return plan
}

// DeriveQuery extracts the meaningful words of an utterance: lowercased
// whitespace tokens longer than MinWordLength that are not on the stoplist,
// followed by the profile's anchor terms, capped at MaxTerms.
func DeriveQuery(profile models.DomainProfile, utterance string) string {
	stop := make(map[string]struct{}, len(profile.Stoplist))
	for _, w := range profile.Stoplist {
		stop[strings.ToLower(w)] = struct{}{}
	}

	terms := make([]string, 0)
	for _, word := range strings.Fields(strings.ToLower(utterance)) {
		if utf8.RuneCountInString(word) <= profile.MinWordLength {
			continue
		}
		if _, ok := stop[word]; ok {
			continue
		}
		terms = append(terms, word)
	}
	terms = append(terms, profile.AnchorTerms...)

	if profile.MaxTerms > 0 && len(terms) > profile.MaxTerms {
		terms = terms[:profile.MaxTerms]
	}
	return strings.Join(terms, " ")
}
