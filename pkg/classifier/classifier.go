// FILE: pkg/classifier/classifier.go
// PURPOSE: Two-stage query classification: entity-ambiguity check first,
// then ordered keyword scoring for category and request type.

package classifier

import (
	"strings"

	"ai-concierge-be/pkg/query"
)

const (
	// ConfidenceAmbiguous is fixed: an undiscriminated generic term is a
	// certain clarification case, not a guess
	ConfidenceAmbiguous = 1.0
	// ConfidenceDefault is used when no table matched
	ConfidenceDefault = 0.3
)

type Classifier struct {
	tables Tables
}

func New(tables Tables) *Classifier {
	return &Classifier{tables: tables}
}

func NewDefault() *Classifier {
	return New(DefaultTables())
}

// Classify runs the two-stage pipeline over corrected text.
//
// Stage 1 short-circuits: a generic term shared by several concrete
// entities, with no discriminating qualifier anywhere in the text, returns
// the group's clarification category at confidence 1.0.
//
// Stage 2 scores the per-language category table (ties broken by table
// order) and extracts the request type independently over its own ordered
// table, because one category can host many request types.
func (c *Classifier) Classify(text string, lang query.Language) query.Classification {
	lowered := strings.ToLower(text)

	if group := c.ambiguousGroup(lowered); group != nil {
		return query.Classification{
			Category:    group.Category,
			Confidence:  ConfidenceAmbiguous,
			RequestType: query.RequestTypeNone,
			Debug:       map[string]string{"stage": "ambiguity", "group": group.Name},
		}
	}

	requestType, rtKeyword := c.extractRequestType(lowered, lang)
	category, confidence, catKeyword := c.scoreCategory(lowered, lang)

	return query.Classification{
		Category:    category,
		Confidence:  confidence,
		RequestType: requestType,
		Debug: map[string]string{
			"stage":                "keyword",
			"category_keyword":     catKeyword,
			"request_type_keyword": rtKeyword,
		},
	}
}

// GroupByCategory resolves a clarification category back to its group so
// the clarification responder can name the candidates.
func (c *Classifier) GroupByCategory(cat query.Category) *AmbiguityGroup {
	for i := range c.tables.Groups {
		if c.tables.Groups[i].Category == cat {
			return &c.tables.Groups[i]
		}
	}
	return nil
}

// MatchCandidate matches a clarification reply against a group's
// candidates. Returns nil when the reply names none of them.
func (c *Classifier) MatchCandidate(group *AmbiguityGroup, reply string) *Candidate {
	lowered := strings.ToLower(reply)
	for i := range group.Candidates {
		cand := &group.Candidates[i]
		for _, q := range cand.Qualifiers {
			if strings.Contains(lowered, strings.ToLower(q)) {
				return cand
			}
		}
		for _, name := range cand.DisplayName {
			if strings.Contains(lowered, strings.ToLower(name)) {
				return cand
			}
		}
	}
	return nil
}

// HasBusinessKeyword reports whether the text names a business-domain noun.
// The router checks this before any memory-intent handling.
func (c *Classifier) HasBusinessKeyword(text string) bool {
	return containsAny(strings.ToLower(text), c.tables.BusinessKeywords)
}

func (c *Classifier) ambiguousGroup(lowered string) *AmbiguityGroup {
	for i := range c.tables.Groups {
		group := &c.tables.Groups[i]
		if !containsAny(lowered, group.GenericTerms) {
			continue
		}
		if containsAny(lowered, group.Discriminators()) {
			continue
		}
		return group
	}
	return nil
}

func (c *Classifier) extractRequestType(lowered string, lang query.Language) (query.RequestType, string) {
	for _, rule := range c.tables.RequestTypes[lang] {
		for _, kw := range rule.Keywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				return rule.Type, kw
			}
		}
	}
	return query.RequestTypeNone, ""
}

func (c *Classifier) scoreCategory(lowered string, lang query.Language) (query.Category, float64, string) {
	// Business-domain keywords always win over memory phrasing. Encoded
	// as an explicit ordered check: memory rules are excluded from
	// scoring entirely when a business keyword is present.
	suppressMemory := containsAny(lowered, c.tables.BusinessKeywords)

	bestCategory := query.CategoryGeneral
	bestScore := 0
	bestKeyword := ""

	for _, rule := range c.tables.Categories[lang] {
		if suppressMemory && rule.Category == query.CategoryMemoryRecall {
			continue
		}
		score := 0
		first := ""
		for _, kw := range rule.Keywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				score++
				if first == "" {
					first = kw
				}
			}
		}
		// Strictly-greater comparison keeps earlier (more specific)
		// rules ahead on ties.
		if score > bestScore {
			bestScore = score
			bestCategory = rule.Category
			bestKeyword = first
		}
	}

	if bestScore == 0 {
		return query.CategoryGeneral, ConfidenceDefault, ""
	}

	confidence := 0.5 + 0.15*float64(bestScore)
	if confidence > 0.95 {
		confidence = 0.95
	}
	return bestCategory, confidence, bestKeyword
}

func containsAny(lowered string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
