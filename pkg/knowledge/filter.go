// FILE: pkg/knowledge/filter.go
// PURPOSE: Entity-isolation filtering of retrieved chunks. Knowledge
// belonging to one concrete entity must never surface in an answer scoped
// to a sibling entity.

package knowledge

import (
	"strings"

	"ai-concierge-be/pkg/query"
)

// RuleInput is everything a filter rule may inspect.
type RuleInput struct {
	RequestType query.RequestType
	QueryText   string // corrected text, lowercased by Filter
	Language    query.Language
}

// DropRule is a pure per-chunk predicate: true means the chunk is dropped.
// Rules are data, not code branches, so each one is testable in isolation.
type DropRule struct {
	Name string
	Drop func(in RuleInput, chunk Chunk) bool
}

// SiblingGroup names sub-facilities that share a parent category. A query
// naming exactly one sibling narrows the result set to its tag.
type SiblingGroup struct {
	Name     string
	Siblings []Sibling
}

// Sibling is one concrete sub-facility with its surface qualifiers.
type Sibling struct {
	Tag        string
	Qualifiers []string
}

// Filter evaluates drop rules in fixed order (non-exclusive: a chunk
// survives only if no rule drops it), then applies sub-facility narrowing.
// No side effects, no memory: identical input yields identical output and
// the output is always a subset of the input.
type Filter struct {
	rules  []DropRule
	groups []SiblingGroup
}

func NewFilter(rules []DropRule, groups []SiblingGroup) *Filter {
	return &Filter{rules: rules, groups: groups}
}

func NewDefaultFilter() *Filter {
	return NewFilter(DefaultDropRules(), DefaultSiblingGroups())
}

func (f *Filter) Apply(chunks []Chunk, requestType query.RequestType, queryText string, lang query.Language) []Chunk {
	in := RuleInput{
		RequestType: requestType,
		QueryText:   strings.ToLower(queryText),
		Language:    lang,
	}

	kept := make([]Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		if f.dropped(in, chunk) {
			continue
		}
		kept = append(kept, chunk)
	}

	return f.narrow(in, kept)
}

func (f *Filter) dropped(in RuleInput, chunk Chunk) bool {
	for _, rule := range f.rules {
		if rule.Drop(in, chunk) {
			return true
		}
	}
	return false
}

// narrow keeps only chunks tagged for the one sibling the query names.
// Falls back to the un-narrowed set when narrowing would answer with
// literally nothing while some context exists.
func (f *Filter) narrow(in RuleInput, chunks []Chunk) []Chunk {
	for _, group := range f.groups {
		tag := group.namedSibling(in.QueryText)
		if tag == "" {
			continue
		}
		narrowed := make([]Chunk, 0, len(chunks))
		for _, chunk := range chunks {
			if chunk.HasTag(tag) {
				narrowed = append(narrowed, chunk)
			}
		}
		if len(narrowed) > 0 {
			chunks = narrowed
		}
	}
	return chunks
}

// namedSibling returns the tag of the single sibling the query names, or
// empty when none or more than one is named.
func (g SiblingGroup) namedSibling(loweredQuery string) string {
	matched := ""
	for _, s := range g.Siblings {
		for _, q := range s.Qualifiers {
			if strings.Contains(loweredQuery, strings.ToLower(q)) {
				if matched != "" && matched != s.Tag {
					return ""
				}
				matched = s.Tag
				break
			}
		}
	}
	return matched
}

// Tag vocabulary shared with the corpus.
const (
	TagPaid        = "paid"
	TagFree        = "free"
	TagMeetingRoom = "meeting-room"
)

var (
	paidQualifiers     = []string{"有料", "2階", "2f", "paid", "second floor"}
	freeQualifiers     = []string{"地下", "b1", "無料", "basement", "underground", "free"}
	roomKeywords       = []string{"会議室", "ミーティングルーム", "meeting room", "room"}
	containsQualifiers = func(lowered string, words []string) bool {
		for _, w := range words {
			if strings.Contains(lowered, strings.ToLower(w)) {
				return true
			}
		}
		return false
	}
)

// DefaultDropRules is the fixed-order rule set for the facility.
func DefaultDropRules() []DropRule {
	return []DropRule{
		{
			// Paid-vs-free isolation. A price question that names the
			// paid tier keeps price-bearing chunks untouched. A query
			// scoped to the free basement area must never see paid-tier
			// chunks, even ones that also match generic room keywords.
			Name: "paid-free-isolation",
			Drop: func(in RuleInput, chunk Chunk) bool {
				if in.RequestType == query.RequestTypePrice &&
					containsQualifiers(in.QueryText, paidQualifiers) &&
					containsQualifiers(in.QueryText, roomKeywords) {
					return false
				}
				if containsQualifiers(in.QueryText, freeQualifiers) {
					return chunk.HasTag(TagPaid)
				}
				return false
			},
		},
	}
}

// DefaultSiblingGroups mirrors the ambiguity groups of the classifier.
func DefaultSiblingGroups() []SiblingGroup {
	return []SiblingGroup{
		{
			Name: "cafe",
			Siblings: []Sibling{
				{Tag: "cafe-kotori", Qualifiers: []string{"コトリ", "ことり", "kotori"}},
				{Tag: "cafe-yamane", Qualifiers: []string{"ヤマネ", "やまね", "yamane"}},
			},
		},
		{
			Name: "meeting-room",
			Siblings: []Sibling{
				{Tag: "meeting-room-b1", Qualifiers: []string{"地下", "b1", "無料", "basement", "underground"}},
				{Tag: "meeting-room-2f", Qualifiers: []string{"2階", "2f", "有料", "paid"}},
			},
		},
	}
}
