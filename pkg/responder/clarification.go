// FILE: pkg/responder/clarification.go
// PURPOSE: Disambiguation between co-located sibling entities. Emits the
// clarifying question and resolves the visitor's choice.

package responder

import (
	"fmt"
	"strings"

	"ai-concierge-be/internal/constant"
	"ai-concierge-be/pkg/classifier"
	"ai-concierge-be/pkg/query"
)

// Clarifier produces disambiguating questions naming the concrete
// candidates, and matches follow-up replies back to one of them. The
// awaiting-choice state itself lives in session memory; the service layer
// drives the transitions.
type Clarifier struct {
	cls *classifier.Classifier
	// RetryBudget is how many re-asks are allowed before falling back to
	// the general responder. Inferred default, adjustable via config.
	RetryBudget int
}

func NewClarifier(cls *classifier.Classifier, retryBudget int) *Clarifier {
	if retryBudget < 0 {
		retryBudget = 1
	}
	return &Clarifier{cls: cls, RetryBudget: retryBudget}
}

// Question emits the initial disambiguating question for a clarification
// category. Returns nil when the category has no registered group.
func (c *Clarifier) Question(category query.Category, decision query.RouteDecision) *query.UnifiedResponse {
	group := c.cls.GroupByCategory(category)
	if group == nil {
		return nil
	}
	return c.ask(constant.ClarificationQuestionJa, constant.ClarificationQuestionEn, group, decision)
}

// ReAsk emits the one-retry follow-up question.
func (c *Clarifier) ReAsk(category query.Category, decision query.RouteDecision) *query.UnifiedResponse {
	group := c.cls.GroupByCategory(category)
	if group == nil {
		return nil
	}
	return c.ask(constant.ClarificationReAskJa, constant.ClarificationReAskEn, group, decision)
}

// Resolve matches the visitor's reply against the group's candidates.
func (c *Clarifier) Resolve(category query.Category, reply string) *classifier.Candidate {
	group := c.cls.GroupByCategory(category)
	if group == nil {
		return nil
	}
	return c.cls.MatchCandidate(group, reply)
}

// Fold rewrites the pending ambiguous query with the resolved entity's
// name so re-routing sees a discriminator.
func (c *Clarifier) Fold(cand *classifier.Candidate, pendingQuery string, lang query.Language) string {
	name, ok := cand.DisplayName[lang]
	if !ok {
		name = cand.Tag
	}
	return name + " " + pendingQuery
}

func (c *Clarifier) ask(templateJa, templateEn string, group *classifier.AmbiguityGroup, decision query.RouteDecision) *query.UnifiedResponse {
	lang := decision.Language
	template := templateEn
	joiner := " or "
	if lang == query.LanguageJapanese {
		template = templateJa
		joiner = " と "
	}

	names := make([]string, 0, len(group.Candidates))
	for _, cand := range group.Candidates {
		name, ok := cand.DisplayName[lang]
		if !ok {
			name = cand.Tag
		}
		names = append(names, name)
	}

	text := fmt.Sprintf(template, strings.Join(names, joiner))
	emotion, body := ParseEmotionTag(text)
	return &query.UnifiedResponse{
		Text:      body,
		Emotion:   emotion,
		Responder: query.ResponderClarification,
		Language:  lang,
		Metadata: query.ResponseMetadata{
			Confidence:  decision.Confidence,
			Category:    decision.Category,
			RequestType: decision.RequestType,
		},
	}
}
