// FILE: pkg/router/router.go
// PURPOSE: Combine language detection, classification and context
// inheritance into a single routing decision naming the responder.

package router

import (
	"regexp"
	"strings"

	"ai-concierge-be/pkg/classifier"
	"ai-concierge-be/pkg/language"
	"ai-concierge-be/pkg/query"
	"ai-concierge-be/pkg/session"
)

// Router is pure composition over pure components; the session store is its
// only external dependency and a store failure degrades to "no prior
// context" instead of failing the turn.
type Router struct {
	detector   *language.Detector
	classifier *classifier.Classifier
	sessions   session.Store
	elliptical []*regexp.Regexp
}

func New(detector *language.Detector, cls *classifier.Classifier, sessions session.Store) *Router {
	return &Router{
		detector:   detector,
		classifier: cls,
		sessions:   sessions,
		elliptical: ellipticalPatterns(),
	}
}

// ellipticalPatterns is the small closed set of surface shapes for
// elliptical follow-ups: a leading topic word plus a particle or
// connective and nothing else ("土曜日も?", "what about saturdays?").
func ellipticalPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`^\S{1,10}(も|は|なら|だったら)[?？]?$`),
		regexp.MustCompile(`^(そっち|あっち|もう一方|他の方)(は|も)?[?？]?$`),
		regexp.MustCompile(`(?i)^(what|how) about [\w\s]{1,20}[?？]?$`),
		regexp.MustCompile(`(?i)^(and|also) [\w\s]{1,15}[?？]?$`),
		regexp.MustCompile(`(?i)^the other one[?？]?$`),
	}
}

// Route produces the dispatch decision for a corrected query.
func (r *Router) Route(correctedText, sessionID string) query.RouteDecision {
	state := r.sessionState(sessionID)

	det := r.detector.Resolve(correctedText, state.PinnedLanguage)
	cls := r.classifier.Classify(correctedText, det.Detected)

	decision := query.RouteDecision{
		Category:    cls.Category,
		RequestType: cls.RequestType,
		Language:    det.Response,
		Confidence:  cls.Confidence,
	}

	// Context inheritance: an elliptical follow-up that produced no
	// request type of its own reuses the session's last resolved one,
	// labeled so downstream stages can tell inherited from fresh.
	if cls.RequestType == query.RequestTypeNone &&
		!cls.Category.IsClarification() &&
		state.LastRequestType != query.RequestTypeNone &&
		r.isElliptical(correctedText) {
		decision.RequestType = state.LastRequestType
		decision.Inherited = true
	}

	decision.Responder = dispatch(decision.Category, decision.RequestType)
	return decision
}

// IsElliptical exposes the surface-pattern check for tests and the service
// layer.
func (r *Router) IsElliptical(text string) bool {
	return r.isElliptical(text)
}

func (r *Router) isElliptical(text string) bool {
	trimmed := strings.TrimSpace(text)
	for _, p := range r.elliptical {
		if p.MatchString(trimmed) {
			return true
		}
	}
	return false
}

func (r *Router) sessionState(sessionID string) *session.State {
	state, err := r.sessions.Get(sessionID)
	if err != nil || state == nil {
		// Store unreachable: treat as a fresh session
		return &session.State{ID: sessionID}
	}
	return state
}

// dispatch is the static (category, requestType) -> responder table.
//
// Ordering is load-bearing: clarification categories always win, then a
// non-null request type overrides the category mapping because it is the
// more specific signal, then the category decides, then general.
func dispatch(category query.Category, requestType query.RequestType) query.ResponderName {
	if category.IsClarification() {
		return query.ResponderClarification
	}

	switch requestType {
	case query.RequestTypePrice, query.RequestTypeHours, query.RequestTypeLocation:
		return query.ResponderBusiness
	case query.RequestTypeWifi, query.RequestTypeFacility, query.RequestTypeBasement, query.RequestTypeMeetingRoom:
		return query.ResponderFacility
	case query.RequestTypeEvent:
		return query.ResponderEvent
	}

	switch category {
	case query.CategoryFacilityInfo:
		return query.ResponderFacility
	case query.CategoryBusinessInfo:
		return query.ResponderBusiness
	case query.CategoryEventInfo:
		return query.ResponderEvent
	case query.CategoryMemoryRecall:
		return query.ResponderMemory
	default:
		return query.ResponderGeneral
	}
}
