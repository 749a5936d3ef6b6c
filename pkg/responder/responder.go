// FILE: pkg/responder/responder.go
// PURPOSE: Uniform responder contract. Every responder returns a
// UnifiedResponse; failures are recovered into fixed responses with the
// failure encoded in metadata.

package responder

import (
	"context"

	"ai-concierge-be/internal/constant"
	"ai-concierge-be/pkg/query"
	"ai-concierge-be/pkg/session"
)

// Request carries everything a responder may consume for one turn.
type Request struct {
	Corrected query.CorrectedQuery
	Decision  query.RouteDecision
	// Turns is the session transcript, consumed by the memory responder
	Turns []session.Turn
}

// Responder is the uniform contract. Answer never returns an error: every
// failure mode maps to a fixed response with metadata describing it.
type Responder interface {
	Name() query.ResponderName
	Answer(ctx context.Context, req Request) *query.UnifiedResponse
}

// Failure codes surfaced in UnifiedResponse metadata.
const (
	FailureRetrievalUnavailable = "retrieval-unavailable"
	FailureGenerationFailed     = "generation-failed"
	FailureAmbiguityLoop        = "ambiguity-loop"
	FailureSessionDegraded      = "session-store-degraded"
)

const fallbackConfidence = 0.1

func baseMetadata(req Request) query.ResponseMetadata {
	return query.ResponseMetadata{
		Confidence:  req.Decision.Confidence,
		Category:    req.Decision.Category,
		RequestType: req.Decision.RequestType,
		Inherited:   req.Decision.Inherited,
	}
}

// fallbackResponse is the fixed low-confidence answer used when retrieval
// produced no usable context. Generation is never called with empty
// context.
func fallbackResponse(name query.ResponderName, req Request) *query.UnifiedResponse {
	text := constant.NoContextFallbackEn
	if req.Decision.Language == query.LanguageJapanese {
		text = constant.NoContextFallbackJa
	}
	emotion, body := ParseEmotionTag(text)
	meta := baseMetadata(req)
	meta.Confidence = fallbackConfidence
	meta.Failure = FailureRetrievalUnavailable
	return &query.UnifiedResponse{
		Text:      body,
		Emotion:   emotion,
		Responder: name,
		Language:  req.Decision.Language,
		Metadata:  meta,
	}
}

// apologyResponse substitutes a localized apology when generation errored,
// so a response is always returned. The routing decision stays in the
// metadata, which turns a generation timeout into a typed, inspectable
// outcome instead of an opaque failure.
func apologyResponse(name query.ResponderName, req Request, sources []string) *query.UnifiedResponse {
	text := constant.GenerationApologyEn
	if req.Decision.Language == query.LanguageJapanese {
		text = constant.GenerationApologyJa
	}
	emotion, body := ParseEmotionTag(text)
	meta := baseMetadata(req)
	meta.Sources = sources
	meta.Failure = FailureGenerationFailed
	return &query.UnifiedResponse{
		Text:      body,
		Emotion:   emotion,
		Responder: name,
		Language:  req.Decision.Language,
		Metadata:  meta,
	}
}
