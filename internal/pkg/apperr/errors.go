// FILE: internal/pkg/apperr/errors.go
// PURPOSE: Typed error taxonomy for the concierge core. None of these ever
// propagate to the caller of Handle; they are recovered into fixed
// responses and surfaced through response metadata.

package apperr

import "errors"

var (
	// ErrRetrievalUnavailable: retrieval failed or returned zero results.
	// Recovered locally with the low-confidence fallback response.
	ErrRetrievalUnavailable = errors.New("knowledge retrieval unavailable")

	// ErrGenerationFailed: the text-generation call errored. Recovered
	// with a localized apology template.
	ErrGenerationFailed = errors.New("text generation failed")

	// ErrSessionStoreUnavailable: the session store is unreachable. The
	// turn proceeds as if the session had no prior context.
	ErrSessionStoreUnavailable = errors.New("session store unavailable")

	// ErrAmbiguityLoop: the clarification re-ask budget was exhausted.
	// Recovered by falling back to the general responder.
	ErrAmbiguityLoop = errors.New("clarification retry budget exhausted")
)
