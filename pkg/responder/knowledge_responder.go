// FILE: pkg/responder/knowledge_responder.go
// PURPOSE: The retrieval-backed responder family. Facility, business, event
// and general responders are the same machine with different profiles.

package responder

import (
	"context"
	"log"

	"ai-concierge-be/internal/constant"
	"ai-concierge-be/internal/pkg/apperr"
	"ai-concierge-be/pkg/knowledge"
	"ai-concierge-be/pkg/llm"
	"ai-concierge-be/pkg/query"
)

const retrievalMaxResults = 6

// Profile is what distinguishes one knowledge responder from another: its
// name, the retrieval category hint, and per-language instructions.
type Profile struct {
	Name         query.ResponderName
	CategoryHint string
	Instructions map[query.Language]string
}

// KnowledgeResponder answers from retrieved, filtered corpus chunks.
type KnowledgeResponder struct {
	profile   Profile
	retriever knowledge.Retriever
	filter    *knowledge.Filter
	provider  llm.LLMProvider
	logger    *log.Logger
}

func NewKnowledgeResponder(profile Profile, retriever knowledge.Retriever, filter *knowledge.Filter, provider llm.LLMProvider, logger *log.Logger) *KnowledgeResponder {
	return &KnowledgeResponder{
		profile:   profile,
		retriever: retriever,
		filter:    filter,
		provider:  provider,
		logger:    logger,
	}
}

func (r *KnowledgeResponder) Name() query.ResponderName {
	return r.profile.Name
}

func (r *KnowledgeResponder) Answer(ctx context.Context, req Request) *query.UnifiedResponse {
	searchText := ExpandSearchText(req.Corrected.CorrectedText, req.Decision.RequestType)

	chunks, err := r.retriever.Retrieve(ctx, searchText, r.profile.CategoryHint, req.Decision.Language, retrievalMaxResults)
	if err != nil {
		r.logger.Printf("[%s] retrieval failed: %v", r.profile.Name, err)
		return fallbackResponse(r.profile.Name, req)
	}

	if req.Decision.RequestType != query.RequestTypeNone {
		chunks = r.filter.Apply(chunks, req.Decision.RequestType, req.Corrected.CorrectedText, req.Decision.Language)
	}

	if len(chunks) == 0 {
		r.logger.Printf("[%s] no usable context after filtering", r.profile.Name)
		return fallbackResponse(r.profile.Name, req)
	}

	sources := make([]string, len(chunks))
	for i, c := range chunks {
		sources[i] = c.ID
	}

	builder := NewPromptBuilder(r.instruction(req.Decision.Language), req.Decision.Language)
	prompt := builder.BuildWithChunks(req.Corrected.CorrectedText, chunks)

	reply, err := r.provider.Generate(ctx, prompt, llm.WithTemperature(0.7))
	if err != nil {
		r.logger.Printf("[%s] %v: %v", r.profile.Name, apperr.ErrGenerationFailed, err)
		return apologyResponse(r.profile.Name, req, sources)
	}

	emotion, body := ParseEmotionTag(reply)
	meta := baseMetadata(req)
	meta.Sources = sources
	return &query.UnifiedResponse{
		Text:      body,
		Emotion:   emotion,
		Responder: r.profile.Name,
		Language:  req.Decision.Language,
		Metadata:  meta,
	}
}

func (r *KnowledgeResponder) instruction(lang query.Language) string {
	if ins, ok := r.profile.Instructions[lang]; ok {
		return ins
	}
	return r.profile.Instructions[query.LanguageEnglish]
}

// DefaultProfiles wires the four knowledge responder variants.
func DefaultProfiles() map[query.ResponderName]Profile {
	return map[query.ResponderName]Profile{
		query.ResponderFacility: {
			Name:         query.ResponderFacility,
			CategoryHint: "facility",
			Instructions: map[query.Language]string{
				query.LanguageJapanese: constant.FacilityInstructionJa,
				query.LanguageEnglish:  constant.FacilityInstructionEn,
			},
		},
		query.ResponderBusiness: {
			Name:         query.ResponderBusiness,
			CategoryHint: "business",
			Instructions: map[query.Language]string{
				query.LanguageJapanese: constant.BusinessInstructionJa,
				query.LanguageEnglish:  constant.BusinessInstructionEn,
			},
		},
		query.ResponderEvent: {
			Name:         query.ResponderEvent,
			CategoryHint: "event",
			Instructions: map[query.Language]string{
				query.LanguageJapanese: constant.EventInstructionJa,
				query.LanguageEnglish:  constant.EventInstructionEn,
			},
		},
		query.ResponderGeneral: {
			Name:         query.ResponderGeneral,
			CategoryHint: "",
			Instructions: map[query.Language]string{
				query.LanguageJapanese: constant.GeneralInstructionJa,
				query.LanguageEnglish:  constant.GeneralInstructionEn,
			},
		},
	}
}
