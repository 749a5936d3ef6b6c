// FILE: pkg/responder/memory_responder.go
// PURPOSE: Answer "what did we talk about" questions from the session
// transcript instead of the knowledge corpus.

package responder

import (
	"context"
	"log"

	"ai-concierge-be/internal/constant"
	"ai-concierge-be/internal/pkg/apperr"
	"ai-concierge-be/pkg/llm"
	"ai-concierge-be/pkg/query"
)

type MemoryResponder struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewMemoryResponder(provider llm.LLMProvider, logger *log.Logger) *MemoryResponder {
	return &MemoryResponder{provider: provider, logger: logger}
}

func (r *MemoryResponder) Name() query.ResponderName {
	return query.ResponderMemory
}

func (r *MemoryResponder) Answer(ctx context.Context, req Request) *query.UnifiedResponse {
	if len(req.Turns) == 0 {
		text := constant.NoMemoryFallbackEn
		if req.Decision.Language == query.LanguageJapanese {
			text = constant.NoMemoryFallbackJa
		}
		emotion, body := ParseEmotionTag(text)
		meta := baseMetadata(req)
		meta.Confidence = fallbackConfidence
		return &query.UnifiedResponse{
			Text:      body,
			Emotion:   emotion,
			Responder: query.ResponderMemory,
			Language:  req.Decision.Language,
			Metadata:  meta,
		}
	}

	instruction := constant.MemoryInstructionEn
	if req.Decision.Language == query.LanguageJapanese {
		instruction = constant.MemoryInstructionJa
	}

	builder := NewPromptBuilder(instruction, req.Decision.Language)
	prompt := builder.BuildWithTranscript(req.Corrected.CorrectedText, req.Turns)

	reply, err := r.provider.Generate(ctx, prompt, llm.WithTemperature(0.5))
	if err != nil {
		r.logger.Printf("[memory] %v: %v", apperr.ErrGenerationFailed, err)
		return apologyResponse(query.ResponderMemory, req, nil)
	}

	emotion, body := ParseEmotionTag(reply)
	return &query.UnifiedResponse{
		Text:      body,
		Emotion:   emotion,
		Responder: query.ResponderMemory,
		Language:  req.Decision.Language,
		Metadata:  baseMetadata(req),
	}
}
