// FILE: pkg/responder/prompt.go
// PURPOSE: Build generation prompts from instruction template, filtered
// context and the visitor's question.

package responder

import (
	"strings"

	"ai-concierge-be/internal/constant"
	"ai-concierge-be/pkg/knowledge"
	"ai-concierge-be/pkg/query"
	"ai-concierge-be/pkg/session"
)

// PromptBuilder assembles the single-turn generation prompt.
type PromptBuilder struct {
	instruction string
	language    query.Language
}

func NewPromptBuilder(instruction string, lang query.Language) *PromptBuilder {
	return &PromptBuilder{instruction: instruction, language: lang}
}

// BuildWithChunks produces a prompt over filtered knowledge context.
func (b *PromptBuilder) BuildWithChunks(question string, chunks []knowledge.Chunk) string {
	var prompt strings.Builder

	prompt.WriteString("<reference_material>\n")
	for i, chunk := range chunks {
		if i > 0 {
			prompt.WriteString("\n---\n")
		}
		prompt.WriteString(chunk.Content)
	}
	prompt.WriteString("\n</reference_material>\n\n")

	b.writeInstruction(&prompt)
	b.writeQuestion(&prompt, question)
	return prompt.String()
}

// BuildWithTranscript produces a prompt over the session transcript
// (memory responder).
func (b *PromptBuilder) BuildWithTranscript(question string, turns []session.Turn) string {
	var prompt strings.Builder

	prompt.WriteString("<conversation>\n")
	for _, turn := range turns {
		role := "Visitor"
		if turn.Role == session.RoleAssistant {
			role = "Concierge"
		}
		prompt.WriteString(role)
		prompt.WriteString(": ")
		prompt.WriteString(truncate(turn.Content, 200))
		prompt.WriteString("\n")
	}
	prompt.WriteString("</conversation>\n\n")

	b.writeInstruction(&prompt)
	b.writeQuestion(&prompt, question)
	return prompt.String()
}

func (b *PromptBuilder) writeInstruction(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString(b.instruction)
	prompt.WriteString("\n")
	if b.language == query.LanguageJapanese {
		prompt.WriteString(constant.EmotionTagMandateJa)
	} else {
		prompt.WriteString(constant.EmotionTagMandateEn)
	}
	prompt.WriteString("\n</task>\n\n")
}

func (b *PromptBuilder) writeQuestion(prompt *strings.Builder, question string) {
	prompt.WriteString("<question>\n")
	prompt.WriteString(question)
	prompt.WriteString("\n</question>\n")
}

// truncate bounds a transcript line by rune count. Byte slicing would cut
// Japanese content mid-character.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
