package responder

import (
	"strings"
	"testing"
	"unicode/utf8"

	"ai-concierge-be/internal/constant"
	"ai-concierge-be/pkg/query"
	"ai-concierge-be/pkg/session"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"short ascii untouched", "hello", 10, "hello"},
		{"long ascii cut", "hello world", 5, "hello..."},
		{"short japanese untouched", "営業時間", 10, "営業時間"},
		{"long japanese cut on rune boundary", "地下の会議室はどこですか", 5, "地下の会議..."},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := truncate(c.in, c.maxLen)
			if got != c.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", c.in, c.maxLen, got, c.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate(%q, %d) produced invalid UTF-8: %q", c.in, c.maxLen, got)
			}
		})
	}
}

func TestBuildWithTranscriptLongJapaneseTurn(t *testing.T) {
	long := strings.Repeat("カフェコトリの営業時間を教えてください。", 30)
	b := NewPromptBuilder(constant.MemoryInstructionJa, query.LanguageJapanese)

	prompt := b.BuildWithTranscript("さっきの話は?", []session.Turn{
		{Role: session.RoleUser, Content: long},
	})

	if !utf8.ValidString(prompt) {
		t.Error("prompt contains invalid UTF-8 after truncation")
	}
	if !strings.Contains(prompt, "...") {
		t.Error("long transcript line was not truncated")
	}
}
