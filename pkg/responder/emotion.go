// FILE: pkg/responder/emotion.go
// PURPOSE: Parse the leading emotion tag the instruction templates mandate.

package responder

import (
	"regexp"
	"strings"

	"ai-concierge-be/pkg/query"
)

var emotionTagPattern = regexp.MustCompile(`^\s*[\[【]\s*(neutral|happy|sad|angry|relaxed)\s*[\]】]\s*`)

// ParseEmotionTag splits a generated reply into its leading emotion tag and
// the remaining body. A missing or unknown tag defaults to neutral with the
// text untouched.
func ParseEmotionTag(text string) (query.Emotion, string) {
	m := emotionTagPattern.FindStringSubmatch(text)
	if m == nil {
		return query.EmotionNeutral, strings.TrimSpace(text)
	}
	body := strings.TrimSpace(text[len(m[0]):])
	return query.ParseEmotion(m[1]), body
}
