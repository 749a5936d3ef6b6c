// FILE: pkg/language/detector.go
// PURPOSE: Decide the input language and the language the reply must use.

package language

import (
	"unicode"

	"ai-concierge-be/pkg/query"
)

// Detection is the detector output. Response defaults to Detected; a pinned
// session language always wins over detection.
type Detection struct {
	Detected query.Language
	Response query.Language
}

// Detector uses script heuristics instead of full language identification
// because the supported set is exactly Japanese and English.
type Detector struct {
	fallback query.Language
}

func NewDetector(fallback query.Language) *Detector {
	if fallback == "" {
		fallback = query.LanguageJapanese
	}
	return &Detector{fallback: fallback}
}

// Detect decides the language from character classes: any Hiragana,
// Katakana or Han rune marks the text as Japanese; Latin-only text is
// English. Text with neither script (digits, emoji) falls back to the
// configured default.
func (d *Detector) Detect(text string) Detection {
	hasJapanese := false
	hasLatin := false
	for _, r := range text {
		switch {
		case unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han):
			hasJapanese = true
		case unicode.IsLetter(r) && r < 0x0250:
			hasLatin = true
		}
	}

	var lang query.Language
	switch {
	case hasJapanese:
		lang = query.LanguageJapanese
	case hasLatin:
		lang = query.LanguageEnglish
	default:
		lang = d.fallback
	}
	return Detection{Detected: lang, Response: lang}
}

// Resolve applies the session-pinned language on top of detection.
// The pinned setting always wins for the response language.
func (d *Detector) Resolve(text string, pinned query.Language) Detection {
	det := d.Detect(text)
	if pinned != "" {
		det.Response = pinned
	}
	return det
}
