package language

import (
	"testing"

	"ai-concierge-be/pkg/query"
)

func TestDetect(t *testing.T) {
	d := NewDetector(query.LanguageJapanese)

	tests := []struct {
		name string
		text string
		want query.Language
	}{
		{"hiragana", "ちかのかいぎしつ", query.LanguageJapanese},
		{"katakana", "カフェコトリ", query.LanguageJapanese},
		{"kanji", "地下の会議室", query.LanguageJapanese},
		{"plain english", "where is the cafe", query.LanguageEnglish},
		{"mixed scripts lean japanese", "wifiのパスワード", query.LanguageJapanese},
		{"latin brand in japanese sentence", "カフェコトリのwifi", query.LanguageJapanese},
		{"digits only fall back", "123?", query.LanguageJapanese},
		{"empty falls back", "", query.LanguageJapanese},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.text)
			if got.Detected != tt.want {
				t.Errorf("Detect(%q).Detected = %q, want %q", tt.text, got.Detected, tt.want)
			}
			if got.Response != tt.want {
				t.Errorf("Detect(%q).Response = %q, want %q", tt.text, got.Response, tt.want)
			}
		})
	}
}

func TestDetectFallback(t *testing.T) {
	d := NewDetector(query.LanguageEnglish)
	if got := d.Detect("!!!"); got.Detected != query.LanguageEnglish {
		t.Errorf("fallback = %q, want en", got.Detected)
	}
}

func TestResolvePinnedWins(t *testing.T) {
	d := NewDetector(query.LanguageJapanese)

	// Japanese input, session pinned to English: detection stays honest but
	// the response language follows the pin.
	got := d.Resolve("地下の会議室はどこですか", query.LanguageEnglish)
	if got.Detected != query.LanguageJapanese {
		t.Errorf("Detected = %q, want ja", got.Detected)
	}
	if got.Response != query.LanguageEnglish {
		t.Errorf("Response = %q, want en", got.Response)
	}

	// No pin: response follows detection.
	got = d.Resolve("where is the cafe", "")
	if got.Response != query.LanguageEnglish {
		t.Errorf("Response = %q, want en", got.Response)
	}
}
