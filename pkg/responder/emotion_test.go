package responder

import (
	"testing"

	"ai-concierge-be/pkg/query"
)

func TestParseEmotionTag(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		wantEmotion query.Emotion
		wantBody    string
	}{
		{"ascii brackets", "[happy] いらっしゃいませ！", query.EmotionHappy, "いらっしゃいませ！"},
		{"fullwidth brackets", "【sad】申し訳ありません", query.EmotionSad, "申し訳ありません"},
		{"leading whitespace", "  [relaxed] どうぞごゆっくり", query.EmotionRelaxed, "どうぞごゆっくり"},
		{"spaces inside tag", "[ neutral ] ご案内します", query.EmotionNeutral, "ご案内します"},
		{"no tag defaults neutral", "地下1階にございます。", query.EmotionNeutral, "地下1階にございます。"},
		{"unknown tag left in body", "[excited] yay", query.EmotionNeutral, "[excited] yay"},
		{"tag mid-sentence ignored", "answer is [happy] maybe", query.EmotionNeutral, "answer is [happy] maybe"},
		{"tag only", "[angry]", query.EmotionAngry, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emotion, body := ParseEmotionTag(tt.in)
			if emotion != tt.wantEmotion {
				t.Errorf("emotion = %q, want %q", emotion, tt.wantEmotion)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestExpandSearchText(t *testing.T) {
	out := ExpandSearchText("土曜日も?", query.RequestTypeHours)
	if out == "土曜日も?" {
		t.Error("hours request type added no synonyms")
	}
	if len(out) < len("土曜日も?") {
		t.Error("expanded text shorter than original")
	}

	// The original text must stay in front.
	if out[:len("土曜日も?")] != "土曜日も?" {
		t.Errorf("original text not preserved as prefix: %q", out)
	}

	// No request type: text passes through untouched.
	if got := ExpandSearchText("こんにちは", query.RequestTypeNone); got != "こんにちは" {
		t.Errorf("ExpandSearchText with none = %q", got)
	}
}
