package corrector

import (
	"testing"
)

func TestCorrect(t *testing.T) {
	c := NewDefault()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "kotori homophone",
			in:   "小鳥カフェの営業時間は?",
			want: "カフェコトリの営業時間は?",
		},
		{
			name: "kotori hiragana split",
			in:   "カフェ ことり はどこですか",
			want: "カフェコトリ はどこですか",
		},
		{
			name: "yamane surname confusion",
			in:   "山根カフェは何階?",
			want: "喫茶ヤマネは何階?",
		},
		{
			name: "kaigishitsu kana drift",
			in:   "会議しつを予約したい",
			want: "会議室を予約したい",
		},
		{
			name: "meeting room split loan word",
			in:   "ミーティング ルームはありますか",
			want: "ミーティングルームはありますか",
		},
		{
			name: "wifi katakana",
			in:   "ワイファイのパスワードは?",
			want: "wifiのパスワードは?",
		},
		{
			name: "wifi english mishearing",
			in:   "is there why-fi here?",
			want: "is there wifi here?",
		},
		{
			name: "basement mishearing",
			in:   "where is the base mint meeting room",
			want: "where is the basement meeting room",
		},
		{
			name: "spelled out second floor",
			in:   "二階の会議室について",
			want: "2階の会議室について",
		},
		{
			name: "clean text untouched",
			in:   "カフェコトリの場所を教えて",
			want: "カフェコトリの場所を教えて",
		},
		{
			name: "surrounding whitespace trimmed",
			in:   "  地下の会議室  ",
			want: "地下の会議室",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Correct(tt.in)
			if got != tt.want {
				t.Errorf("Correct(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// Every canonical form must be a fixed point of the rule table, otherwise
// re-corrected text would drift on retries.
func TestCorrectIdempotent(t *testing.T) {
	c := NewDefault()

	inputs := []string{
		"小鳥カフェの営業時間は?",
		"山根カフェは何階?",
		"会議しつを予約したい",
		"ワイファイのパスワードは?",
		"二階の会議しつのワイファイ",
		"where is the base mint meeting room",
		"is there why-fi in the mee ting room?",
	}

	for _, in := range inputs {
		once := c.Correct(in)
		twice := c.Correct(once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
