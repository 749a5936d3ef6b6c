// FILE: pkg/corrector/corrector.go
// PURPOSE: Rewrite common speech-recognition misreadings of facility terms
// into their canonical spellings before any downstream stage runs.

package corrector

import (
	"regexp"
	"strings"
)

// Rule is one ordered (pattern, replacement) pair. Patterns are applied in
// sequence over the whole text; a later rule may act on the output of an
// earlier one.
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// Corrector applies an ordered rule table. It is pure and stateless, so the
// same instance can be shared across requests.
type Corrector struct {
	rules []Rule
}

func New(rules []Rule) *Corrector {
	return &Corrector{rules: rules}
}

// NewDefault builds a corrector with the built-in confusion table.
func NewDefault() *Corrector {
	return New(DefaultRules())
}

// Correct rewrites known speech-recognition confusions. Idempotent: the
// canonical spellings on the right-hand side are never matched by any
// pattern, so Correct(Correct(x)) == Correct(x).
func (c *Corrector) Correct(text string) string {
	out := text
	for _, r := range c.rules {
		out = r.Pattern.ReplaceAllString(out, r.Replacement)
	}
	return strings.TrimSpace(out)
}

// DefaultRules is the built-in table of speech-recognition confusions for
// the facility's proper nouns. Treat as configuration: adding a newly
// observed confusable phrase is a data change, not a code change.
func DefaultRules() []Rule {
	mk := func(name, pattern, repl string) Rule {
		return Rule{Name: name, Pattern: regexp.MustCompile(pattern), Replacement: repl}
	}
	return []Rule{
		// Cafe Kotori: STT renders the katakana name as the homophone
		// bird noun or splits it into hiragana.
		mk("kotori-homophone", `小鳥カフェ|カフェ小鳥|ことりカフェ`, "カフェコトリ"),
		mk("kotori-split", `カフェ\s*・?\s*(コトリ|ことり|小鳥)`, "カフェコトリ"),
		mk("kotori-latin", `(?i)cafe\s+ko\s*to\s*ri`, "Cafe Kotori"),

		// Cafe Yamane: misheard as the surname 山根 or the dormouse 山鼠.
		mk("yamane-homophone", `(山根|山鼠|やまね)(カフェ|喫茶)`, "喫茶ヤマネ"),
		mk("yamane-split", `(喫茶|カフェ)\s*・?\s*(ヤマネ|やまね|山根)`, "喫茶ヤマネ"),
		mk("yamane-latin", `(?i)cafe\s+ya\s*ma\s*ne`, "Cafe Yamane"),

		// Meeting room: kana/kanji drift and split loan words.
		mk("kaigishitsu-kana", `会議しつ|かいぎ室|かいぎしつ`, "会議室"),
		mk("meeting-room-split", `ミーティング\s+ルーム`, "ミーティングルーム"),
		mk("meeting-room-latin", `(?i)\bmeeting\s+lume\b|\bmee\s*ting\s+room\b`, "meeting room"),

		// Wi-Fi: transliteration drift in both directions.
		mk("wifi-kana", `ワイ\s*ファイ|わいふぁい|ウィフィ`, "wifi"),
		mk("wifi-latin", `(?i)\bwhy\s*[- ]?fi\b|\bwai\s*fai\b|\bwi[- ]fi\b`, "wifi"),

		// Basement: 地下 heard as 近く/ちか.
		mk("chika-kana", `ちかの会議室|近くの会議室の階`, "地下の会議室"),
		mk("basement-latin", `(?i)\bbase\s*mint\b|\bbasemant\b`, "basement"),

		// Floor markers: spelled-out readings back to digits.
		mk("floor-ni-kai", `にかい|二階`, "2階"),
		mk("floor-chika-ikkai", `地下いっかい|地下一階`, "地下1階"),
	}
}
