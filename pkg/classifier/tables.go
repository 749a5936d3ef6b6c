// FILE: pkg/classifier/tables.go
// PURPOSE: Data-driven rule tables for classification. Keyword lists are
// configuration to be tuned, not load-bearing logic; adding a phrase is a
// data change, not a code change.

package classifier

import (
	"ai-concierge-be/pkg/query"
)

// CategoryRule scores one coarse category. Rules are ordered: more specific
// categories come earlier and win ties.
type CategoryRule struct {
	Category query.Category
	Keywords []string
}

// RequestTypeRule extracts one fine-grained topic tag. Ordered,
// first-match-wins.
type RequestTypeRule struct {
	Type     query.RequestType
	Keywords []string
}

// Candidate is one concrete entity inside an ambiguous group.
type Candidate struct {
	// Tag matches KnowledgeChunk entity tags for this entity
	Tag string
	// DisplayName per response language, used in clarification questions
	DisplayName map[query.Language]string
	// Qualifiers are the surface forms that discriminate this candidate
	// (proper name readings, floor markers, paid/free words)
	Qualifiers []string
}

// AmbiguityGroup describes a generic term shared by two or more concrete
// entities. A query naming a generic term without any discriminator is
// classified as the group's clarification category.
type AmbiguityGroup struct {
	Name         string
	Category     query.Category
	GenericTerms []string
	Candidates   []Candidate
}

// Discriminators collects every qualifier across the group's candidates.
func (g AmbiguityGroup) Discriminators() []string {
	var out []string
	for _, c := range g.Candidates {
		out = append(out, c.Qualifiers...)
	}
	return out
}

// Tables bundles every rule table the classifier consumes. Loaded once at
// startup.
type Tables struct {
	Groups []AmbiguityGroup
	// Categories and RequestTypes are keyed by language; keywords are
	// matched case-insensitively as substrings
	Categories   map[query.Language][]CategoryRule
	RequestTypes map[query.Language][]RequestTypeRule
	// BusinessKeywords always suppress a memory-recall classification.
	// Literal facility questions must never be captured by generic
	// memory phrasing like "what kind of".
	BusinessKeywords []string
}

// DefaultTables returns the built-in rule set for the facility.
func DefaultTables() Tables {
	return Tables{
		Groups: []AmbiguityGroup{
			{
				Name:         "cafe",
				Category:     query.CategoryCafeClarification,
				GenericTerms: []string{"カフェ", "喫茶", "cafe", "coffee"},
				Candidates: []Candidate{
					{
						Tag: "cafe-kotori",
						DisplayName: map[query.Language]string{
							query.LanguageJapanese: "カフェコトリ（1階）",
							query.LanguageEnglish:  "Cafe Kotori (1F)",
						},
						Qualifiers: []string{"コトリ", "ことり", "kotori", "1階", "1f", "一階"},
					},
					{
						Tag: "cafe-yamane",
						DisplayName: map[query.Language]string{
							query.LanguageJapanese: "喫茶ヤマネ（3階）",
							query.LanguageEnglish:  "Cafe Yamane (3F)",
						},
						Qualifiers: []string{"ヤマネ", "やまね", "yamane", "3階", "3f", "三階"},
					},
				},
			},
			{
				Name:         "meeting-room",
				Category:     query.CategoryMeetingRoomClarification,
				GenericTerms: []string{"会議室", "ミーティングルーム", "meeting room"},
				Candidates: []Candidate{
					{
						Tag: "meeting-room-b1",
						DisplayName: map[query.Language]string{
							query.LanguageJapanese: "地下の無料会議室（B1）",
							query.LanguageEnglish:  "the free basement meeting rooms (B1)",
						},
						Qualifiers: []string{"地下", "b1", "無料", "ちか", "basement", "underground", "free"},
					},
					{
						Tag: "meeting-room-2f",
						DisplayName: map[query.Language]string{
							query.LanguageJapanese: "2階の有料会議室",
							query.LanguageEnglish:  "the paid meeting rooms (2F)",
						},
						Qualifiers: []string{"2階", "2f", "有料", "paid", "second floor"},
					},
				},
			},
		},
		Categories: map[query.Language][]CategoryRule{
			query.LanguageJapanese: {
				{Category: query.CategoryEventInfo, Keywords: []string{"イベント", "催し", "ワークショップ", "展示"}},
				{Category: query.CategoryBusinessInfo, Keywords: []string{"営業時間", "営業", "何時", "開店", "閉店", "料金", "値段", "価格", "いくら", "場所", "アクセス", "行き方"}},
				{Category: query.CategoryFacilityInfo, Keywords: []string{"wifi", "会議室", "設備", "施設", "トイレ", "エレベーター", "地下", "コンセント", "電源"}},
				{Category: query.CategoryMemoryRecall, Keywords: []string{"さっき", "前に聞いた", "覚えて", "なんだっけ", "もう一度"}},
			},
			query.LanguageEnglish: {
				{Category: query.CategoryEventInfo, Keywords: []string{"event", "workshop", "exhibition"}},
				{Category: query.CategoryBusinessInfo, Keywords: []string{"hours", "open", "close", "price", "cost", "how much", "fee", "where", "location", "access"}},
				{Category: query.CategoryFacilityInfo, Keywords: []string{"wifi", "meeting room", "facility", "restroom", "toilet", "elevator", "basement", "outlet", "power"}},
				{Category: query.CategoryMemoryRecall, Keywords: []string{"earlier", "you said", "remember", "again", "what did i"}},
			},
		},
		RequestTypes: map[query.Language][]RequestTypeRule{
			query.LanguageJapanese: {
				{Type: query.RequestTypeBasement, Keywords: []string{"地下", "b1"}},
				{Type: query.RequestTypeWifi, Keywords: []string{"wifi", "ワイファイ", "無線"}},
				{Type: query.RequestTypePrice, Keywords: []string{"料金", "値段", "価格", "いくら", "有料"}},
				{Type: query.RequestTypeHours, Keywords: []string{"営業時間", "何時から", "何時まで", "開店", "閉店", "営業"}},
				{Type: query.RequestTypeLocation, Keywords: []string{"場所", "どこ", "アクセス", "行き方"}},
				{Type: query.RequestTypeEvent, Keywords: []string{"イベント", "催し", "ワークショップ"}},
				{Type: query.RequestTypeMeetingRoom, Keywords: []string{"会議室", "ミーティングルーム"}},
				{Type: query.RequestTypeFacility, Keywords: []string{"設備", "施設", "トイレ", "エレベーター"}},
			},
			query.LanguageEnglish: {
				{Type: query.RequestTypeBasement, Keywords: []string{"basement", "underground", "b1"}},
				{Type: query.RequestTypeWifi, Keywords: []string{"wifi", "wireless", "internet"}},
				{Type: query.RequestTypePrice, Keywords: []string{"price", "cost", "how much", "fee", "paid"}},
				{Type: query.RequestTypeHours, Keywords: []string{"hours", "what time", "open", "close"}},
				{Type: query.RequestTypeLocation, Keywords: []string{"where", "location", "access", "how do i get"}},
				{Type: query.RequestTypeEvent, Keywords: []string{"event", "workshop"}},
				{Type: query.RequestTypeMeetingRoom, Keywords: []string{"meeting room"}},
				{Type: query.RequestTypeFacility, Keywords: []string{"facility", "restroom", "toilet", "elevator"}},
			},
		},
		BusinessKeywords: []string{
			"カフェ", "喫茶", "会議室", "営業時間", "料金", "値段", "wifi", "設備", "施設", "イベント", "地下",
			"cafe", "meeting room", "hours", "price", "facility", "event", "basement",
		},
	}
}
