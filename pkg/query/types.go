// FILE: pkg/query/types.go
// PURPOSE: Shared vocabulary for the query understanding pipeline

package query

import (
	"time"
)

// Language is the supported response/input language
type Language string

const (
	LanguageJapanese Language = "ja"
	LanguageEnglish  Language = "en"
)

// RequestType is a fine-grained topic tag, more specific than Category
type RequestType string

const (
	RequestTypeNone        RequestType = ""
	RequestTypeHours       RequestType = "hours"
	RequestTypePrice       RequestType = "price"
	RequestTypeLocation    RequestType = "location"
	RequestTypeWifi        RequestType = "wifi"
	RequestTypeFacility    RequestType = "facility"
	RequestTypeBasement    RequestType = "basement"
	RequestTypeMeetingRoom RequestType = "meeting-room"
	RequestTypeEvent       RequestType = "event"
)

// Category is the coarse classification of a query
type Category string

const (
	CategoryFacilityInfo Category = "facility-info"
	CategoryBusinessInfo Category = "business-info"
	CategoryEventInfo    Category = "event-info"
	CategoryMemoryRecall Category = "memory-recall"
	CategoryGeneral      Category = "general"

	// Clarification variants, one per ambiguous entity group
	CategoryCafeClarification        Category = "cafe-clarification"
	CategoryMeetingRoomClarification Category = "meeting-room-clarification"
)

// IsClarification reports whether the category is a clarification variant
func (c Category) IsClarification() bool {
	return c == CategoryCafeClarification || c == CategoryMeetingRoomClarification
}

// ResponderName identifies which specialized responder produced an answer
type ResponderName string

const (
	ResponderFacility      ResponderName = "facility"
	ResponderBusiness      ResponderName = "business"
	ResponderEvent         ResponderName = "event"
	ResponderMemory        ResponderName = "memory"
	ResponderGeneral       ResponderName = "general"
	ResponderClarification ResponderName = "clarification"
)

// Emotion is the fixed vocabulary the presentation layer understands
type Emotion string

const (
	EmotionNeutral Emotion = "neutral"
	EmotionHappy   Emotion = "happy"
	EmotionSad     Emotion = "sad"
	EmotionAngry   Emotion = "angry"
	EmotionRelaxed Emotion = "relaxed"
)

// KnownEmotions lists every emotion the responders may emit
var KnownEmotions = []Emotion{EmotionNeutral, EmotionHappy, EmotionSad, EmotionAngry, EmotionRelaxed}

// ParseEmotion maps a raw tag to a known emotion, defaulting to neutral
func ParseEmotion(raw string) Emotion {
	for _, e := range KnownEmotions {
		if string(e) == raw {
			return e
		}
	}
	return EmotionNeutral
}

// Query is the immutable inbound request value
type Query struct {
	RawText   string
	Language  Language
	SessionID string
	Timestamp time.Time
}

// CorrectedQuery wraps a Query with its phonetically corrected text.
// CorrectedText is what every downstream stage consumes.
type CorrectedQuery struct {
	Query         Query
	CorrectedText string
}

// Classification is the classifier output
type Classification struct {
	Category    Category
	Confidence  float64
	RequestType RequestType
	// Debug carries the matched rule/group names for logs and tests
	Debug map[string]string
}

// RouteDecision fully determines dispatch; it carries no mutable state
type RouteDecision struct {
	Responder   ResponderName
	Category    Category
	RequestType RequestType
	Language    Language
	Confidence  float64
	// Inherited marks a request type pulled from session memory for an
	// elliptical follow-up rather than freshly classified
	Inherited bool
}

// ResponseMetadata travels with every UnifiedResponse
type ResponseMetadata struct {
	Confidence  float64     `json:"confidence"`
	Category    Category    `json:"category"`
	RequestType RequestType `json:"request_type,omitempty"`
	Inherited   bool        `json:"inherited,omitempty"`
	Sources     []string    `json:"sources,omitempty"`
	// Failure carries a recovered error code ("retrieval-unavailable",
	// "generation-failed", ...). Empty on the happy path.
	Failure string `json:"failure,omitempty"`
}

// UnifiedResponse is the common contract every responder returns
type UnifiedResponse struct {
	Text      string           `json:"text"`
	Emotion   Emotion          `json:"emotion"`
	Responder ResponderName    `json:"responder"`
	Language  Language         `json:"language"`
	Metadata  ResponseMetadata `json:"metadata"`
}
