// FILE: pkg/responder/synonyms.go
// PURPOSE: Request-type synonym expansion to widen retrieval recall.

package responder

import (
	"strings"

	"ai-concierge-be/pkg/query"
)

// requestTypeSynonyms are appended to the search text per request type.
// Mixed-language on purpose: the corpus carries both scripts and the
// retriever matches either.
var requestTypeSynonyms = map[query.RequestType][]string{
	query.RequestTypeWifi:        {"wireless", "internet", "接続", "無線LAN"},
	query.RequestTypeHours:       {"営業時間", "開店", "閉店", "opening hours"},
	query.RequestTypePrice:       {"料金", "利用料", "price", "fee"},
	query.RequestTypeLocation:    {"場所", "アクセス", "location", "directions"},
	query.RequestTypeBasement:    {"地下", "B1", "basement", "無料会議室"},
	query.RequestTypeMeetingRoom: {"会議室", "meeting room", "予約"},
	query.RequestTypeEvent:       {"イベント", "催し", "event", "schedule"},
	query.RequestTypeFacility:    {"設備", "施設", "facility", "amenities"},
}

// ExpandSearchText appends the request type's domain synonyms to the query
// text. The original text always comes first so exact matches keep their
// edge in scoring.
func ExpandSearchText(text string, rt query.RequestType) string {
	syns, ok := requestTypeSynonyms[rt]
	if !ok {
		return text
	}
	return text + " " + strings.Join(syns, " ")
}
