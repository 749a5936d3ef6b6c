package service

import (
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-concierge-be/internal/dto"
	"ai-concierge-be/pkg/classifier"
	"ai-concierge-be/pkg/corrector"
	"ai-concierge-be/pkg/events"
	"ai-concierge-be/pkg/knowledge"
	"ai-concierge-be/pkg/language"
	"ai-concierge-be/pkg/llm"
	"ai-concierge-be/pkg/query"
	"ai-concierge-be/pkg/responder"
	"ai-concierge-be/pkg/router"
	"ai-concierge-be/pkg/session"
)

// ---- test doubles ----

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type stubRetriever struct {
	chunks []knowledge.Chunk
	err    error
}

func (s *stubRetriever) Retrieve(ctx context.Context, text, categoryHint string, lang query.Language, maxResults int) ([]knowledge.Chunk, error) {
	return s.chunks, s.err
}

type stubLLM struct {
	reply string
	err   error
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.reply, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.reply, s.err
}

type capturePublisher struct {
	published []events.Event
}

func (p *capturePublisher) Publish(ctx context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}

type failingStore struct{}

func (failingStore) Get(string) (*session.State, error) {
	return nil, errors.New("store down")
}
func (failingStore) RecordTurn(string, session.Turn) error               { return errors.New("store down") }
func (failingStore) SetLastRequestType(string, query.RequestType) error  { return errors.New("store down") }
func (failingStore) SetPinnedLanguage(string, query.Language) error      { return errors.New("store down") }
func (failingStore) SetClarification(string, *session.Clarification) error {
	return errors.New("store down")
}
func (failingStore) Clear(string) error { return errors.New("store down") }

// ---- fixture ----

type fixture struct {
	service   IConciergeService
	store     session.Store
	publisher *capturePublisher
}

func newFixture(t *testing.T, store session.Store, retriever knowledge.Retriever, provider llm.LLMProvider) *fixture {
	t.Helper()

	corr := corrector.NewDefault()
	detector := language.NewDetector(query.LanguageJapanese)
	cls := classifier.NewDefault()
	filter := knowledge.NewDefaultFilter()
	rtr := router.New(detector, cls, store)
	clarifier := responder.NewClarifier(cls, 1)

	responders := make(map[query.ResponderName]responder.Responder)
	for name, profile := range responder.DefaultProfiles() {
		responders[name] = responder.NewKnowledgeResponder(profile, retriever, filter, provider, log.Default())
	}
	responders[query.ResponderMemory] = responder.NewMemoryResponder(provider, log.Default())

	publisher := &capturePublisher{}
	svc := NewConciergeService(corr, detector, rtr, store, responders, clarifier, publisher, nopLogger{})
	return &fixture{service: svc, store: store, publisher: publisher}
}

func defaultFixture(t *testing.T) *fixture {
	retriever := &stubRetriever{chunks: []knowledge.Chunk{
		{ID: "doc-1", Content: "地下1階の会議室は無料です", EntityTags: []string{"meeting-room-b1", "free"}},
		{ID: "doc-2", Content: "2階の有料会議室は1時間2000円です", EntityTags: []string{"meeting-room-2f", "paid"}},
		{ID: "doc-3", Content: "カフェコトリは平日8:00〜20:00、土日9:00〜19:00営業です", EntityTags: []string{"cafe-kotori"}},
	}}
	provider := &stubLLM{reply: "[happy] ご案内しますね。"}
	return newFixture(t, session.NewMemoryStore(time.Minute), retriever, provider)
}

func ask(t *testing.T, f *fixture, sessionID, text string) *query.UnifiedResponse {
	t.Helper()
	res, err := f.service.Handle(context.Background(), &dto.AskRequest{SessionId: sessionID, Text: text})
	require.NoError(t, err)
	require.NotNil(t, res.Reply)
	return res.Reply
}

// ---- scenarios ----

func TestHandleDirectFacilityQuestion(t *testing.T) {
	f := defaultFixture(t)

	reply := ask(t, f, "s1", "地下の会議しつはどこですか")

	assert.Equal(t, query.ResponderFacility, reply.Responder)
	assert.Equal(t, query.CategoryFacilityInfo, reply.Metadata.Category)
	assert.Equal(t, query.RequestTypeBasement, reply.Metadata.RequestType)
	assert.Empty(t, reply.Metadata.Failure)
	assert.Equal(t, query.EmotionHappy, reply.Emotion)
	assert.Equal(t, query.LanguageJapanese, reply.Language)

	// Paid-tier chunks never reach a basement-scoped answer.
	assert.NotContains(t, reply.Metadata.Sources, "doc-2")
	assert.Contains(t, reply.Metadata.Sources, "doc-1")

	// The turn was recorded and published.
	state, err := f.store.Get("s1")
	require.NoError(t, err)
	require.Len(t, state.Turns, 2)
	assert.Equal(t, session.RoleUser, state.Turns[0].Role)
	assert.Equal(t, session.RoleAssistant, state.Turns[1].Role)
	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, events.TypeConciergeTurn, f.publisher.published[0].EventType())
}

func TestHandlePriceOverridesRoomKeyword(t *testing.T) {
	f := defaultFixture(t)

	reply := ask(t, f, "s2", "2階の有料会議室の料金はいくらですか")

	assert.Equal(t, query.ResponderBusiness, reply.Responder)
	assert.Equal(t, query.RequestTypePrice, reply.Metadata.RequestType)
	assert.Empty(t, reply.Metadata.Failure)

	// Free-tier chunks are narrowed away for the paid-scoped question.
	assert.NotContains(t, reply.Metadata.Sources, "doc-1")
	assert.Contains(t, reply.Metadata.Sources, "doc-2")
}

func TestHandleClarificationFlow(t *testing.T) {
	f := defaultFixture(t)

	// Ambiguous: two cafes share the generic term.
	first := ask(t, f, "s3", "カフェの営業時間は?")
	assert.Equal(t, query.ResponderClarification, first.Responder)
	assert.Equal(t, query.CategoryCafeClarification, first.Metadata.Category)
	assert.Equal(t, 1.0, first.Metadata.Confidence)
	assert.Contains(t, first.Text, "カフェコトリ")
	assert.Contains(t, first.Text, "喫茶ヤマネ")

	state, err := f.store.Get("s3")
	require.NoError(t, err)
	require.NotNil(t, state.Clarification)
	assert.Equal(t, "カフェの営業時間は?", state.Clarification.PendingQuery)

	// The choice resolves the pending query and answers it.
	second := ask(t, f, "s3", "コトリの方")
	assert.Equal(t, query.ResponderBusiness, second.Responder)
	assert.Equal(t, query.RequestTypeHours, second.Metadata.RequestType)
	assert.Empty(t, second.Metadata.Failure)

	state, err = f.store.Get("s3")
	require.NoError(t, err)
	assert.Nil(t, state.Clarification)
	assert.Equal(t, query.RequestTypeHours, state.LastRequestType)
}

func TestHandleEllipticalInheritance(t *testing.T) {
	f := defaultFixture(t)

	first := ask(t, f, "s4", "カフェコトリの営業時間は?")
	assert.Equal(t, query.RequestTypeHours, first.Metadata.RequestType)
	assert.False(t, first.Metadata.Inherited)

	second := ask(t, f, "s4", "土曜日も?")
	assert.Equal(t, query.RequestTypeHours, second.Metadata.RequestType)
	assert.True(t, second.Metadata.Inherited)
	assert.Equal(t, query.ResponderBusiness, second.Responder)
}

func TestHandleClarificationRetryThenFallback(t *testing.T) {
	f := defaultFixture(t)

	first := ask(t, f, "s5", "会議室を使いたい")
	assert.Equal(t, query.ResponderClarification, first.Responder)

	// First unmatched reply: one re-ask.
	second := ask(t, f, "s5", "うーん")
	assert.Equal(t, query.ResponderClarification, second.Responder)
	assert.Empty(t, second.Metadata.Failure)

	// Second unmatched reply: budget exhausted, general fallback with the
	// failure recorded in metadata.
	third := ask(t, f, "s5", "どうしようかな")
	assert.Equal(t, query.ResponderGeneral, third.Responder)
	assert.Equal(t, responder.FailureAmbiguityLoop, third.Metadata.Failure)
	assert.NotEmpty(t, third.Text)

	state, err := f.store.Get("s5")
	require.NoError(t, err)
	assert.Nil(t, state.Clarification)
}

func TestHandleMemoryRecall(t *testing.T) {
	f := defaultFixture(t)

	ask(t, f, "s6", "カフェコトリの営業時間は?")
	reply := ask(t, f, "s6", "さっきの話をもう一度教えて")

	assert.Equal(t, query.ResponderMemory, reply.Responder)
	assert.Equal(t, query.CategoryMemoryRecall, reply.Metadata.Category)
	assert.Empty(t, reply.Metadata.Failure)
}

func TestHandleSessionStoreDegraded(t *testing.T) {
	retriever := &stubRetriever{chunks: []knowledge.Chunk{
		{ID: "doc-1", Content: "地下1階の会議室は無料です", EntityTags: []string{"meeting-room-b1", "free"}},
	}}
	provider := &stubLLM{reply: "[neutral] ご案内します。"}
	f := newFixture(t, failingStore{}, retriever, provider)

	reply := ask(t, f, "s7", "地下の会議室はどこですか")

	// Still a full answer; the degradation only shows in metadata.
	assert.Equal(t, query.ResponderFacility, reply.Responder)
	assert.NotEmpty(t, reply.Text)
	assert.Equal(t, responder.FailureSessionDegraded, reply.Metadata.Failure)
}

func TestHandleRetrievalOutage(t *testing.T) {
	retriever := &stubRetriever{err: errors.New("connection refused")}
	provider := &stubLLM{reply: "unused"}
	f := newFixture(t, session.NewMemoryStore(time.Minute), retriever, provider)

	reply := ask(t, f, "s8", "地下の会議室はどこですか")

	assert.Equal(t, responder.FailureRetrievalUnavailable, reply.Metadata.Failure)
	assert.NotEmpty(t, reply.Text)
	assert.Equal(t, query.EmotionSad, reply.Emotion)
}

func TestGetHistoryAndEndSession(t *testing.T) {
	f := defaultFixture(t)

	ask(t, f, "s9", "カフェコトリの営業時間は?")

	history, err := f.service.GetHistory(context.Background(), "s9")
	require.NoError(t, err)
	require.Len(t, history.Turns, 2)
	assert.Equal(t, "カフェコトリの営業時間は?", history.Turns[0].Content)

	require.NoError(t, f.service.EndSession(context.Background(), "s9"))

	history, err = f.service.GetHistory(context.Background(), "s9")
	require.NoError(t, err)
	assert.Empty(t, history.Turns)
}

func TestHandlePinnedLanguage(t *testing.T) {
	f := defaultFixture(t)

	// The UI toggle pins English; a Japanese utterance still gets an
	// English-labeled response.
	res, err := f.service.Handle(context.Background(), &dto.AskRequest{
		SessionId: "s10",
		Text:      "地下の会議室はどこですか",
		Language:  "en",
	})
	require.NoError(t, err)
	assert.Equal(t, query.LanguageEnglish, res.Reply.Language)
}
