package responder

import (
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"ai-concierge-be/pkg/classifier"
	"ai-concierge-be/pkg/knowledge"
	"ai-concierge-be/pkg/llm"
	"ai-concierge-be/pkg/query"
	"ai-concierge-be/pkg/session"
)

type stubRetriever struct {
	chunks []knowledge.Chunk
	err    error
	// lastText records what the responder actually searched for
	lastText string
}

func (s *stubRetriever) Retrieve(ctx context.Context, text, categoryHint string, lang query.Language, maxResults int) ([]knowledge.Chunk, error) {
	s.lastText = text
	return s.chunks, s.err
}

type stubLLM struct {
	reply string
	err   error
	// lastPrompt records the generated prompt for inspection
	lastPrompt string
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.reply, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	s.lastPrompt = prompt
	return s.reply, s.err
}

func testProfile() Profile {
	return DefaultProfiles()[query.ResponderBusiness]
}

func testRequest(text string, rt query.RequestType) Request {
	return Request{
		Corrected: query.CorrectedQuery{
			Query:         query.Query{SessionID: "sess", RawText: text},
			CorrectedText: text,
		},
		Decision: query.RouteDecision{
			Responder:   query.ResponderBusiness,
			Category:    query.CategoryBusinessInfo,
			RequestType: rt,
			Language:    query.LanguageJapanese,
			Confidence:  0.8,
		},
	}
}

func TestKnowledgeResponderHappyPath(t *testing.T) {
	retriever := &stubRetriever{chunks: []knowledge.Chunk{
		{ID: "doc-1", Content: "カフェコトリは平日8:00〜20:00営業です", EntityTags: []string{"cafe-kotori"}},
	}}
	provider := &stubLLM{reply: "[happy] 平日は8時から20時まで営業しています。"}

	r := NewKnowledgeResponder(testProfile(), retriever, knowledge.NewDefaultFilter(), provider, log.Default())
	got := r.Answer(context.Background(), testRequest("カフェコトリの営業時間は?", query.RequestTypeHours))

	if got.Emotion != query.EmotionHappy {
		t.Errorf("Emotion = %q, want happy", got.Emotion)
	}
	if strings.Contains(got.Text, "[happy]") {
		t.Errorf("emotion tag leaked into body: %q", got.Text)
	}
	if got.Metadata.Failure != "" {
		t.Errorf("Failure = %q on happy path", got.Metadata.Failure)
	}
	if len(got.Metadata.Sources) != 1 || got.Metadata.Sources[0] != "doc-1" {
		t.Errorf("Sources = %v", got.Metadata.Sources)
	}
	// Synonym expansion widened the search text.
	if retriever.lastText == "カフェコトリの営業時間は?" {
		t.Error("search text was not expanded for the hours request type")
	}
	// The retrieved content reached the prompt.
	if !strings.Contains(provider.lastPrompt, "カフェコトリは平日8:00〜20:00営業です") {
		t.Error("chunk content missing from prompt")
	}
	if !strings.Contains(provider.lastPrompt, "<reference_material>") {
		t.Error("prompt missing reference material block")
	}
}

func TestKnowledgeResponderRetrievalFailure(t *testing.T) {
	retriever := &stubRetriever{err: errors.New("connection refused")}
	provider := &stubLLM{reply: "should never be called"}

	r := NewKnowledgeResponder(testProfile(), retriever, knowledge.NewDefaultFilter(), provider, log.Default())
	got := r.Answer(context.Background(), testRequest("カフェコトリの営業時間は?", query.RequestTypeHours))

	if got.Metadata.Failure != FailureRetrievalUnavailable {
		t.Errorf("Failure = %q, want %q", got.Metadata.Failure, FailureRetrievalUnavailable)
	}
	if got.Metadata.Confidence != fallbackConfidence {
		t.Errorf("Confidence = %v, want %v", got.Metadata.Confidence, fallbackConfidence)
	}
	if got.Text == "" {
		t.Error("fallback must still carry visitor-facing text")
	}
	if provider.lastPrompt != "" {
		t.Error("generation was called despite retrieval failure")
	}
}

func TestKnowledgeResponderEmptyAfterFilter(t *testing.T) {
	// Only paid-tier chunks for a free-scoped query: the filter empties the
	// set and the responder must fall back, not generate on nothing.
	retriever := &stubRetriever{chunks: []knowledge.Chunk{
		{ID: "2f", Content: "2階の有料会議室", EntityTags: []string{"meeting-room-2f", "paid"}},
	}}
	provider := &stubLLM{reply: "unused"}

	r := NewKnowledgeResponder(testProfile(), retriever, knowledge.NewDefaultFilter(), provider, log.Default())
	req := testRequest("地下の会議室はどこですか", query.RequestTypeBasement)
	got := r.Answer(context.Background(), req)

	if got.Metadata.Failure != FailureRetrievalUnavailable {
		t.Errorf("Failure = %q, want %q", got.Metadata.Failure, FailureRetrievalUnavailable)
	}
	if provider.lastPrompt != "" {
		t.Error("generation was called with empty context")
	}
}

func TestKnowledgeResponderGenerationFailure(t *testing.T) {
	retriever := &stubRetriever{chunks: []knowledge.Chunk{
		{ID: "doc-1", Content: "カフェコトリは1階です"},
	}}
	provider := &stubLLM{err: errors.New("model timeout")}

	r := NewKnowledgeResponder(testProfile(), retriever, knowledge.NewDefaultFilter(), provider, log.Default())
	got := r.Answer(context.Background(), testRequest("カフェコトリはどこ?", query.RequestTypeLocation))

	if got.Metadata.Failure != FailureGenerationFailed {
		t.Errorf("Failure = %q, want %q", got.Metadata.Failure, FailureGenerationFailed)
	}
	if got.Text == "" {
		t.Error("apology must still carry visitor-facing text")
	}
	// Sources survive so the failed turn stays diagnosable.
	if len(got.Metadata.Sources) != 1 {
		t.Errorf("Sources = %v, want the retrieved doc", got.Metadata.Sources)
	}
}

func TestMemoryResponder(t *testing.T) {
	provider := &stubLLM{reply: "[neutral] カフェコトリの営業時間をお尋ねでした。"}
	r := NewMemoryResponder(provider, log.Default())

	req := testRequest("さっき何を聞いたっけ", query.RequestTypeNone)
	req.Decision.Responder = query.ResponderMemory
	req.Decision.Category = query.CategoryMemoryRecall
	req.Turns = []session.Turn{
		{Role: session.RoleUser, Content: "カフェコトリの営業時間は?"},
		{Role: session.RoleAssistant, Content: "平日は8時から20時までです。"},
	}

	got := r.Answer(context.Background(), req)
	if got.Metadata.Failure != "" {
		t.Errorf("Failure = %q", got.Metadata.Failure)
	}
	if !strings.Contains(provider.lastPrompt, "Visitor: カフェコトリの営業時間は?") {
		t.Errorf("transcript missing from prompt:\n%s", provider.lastPrompt)
	}
	if !strings.Contains(provider.lastPrompt, "Concierge: 平日は8時から20時までです。") {
		t.Errorf("assistant turn missing from prompt:\n%s", provider.lastPrompt)
	}
}

func TestMemoryResponderEmptyTranscript(t *testing.T) {
	provider := &stubLLM{reply: "unused"}
	r := NewMemoryResponder(provider, log.Default())

	req := testRequest("さっき何を聞いたっけ", query.RequestTypeNone)
	got := r.Answer(context.Background(), req)

	if got.Text == "" {
		t.Error("empty-transcript fallback must carry text")
	}
	if got.Metadata.Confidence != fallbackConfidence {
		t.Errorf("Confidence = %v, want %v", got.Metadata.Confidence, fallbackConfidence)
	}
	if provider.lastPrompt != "" {
		t.Error("generation was called with no transcript")
	}
}

func TestClarifierQuestionNamesBothCandidates(t *testing.T) {
	c := NewClarifier(classifier.NewDefault(), 1)

	decision := query.RouteDecision{
		Responder:  query.ResponderClarification,
		Category:   query.CategoryCafeClarification,
		Language:   query.LanguageJapanese,
		Confidence: 1.0,
	}
	got := c.Question(query.CategoryCafeClarification, decision)
	if got == nil {
		t.Fatal("Question returned nil for a registered group")
	}
	if !strings.Contains(got.Text, "カフェコトリ") || !strings.Contains(got.Text, "喫茶ヤマネ") {
		t.Errorf("question does not name both candidates: %q", got.Text)
	}
	if got.Responder != query.ResponderClarification {
		t.Errorf("Responder = %q", got.Responder)
	}
	if got.Metadata.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", got.Metadata.Confidence)
	}
}

func TestClarifierQuestionEnglish(t *testing.T) {
	c := NewClarifier(classifier.NewDefault(), 1)

	decision := query.RouteDecision{
		Category:   query.CategoryMeetingRoomClarification,
		Language:   query.LanguageEnglish,
		Confidence: 1.0,
	}
	got := c.Question(query.CategoryMeetingRoomClarification, decision)
	if got == nil {
		t.Fatal("Question returned nil")
	}
	if !strings.Contains(got.Text, " or ") {
		t.Errorf("english question not joined with 'or': %q", got.Text)
	}
}

func TestClarifierQuestionUnknownCategory(t *testing.T) {
	c := NewClarifier(classifier.NewDefault(), 1)
	if got := c.Question(query.CategoryGeneral, query.RouteDecision{}); got != nil {
		t.Errorf("Question for non-clarification category = %+v, want nil", got)
	}
}

func TestClarifierResolveAndFold(t *testing.T) {
	c := NewClarifier(classifier.NewDefault(), 1)

	cand := c.Resolve(query.CategoryCafeClarification, "コトリの方でお願いします")
	if cand == nil || cand.Tag != "cafe-kotori" {
		t.Fatalf("Resolve = %v, want cafe-kotori", cand)
	}

	folded := c.Fold(cand, "カフェの営業時間は?", query.LanguageJapanese)
	if !strings.Contains(folded, "カフェコトリ") {
		t.Errorf("folded query missing entity name: %q", folded)
	}
	if !strings.Contains(folded, "カフェの営業時間は?") {
		t.Errorf("folded query lost the pending question: %q", folded)
	}

	if got := c.Resolve(query.CategoryCafeClarification, "うーん"); got != nil {
		t.Errorf("Resolve matched garbage: %v", got)
	}
}
