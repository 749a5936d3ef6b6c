package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"ai-concierge-be/pkg/query"
)

func TestMemoryStoreUnknownSessionIsFresh(t *testing.T) {
	s := NewMemoryStore(time.Minute)

	st, err := s.Get("nobody")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if st.ID != "nobody" {
		t.Errorf("ID = %q, want nobody", st.ID)
	}
	if len(st.Turns) != 0 || st.LastRequestType != query.RequestTypeNone || st.Clarification != nil {
		t.Errorf("fresh state is not empty: %+v", st)
	}
}

func TestMemoryStoreRecordTurnOrderAndCap(t *testing.T) {
	s := NewMemoryStore(time.Minute)

	for i := 0; i < MaxTurns+5; i++ {
		turn := Turn{Role: RoleUser, Content: fmt.Sprintf("turn-%d", i), Timestamp: time.Now()}
		if err := s.RecordTurn("sess", turn); err != nil {
			t.Fatalf("RecordTurn: %v", err)
		}
	}

	st, err := s.Get("sess")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(st.Turns) != MaxTurns {
		t.Fatalf("len(Turns) = %d, want %d", len(st.Turns), MaxTurns)
	}
	// Oldest evicted first: the first surviving turn is turn-5.
	if st.Turns[0].Content != "turn-5" {
		t.Errorf("Turns[0] = %q, want turn-5", st.Turns[0].Content)
	}
	if st.Turns[MaxTurns-1].Content != fmt.Sprintf("turn-%d", MaxTurns+4) {
		t.Errorf("last turn = %q", st.Turns[MaxTurns-1].Content)
	}
}

func TestMemoryStoreFields(t *testing.T) {
	s := NewMemoryStore(time.Minute)

	if err := s.SetLastRequestType("sess", query.RequestTypeHours); err != nil {
		t.Fatalf("SetLastRequestType: %v", err)
	}
	if err := s.SetPinnedLanguage("sess", query.LanguageEnglish); err != nil {
		t.Fatalf("SetPinnedLanguage: %v", err)
	}
	if err := s.SetClarification("sess", &Clarification{Category: query.CategoryCafeClarification, PendingQuery: "カフェの営業時間は?"}); err != nil {
		t.Fatalf("SetClarification: %v", err)
	}

	st, _ := s.Get("sess")
	if st.LastRequestType != query.RequestTypeHours {
		t.Errorf("LastRequestType = %q", st.LastRequestType)
	}
	if st.PinnedLanguage != query.LanguageEnglish {
		t.Errorf("PinnedLanguage = %q", st.PinnedLanguage)
	}
	if st.Clarification == nil || st.Clarification.PendingQuery != "カフェの営業時間は?" {
		t.Errorf("Clarification = %+v", st.Clarification)
	}

	if err := s.SetClarification("sess", nil); err != nil {
		t.Fatalf("clear clarification: %v", err)
	}
	st, _ = s.Get("sess")
	if st.Clarification != nil {
		t.Errorf("Clarification not cleared")
	}
}

func TestMemoryStoreClear(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	_ = s.SetLastRequestType("sess", query.RequestTypePrice)

	if err := s.Clear("sess"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	st, _ := s.Get("sess")
	if st.LastRequestType != query.RequestTypeNone || len(st.Turns) != 0 {
		t.Errorf("state survived Clear: %+v", st)
	}
}

// A Get result is a snapshot: later writes for the same session must not
// show through it, and mutating it must not leak back into the store.
func TestMemoryStoreGetReturnsSnapshot(t *testing.T) {
	s := NewMemoryStore(time.Minute)

	_ = s.RecordTurn("sess", Turn{Role: RoleUser, Content: "first"})
	_ = s.SetClarification("sess", &Clarification{PendingQuery: "カフェの営業時間は?"})

	before, _ := s.Get("sess")
	if len(before.Turns) != 1 {
		t.Fatalf("len(Turns) = %d, want 1", len(before.Turns))
	}

	if err := s.RecordTurn("sess", Turn{Role: RoleAssistant, Content: "second"}); err != nil {
		t.Fatalf("RecordTurn: %v", err)
	}
	if len(before.Turns) != 1 {
		t.Errorf("snapshot grew with the store: len = %d, want 1", len(before.Turns))
	}

	// Mutations on the snapshot stay on the snapshot.
	before.Turns[0].Content = "scribbled"
	before.Clarification.PendingQuery = "scribbled"
	before.LastRequestType = query.RequestTypePrice

	after, _ := s.Get("sess")
	if after.Turns[0].Content != "first" {
		t.Errorf("stored turn = %q, want first", after.Turns[0].Content)
	}
	if after.Clarification.PendingQuery != "カフェの営業時間は?" {
		t.Errorf("stored clarification = %q", after.Clarification.PendingQuery)
	}
	if after.LastRequestType != query.RequestTypeNone {
		t.Errorf("stored LastRequestType = %q", after.LastRequestType)
	}
}

// Readers iterating a Get result while writers append for the same session
// must be race-free (run under -race).
func TestMemoryStoreConcurrentReadersAndWriters(t *testing.T) {
	s := NewMemoryStore(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.RecordTurn("sess", Turn{Role: RoleUser, Content: fmt.Sprintf("turn-%d", i)})
		}(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			st, _ := s.Get("sess")
			for _, turn := range st.Turns {
				_ = turn.Content
			}
		}()
	}
	wg.Wait()

	st, _ := s.Get("sess")
	if len(st.Turns) != 10 {
		t.Errorf("len(Turns) = %d, want 10", len(st.Turns))
	}
}

// Concurrent writers on one session must not lose turns; writers on
// different sessions must not interfere.
func TestMemoryStoreConcurrentWrites(t *testing.T) {
	s := NewMemoryStore(time.Minute)

	var wg sync.WaitGroup
	perSession := 10
	sessions := []string{"a", "b", "c"}

	for _, id := range sessions {
		for i := 0; i < perSession; i++ {
			wg.Add(1)
			go func(id string, i int) {
				defer wg.Done()
				_ = s.RecordTurn(id, Turn{Role: RoleUser, Content: fmt.Sprintf("%s-%d", id, i)})
			}(id, i)
		}
	}
	wg.Wait()

	for _, id := range sessions {
		st, _ := s.Get(id)
		if len(st.Turns) != perSession {
			t.Errorf("session %s has %d turns, want %d", id, len(st.Turns), perSession)
		}
	}
}
