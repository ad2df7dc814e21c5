package relationship

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "relationship.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUnknownUserGetsBaseline(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	st, err := s.Current(ctx, "nobody")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if st.Warmth != 0.5 || st.Trust != 0.5 {
		t.Errorf("expected baseline 0.5/0.5, got %.2f/%.2f", st.Warmth, st.Trust)
	}
	if st.InteractionCount != 0 || st.Familiarity != 0 {
		t.Errorf("expected zero history, got %+v", st)
	}
}

func TestRecordPositiveRaisesScores(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	st, err := s.Record(ctx, RecordParams{UserID: "u1", Sentiment: "positive", Note: "helped debug"})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if st.Warmth <= 0.5 || st.Trust <= 0.5 {
		t.Errorf("positive interaction should raise scores, got %.2f/%.2f", st.Warmth, st.Trust)
	}
	if st.InteractionCount != 1 {
		t.Errorf("expected 1 interaction, got %d", st.InteractionCount)
	}
	if st.Familiarity <= 0 {
		t.Error("familiarity should grow with interactions")
	}
}

func TestRecordNegativeLowersScores(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	st, _ := s.Record(ctx, RecordParams{UserID: "u1", Sentiment: "negative"})
	if st.Warmth >= 0.5 || st.Trust >= 0.5 {
		t.Errorf("negative interaction should lower scores, got %.2f/%.2f", st.Warmth, st.Trust)
	}
}

func TestUnknownSentimentRejected(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Record(context.Background(), RecordParams{UserID: "u1", Sentiment: "elated"}); err == nil {
		t.Error("expected error for unknown sentiment")
	}
}

func TestScoresClamped(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for i := 0; i < 30; i++ {
		s.Record(ctx, RecordParams{UserID: "u1", Sentiment: "positive"})
	}
	st, _ := s.Current(ctx, "u1")
	if st.Warmth > 1 || st.Trust > 1 {
		t.Errorf("scores must stay in [0,1], got %.2f/%.2f", st.Warmth, st.Trust)
	}
}

func TestStatePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "relationship.db")

	s, err := NewStore(dbPath, zap.NewNop())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	s.Record(ctx, RecordParams{UserID: "u1", Sentiment: "positive"})
	s.Close()

	s2, err := NewStore(dbPath, zap.NewNop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	st, err := s2.Current(ctx, "u1")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if st.InteractionCount != 1 {
		t.Errorf("state should survive reopen, got %+v", st)
	}
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Record(ctx, RecordParams{UserID: "u1", Sentiment: "positive", Note: "first"})
	s.Record(ctx, RecordParams{UserID: "u1", Sentiment: "neutral", Note: "second"})
	s.Record(ctx, RecordParams{UserID: "u2", Sentiment: "negative"})

	events, err := s.History(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events for u1, got %d", len(events))
	}
	for _, e := range events {
		if e.ID == "" {
			t.Error("expected non-empty event id")
		}
		if e.UserID != "u1" {
			t.Errorf("history leaked another user's event: %+v", e)
		}
	}
}

func TestDecayDriftsTowardBaseline(t *testing.T) {
	yearOld := decay(0.9, time.Now().Add(-365*24*time.Hour))
	if yearOld > 0.51 {
		t.Errorf("year-old score should have decayed to baseline, got %.3f", yearOld)
	}
	fresh := decay(0.9, time.Now())
	if fresh < 0.89 {
		t.Errorf("fresh score should be untouched, got %.3f", fresh)
	}
}
