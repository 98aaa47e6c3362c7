package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"finguide/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func ptr(v float64) *float64 { return &v }

func TestDiaryEntryRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entry := &models.DiaryEntry{
		ID:              "e1",
		Timestamp:       time.Date(2024, 3, 4, 10, 30, 0, 0, time.UTC),
		Note:            "bought on the morning dip",
		Emotion:         "calm",
		Driver:          "plan",
		Symbol:          "AAPL",
		TradeSide:       models.SideBuy,
		TradeQty:        ptr(10),
		TradePrice:      ptr(150.5),
		RecheckPct:      ptr(-7),
		FailureScenario: "earnings miss",
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.SaveDiaryEntry(ctx, entry); err != nil {
		t.Fatalf("SaveDiaryEntry: %v", err)
	}

	got, err := s.GetDiaryEntry(ctx, "e1")
	if err != nil {
		t.Fatalf("GetDiaryEntry: %v", err)
	}
	if got.Note != entry.Note || got.Emotion != "calm" || got.Symbol != "AAPL" {
		t.Errorf("entry fields lost: %+v", got)
	}
	if got.TradeSide != models.SideBuy {
		t.Errorf("TradeSide = %q", got.TradeSide)
	}
	if got.TradeQty == nil || *got.TradeQty != 10 {
		t.Errorf("TradeQty = %v", got.TradeQty)
	}
	if got.TradePrice == nil || *got.TradePrice != 150.5 {
		t.Errorf("TradePrice = %v", got.TradePrice)
	}
	if got.RecheckPct == nil || *got.RecheckPct != -7 {
		t.Errorf("RecheckPct = %v", got.RecheckPct)
	}
}

func TestDiaryEntryNullableTradeFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// A plain journal note has no trade fields at all.
	entry := &models.DiaryEntry{
		ID:        "e2",
		Timestamp: time.Now().UTC(),
		Note:      "watched the market, no trade",
		Emotion:   "bored",
		Driver:    "none",
	}
	if err := s.SaveDiaryEntry(ctx, entry); err != nil {
		t.Fatalf("SaveDiaryEntry: %v", err)
	}

	got, err := s.GetDiaryEntry(ctx, "e2")
	if err != nil {
		t.Fatalf("GetDiaryEntry: %v", err)
	}
	if got.TradeQty != nil || got.TradePrice != nil || got.RecheckPct != nil {
		t.Errorf("absent trade fields should stay nil: %+v", got)
	}
	if got.TradeLinked() {
		t.Error("plain note reported as trade-linked")
	}
}

func TestGetDiaryEntryNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetDiaryEntry(context.Background(), "missing"); err == nil {
		t.Error("expected error for missing entry")
	}
}

func TestUpdateDiaryFeedback(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entry := &models.DiaryEntry{ID: "e3", Timestamp: time.Now().UTC(), Note: "n", CreatedAt: time.Now().UTC()}
	if err := s.SaveDiaryEntry(ctx, entry); err != nil {
		t.Fatalf("SaveDiaryEntry: %v", err)
	}

	if err := s.UpdateDiaryFeedback(ctx, "e3", "good process, keep journaling"); err != nil {
		t.Fatalf("UpdateDiaryFeedback: %v", err)
	}
	got, err := s.GetDiaryEntry(ctx, "e3")
	if err != nil {
		t.Fatalf("GetDiaryEntry: %v", err)
	}
	if got.Feedback != "good process, keep journaling" {
		t.Errorf("Feedback = %q", got.Feedback)
	}

	if err := s.UpdateDiaryFeedback(ctx, "missing", "x"); err == nil {
		t.Error("expected error updating a missing entry")
	}
}

func TestGetDiaryFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	seed := []*models.DiaryEntry{
		{ID: "a", Timestamp: base, Emotion: "calm", Driver: "plan", Symbol: "AAPL"},
		{ID: "b", Timestamp: base.AddDate(0, 0, 1), Emotion: "fomo", Driver: "news", Symbol: "TSLA"},
		{ID: "c", Timestamp: base.AddDate(0, 0, 2), Emotion: "calm", Driver: "chart", Symbol: "AAPL"},
	}
	for _, e := range seed {
		e.CreatedAt = base
		if err := s.SaveDiaryEntry(ctx, e); err != nil {
			t.Fatalf("SaveDiaryEntry(%s): %v", e.ID, err)
		}
	}

	bySymbol, err := s.GetDiary(ctx, DiaryFilter{Symbol: "aapl"})
	if err != nil {
		t.Fatalf("GetDiary: %v", err)
	}
	if len(bySymbol) != 2 {
		t.Errorf("symbol filter returned %d entries, want 2", len(bySymbol))
	}
	// Newest first.
	if bySymbol[0].ID != "c" || bySymbol[1].ID != "a" {
		t.Errorf("order = %s, %s, want c, a", bySymbol[0].ID, bySymbol[1].ID)
	}

	byEmotion, err := s.GetDiary(ctx, DiaryFilter{Emotion: "fomo"})
	if err != nil {
		t.Fatalf("GetDiary: %v", err)
	}
	if len(byEmotion) != 1 || byEmotion[0].ID != "b" {
		t.Errorf("emotion filter = %+v", byEmotion)
	}

	// [start, end) window.
	windowed, err := s.GetDiary(ctx, DiaryFilter{
		StartDate: base,
		EndDate:   base.AddDate(0, 0, 2),
	})
	if err != nil {
		t.Fatalf("GetDiary: %v", err)
	}
	if len(windowed) != 2 {
		t.Errorf("window returned %d entries, want 2 (end exclusive)", len(windowed))
	}

	limited, err := s.GetDiary(ctx, DiaryFilter{Limit: 1})
	if err != nil {
		t.Fatalf("GetDiary: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "c" {
		t.Errorf("limit filter = %+v", limited)
	}
}

func TestTransactionsFilterAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	seed := []*models.Transaction{
		{ID: "t1", Timestamp: base.AddDate(0, 0, 1), Side: models.SideSell, Symbol: "aapl", Qty: 5, Price: 155},
		{ID: "t2", Timestamp: base, Side: models.SideBuy, Symbol: "AAPL", Qty: 10, Price: 150},
		{ID: "t3", Timestamp: base.AddDate(0, 0, 2), Side: models.SideBuy, Symbol: "TSLA", Qty: 2, Price: 200},
	}
	for _, tx := range seed {
		if err := s.LogTransaction(ctx, tx); err != nil {
			t.Fatalf("LogTransaction(%s): %v", tx.ID, err)
		}
	}

	all, err := s.GetTransactions(ctx, TransactionFilter{})
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	// Oldest first, symbols uppercased on write.
	if len(all) != 3 || all[0].ID != "t2" || all[1].ID != "t1" || all[2].ID != "t3" {
		t.Errorf("order = %+v", all)
	}
	if all[1].Symbol != "AAPL" {
		t.Errorf("symbol not uppercased: %q", all[1].Symbol)
	}

	buys, err := s.GetTransactions(ctx, TransactionFilter{Side: models.SideBuy})
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if len(buys) != 2 {
		t.Errorf("side filter returned %d, want 2", len(buys))
	}

	aapl, err := s.GetTransactions(ctx, TransactionFilter{Symbol: "aapl"})
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if len(aapl) != 2 {
		t.Errorf("symbol filter returned %d, want 2", len(aapl))
	}
}

func TestBlobRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Missing key reads as absent, not as an error.
	data, err := s.GetBlob(ctx, "missing")
	if err != nil || data != nil {
		t.Errorf("GetBlob(missing) = (%v, %v), want (nil, nil)", data, err)
	}

	if err := s.PutBlob(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("PutBlob: %v", err)
	}
	data, err = s.GetBlob(ctx, "k")
	if err != nil || string(data) != "v1" {
		t.Errorf("GetBlob = (%q, %v), want v1", data, err)
	}

	// Last write wins.
	if err := s.PutBlob(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("PutBlob: %v", err)
	}
	data, _ = s.GetBlob(ctx, "k")
	if string(data) != "v2" {
		t.Errorf("GetBlob after overwrite = %q, want v2", data)
	}
}

func TestSaveDiaryEntryUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entry := &models.DiaryEntry{ID: "e1", Timestamp: time.Now().UTC(), Note: "first", CreatedAt: time.Now().UTC()}
	if err := s.SaveDiaryEntry(ctx, entry); err != nil {
		t.Fatalf("SaveDiaryEntry: %v", err)
	}
	entry.Note = "revised"
	if err := s.SaveDiaryEntry(ctx, entry); err != nil {
		t.Fatalf("SaveDiaryEntry (update): %v", err)
	}

	got, err := s.GetDiaryEntry(ctx, "e1")
	if err != nil {
		t.Fatalf("GetDiaryEntry: %v", err)
	}
	if got.Note != "revised" {
		t.Errorf("Note = %q, want revised", got.Note)
	}
}
