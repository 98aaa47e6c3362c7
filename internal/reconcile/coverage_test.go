package reconcile

import (
	"testing"
	"time"

	"finguide/internal/models"
)

func kst(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.FixedZone("KST", 9*3600))
}

func linkedEntry(ts time.Time, side models.Side, symbol string, qty, price float64) models.DiaryEntry {
	return models.DiaryEntry{
		Timestamp:  ts,
		TradeSide:  side,
		Symbol:     symbol,
		TradeQty:   &qty,
		TradePrice: &price,
	}
}

func TestCoverageExactMatch(t *testing.T) {
	k := seoulKeyer(t)
	ts := kst(2024, 3, 4)

	txs := []models.Transaction{{Timestamp: ts, Side: models.SideBuy, Symbol: "AAPL", Qty: 10, Price: 150}}
	entries := []models.DiaryEntry{linkedEntry(ts, models.SideBuy, "AAPL", 10, 150)}

	got := Coverage(k, txs, entries)
	if got.Covered != 1 || got.Total != 1 || got.Pct != 100 {
		t.Errorf("Coverage = %+v, want {1 1 100}", got)
	}
}

func TestCoverageNoTolerance(t *testing.T) {
	k := seoulKeyer(t)
	ts := kst(2024, 3, 4)

	txs := []models.Transaction{{Timestamp: ts, Side: models.SideBuy, Symbol: "AAPL", Qty: 10, Price: 150}}
	// Quantity off by one: exact-match rule, no fuzzy matching.
	entries := []models.DiaryEntry{linkedEntry(ts, models.SideBuy, "AAPL", 11, 150)}

	got := Coverage(k, txs, entries)
	if got.Covered != 0 || got.Total != 1 || got.Pct != 0 {
		t.Errorf("Coverage = %+v, want {0 1 0}", got)
	}
}

func TestCoverageEmpty(t *testing.T) {
	k := seoulKeyer(t)
	got := Coverage(k, nil, nil)
	if got.Covered != 0 || got.Total != 0 || got.Pct != 0 {
		t.Errorf("Coverage(nil, nil) = %+v, want {0 0 0}", got)
	}
}

func TestCoverageExcludesIncompleteRecords(t *testing.T) {
	k := seoulKeyer(t)
	ts := kst(2024, 3, 4)

	txs := []models.Transaction{
		{Timestamp: ts, Side: models.SideBuy, Symbol: "AAPL", Qty: 10, Price: 150},
		{Timestamp: ts, Side: models.SideBuy, Symbol: "", Qty: 5, Price: 10}, // incomplete
	}
	entries := []models.DiaryEntry{
		linkedEntry(ts, models.SideBuy, "AAPL", 10, 150),
		{Timestamp: ts, Emotion: "calm"}, // plain note, not trade-linked
	}

	got := Coverage(k, txs, entries)
	if got.Covered != 1 || got.Total != 1 || got.Pct != 100 {
		t.Errorf("Coverage = %+v, want {1 1 100}", got)
	}
}

// Two executed trades that agree on every key field are indistinguishable
// under the exact-match rule: one diary entry documents both. Known
// limitation, preserved on purpose.
func TestCoverageDuplicateIdenticalTrades(t *testing.T) {
	k := seoulKeyer(t)
	ts := kst(2024, 3, 4)

	txs := []models.Transaction{
		{Timestamp: ts, Side: models.SideBuy, Symbol: "AAPL", Qty: 10, Price: 150},
		{Timestamp: ts.Add(time.Hour), Side: models.SideBuy, Symbol: "AAPL", Qty: 10, Price: 150},
	}
	entries := []models.DiaryEntry{linkedEntry(ts, models.SideBuy, "AAPL", 10, 150)}

	got := Coverage(k, txs, entries)
	if got.Covered != 2 || got.Total != 2 || got.Pct != 100 {
		t.Errorf("Coverage = %+v, want {2 2 100} (identical trades share a key)", got)
	}
}

func TestCoveragePctBounds(t *testing.T) {
	k := seoulKeyer(t)
	ts := kst(2024, 3, 4)

	txs := []models.Transaction{
		{Timestamp: ts, Side: models.SideBuy, Symbol: "AAPL", Qty: 1, Price: 100},
		{Timestamp: ts, Side: models.SideBuy, Symbol: "MSFT", Qty: 2, Price: 200},
		{Timestamp: ts, Side: models.SideSell, Symbol: "TSLA", Qty: 3, Price: 300},
	}
	entries := []models.DiaryEntry{linkedEntry(ts, models.SideBuy, "AAPL", 1, 100)}

	got := Coverage(k, txs, entries)
	if got.Pct < 0 || got.Pct > 100 {
		t.Errorf("Pct out of range: %d", got.Pct)
	}
	if got.Pct != 33 {
		t.Errorf("Pct = %d, want 33 (rounded)", got.Pct)
	}
}

func TestMonthlyCoverage(t *testing.T) {
	k := seoulKeyer(t)
	now := kst(2024, 3, 15)

	txs := []models.Transaction{
		{Timestamp: kst(2024, 2, 10), Side: models.SideBuy, Symbol: "AAPL", Qty: 1, Price: 100},
		{Timestamp: kst(2024, 2, 12), Side: models.SideSell, Symbol: "AAPL", Qty: 1, Price: 110},
		{Timestamp: kst(2024, 3, 4), Side: models.SideBuy, Symbol: "TSLA", Qty: 2, Price: 200},
	}
	entries := []models.DiaryEntry{
		linkedEntry(kst(2024, 2, 10), models.SideBuy, "AAPL", 1, 100),
		linkedEntry(kst(2024, 3, 4), models.SideBuy, "TSLA", 2, 200),
	}

	got := MonthlyCoverage(k, txs, entries, now, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 months, got %d", len(got))
	}
	if got[0].Month != "2024-01" || got[0].Total != 0 || got[0].Pct != 0 {
		t.Errorf("2024-01 = %+v, want empty month", got[0])
	}
	if got[1].Month != "2024-02" || got[1].Covered != 1 || got[1].Total != 2 || got[1].Pct != 50 {
		t.Errorf("2024-02 = %+v, want {1 2 50}", got[1])
	}
	if got[2].Month != "2024-03" || got[2].Covered != 1 || got[2].Total != 1 || got[2].Pct != 100 {
		t.Errorf("2024-03 = %+v, want {1 1 100}", got[2])
	}
}
