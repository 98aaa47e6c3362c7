package analytics

import (
	"math"
	"testing"
	"time"

	"finguide/internal/models"
	"finguide/pkg/utils"
)

func f(v float64) *float64 { return &v }

func entry(id, emotion, driver, symbol string, side models.Side, price float64) models.DiaryEntry {
	return models.DiaryEntry{
		ID:         id,
		Timestamp:  time.Now(),
		Emotion:    emotion,
		Driver:     driver,
		Symbol:     symbol,
		TradeSide:  side,
		TradeQty:   f(1),
		TradePrice: f(price),
	}
}

// priceMap builds a PriceFunc from a fixed symbol->price table, falling
// back like the quote cache does.
func priceMap(prices map[string]float64) PriceFunc {
	return func(symbol string, fallback *float64) (float64, bool) {
		if p, ok := prices[symbol]; ok {
			return p, true
		}
		if utils.FinitePtr(fallback) {
			return *fallback, true
		}
		return 0, false
	}
}

func TestAggregatePatternsSellSignFlip(t *testing.T) {
	entries := []models.DiaryEntry{
		entry("1", "confident", "chart", "TSLA", models.SideBuy, 100),
		entry("2", "anxious", "news", "TSLA", models.SideSell, 200),
	}
	prices := priceMap(map[string]float64{"TSLA": 0})
	// Per-entry current prices differ, so use a closure keyed on entry price.
	prices = func(symbol string, fallback *float64) (float64, bool) {
		if fallback != nil && *fallback == 100 {
			return 110, true
		}
		return 190, true
	}

	stats := AggregatePatterns(entries, prices)

	if stats.SampleN != 2 {
		t.Fatalf("SampleN = %d, want 2", stats.SampleN)
	}

	byEmotion := make(map[string]GroupStat)
	for _, g := range stats.ByEmotion {
		byEmotion[g.Key] = g
	}

	confident := byEmotion["confident"]
	if confident.N != 1 || confident.Wins != 1 || math.Abs(confident.AvgMove()-10) > 1e-9 {
		t.Errorf("confident = %+v (avg %v), want n=1 win=1 avg=+10", confident, confident.AvgMove())
	}

	// SELL at 200, now 190: raw move -5%, effective +5% (avoided downside).
	anxious := byEmotion["anxious"]
	if anxious.N != 1 || anxious.Wins != 1 || math.Abs(anxious.AvgMove()-5) > 1e-9 {
		t.Errorf("anxious = %+v (avg %v), want n=1 win=1 avg=+5", anxious, anxious.AvgMove())
	}
}

func TestAggregatePatternsSkipsUnpriceableEntries(t *testing.T) {
	noPrice := entry("1", "calm", "plan", "AAPL", models.SideBuy, math.NaN())
	noPrice.TradePrice = nil
	noSymbol := entry("2", "calm", "plan", "", models.SideBuy, 100)

	stats := AggregatePatterns([]models.DiaryEntry{noPrice, noSymbol}, priceMap(nil))
	if stats.SampleN != 0 || len(stats.ByEmotion) != 0 {
		t.Errorf("unpriceable entries were aggregated: %+v", stats)
	}
}

func TestGroupListOrdering(t *testing.T) {
	entries := []models.DiaryEntry{
		entry("1", "fomo", "news", "AAPL", models.SideBuy, 100),
		entry("2", "calm", "plan", "AAPL", models.SideBuy, 100),
		entry("3", "calm", "plan", "AAPL", models.SideBuy, 100),
		entry("4", "anxious", "tip", "AAPL", models.SideBuy, 100),
	}
	stats := AggregatePatterns(entries, priceMap(map[string]float64{"AAPL": 110}))

	if stats.ByEmotion[0].Key != "calm" {
		t.Errorf("largest group first: got %q", stats.ByEmotion[0].Key)
	}
	// fomo and anxious tie at n=1; fomo was encountered first.
	if stats.ByEmotion[1].Key != "fomo" || stats.ByEmotion[2].Key != "anxious" {
		t.Errorf("tie should keep encounter order, got %q then %q",
			stats.ByEmotion[1].Key, stats.ByEmotion[2].Key)
	}
}

func TestWorstComboRequiresTwoSamples(t *testing.T) {
	// One bad single-sample pair must not outrank a pair with n>=2.
	terrible := entry("1", "fomo", "tip", "BAD", models.SideBuy, 100)
	soso1 := entry("2", "anxious", "news", "MEH", models.SideBuy, 100)
	soso2 := entry("3", "anxious", "news", "MEH", models.SideBuy, 100)

	prices := priceMap(map[string]float64{"BAD": 50, "MEH": 98})
	stats := AggregatePatterns([]models.DiaryEntry{terrible, soso1, soso2}, prices)

	if stats.Worst == nil {
		t.Fatal("expected a worst combo")
	}
	if stats.Worst.Emotion != "anxious" || stats.Worst.Driver != "news" {
		t.Errorf("Worst = %s+%s, want anxious+news (n>=2 rule)", stats.Worst.Emotion, stats.Worst.Driver)
	}
}

func TestWorstComboTieKeepsFirstEncountered(t *testing.T) {
	entries := []models.DiaryEntry{
		entry("1", "fomo", "tip", "A", models.SideBuy, 100),
		entry("2", "fomo", "tip", "A", models.SideBuy, 100),
		entry("3", "anxious", "news", "A", models.SideBuy, 100),
		entry("4", "anxious", "news", "A", models.SideBuy, 100),
	}
	stats := AggregatePatterns(entries, priceMap(map[string]float64{"A": 95}))

	if stats.Worst == nil {
		t.Fatal("expected a worst combo")
	}
	if stats.Worst.Emotion != "fomo" {
		t.Errorf("tie should keep the first-encountered pair, got %s+%s",
			stats.Worst.Emotion, stats.Worst.Driver)
	}
}

func TestTopN(t *testing.T) {
	groups := []GroupStat{{Key: "a"}, {Key: "b"}, {Key: "c"}}
	if got := TopN(groups, 2); len(got) != 2 || got[1].Key != "b" {
		t.Errorf("TopN(3 groups, 2) = %v", got)
	}
	if got := TopN(groups, 5); len(got) != 3 {
		t.Errorf("TopN should not grow the list: %v", got)
	}
}
