package analytics

import (
	"sort"

	"finguide/internal/models"
	"finguide/pkg/utils"
)

// comboSep joins the emotion and driver tags into a pair-group key.
const comboSep = "|"

// PriceFunc resolves the current price for a symbol, with the trade's own
// entry price offered as fallback. Returns no value when neither a live
// quote nor a finite fallback exists.
type PriceFunc func(symbol string, fallback *float64) (float64, bool)

// GroupStat aggregates the diary entries sharing one group key.
type GroupStat struct {
	Key    string  `json:"key"`
	N      int     `json:"n"`
	Wins   int     `json:"wins"`
	SumEff float64 `json:"sum_eff"`
}

// WinRate returns wins over samples, zero for an empty group.
func (g GroupStat) WinRate() float64 {
	rate, _ := utils.TryDivide(float64(g.Wins), float64(g.N))
	return rate
}

// AvgMove returns the mean effective move, zero for an empty group.
func (g GroupStat) AvgMove() float64 {
	avg, _ := utils.TryDivide(g.SumEff, float64(g.N))
	return avg
}

// ComboStat is the pair-group stat with its tags split back out.
type ComboStat struct {
	Emotion string `json:"emotion"`
	Driver  string `json:"driver"`
	GroupStat
}

// PatternStats is the full emotion/driver aggregation result. Group lists
// are sorted descending by sample count; ties keep encounter order.
type PatternStats struct {
	ByEmotion []GroupStat `json:"by_emotion"`
	ByDriver  []GroupStat `json:"by_driver"`
	ByCombo   []ComboStat `json:"by_combo"`
	// Worst is the lowest-average-move (emotion, driver) combination among
	// pairs with at least two samples; ties keep the first-encountered
	// group. Nil when no pair qualifies.
	Worst *ComboStat `json:"worst,omitempty"`
	// SampleN is the number of qualifying entries.
	SampleN int `json:"sample_n"`
}

// groupAcc accumulates stats per key while preserving insertion order,
// which the tie-break rules depend on.
type groupAcc struct {
	order []string
	m     map[string]*GroupStat
}

func newGroupAcc() *groupAcc {
	return &groupAcc{m: make(map[string]*GroupStat)}
}

func (a *groupAcc) add(key string, eff float64) {
	g, ok := a.m[key]
	if !ok {
		g = &GroupStat{Key: key}
		a.m[key] = g
		a.order = append(a.order, key)
	}
	g.N++
	if Win(eff) {
		g.Wins++
	}
	g.SumEff += eff
}

// list returns the groups sorted descending by sample count. The stable
// sort over the insertion-ordered slice keeps encounter order on ties.
func (a *groupAcc) list() []GroupStat {
	out := make([]GroupStat, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, *a.m[key])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].N > out[j].N })
	return out
}

// AggregatePatterns groups diary entries by emotion, by decision driver,
// and by the pair of both. Only entries with a trade price and a linked
// symbol qualify, and an entry is skipped entirely when its effective move
// cannot be computed (no live quote and no finite fallback).
func AggregatePatterns(entries []models.DiaryEntry, price PriceFunc) PatternStats {
	byEmotion := newGroupAcc()
	byDriver := newGroupAcc()
	byCombo := newGroupAcc()
	sampleN := 0

	for _, e := range entries {
		if e.Symbol == "" || !utils.FinitePtr(e.TradePrice) {
			continue
		}
		current, ok := price(e.Symbol, e.TradePrice)
		if !ok {
			continue
		}
		move, ok := MovePct(current, *e.TradePrice)
		if !ok {
			continue
		}
		eff := EffectiveMove(e.TradeSide, move)
		if !utils.Finite(eff) {
			continue
		}

		sampleN++
		byEmotion.add(e.Emotion, eff)
		byDriver.add(e.Driver, eff)
		byCombo.add(e.Emotion+comboSep+e.Driver, eff)
	}

	return PatternStats{
		ByEmotion: byEmotion.list(),
		ByDriver:  byDriver.list(),
		ByCombo:   comboList(byCombo),
		Worst:     worstCombo(byCombo),
		SampleN:   sampleN,
	}
}

func splitCombo(key string) (emotion, driver string) {
	for i := 0; i < len(key); i++ {
		if key[i] == comboSep[0] {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}

func comboList(acc *groupAcc) []ComboStat {
	groups := acc.list()
	out := make([]ComboStat, 0, len(groups))
	for _, g := range groups {
		emotion, driver := splitCombo(g.Key)
		out = append(out, ComboStat{Emotion: emotion, Driver: driver, GroupStat: g})
	}
	return out
}

// worstCombo scans pair-groups in insertion order so that a strict
// comparison keeps the first-encountered group on ties.
func worstCombo(acc *groupAcc) *ComboStat {
	var worst *ComboStat
	for _, key := range acc.order {
		g := acc.m[key]
		if g.N < 2 {
			continue
		}
		if worst == nil || g.AvgMove() < worst.AvgMove() {
			emotion, driver := splitCombo(key)
			worst = &ComboStat{Emotion: emotion, Driver: driver, GroupStat: *g}
		}
	}
	return worst
}

// TopN returns at most n leading groups from a sorted group list.
func TopN(groups []GroupStat, n int) []GroupStat {
	if len(groups) <= n {
		return groups
	}
	return groups[:n]
}
