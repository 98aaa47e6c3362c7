// Package models defines the core domain types for the paper-trading diary.
package models

import "time"

// Side represents the direction of a simulated trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// DiaryEntry is one journal record, tied to at most one executed trade.
// The trade fields (Symbol, TradeSide, TradeQty, TradePrice) are optional;
// when all of them are present the entry is trade-linked and participates
// in reconciliation against the transaction log.
type DiaryEntry struct {
	ID        string
	Timestamp time.Time
	Note      string
	Emotion   string
	Driver    string

	Symbol     string
	TradeSide  Side
	TradeQty   *float64
	TradePrice *float64

	// RecheckPct is a signed user-set trigger threshold. Negative values
	// are downside stop-style triggers, non-negative values upside targets.
	RecheckPct *float64

	FailureScenario string

	// Feedback is AI coaching text, set in place after a coaching call
	// succeeds. Empty until then.
	Feedback string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TradeLinked reports whether the entry carries the full set of trade
// fields needed for reconciliation.
func (e DiaryEntry) TradeLinked() bool {
	return e.Symbol != "" && e.TradeSide != "" && e.TradeQty != nil && e.TradePrice != nil
}

// Transaction is one executed simulated trade. Immutable once created.
type Transaction struct {
	ID        string
	Timestamp time.Time
	Side      Side
	Symbol    string
	Qty       float64
	Price     float64
}

// Quote is the latest known market data for a symbol.
type Quote struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	ChangePct float64 `json:"change_pct"`
}
