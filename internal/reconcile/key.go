// Package reconcile matches diary entries against executed trades and
// computes journaling coverage over the transaction log.
package reconcile

import (
	"strings"
	"time"

	"finguide/internal/calendar"
	"finguide/internal/models"
	"finguide/pkg/utils"
)

// keyParts is the number of pipe-delimited fields in a reconciliation key.
const keyParts = 5

// Fields holds the five logical inputs of a reconciliation key.
// Qty and Price are optional.
type Fields struct {
	Time   time.Time
	Side   string
	Symbol string
	Qty    *float64
	Price  *float64
}

// TradeKey builds the composite matching key for a trade-like record:
// DateKey|SIDE|SYMBOL|qty|price. Missing or non-finite quantity/price
// leave their part empty; Complete tells whether the key is usable.
// Matching is exact string equality, no tolerance.
func TradeKey(k calendar.Keyer, f Fields) string {
	return strings.Join([]string{
		k.DateKey(f.Time),
		strings.ToUpper(f.Side),
		strings.ToUpper(f.Symbol),
		numPart(f.Qty),
		numPart(f.Price),
	}, "|")
}

func numPart(p *float64) string {
	if !utils.FinitePtr(p) {
		return ""
	}
	return utils.FormatNumber(*p)
}

// Complete reports whether none of the key's five parts is empty.
// Incomplete keys are excluded from both sides of reconciliation so that
// missing data never produces a false match.
func Complete(key string) bool {
	parts := strings.Split(key, "|")
	if len(parts) != keyParts {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}

// EntryKey builds the reconciliation key for a diary entry's trade fields.
func EntryKey(k calendar.Keyer, e models.DiaryEntry) string {
	return TradeKey(k, Fields{
		Time:   e.Timestamp,
		Side:   string(e.TradeSide),
		Symbol: e.Symbol,
		Qty:    e.TradeQty,
		Price:  e.TradePrice,
	})
}

// TransactionKey builds the reconciliation key for an executed trade.
func TransactionKey(k calendar.Keyer, t models.Transaction) string {
	qty, price := t.Qty, t.Price
	return TradeKey(k, Fields{
		Time:   t.Timestamp,
		Side:   string(t.Side),
		Symbol: t.Symbol,
		Qty:    &qty,
		Price:  &price,
	})
}
