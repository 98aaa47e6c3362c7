// Package analytics computes per-trade outcomes, emotion/driver pattern
// statistics, and the recheck trigger rule over in-memory diary data.
// Everything here is pure and reentrant.
package analytics

import (
	"finguide/internal/models"
	"finguide/pkg/utils"
)

// MovePct returns the percentage move from entryPrice to current,
// or no value when either input is non-finite or entryPrice is zero.
func MovePct(current, entryPrice float64) (float64, bool) {
	return utils.TryPercentMove(current, entryPrice)
}

// EffectiveMove sign-adjusts a raw percentage move for the trade side so
// that positive always means the decision direction was vindicated. A SELL
// wins when the price subsequently falls: the position was closed and
// avoided further downside, so the raw move is negated. Untyped or other
// sides pass the move through unchanged.
func EffectiveMove(side models.Side, movePct float64) float64 {
	if side == models.SideSell {
		return -movePct
	}
	return movePct
}

// Win reports whether an effective move counts as a win. Exactly zero is
// not a win.
func Win(effectiveMove float64) bool {
	return effectiveMove > 0
}
