package analytics

import "finguide/pkg/utils"

// IsRecheckNow decides whether a position should be re-examined given its
// current percentage move and the user-set trigger threshold. A negative
// trigger is a downside stop-style threshold (fires when the move has
// fallen to or below it); a non-negative trigger is an upside target
// (fires when the move has risen to or above it). Both boundaries are
// inclusive. Non-finite inputs never fire.
func IsRecheckNow(movePct, triggerPct float64) bool {
	if !utils.Finite(movePct) || !utils.Finite(triggerPct) {
		return false
	}
	if triggerPct < 0 {
		return movePct <= triggerPct
	}
	return movePct >= triggerPct
}
