package coach

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Rate-limit errors from the LLM API surface as text carrying an
// HTTP-429-style marker and sometimes a "retry in Ns" / "try again in Ns"
// hint. We only get the message, so detection is textual.
var retryHintRe = regexp.MustCompile(`(?i)(?:retry|try again)\s+(?:in|after)\s+(\d+)\s*s`)

// ParseRateLimit inspects an error message for a rate-limit marker.
// Returns the suggested wait and true when the message is a rate limit;
// the wait falls back to fallback when the message carries no hint.
func ParseRateLimit(msg string, fallback time.Duration) (time.Duration, bool) {
	if !strings.Contains(msg, "429") && !strings.Contains(strings.ToLower(msg), "rate limit") {
		return 0, false
	}
	if m := retryHintRe.FindStringSubmatch(msg); m != nil {
		if secs, err := strconv.Atoi(m[1]); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second, true
		}
	}
	return fallback, true
}

// CooldownTracker suppresses repeat coaching requests for an entry while
// its rate-limit cooldown is running.
type CooldownTracker struct {
	mu    sync.Mutex
	until map[string]time.Time
	now   func() time.Time
}

// NewCooldownTracker creates an empty tracker.
func NewCooldownTracker() *CooldownTracker {
	return &CooldownTracker{
		until: make(map[string]time.Time),
		now:   time.Now,
	}
}

// Set starts (or extends) the cooldown for an entry.
func (t *CooldownTracker) Set(entryID string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.until[entryID] = t.now().Add(d)
}

// Remaining returns the time left on an entry's cooldown, and whether one
// is active. Expired cooldowns are cleared on the way out.
func (t *CooldownTracker) Remaining(entryID string) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	deadline, ok := t.until[entryID]
	if !ok {
		return 0, false
	}
	left := deadline.Sub(t.now())
	if left <= 0 {
		delete(t.until, entryID)
		return 0, false
	}
	return left, true
}
