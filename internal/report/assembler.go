// Package report filters a week of diary data, recomputes the scoped
// metrics, and packages them into a payload for the report-generation
// collaborator.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"finguide/internal/analytics"
	"finguide/internal/calendar"
	"finguide/internal/coach"
	fgerrors "finguide/internal/errors"
	"finguide/internal/logging"
	"finguide/internal/models"
	"finguide/internal/reconcile"
	"finguide/pkg/utils"
)

const reportSystemPrompt = `You write weekly review reports for a
paper-trading education app. The payload is JSON with the user's
journaling goal progress, trade-to-diary coverage, emotion/driver pattern
statistics, and the week's entries. Write an encouraging, specific review
of the user's decision process for the week. Do not give investment
advice.`

// Options configures the assembler. All values come from application
// configuration so the same logic is testable with different goals.
type Options struct {
	WeeklyGoal    int
	TruncateChars int
	TopGroups     int
	Persona       string
	Timeout       time.Duration
}

// GoalProgress is journaling progress against the weekly entry goal.
type GoalProgress struct {
	Count int `json:"count"`
	Goal  int `json:"goal"`
	Pct   int `json:"pct"`
}

// CompactEntry is a field-truncated diary entry for the report payload.
type CompactEntry struct {
	Date            string   `json:"date"`
	Emotion         string   `json:"emotion"`
	Driver          string   `json:"driver"`
	Symbol          string   `json:"symbol,omitempty"`
	Side            string   `json:"side,omitempty"`
	Qty             *float64 `json:"qty,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	Note            string   `json:"note"`
	FailureScenario string   `json:"failure_scenario,omitempty"`
}

// PatternSummary carries the top pattern groups for the week.
type PatternSummary struct {
	ByEmotion []analytics.GroupStat `json:"by_emotion"`
	ByDriver  []analytics.GroupStat `json:"by_driver"`
	Worst     *analytics.ComboStat  `json:"worst,omitempty"`
	SampleN   int                   `json:"sample_n"`
}

// Payload is the structured input handed to the report collaborator.
type Payload struct {
	WeekStart string                  `json:"week_start"`
	WeekEnd   string                  `json:"week_end"` // exclusive
	Label     string                  `json:"label"`
	Goal      GoalProgress            `json:"goal"`
	Coverage  reconcile.CoverageStat  `json:"coverage"`
	Patterns  PatternSummary          `json:"patterns"`
	Entries   []CompactEntry          `json:"entries"`
	Persona   string                  `json:"persona"`
}

// Assembler builds weekly report payloads and drives the collaborator.
type Assembler struct {
	keyer  calendar.Keyer
	llm    coach.LLMClient
	opts   Options
	logger zerolog.Logger
}

// NewAssembler creates an assembler.
func NewAssembler(keyer calendar.Keyer, llm coach.LLMClient, opts Options, logger zerolog.Logger) *Assembler {
	return &Assembler{keyer: keyer, llm: llm, opts: opts, logger: logger}
}

// WeekWindow resolves the [start, end) keys for a week. An empty
// weekStart defaults to the current reference-timezone week's Monday.
func (a *Assembler) WeekWindow(weekStart string, now time.Time) (start, end string, err error) {
	if weekStart == "" {
		weekStart = a.keyer.WeekStartKey(now)
	}
	end, err = a.keyer.AddDays(weekStart, 7)
	if err != nil {
		return "", "", err
	}
	return weekStart, end, nil
}

// Build assembles the payload for the week starting at weekStart
// (YYYY-MM-DD Monday; empty means the current week).
func (a *Assembler) Build(weekStart string, now time.Time, entries []models.DiaryEntry, txs []models.Transaction, price analytics.PriceFunc) (Payload, error) {
	start, end, err := a.WeekWindow(weekStart, now)
	if err != nil {
		return Payload{}, fgerrors.NewReportError(weekStart, err)
	}

	weekEntries := filterEntries(a.keyer, entries, start, end)
	weekTxs := filterTransactions(a.keyer, txs, start, end)

	patterns := analytics.AggregatePatterns(weekEntries, price)

	return Payload{
		WeekStart: start,
		WeekEnd:   end,
		Label:     weekLabel(a.keyer, start),
		Goal:      goalProgress(len(weekEntries), a.opts.WeeklyGoal),
		Coverage:  reconcile.Coverage(a.keyer, weekTxs, weekEntries),
		Patterns: PatternSummary{
			ByEmotion: analytics.TopN(patterns.ByEmotion, a.opts.TopGroups),
			ByDriver:  analytics.TopN(patterns.ByDriver, a.opts.TopGroups),
			Worst:     patterns.Worst,
			SampleN:   patterns.SampleN,
		},
		Entries: a.compactEntries(weekEntries),
		Persona: a.opts.Persona,
	}, nil
}

// Generate hands the payload to the report collaborator under a bounded
// timeout and returns the cleaned text. Timeouts surface as ErrTimeout so
// the UI can distinguish them from plain failures.
func (a *Assembler) Generate(ctx context.Context, payload Payload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fgerrors.NewReportError(payload.WeekStart, err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
	defer cancel()

	start := time.Now()
	text, err := a.llm.CompleteWithSystem(ctx, reportSystemPrompt, string(data))
	logging.LogReport(a.logger, payload.WeekStart, len(payload.Entries), time.Since(start), err)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return "", fgerrors.NewReportError(payload.WeekStart, fgerrors.ErrTimeout)
		}
		return "", fgerrors.NewReportError(payload.WeekStart, err)
	}

	text = StripFence(strings.TrimSpace(text))
	if text == "" {
		return "", fgerrors.NewReportError(payload.WeekStart, fgerrors.ErrEmptyResponse)
	}
	return text, nil
}

// goalProgress clamps count/goal to a [0, 100] percentage.
func goalProgress(count, goal int) GoalProgress {
	pct := 0
	if goal > 0 {
		pct = utils.ClampPct(utils.RoundPct(float64(count) / float64(goal) * 100))
	}
	return GoalProgress{Count: count, Goal: goal, Pct: pct}
}

func filterEntries(k calendar.Keyer, entries []models.DiaryEntry, start, end string) []models.DiaryEntry {
	var out []models.DiaryEntry
	for _, e := range entries {
		key := k.DateKey(e.Timestamp)
		if key >= start && key < end {
			out = append(out, e)
		}
	}
	return out
}

func filterTransactions(k calendar.Keyer, txs []models.Transaction, start, end string) []models.Transaction {
	var out []models.Transaction
	for _, t := range txs {
		key := k.DateKey(t.Timestamp)
		if key >= start && key < end {
			out = append(out, t)
		}
	}
	return out
}

// compactEntries orders the week's entries date-ascending and truncates
// free-text fields to the configured budget.
func (a *Assembler) compactEntries(entries []models.DiaryEntry) []CompactEntry {
	sorted := make([]models.DiaryEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	out := make([]CompactEntry, 0, len(sorted))
	for _, e := range sorted {
		out = append(out, CompactEntry{
			Date:            a.keyer.DateKey(e.Timestamp),
			Emotion:         e.Emotion,
			Driver:          e.Driver,
			Symbol:          e.Symbol,
			Side:            string(e.TradeSide),
			Qty:             e.TradeQty,
			Price:           e.TradePrice,
			Note:            utils.Truncate(e.Note, a.opts.TruncateChars),
			FailureScenario: utils.Truncate(e.FailureScenario, a.opts.TruncateChars),
		})
	}
	return out
}

func weekLabel(k calendar.Keyer, start string) string {
	end, err := k.AddDays(start, 6)
	if err != nil {
		return start
	}
	return fmt.Sprintf("%s ~ %s", start, end)
}

// StripFence removes a leading Markdown code-fence wrapper from the
// collaborator's text, if present. A pure string transform: only the
// fence markers are dropped, the body is untouched.
func StripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	body := s[3:]
	// Drop an optional language tag on the fence line.
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		return s
	}
	if i := strings.LastIndex(body, "```"); i >= 0 {
		body = body[:i]
	}
	return strings.TrimSpace(body)
}
