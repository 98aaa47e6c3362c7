package coach

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	fgerrors "finguide/internal/errors"
	"finguide/internal/logging"
	"finguide/internal/models"
	"finguide/pkg/utils"
)

const feedbackSystemPrompt = `You are a trading coach for a paper-trading
education app. The user journals emotions and reasoning around simulated
trades. Give short, concrete feedback on the decision process described in
the entry, not on the outcome. Do not give investment advice.`

// Generator produces coaching feedback for diary entries, converting
// rate-limit failures into per-entry cooldowns.
type Generator struct {
	llm              LLMClient
	cooldowns        *CooldownTracker
	cooldownFallback time.Duration
	logger           zerolog.Logger
}

// NewGenerator creates a feedback generator. cooldownFallback is used
// when a rate-limit error carries no retry hint.
func NewGenerator(llm LLMClient, cooldownFallback time.Duration, logger zerolog.Logger) *Generator {
	return &Generator{
		llm:              llm,
		cooldowns:        NewCooldownTracker(),
		cooldownFallback: cooldownFallback,
		logger:           logger,
	}
}

// Feedback generates coaching text for one diary entry, given the user
// persona and recent entries for context. While the entry is cooling down
// from an earlier rate limit, the call is suppressed locally and returns
// ErrRateLimited with the remaining wait. A blank response from the
// collaborator is a failure, never a cacheable result.
func (g *Generator) Feedback(ctx context.Context, entry models.DiaryEntry, persona string, recent []models.DiaryEntry) (string, error) {
	if left, cooling := g.cooldowns.Remaining(entry.ID); cooling {
		return "", fgerrors.NewCoachError(entry.ID, "feedback", left, fgerrors.ErrRateLimited)
	}

	text, err := g.llm.CompleteWithSystem(ctx, feedbackSystemPrompt, feedbackPrompt(entry, persona, recent))
	logging.LogFeedback(g.logger, entry.ID, len(text), err)
	if err != nil {
		if wait, limited := ParseRateLimit(err.Error(), g.cooldownFallback); limited {
			g.cooldowns.Set(entry.ID, wait)
			return "", fgerrors.NewCoachError(entry.ID, "feedback", wait, fgerrors.ErrRateLimited)
		}
		return "", fgerrors.NewCoachError(entry.ID, "feedback", 0, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fgerrors.NewCoachError(entry.ID, "feedback", 0, fgerrors.ErrEmptyResponse)
	}
	return text, nil
}

func feedbackPrompt(entry models.DiaryEntry, persona string, recent []models.DiaryEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User persona: %s\n\n", persona)
	fmt.Fprintf(&b, "Entry:\n")
	fmt.Fprintf(&b, "  emotion: %s (%s)\n", entry.Emotion, models.EmotionLabel(entry.Emotion))
	fmt.Fprintf(&b, "  driver: %s (%s)\n", entry.Driver, models.DriverLabel(entry.Driver))
	if entry.Symbol != "" {
		fmt.Fprintf(&b, "  trade: %s %s", entry.TradeSide, entry.Symbol)
		if utils.FinitePtr(entry.TradeQty) {
			fmt.Fprintf(&b, " x%s", utils.FormatNumber(*entry.TradeQty))
		}
		if utils.FinitePtr(entry.TradePrice) {
			fmt.Fprintf(&b, " @ %s", utils.FormatPrice(*entry.TradePrice))
		}
		b.WriteString("\n")
	}
	if entry.FailureScenario != "" {
		fmt.Fprintf(&b, "  failure scenario: %s\n", entry.FailureScenario)
	}
	fmt.Fprintf(&b, "  note: %s\n", entry.Note)

	if len(recent) > 0 {
		fmt.Fprintf(&b, "\nRecent entries for context:\n")
		for _, r := range recent {
			fmt.Fprintf(&b, "- [%s/%s] %s\n", r.Emotion, r.Driver, utils.Truncate(r.Note, 80))
		}
	}
	return b.String()
}
