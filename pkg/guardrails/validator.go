package guardrails

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/guardrails/ratelimit"
)

// Result is the transient outcome of input validation; it is never persisted.
type Result struct {
	Passed          bool
	Reason          string
	Warnings        []string
	ChecksPerformed []string
}

// ValidatorConfig carries the tunables for the input checks.
type ValidatorConfig struct {
	MaxInputChars  int
	MaxInputTokens int
	RatePerMinute  int
	RatePerHour    int
}

// Validator screens raw user text before anything downstream runs. Every
// check executes on every call so Result metadata is complete; the first
// blocking condition decides Passed/Reason.
type Validator struct {
	cfg    ValidatorConfig
	rates  ratelimit.Store
	logger logger.ILogger
}

func NewValidator(cfg ValidatorConfig, rates ratelimit.Store, log logger.ILogger) *Validator {
	return &Validator{
		cfg:    cfg,
		rates:  rates,
		logger: log,
	}
}

func (v *Validator) Validate(ctx context.Context, rawText string, userID string) *Result {
	res := &Result{Passed: true}

	fail := func(reason string) {
		if res.Passed {
			res.Passed = false
			res.Reason = reason
		}
	}

	// 1. Length and estimated token ceiling.
	res.ChecksPerformed = append(res.ChecksPerformed, "length")
	trimmed := strings.TrimSpace(rawText)
	switch {
	case len(trimmed) == 0:
		fail("Message is empty.")
	case len(rawText) > v.cfg.MaxInputChars:
		fail(fmt.Sprintf("Message exceeds the maximum length of %d characters.", v.cfg.MaxInputChars))
	case estimateTokens(rawText) > v.cfg.MaxInputTokens:
		fail("Message exceeds the maximum estimated token count.")
	}

	// 2. Script/markup injection signatures - hard fail.
	res.ChecksPerformed = append(res.ChecksPerformed, "injection")
	for _, p := range injectionPatterns {
		if p.MatchString(rawText) {
			fail("Message contains disallowed markup or script content.")
			break
		}
	}

	// 3. Instruction-override phrasing - warn only, never blocks.
	res.ChecksPerformed = append(res.ChecksPerformed, "instruction_override")
	for _, p := range overridePatterns {
		if p.MatchString(rawText) {
			res.Warnings = append(res.Warnings, "instruction_override")
			break
		}
	}

	// 4. PII shape patterns - warn only, recorded per type.
	res.ChecksPerformed = append(res.ChecksPerformed, "pii")
	for _, p := range piiPatterns {
		if p.Pattern.MatchString(rawText) {
			res.Warnings = append(res.Warnings, "pii:"+p.Name)
		}
	}

	// 5. Sliding-window rate check. The counters increment on every call,
	// including calls that already failed an earlier check.
	res.ChecksPerformed = append(res.ChecksPerformed, "rate_limit")
	v.checkRate(ctx, userID, fail)

	// 6. Harmful-topic keywords - hard fail.
	res.ChecksPerformed = append(res.ChecksPerformed, "harmful_topics")
	lower := strings.ToLower(rawText)
	for _, kw := range harmfulKeywords {
		if strings.Contains(lower, kw) {
			fail("Message touches a topic this assistant cannot help with.")
			break
		}
	}

	if !res.Passed && v.logger != nil {
		v.logger.Warn("Guardrails", "Input blocked", map[string]interface{}{
			"user_id": userID,
			"reason":  res.Reason,
		})
	}

	return res
}

func (v *Validator) checkRate(ctx context.Context, userID string, fail func(string)) {
	minuteCount, err := v.rates.Increment(ctx, userID+":60", time.Minute)
	if err != nil {
		// A broken counter store must not take the assistant down.
		if v.logger != nil {
			v.logger.Error("Guardrails", "Rate store unavailable", map[string]interface{}{"error": err.Error()})
		}
		return
	}
	hourCount, err := v.rates.Increment(ctx, userID+":3600", time.Hour)
	if err != nil {
		if v.logger != nil {
			v.logger.Error("Guardrails", "Rate store unavailable", map[string]interface{}{"error": err.Error()})
		}
		return
	}

	if minuteCount > v.cfg.RatePerMinute {
		fail("Too many requests in the last minute. Please slow down.")
	} else if hourCount > v.cfg.RatePerHour {
		fail("Hourly request limit reached. Please try again later.")
	}
}

// estimateTokens is the usual rough chars/4 heuristic; exact counts would
// need a tokenizer call, which this check must stay too cheap for.
func estimateTokens(text string) int {
	return len(text) / 4
}
