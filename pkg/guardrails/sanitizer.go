package guardrails

import (
	"strings"
	"unicode/utf8"
)

const truncationMarker = "... [truncated]"

// SanitizeMeta describes what the sanitizer changed.
type SanitizeMeta struct {
	Truncated  bool
	Stripped   bool
	Redactions map[string]int
	Failed     bool // internal failure: original text was returned unmodified
}

// Sanitizer cleans outbound text. It is deterministic and idempotent:
// Sanitize(Sanitize(x)) == Sanitize(x). It never returns an error; if
// something goes wrong internally it degrades to the original text with
// Failed set, preferring availability over over-blocking.
type Sanitizer struct {
	maxOutputChars int
}

func NewSanitizer(maxOutputChars int) *Sanitizer {
	return &Sanitizer{maxOutputChars: maxOutputChars}
}

func (s *Sanitizer) Sanitize(text string) (clean string, meta SanitizeMeta) {
	meta.Redactions = map[string]int{}

	defer func() {
		if r := recover(); r != nil {
			clean = text
			meta.Failed = true
		}
	}()

	clean = text

	// 1. Strip HTML/script tags.
	if htmlTagPattern.MatchString(clean) {
		clean = htmlTagPattern.ReplaceAllString(clean, "")
		meta.Stripped = true
	}

	// 2. Redact PII with fixed per-type tokens.
	clean = redactPII(clean, &meta)

	// Normalize leftover whitespace runs created by tag stripping.
	clean = strings.TrimSpace(clean)

	// 3. Truncate last: redaction tokens can be longer than what they
	// replace, so truncating earlier could leave the result over budget.
	// The marker counts against the budget and the cut lands on a rune
	// boundary.
	if s.maxOutputChars > 0 && len(clean) > s.maxOutputChars {
		clean = s.truncate(clean)
		meta.Truncated = true

		// The cut can expose a fresh match, e.g. a long digit run
		// shortened into credit-card shape. Redact once more so a second
		// pass finds nothing; if the token pushed the text back over the
		// budget, cut again. The boundary then holds token or marker
		// text, which matches no pattern.
		clean = redactPII(clean, &meta)
		if len(clean) > s.maxOutputChars {
			clean = s.truncate(clean)
		}
	}

	return clean, meta
}

// truncate cuts to the budget with the marker included, landing the cut on
// a rune boundary.
func (s *Sanitizer) truncate(text string) string {
	cut := s.maxOutputChars - len(truncationMarker)
	if cut < 0 {
		cut = 0
	}
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + truncationMarker
}

func redactPII(text string, meta *SanitizeMeta) string {
	for _, p := range piiPatterns {
		matches := p.Pattern.FindAllString(text, -1)
		if len(matches) == 0 {
			continue
		}
		text = p.Pattern.ReplaceAllString(text, p.Token)
		meta.Redactions[p.Name] += len(matches)
	}
	return text
}
