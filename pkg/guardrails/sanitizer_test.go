package guardrails

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizePassThrough(t *testing.T) {
	s := NewSanitizer(5000)

	clean, meta := s.Sanitize("The meeting is scheduled for Tuesday at 10am.")

	assert.Equal(t, "The meeting is scheduled for Tuesday at 10am.", clean)
	assert.False(t, meta.Truncated)
	assert.False(t, meta.Stripped)
	assert.Empty(t, meta.Redactions)
	assert.False(t, meta.Failed)
}

func TestSanitizeTruncatesWithinBudget(t *testing.T) {
	s := NewSanitizer(100)

	clean, meta := s.Sanitize(strings.Repeat("a", 500))

	assert.True(t, meta.Truncated)
	assert.LessOrEqual(t, len(clean), 100, "marker must count against the budget")
	assert.True(t, strings.HasSuffix(clean, "... [truncated]"))
}

func TestSanitizeStripsTags(t *testing.T) {
	s := NewSanitizer(5000)

	clean, meta := s.Sanitize(`Here is the answer <script>alert("x")</script> with <b>markup</b>.`)

	assert.True(t, meta.Stripped)
	assert.NotContains(t, clean, "<script>")
	assert.NotContains(t, clean, "<b>")
	assert.Contains(t, clean, "Here is the answer")
}

func TestSanitizeRedactsPII(t *testing.T) {
	s := NewSanitizer(5000)

	clean, meta := s.Sanitize("Contact bob@example.com or call +1 555 123 4567.")

	assert.Contains(t, clean, "[REDACTED-EMAIL]")
	assert.Contains(t, clean, "[REDACTED-PHONE]")
	assert.NotContains(t, clean, "bob@example.com")
	assert.Equal(t, 1, meta.Redactions["email"])
	assert.Equal(t, 1, meta.Redactions["phone"])
}

func TestSanitizeIdempotent(t *testing.T) {
	s := NewSanitizer(200)

	inputs := []string{
		"plain text, nothing to do",
		"mail me at carol@example.org <b>now</b>",
		strings.Repeat("long output ", 100),
		"card 4111 1111 1111 1111 and <i>markup</i> " + strings.Repeat("pad ", 80),
		"call +1 555 123 4567 " + strings.Repeat("z", 200),
	}

	for _, in := range inputs {
		once, _ := s.Sanitize(in)
		twice, meta := s.Sanitize(once)
		assert.Equal(t, once, twice)
		assert.False(t, meta.Truncated)
	}
}

func TestSanitizeNeverGrowsPastBudget(t *testing.T) {
	s := NewSanitizer(50)

	clean, _ := s.Sanitize(strings.Repeat("x", 400))
	assert.LessOrEqual(t, len(clean), 50)
}

func TestSanitizeRedactionAtBudgetEdgeStaysIdempotent(t *testing.T) {
	// Exactly at the cap; the redaction token is one byte longer than the
	// phone number it replaces.
	s := NewSanitizer(20)
	in := "+1 234 567 8901 abcd"

	once, meta := s.Sanitize(in)
	twice, meta2 := s.Sanitize(once)

	assert.LessOrEqual(t, len(once), 20)
	assert.Equal(t, 1, meta.Redactions["phone"])
	assert.NotContains(t, once, "8901")
	assert.Equal(t, once, twice, "second pass must be a no-op")
	assert.False(t, meta2.Truncated)
}

func TestSanitizeTruncatesOnRuneBoundary(t *testing.T) {
	s := NewSanitizer(20)

	clean, meta := s.Sanitize(strings.Repeat("é", 40))

	assert.True(t, meta.Truncated)
	assert.True(t, utf8.ValidString(clean))
	assert.LessOrEqual(t, len(clean), 20)

	again, _ := s.Sanitize(clean)
	assert.Equal(t, clean, again)
}
