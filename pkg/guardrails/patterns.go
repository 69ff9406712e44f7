package guardrails

import "regexp"

// Injection signatures are a hard fail on input and stripped from output.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script\b`),
	regexp.MustCompile(`(?i)</script>`),
	regexp.MustCompile(`(?i)<iframe\b`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)\bon(load|error|click|mouseover)\s*=`),
	regexp.MustCompile(`(?i)data:text/html`),
	regexp.MustCompile(`(?i)document\.(cookie|write)`),
}

// Instruction-override phrasing is warn-only: blocking on it would break too
// many legitimate messages that merely talk about instructions.
var overridePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+|your\s+)?(previous|prior|above)\s+instructions`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+|your\s+)?(previous|prior|above)\s+instructions`),
	regexp.MustCompile(`(?i)forget\s+(everything|all)\s+(you|above)`),
	regexp.MustCompile(`(?i)reveal\s+(your\s+)?system\s+prompt`),
	regexp.MustCompile(`(?i)tell\s+me\s+your\s+system\s+prompt`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+(in\s+)?(dan|developer)\s+mode`),
}

// piiPattern couples a detector with its fixed redaction token.
type piiPattern struct {
	Name    string
	Pattern *regexp.Regexp
	Token   string
}

var piiPatterns = []piiPattern{
	{
		Name:    "credit_card",
		Pattern: regexp.MustCompile(`\b\d(?:[ -]?\d){12,18}\b`),
		Token:   "[REDACTED-CARD]",
	},
	{
		Name:    "national_id",
		Pattern: regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
		Token:   "[REDACTED-ID]",
	},
	{
		Name:    "email",
		Pattern: regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		Token:   "[REDACTED-EMAIL]",
	},
	{
		Name:    "phone",
		Pattern: regexp.MustCompile(`\+\d{1,3}[ -]?\d{2,4}[ -]?\d{3,4}[ -]?\d{3,4}\b`),
		Token:   "[REDACTED-PHONE]",
	},
	{
		Name:    "api_key",
		Pattern: regexp.MustCompile(`\b(?:sk|pk|api|key|token)[-_][A-Za-z0-9]{16,}\b`),
		Token:   "[REDACTED-TOKEN]",
	},
}

// Harmful-topic keywords are a hard fail. Lexical matching is deliberate: the
// check must be cheap enough to run on every turn.
var harmfulKeywords = []string{
	"how to make a bomb",
	"how to build a bomb",
	"make an explosive",
	"how to make a weapon",
	"untraceable poison",
	"how to hack into",
	"steal credit card",
	"launder money",
}

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)
