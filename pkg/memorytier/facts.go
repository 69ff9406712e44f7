package memorytier

import (
	"regexp"
	"strings"
)

// factRule pairs a fact key with the self-disclosure phrasing that sets it.
// Lexical extraction is deliberate: it runs on every committed turn and must
// not cost a model call. Each capture stops at punctuation or a connective
// so trailing clauses do not leak into the value.
type factRule struct {
	Key     string
	Pattern *regexp.Regexp
}

const clauseEnd = `(?:[.,!;]|\s+(?:and|but|so|because)\b|$)`

var factRules = []factRule{
	{Key: "name", Pattern: regexp.MustCompile(`(?i)\bmy name is ([A-Za-z][A-Za-z'-]*(?:\s[A-Za-z][A-Za-z'-]*)?)` + clauseEnd)},
	{Key: "name", Pattern: regexp.MustCompile(`(?i)\bcall me ([A-Za-z][A-Za-z'-]*)` + clauseEnd)},
	{Key: "location", Pattern: regexp.MustCompile(`(?i)\bi live in ([A-Za-z][A-Za-z '-]*?)` + clauseEnd)},
	{Key: "location", Pattern: regexp.MustCompile(`(?i)\bi(?:'m| am) based in ([A-Za-z][A-Za-z '-]*?)` + clauseEnd)},
	{Key: "employer", Pattern: regexp.MustCompile(`(?i)\bi work (?:at|for) ([A-Za-z0-9][A-Za-z0-9 &'-]*?)(?:\s+(?:as|in|on|doing)\b|[.,!;]|$)`)},
	{Key: "role", Pattern: regexp.MustCompile(`(?i)\bi(?:'m| am) an? ([A-Za-z][A-Za-z -]{2,40}?)(?: by trade| by profession)?\s*(?:[.,!;]|$)`)},
	{Key: "timezone", Pattern: regexp.MustCompile(`(?i)\bmy time ?zone is ([A-Za-z/_+0-9-]{2,40})`)},
}

// ExtractFacts pulls durable self-disclosures out of a user message. Later
// rules for the same key overwrite earlier ones, matching the fact table's
// last-write-wins merge.
func ExtractFacts(text string) map[string]string {
	facts := make(map[string]string)
	for _, rule := range factRules {
		m := rule.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(strings.Trim(m[1], " .,"))
		if value == "" {
			continue
		}
		facts[rule.Key] = value
	}
	return facts
}
