package memorytier

import (
	"fmt"
	"sort"
	"strings"

	"ai-assistant-be/internal/entity"
)

// Context is the assembled memory for one turn: the recent window, the
// user's fact table, and semantically similar past turns. Any tier may be
// empty; an empty Context is still usable.
type Context struct {
	Recent  []*entity.Turn
	Facts   map[string]string
	Similar []*entity.TurnEmbedding
}

// Digest renders the context as prompt text. Fact keys are sorted so the
// same context always produces the same digest.
func (c *Context) Digest() string {
	var b strings.Builder

	if len(c.Facts) > 0 {
		b.WriteString("Known facts about the user:\n")
		keys := make([]string, 0, len(c.Facts))
		for k := range c.Facts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %s\n", k, c.Facts[k])
		}
		b.WriteString("\n")
	}

	if len(c.Similar) > 0 {
		b.WriteString("Related past discussion:\n")
		for _, s := range c.Similar {
			fmt.Fprintf(&b, "- %s\n", s.Summary)
		}
		b.WriteString("\n")
	}

	if len(c.Recent) > 0 {
		b.WriteString("Recent conversation:\n")
		for _, t := range c.Recent {
			fmt.Fprintf(&b, "User: %s\n", t.SanitizedText)
			if t.Answer != "" {
				fmt.Fprintf(&b, "Assistant: %s\n", t.Answer)
			}
		}
	}

	return strings.TrimSpace(b.String())
}

// IsEmpty reports whether no tier produced anything.
func (c *Context) IsEmpty() bool {
	return len(c.Recent) == 0 && len(c.Facts) == 0 && len(c.Similar) == 0
}
