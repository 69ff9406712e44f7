package executor

import (
	"regexp"
)

// Resolution intents parsed from a chat message while a proposal is pending.
const (
	IntentApprove = "approve"
	IntentReject  = "reject"
)

// Matching is deliberately strict: the whole message must be an
// approval/rejection phrase. "yes, and also reschedule Friday" is a new
// instruction, not a resolution.
var (
	approvePattern = regexp.MustCompile(`(?i)^\s*(?:yes|yep|yeah|approve|approved|confirm|confirmed|go ahead|do it|sure|ok|okay)\s*[.!]*\s*$`)
	rejectPattern  = regexp.MustCompile(`(?i)^\s*(?:no|nope|reject|rejected|cancel|cancelled|don'?t|stop|never mind|nevermind)\s*[.!]*\s*$`)
)

// ParseResolutionIntent classifies a message as an approval or rejection of
// a pending proposal. The second return is false when the message is
// neither, in which case the turn proceeds through the normal pipeline.
func ParseResolutionIntent(text string) (string, bool) {
	if approvePattern.MatchString(text) {
		return IntentApprove, true
	}
	if rejectPattern.MatchString(text) {
		return IntentReject, true
	}
	return "", false
}
