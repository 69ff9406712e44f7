package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanCalls(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantTools []string
	}{
		{"percentage", "what is 20% of 150", []string{"calculator"}},
		{"arithmetic", "compute 12 * (3 + 4) for me", []string{"calculator"}},
		{"datetime", "what time is it right now", []string{"datetime"}},
		{"wikipedia", "check wikipedia for Ada Lovelace", []string{"wikipedia"}},
		{"web search", "latest news about the election", []string{"web_search"}},
		{"calendar list", "what's on my calendar tomorrow", []string{"calendar_list_events"}},
		{"calendar create", "book an appointment with Dr Lee on friday at 10am", []string{"calendar_create_event"}},
		{"no tools", "tell me a joke", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := planCalls(tt.input)
			var got []string
			for _, c := range calls {
				got = append(got, c.Tool)
			}
			assert.Equal(t, tt.wantTools, got)
		})
	}
}

func TestPlanCallsSideEffectShortCircuits(t *testing.T) {
	// Even with other matchable phrases, a side-effecting match plans alone.
	calls := planCalls("schedule a meeting with Sam tomorrow and tell me what time is it")
	require.Len(t, calls, 1)
	assert.Equal(t, "calendar_create_event", calls[0].Tool)
}

func TestPlanCallsExtractsEventParams(t *testing.T) {
	calls := planCalls("create an event for standup on 2026-09-01 at 9:30 am")
	require.Len(t, calls, 1)
	assert.Equal(t, "calendar_create_event", calls[0].Tool)
	assert.Equal(t, "standup", calls[0].Params["title"])
	assert.Equal(t, "2026-09-01", calls[0].Params["date"])
	assert.Equal(t, "9:30 am", calls[0].Params["time"])
}

func TestParseResolutionIntent(t *testing.T) {
	tests := []struct {
		input    string
		want     string
		resolved bool
	}{
		{"approve", IntentApprove, true},
		{"Yes!", IntentApprove, true},
		{"go ahead", IntentApprove, true},
		{"reject", IntentReject, true},
		{"no", IntentReject, true},
		{"never mind", IntentReject, true},
		{"yes, and also move my friday meeting", "", false},
		{"what time is it", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseResolutionIntent(tt.input)
			assert.Equal(t, tt.resolved, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
