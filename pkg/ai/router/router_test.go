package router

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ai-assistant-be/internal/constant"
)

func TestRouteKeywordMatch(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"document keyword", "summarize the document I uploaded yesterday", constant.ExecutorRetrieval},
		{"search keyword", "search for the Q3 revenue figures", constant.ExecutorRetrieval},
		{"pdf keyword", "what does the PDF say about refunds", constant.ExecutorRetrieval},
		{"general chat", "what time is it in Tokyo?", constant.ExecutorToolCalling},
		{"math", "what is 15% of 2500", constant.ExecutorToolCalling},
		{"scheduling", "schedule a meeting with Sam tomorrow at 3pm", constant.ExecutorToolCalling},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Route(tt.input, "")
			assert.Equal(t, tt.want, d.Executor)
			assert.NotEmpty(t, d.Reason)
		})
	}
}

func TestRouteForcedModeWins(t *testing.T) {
	// A pinned session overrides keyword matching in both directions.
	d := Route("what time is it?", constant.SessionModeRetrieval)
	assert.Equal(t, constant.ExecutorRetrieval, d.Executor)

	d = Route("search my documents for invoices", constant.SessionModeToolCalling)
	assert.Equal(t, constant.ExecutorToolCalling, d.Executor)
}

func TestRouteIsDeterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		d := Route("find the onboarding file", "")
		assert.Equal(t, constant.ExecutorRetrieval, d.Executor)
	}
}
