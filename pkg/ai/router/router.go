package router

import (
	"strings"

	"ai-assistant-be/internal/constant"
)

// Decision names the executor chosen for a turn and why.
type Decision struct {
	Executor string
	Reason   string
}

// retrievalKeywords are the signals that a message is about stored
// documents rather than general conversation or tool use.
var retrievalKeywords = []string{
	"search", "find", "document", "file", "pdf", "image", "upload",
	"retrieve", "lookup", "query", "database", "knowledge", "source",
	"reference", "cite", "extract", "analyze document",
}

// Route picks the executor for a turn. It is a pure function of its inputs:
// no I/O, no model calls, so routing is deterministic and free to test.
//
// A forced session mode always wins. Otherwise keyword matching selects
// retrieval, and everything else falls through to tool calling.
func Route(sanitizedText string, sessionMode string) Decision {
	switch sessionMode {
	case constant.SessionModeRetrieval:
		return Decision{Executor: constant.ExecutorRetrieval, Reason: "session pinned to retrieval"}
	case constant.SessionModeToolCalling:
		return Decision{Executor: constant.ExecutorToolCalling, Reason: "session pinned to tool calling"}
	}

	lower := strings.ToLower(sanitizedText)
	for _, kw := range retrievalKeywords {
		if strings.Contains(lower, kw) {
			return Decision{Executor: constant.ExecutorRetrieval, Reason: "keyword match: " + kw}
		}
	}

	return Decision{Executor: constant.ExecutorToolCalling, Reason: "default"}
}
