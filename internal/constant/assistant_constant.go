package constant

// Chat roles shared by turn persistence and LLM providers.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Executor names recorded on each turn.
const (
	ExecutorRetrieval   = "retrieval"
	ExecutorToolCalling = "tool_calling"
)

// Session modes. Empty mode means "let the router decide".
const (
	SessionModeRetrieval   = "retrieval"
	SessionModeToolCalling = "tool_calling"
)

// Collection names for the knowledge base.
const (
	CollectionUnified       = "unified"
	CollectionSessionPrefix = "session_" // session-scoped collections: session_<uuid>
)

// Canned answers returned when the pipeline cannot produce a real one.
const (
	AnswerServiceUnavailable = "Sorry, the assistant is temporarily unavailable. Please try again in a moment."
	AnswerNoRelevantInfo     = "I could not find relevant information in the knowledge base to answer that question."
	AnswerSideEffectFailed   = "The approved action could not be completed. It has not been retried; please check the result and try again if needed."
)
