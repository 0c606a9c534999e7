package constants

// Session and context keys
const (
	SessionCookieName  = "task_session"
	SessionKeyClientID = "client_id"

	ContextKeyClientID = "client_id"
	ContextKeySession  = "session"
	ContextKeyTask     = "task"
	ContextKeyTraceID  = "trace_id"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// MaxAIGeneratedTasks caps the drafts accepted from one AI response.
const MaxAIGeneratedTasks = 20
