package constants

// Session / context keys
const (
	SessionCookieName = "worklog_session"
	ContextKeyUserID  = "user_id"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Auth
const MinPasswordLength = 8
