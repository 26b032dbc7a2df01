package usercontext

// Shared Locals/session keys used across controllers and middlewares
const (
	KeyUserContext = "USER_CONTEXT"
	KeyClerkID     = "clerk_id"
	KeySessionTok  = "session_token"
)
