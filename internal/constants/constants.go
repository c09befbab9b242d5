package constants

// Context keys shared between middleware and handlers.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyRequestID = "request_id"
)

const (
	HeaderRequestID     = "X-Request-ID"
	HeaderAuthorization = "Authorization"
	BearerPrefix        = "Bearer "
)

// SecretBytes is the entropy of generated signing secrets.
const SecretBytes = 32
