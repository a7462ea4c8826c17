package middleware

// HTTP header names and schemes
const (
	HeaderAuthorization = "Authorization"
	BearerPrefix        = "Bearer "

	// HeaderStreamID carries the event stream client id of a signed-out page
	HeaderStreamID = "X-Stream-ID"
)

// Error messages written to clients
const (
	ErrMsgInvalidToken = "invalid or expired token"
)

// Log Messages
const (
	LogMsgInvalidToken  = "Rejected request with invalid bearer token"
	LogMsgIdentityFound = "Request identity resolved"
)
