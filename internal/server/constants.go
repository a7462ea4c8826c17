package server

import "time"

// HTTP error messages for middleware responses
const (
	ErrMsgTooManyRequests = "Too many requests, slow down"
	ErrMsgBodyTooLarge    = "Request body too large"
)

// Security alert messages
const (
	SecurityAlertFailedAuth = "SECURITY ALERT: repeated invalid bearer tokens"
	SecurityAlertHighRate   = "SECURITY ALERT: blocking high request rate"
)

// Abuse detection limits
const (
	FailedAuthAlertThreshold = 5
	MaxRequestsPerWindow     = 1000
	RateWindow               = 5 * time.Minute
	// HighRateLogEvery throttles the high-rate alert for a blocked client
	HighRateLogEvery    = 100
	MaxRequestBodyBytes = 1 << 20
)

// Server timeouts
const (
	ReadHeaderTimeout = 5 * time.Second
)

// Route prefixes the middleware cares about
const (
	APIPrefix  = "/api/"
	EventsPath = "/api/v1/events"
)

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
)

// HTTP header names
const (
	HeaderRequestID      = "X-Request-ID"
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderContentType    = "X-Content-Type-Options"
	HeaderFrameOptions   = "X-Frame-Options"
	HeaderReferrerPolicy = "Referrer-Policy"
	HeaderCacheControl   = "Cache-Control"
	HeaderRetryAfter     = "Retry-After"
)

// Security header values
const (
	HeaderValueNoSniff              = "nosniff"
	HeaderValueDeny                 = "DENY"
	HeaderValueReferrerStrictOrigin = "strict-origin-when-cross-origin"
	HeaderValueNoStore              = "no-store"
)

// MaxRequestIDLength bounds client-supplied request ids
const MaxRequestIDLength = 64

// Paths excluded from request logging
var QuietPaths = []string{
	"/healthz",
	"/readyz",
	"/metrics",
}

// RedactedHeaders are logged as RedactedValue
var RedactedHeaders = []string{
	"Authorization",
	"Cookie",
	"X-Api-Key",
}

// Header redaction marker
const (
	RedactedValue = "[REDACTED]"
)
