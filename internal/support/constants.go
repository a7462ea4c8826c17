package support

import "time"

// Remote API paths
const (
	PathUserTickets = "/users/{userID}/support-tickets"
	PathTickets     = "/support-tickets"
	PathMessages    = "/support-messages"
)

// Circuit breaker settings for the remote backend
const (
	BreakerName             = "support-backend"
	BreakerMaxRequests      = 1
	BreakerInterval         = 60 * time.Second
	BreakerTimeout          = 30 * time.Second
	BreakerFailureThreshold = 5
)

// Realtime connection settings
const (
	DefaultReconnectDelay  = 1 * time.Second
	MaxReconnectDelay      = 30 * time.Second
	ReconnectMultiplier    = 2.0
	MaxConsecutiveFailures = 10
	WriteTimeout           = 10 * time.Second
	ReadBufferSize         = 4096
	WriteBufferSize        = 4096

	// PushRefreshTimeout bounds the re-fetch triggered by a realtime push
	PushRefreshTimeout = 15 * time.Second
)

// TopicPrefix is prepended to the user id to form the realtime topic
const TopicPrefix = "support_tickets:"

// Realtime frame types
const (
	FrameSubscribe   = "subscribe"
	FrameUnsubscribe = "unsubscribe"
	FrameChange      = "change"
)

// Error codes the client synthesizes for failures without a backend error body
const (
	CodeTransport   = "transport_error"
	CodeUnavailable = "unavailable"
	CodeHTTPStatus  = "http_status"
)

// User-facing notification messages
const (
	MsgSignInRequired  = "Please sign in to contact support"
	MsgSubjectRequired = "Please enter a subject and a message"
	MsgMessageRequired = "Please enter a message"
	MsgTicketCreated   = "Your support request was sent"
	MsgMessageSent     = "Message sent"
	MsgUnavailable     = "Support is temporarily unavailable, please try again shortly"
)

// Log messages
const (
	LogMsgRefreshFailed      = "Support ticket refresh failed"
	LogMsgRemoteCallFailed   = "Support backend call failed"
	LogMsgTicketsRefreshed   = "Support tickets refreshed"
	LogMsgTicketCreated      = "Support ticket created"
	LogMsgMessageAppended    = "Support message appended"
	LogMsgPushReceived       = "Support realtime push received"
	LogMsgBreakerStateChange = "Support backend circuit breaker state changed"
	LogMsgPersistFailed      = "Failed to persist support mirror"
	LogMsgPublishFailed      = "Support event delivery had failures"
	LogMsgSessionStarted     = "Support session started"
	LogMsgSessionStopped     = "Support session stopped"

	LogMsgConnecting    = "Connecting to support realtime"
	LogMsgConnected     = "Connected to support realtime"
	LogMsgReconnecting  = "Reconnecting to support realtime"
	LogMsgReadError     = "Error reading from support realtime"
	LogMsgWriteError    = "Error writing to support realtime"
	LogMsgClientStopped = "Support realtime client stopped"
	LogMsgGivingUp      = "Support realtime failed too many times, entering dormant mode"
	LogMsgDormantRetry  = "Support realtime dormant, retrying on new subscription"
)
