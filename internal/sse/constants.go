package sse

import "time"

const (
	// BroadcastBufferSize bounds events queued between the bus and the hub loop
	BroadcastBufferSize = 256

	// ClientEventBuffer bounds events queued for one slow stream
	ClientEventBuffer = 32
)

const (
	// KeepaliveInterval keeps proxies from closing idle streams
	KeepaliveInterval = 25 * time.Second

	// ReconnectDelay is sent as the EventSource retry hint
	ReconnectDelay = 3 * time.Second
)

// EventTypeConnected is the first event on every stream. Bus events keep
// their own type names.
const EventTypeConnected = "connected"

// TypesQueryParam selects which event types a stream receives
const TypesQueryParam = "types"

const (
	ErrMsgStreamingUnsupported = "streaming unsupported"
	ErrMsgUnknownEventType     = "unknown event type: "
)

const (
	LogMsgClientConnected    = "Event stream opened"
	LogMsgClientDisconnected = "Event stream closed"
	LogMsgEventDropped       = "Event stream buffer full, dropping event"
	LogMsgWriteError         = "Failed to write to event stream"
	LogMsgEventBroadcast     = "Event forwarded to streams"
	LogMsgBridgeRegistered   = "SSE bridge registered for event types"
)
