package event

import "errors"

// EventSchemaVersion is stamped on every envelope
const EventSchemaVersion = "1.0"

const (
	// DeadLetterFileName is created inside the configured log directory
	DeadLetterFileName        = "event_failures.jsonl"
	DeadLetterFilePermissions = 0o644
)

const (
	LogMsgHandlerFailed         = "Event handler failed"
	LogMsgDeadLetterWriteFailed = "Failed to write to dead letter"
)

// ErrHandlerPanicked wraps a recovered handler panic
var ErrHandlerPanicked = errors.New("event handler panicked")

// errHandlersFailed prefixes the joined handler errors of one publish
const errHandlersFailed = "%d handler(s) failed for %s: %w"
