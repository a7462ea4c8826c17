package pricefeed

import "errors"

// Random walk defaults
const (
	DefaultMaxStep = 0.05
	DefaultFloor   = "0.01"
	PricePlaces    = 2
)

// WatchKeyPrefix namespaces per-user price checks in the scheduler
const WatchKeyPrefix = "price_check:"

// ErrNoQuote is returned when a source has no price for a product
var ErrNoQuote = errors.New("no quote available")

// Log messages
const (
	LogMsgWatchStarted = "Price watch started"
	LogMsgWatchStopped = "Price watch stopped"
)
