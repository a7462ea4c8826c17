package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details for security reasons.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Path parameter error messages
	ErrMsgMissingPathParam = "Missing %s path parameter"
)

// Success messages for API responses
// These are user-facing success messages returned in JSON responses
const (
	MsgItemRemoved     = "Item removed"
	MsgCartCleared     = "Cart cleared"
	MsgEntryRemoved    = "Wishlist entry removed"
	MsgAlertRemoved    = "Price alert removed"
	MsgMessageSent     = "Message sent"
	MsgWishlistAdded   = "Added to wishlist"
	MsgWishlistRemoved = "Removed from wishlist"
)
