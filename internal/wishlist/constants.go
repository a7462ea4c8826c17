package wishlist

// Sort keys accepted by List
const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// MaxPriceHistory caps the number of points kept per entry
const MaxPriceHistory = 50

// Toggle actions for the wishlist_toggles_total metric
const (
	ActionAdded   = "added"
	ActionRemoved = "removed"
)

// User-facing notification messages
const (
	MsgSignInRequired = "Please sign in to use your wishlist"
	MsgAdded          = "Saved %s to your wishlist"
	MsgRemoved        = "Removed %s from your wishlist"
	MsgSaveFailed     = "Your wishlist could not be saved"
)

// Log messages
const (
	LogMsgEntryAdded    = "Wishlist entry added"
	LogMsgEntryRemoved  = "Wishlist entry removed"
	LogMsgPriceRecorded = "Wishlist price recorded"
	LogMsgPersistFailed = "Failed to persist wishlist"
	LogMsgPublishFailed = "Wishlist event delivery had failures"
)
