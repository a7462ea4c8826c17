package domain

// Entity kinds - the namespace prefix of every persisted partition key.
// Keys have the shape "{kind}_{userID}".
const (
	KindCart           = "cart"
	KindWishlist       = "wishlist"
	KindPriceAlerts    = "priceAlerts"
	KindSupportTickets = "supportTickets"
)

// Wishlist defaults
const (
	DefaultRating = 4
	MinRating     = 1
	MaxRating     = 5
)

// Cart defaults
const (
	// DefaultQuantity is used when AddItem is called without a positive quantity
	DefaultQuantity = 1
)
