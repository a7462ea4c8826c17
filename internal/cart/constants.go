package cart

// Mutation labels for the cart_mutations_total metric
const (
	OpAdd         = "add"
	OpSetQuantity = "set_quantity"
	OpRemove      = "remove"
	OpSetAddons   = "set_addons"
	OpClear       = "clear"
)

// User-facing notification messages
const (
	MsgSignInRequired = "Please sign in to manage your cart"
	MsgItemRemoved    = "Removed %s from your cart"
	MsgItemNotFound   = "That item is no longer in your cart"
	MsgSaveFailed     = "Your cart could not be saved"
)

// Log messages
const (
	LogMsgItemAdded     = "Cart item added"
	LogMsgItemRemoved   = "Cart item removed"
	LogMsgQuantitySet   = "Cart quantity set"
	LogMsgAddonsSet     = "Cart add-ons set"
	LogMsgCartCleared   = "Cart cleared"
	LogMsgPublishFailed = "Cart event delivery had failures"
	LogMsgPersistFailed = "Failed to persist cart"
)
