package alerts

// User-facing notification messages
const (
	MsgSignInRequired = "Please sign in to manage price alerts"
	MsgInvalidTarget  = "Enter a target price above zero"
	MsgAlertCreated   = "We'll let you know when %s reaches %s"
	MsgAlertRemoved   = "Price alert removed"
	MsgTriggeredBelow = "%s dropped to %s"
	MsgTriggeredAbove = "%s rose to %s"
	MsgSaveFailed     = "Your price alerts could not be saved"
)

// Log messages
const (
	LogMsgAlertCreated    = "Price alert created"
	LogMsgAlertUpdated    = "Price alert updated"
	LogMsgAlertRemoved    = "Price alert removed"
	LogMsgAlertToggled    = "Price alert toggled"
	LogMsgAlertTriggered  = "Price alert triggered"
	LogMsgPriceLookupFail = "Price lookup failed"
	LogMsgPersistFailed   = "Failed to persist price alerts"
	LogMsgPublishFailed   = "Price alert event delivery had failures"
)
