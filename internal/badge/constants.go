package badge

// Log messages
const (
	LogMsgDecodeFailed = "Badge payload could not be decoded"
	LogMsgRecomputed   = "Badge recomputed"
)
