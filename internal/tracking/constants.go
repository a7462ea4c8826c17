package tracking

// Tracking number bounds
const (
	MinLength = 8
	MaxLength = 40
)

// Widget defaults
const (
	DefaultWidgetScript = "https://www.17track.net/externalcall.js"
	DefaultWidgetTarget = "tracking-widget"
	DefaultLanguage     = "en"
)

// Error messages
const (
	ErrMsgEmpty        = "tracking number is required"
	ErrMsgLength       = "tracking number must be between 8 and 40 characters"
	ErrMsgInvalidChars = "tracking number may only contain letters and digits"
)
