package sse

// ConnectedPayload is the first event sent on every stream
type ConnectedPayload struct {
	ClientID string   `json:"client_id"`
	UserID   string   `json:"user_id,omitempty"`
	Filters  []string `json:"filters"`
}
