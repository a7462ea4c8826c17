package sse

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/osse101/storefront/internal/auth"
	"github.com/osse101/storefront/internal/event"
)

// ConnectHook is called with the stream owner when a signed-in client connects
type ConnectHook func(userID string)

// Handler serves text/event-stream for the request identity. A signed-out
// stream only sees notifications for requests that send its client id back
// in the X-Stream-ID header. ?types=a,b limits the stream to
// the named event types.
func Handler(hub *Hub, onConnect ConnectHook) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, ErrMsgStreamingUnsupported, http.StatusInternalServerError)
			return
		}

		eventTypes, bad := parseTypes(r.URL.Query().Get(TypesQueryParam))
		if bad != "" {
			http.Error(w, ErrMsgUnknownEventType+bad, http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		userID, _ := auth.UserFromContext(r.Context())
		client := hub.Register(userID, eventTypes)
		log := slog.With("client_id", client.ID, "user_id", userID)
		log.Info(LogMsgClientConnected, "filters", eventTypes, "user_streams", hub.UserClientCount(userID))
		defer func() {
			hub.Unregister(client.ID)
			log.Info(LogMsgClientDisconnected)
		}()

		if userID != "" && onConnect != nil {
			onConnect(userID)
		}

		hello, err := FormatSSEMessage(Event{
			ID:        client.ID,
			Type:      EventTypeConnected,
			Timestamp: time.Now().UnixMilli(),
			Payload:   ConnectedPayload{ClientID: client.ID, UserID: userID, Filters: eventTypes},
		})
		if err != nil {
			return
		}
		if !write(w, flusher, append(retryLine(), hello...)) {
			return
		}

		ticker := time.NewTicker(KeepaliveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				return

			case evt, ok := <-client.EventChannel:
				if !ok {
					return
				}
				msg, err := FormatSSEMessage(evt)
				if err != nil {
					log.Error(LogMsgWriteError, "event_type", evt.Type, "error", err)
					continue
				}
				if !write(w, flusher, msg) {
					log.Warn(LogMsgWriteError, "event_type", evt.Type)
					return
				}

			case <-ticker.C:
				if !write(w, flusher, keepaliveComment) {
					return
				}
			}
		}
	}
}

func write(w http.ResponseWriter, flusher http.Flusher, msg []byte) bool {
	if _, err := w.Write(msg); err != nil {
		return false
	}
	flusher.Flush()
	return true
}

// parseTypes splits a comma separated filter. It returns the first unknown
// type name, if any.
func parseTypes(param string) (types []string, unknown string) {
	if param == "" {
		return nil, ""
	}
	for _, t := range strings.Split(param, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !slices.Contains(event.AllTypes, event.Type(t)) {
			return nil, t
		}
		types = append(types, t)
	}
	return types, ""
}
