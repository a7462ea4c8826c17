package event

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/osse101/storefront/internal/logger"
)

// DeadLetterSchemaVersion is the current version of the dead-letter log format
// Increment this when changing the DeadLetterEntry structure
const DeadLetterSchemaVersion = "1.0"

// DeadLetterWriter appends failed deliveries to a JSON-lines file. Entries
// are diagnostics only; nothing replays them.
type DeadLetterWriter struct {
	file *os.File
	mu   sync.Mutex
}

// DeadLetterEntry represents one handler failure
type DeadLetterEntry struct {
	SchemaVersion string    `json:"schema_version"` // Format version for future migrations
	Timestamp     time.Time `json:"timestamp"`
	EventType     Type      `json:"event_type"`
	Owner         string    `json:"owner,omitempty"`
	Error         string    `json:"error"`
}

// NewDeadLetterWriter opens (or creates) DeadLetterFileName inside dir
func NewDeadLetterWriter(dir string) (*DeadLetterWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, DeadLetterFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, DeadLetterFilePermissions)
	if err != nil {
		return nil, err
	}
	return &DeadLetterWriter{file: f}, nil
}

// Observe is a FailureObserver that records the failure. Payload bodies are
// not written: they hold user data.
func (dlw *DeadLetterWriter) Observe(ctx context.Context, event Event, err error) {
	entry := DeadLetterEntry{
		SchemaVersion: DeadLetterSchemaVersion,
		Timestamp:     time.Now(),
		EventType:     event.Type,
	}
	if event.Payload != nil {
		entry.Owner = event.Payload.Owner()
	}
	if err != nil {
		entry.Error = err.Error()
	}

	data, _ := json.Marshal(entry)

	dlw.mu.Lock()
	defer dlw.mu.Unlock()
	if _, werr := dlw.file.Write(append(data, '\n')); werr != nil {
		logger.FromContext(ctx).Error(LogMsgDeadLetterWriteFailed, "error", werr)
	}
}

// Close closes the dead-letter file
func (dlw *DeadLetterWriter) Close() error {
	return dlw.file.Close()
}
