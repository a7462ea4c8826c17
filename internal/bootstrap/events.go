package bootstrap

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/osse101/storefront/internal/config"
	"github.com/osse101/storefront/internal/event"
)

// InitializeEventSystem creates the event bus and attaches the dead-letter
// writer as its failure observer. Failed deliveries are recorded for
// diagnostics; nothing replays them.
func InitializeEventSystem(cfg *config.Config) (*event.MemoryBus, *event.DeadLetterWriter, error) {
	eventBus := event.NewMemoryBus()

	deadLetterDir := filepath.Join(cfg.LogDir, DeadLetterDirName)
	deadLetters, err := event.NewDeadLetterWriter(deadLetterDir)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetterDir, err)
	}
	eventBus.Observe(deadLetters.Observe)

	slog.Info(LogMsgEventSystemInitialized, "deadletter_dir", deadLetterDir)

	return eventBus, deadLetters, nil
}
