package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/storefront/internal/event"
	"github.com/osse101/storefront/internal/scheduler"
	"github.com/osse101/storefront/internal/server"
	"github.com/osse101/storefront/internal/sse"
	"github.com/osse101/storefront/internal/store"
	"github.com/osse101/storefront/internal/support"
	"github.com/osse101/storefront/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil components are skipped.
type ShutdownComponents struct {
	Server      *server.Server
	Realtime    *support.WebsocketRealtime
	Support     *support.Manager
	Scheduler   *scheduler.Scheduler
	Pool        *worker.Pool
	Handlers    *EventHandlers
	Hub         *sse.Hub
	DeadLetters *event.DeadLetterWriter
	Storage     *store.CachedBackend
}

// GracefulShutdown performs graceful shutdown of all application components.
// It shuts down in reverse construction order:
// 1. SSE hub, so open event streams end and the server can drain
// 2. HTTP server (stop accepting new requests)
// 3. Remote support (realtime connection, sessions)
// 4. Background work (scheduler ticks, then in-flight price checks)
// 5. Bus subscribers
// 6. Dead-letter file and storage, after the last possible write
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	if components.Hub != nil {
		components.Hub.Stop()
	}

	slog.Info(LogMsgShuttingDownServer)

	// Shutdown server (stop accepting new requests)
	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Realtime != nil {
		components.Realtime.Stop()
	}
	if components.Support != nil {
		components.Support.Close()
	}

	slog.Info(LogMsgShuttingDownBackground)
	if components.Scheduler != nil {
		components.Scheduler.Stop()
	}
	if components.Pool != nil {
		components.Pool.Stop()
	}

	if components.Handlers != nil {
		components.Handlers.Close()
	}

	if components.DeadLetters != nil {
		if err := components.DeadLetters.Close(); err != nil {
			slog.Error(LogMsgDeadLetterCloseFailed, "error", err)
		}
	}
	if components.Storage != nil {
		if err := components.Storage.Close(); err != nil {
			slog.Error(LogMsgStorageCloseFailed, "error", err)
		}
	}

	slog.Info(LogMsgServerStopped)
}
