package bootstrap

import (
	"context"
	"log/slog"

	"golang.org/x/text/language"

	"github.com/osse101/storefront/internal/alerts"
	"github.com/osse101/storefront/internal/cart"
	"github.com/osse101/storefront/internal/concurrency"
	"github.com/osse101/storefront/internal/config"
	"github.com/osse101/storefront/internal/event"
	"github.com/osse101/storefront/internal/pricefeed"
	"github.com/osse101/storefront/internal/pricing"
	"github.com/osse101/storefront/internal/scheduler"
	"github.com/osse101/storefront/internal/server"
	"github.com/osse101/storefront/internal/sse"
	"github.com/osse101/storefront/internal/store"
	"github.com/osse101/storefront/internal/support"
	"github.com/osse101/storefront/internal/wishlist"
	"github.com/osse101/storefront/internal/worker"
)

// App is the assembled process
type App struct {
	Server      *server.Server
	Storage     *store.CachedBackend
	Bus         *event.MemoryBus
	DeadLetters *event.DeadLetterWriter
	Handlers    *EventHandlers
	Hub         *sse.Hub
	Pool        *worker.Pool
	Scheduler   *scheduler.Scheduler
	Watcher     *pricefeed.Watcher
	Support     *support.Manager
	Realtime    *support.WebsocketRealtime
}

// Build wires every component from cfg. Background goroutines (hub, pool,
// realtime) are started; the HTTP server is not.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	rules, err := LoadPricingRules(cfg.PricingRulesPath)
	if err != nil {
		return nil, err
	}

	storage, err := OpenStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	bus, deadLetters, err := InitializeEventSystem(cfg)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	locks := concurrency.NewLockManager()
	cartItems := cart.NewCollection(storage)
	wishEntries := wishlist.NewCollection(storage)

	cartSvc := cart.NewService(cartItems, bus, locks, pricing.NewCalculator(rules))
	wishSvc := wishlist.NewService(wishEntries, bus, locks)
	alertSvc := alerts.NewService(alerts.NewCollection(storage), bus, locks, pricing.NewFormatter(cfg.Currency, language.English))

	hub := sse.NewHub()
	hub.Start()

	handlers, err := RegisterEventHandlers(EventHandlerDependencies{
		EventBus: bus,
		Hub:      hub,
		Cart:     cartItems,
		Wishlist: wishEntries,
	})
	if err != nil {
		hub.Stop()
		_ = deadLetters.Close()
		_ = storage.Close()
		return nil, err
	}

	pool := worker.NewPool(cfg.WorkerCount, WorkerQueueSize)
	pool.Start()
	sched := scheduler.New(pool)

	var source pricefeed.Source
	if cfg.PriceFeed == config.PriceFeedRandomWalk {
		source = pricefeed.NewRandomWalk()
		slog.Info(LogMsgPriceFeedEnabled, "interval", cfg.PriceCheckInterval)
	} else {
		slog.Info(LogMsgPriceFeedDisabled)
	}
	watcher := pricefeed.NewWatcher(sched, alertSvc, wishSvc, source, cfg.PriceCheckInterval)

	app := &App{
		Storage:     storage,
		Bus:         bus,
		DeadLetters: deadLetters,
		Handlers:    handlers,
		Hub:         hub,
		Pool:        pool,
		Scheduler:   sched,
		Watcher:     watcher,
	}

	if cfg.SupportEnabled() {
		var realtime support.Realtime
		if cfg.SupportRealtimeURL != "" {
			app.Realtime = support.NewWebsocketRealtime(cfg.SupportRealtimeURL, cfg.SupportAPIKey)
			app.Realtime.Start(context.WithoutCancel(ctx))
			realtime = app.Realtime
		}
		backend := support.NewHTTPBackend(cfg.SupportAPIURL, cfg.SupportAPIKey, cfg.SupportTimeout)
		app.Support = support.NewManager(backend, realtime, support.NewCollection(storage), bus, locks)
		slog.Info(LogMsgSupportEnabled, "url", cfg.SupportAPIURL, "realtime", cfg.SupportRealtimeURL != "")
	} else {
		slog.Info(LogMsgSupportDisabled)
	}

	app.Server = server.NewServer(cfg.Port, cfg.JWTSecret, nil, server.Dependencies{
		Storage:       storage,
		Cart:          cartSvc,
		Wishlist:      wishSvc,
		Alerts:        alertSvc,
		Support:       app.Support,
		Hub:           hub,
		CartBadge:     handlers.CartBadge,
		WishlistBadge: handlers.WishlistBadge,
		Watch:         watcher.Watch,
	})

	return app, nil
}

// Shutdown stops the app in reverse construction order
func (a *App) Shutdown(ctx context.Context) {
	GracefulShutdown(ctx, ShutdownComponents{
		Server:      a.Server,
		Realtime:    a.Realtime,
		Support:     a.Support,
		Scheduler:   a.Scheduler,
		Pool:        a.Pool,
		Handlers:    a.Handlers,
		Hub:         a.Hub,
		DeadLetters: a.DeadLetters,
		Storage:     a.Storage,
	})
}
