package pricefeed

import (
	"time"

	"github.com/osse101/storefront/internal/alerts"
	"github.com/osse101/storefront/internal/logger"
	"github.com/osse101/storefront/internal/scheduler"
	"github.com/osse101/storefront/internal/wishlist"
	"github.com/osse101/storefront/internal/worker"
)

// Watcher keeps one periodic price check per signed-in user
type Watcher struct {
	scheduler *scheduler.Scheduler
	alerts    alerts.Service
	wishlist  wishlist.Service
	source    Source
	interval  time.Duration
}

// NewWatcher creates a watcher. A nil source disables watching.
func NewWatcher(sched *scheduler.Scheduler, alertSvc alerts.Service, wishSvc wishlist.Service, source Source, interval time.Duration) *Watcher {
	return &Watcher{
		scheduler: sched,
		alerts:    alertSvc,
		wishlist:  wishSvc,
		source:    source,
		interval:  interval,
	}
}

// Watch starts the price check for userID. Repeated calls are no-ops.
func (w *Watcher) Watch(userID string) {
	if w == nil || w.source == nil || userID == "" {
		return
	}
	job := &worker.PriceCheckJob{
		UserID:   userID,
		Alerts:   w.alerts,
		Wishlist: w.wishlist,
		Source:   w.source,
	}
	if w.scheduler.ScheduleKeyed(WatchKeyPrefix+userID, w.interval, job) {
		logger.Info(LogMsgWatchStarted, "user_id", userID, "interval", w.interval)
	}
}

// Unwatch stops the price check for userID
func (w *Watcher) Unwatch(userID string) {
	if w == nil {
		return
	}
	if w.scheduler.Cancel(WatchKeyPrefix + userID) {
		logger.Info(LogMsgWatchStopped, "user_id", userID)
	}
}

// Watching reports whether userID has a live price check
func (w *Watcher) Watching(userID string) bool {
	return w != nil && w.scheduler.Scheduled(WatchKeyPrefix+userID)
}
