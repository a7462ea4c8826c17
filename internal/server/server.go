package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/storefront/internal/alerts"
	"github.com/osse101/storefront/internal/cart"
	"github.com/osse101/storefront/internal/handler"
	"github.com/osse101/storefront/internal/logger"
	"github.com/osse101/storefront/internal/metrics"
	"github.com/osse101/storefront/internal/middleware"
	"github.com/osse101/storefront/internal/sse"
	"github.com/osse101/storefront/internal/support"
	"github.com/osse101/storefront/internal/wishlist"
)

// Dependencies are the services the HTTP surface exposes
type Dependencies struct {
	Storage  handler.Pinger
	Cart     cart.Service
	Wishlist wishlist.Service
	Alerts   alerts.Service
	// Support is nil when no support backend is configured
	Support *support.Manager
	Hub     *sse.Hub
	// Badge counters; the badges route is mounted when both are set
	CartBadge     handler.BadgeCounter
	WishlistBadge handler.BadgeCounter
	// Watch starts price checks for a user; nil disables them
	Watch handler.WatchFunc
}

type Server struct {
	httpServer *http.Server
	router     http.Handler
}

// NewServer creates a new Server instance
func NewServer(port int, jwtSecret string, trustedProxies []string, deps Dependencies) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(RateLimitMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)
	r.Use(middleware.Identity(jwtSecret, detector))

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	readiness := map[string]handler.Pinger{}
	if deps.Storage != nil {
		readiness["storage"] = deps.Storage
	}
	r.Get("/readyz", handler.HandleReadyz(readiness))

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", handler.HandleGetCart(deps.Cart))
			r.Delete("/", handler.HandleClearCart(deps.Cart))
			r.Post("/items", handler.HandleAddCartItem(deps.Cart))
			r.Patch("/items/{id}/quantity", handler.HandleSetCartQuantity(deps.Cart))
			r.Put("/items/{id}/addons", handler.HandleSetCartAddons(deps.Cart))
			r.Delete("/items/{id}", handler.HandleRemoveCartItem(deps.Cart))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", handler.HandleListWishlist(deps.Wishlist))
			r.Post("/toggle", handler.HandleToggleWishlist(deps.Wishlist))
			r.Delete("/{id}", handler.HandleRemoveWishlistEntry(deps.Wishlist))
		})

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", handler.HandleListAlerts(deps.Alerts))
			r.Post("/", handler.HandleCreateAlert(deps.Alerts, deps.Watch))
			r.Put("/{id}", handler.HandleUpdateAlert(deps.Alerts))
			r.Post("/{id}/toggle", handler.HandleToggleAlert(deps.Alerts))
			r.Delete("/{id}", handler.HandleRemoveAlert(deps.Alerts))
		})

		if deps.Support != nil {
			r.Route("/support/tickets", func(r chi.Router) {
				r.Get("/", handler.HandleListTickets(deps.Support))
				r.Post("/", handler.HandleCreateTicket(deps.Support))
				r.Post("/{id}/messages", handler.HandleAppendMessage(deps.Support))
			})
		}

		r.Post("/tracking", handler.HandleTracking())

		if deps.CartBadge != nil && deps.WishlistBadge != nil {
			r.Get("/badges", handler.HandleBadges(deps.CartBadge, deps.WishlistBadge))
		}

		if deps.Hub != nil {
			r.Get("/events", sse.Handler(deps.Hub, sse.ConnectHook(deps.Watch)))
		}
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
		router: r,
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Flush lets the event stream push through the wrapper
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isQuiet(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()

		// Keep the caller's request id so UI and server logs line up
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" || len(requestID) > MaxRequestIDLength {
			requestID = logger.GenerateRequestID()
		}
		w.Header().Set(HeaderRequestID, requestID)

		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())
		log.Debug(LogMsgRequestHeaders, "headers", redactHeaders(r.Header))

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

func isQuiet(path string) bool {
	for _, p := range QuietPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// redactHeaders copies h with credential headers masked
func redactHeaders(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for k, v := range h {
		out[k] = v
	}
	for _, name := range RedactedHeaders {
		if _, ok := out[http.CanonicalHeaderKey(name)]; ok {
			out[http.CanonicalHeaderKey(name)] = []string{RedactedValue}
		}
	}
	return out
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
