package server

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RequestSizeLimitMiddleware caps request bodies. Requests that announce a
// larger body are refused before the handler runs.
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				writeMiddlewareError(w, http.StatusRequestEntityTooLarge, ErrMsgBodyTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// ipWindow is the activity of one client address in the current window
type ipWindow struct {
	requests   int
	failedAuth int
	alerted    bool
}

// SuspiciousActivityDetector counts requests and rejected tokens per client
// address over a fixed window
type SuspiciousActivityDetector struct {
	mu          sync.Mutex
	clients     map[string]*ipWindow
	windowStart time.Time
	now         func() time.Time
}

func NewSuspiciousActivityDetector() *SuspiciousActivityDetector {
	return &SuspiciousActivityDetector{
		clients:     make(map[string]*ipWindow),
		windowStart: time.Now(),
		now:         time.Now,
	}
}

// RecordFailedAuth records a rejected bearer token. addr may carry a port.
func (s *SuspiciousActivityDetector) RecordFailedAuth(addr string) {
	ip := hostOnly(addr)

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.client(ip)
	c.failedAuth++

	// One alert per address per window
	if c.failedAuth >= FailedAuthAlertThreshold && !c.alerted {
		c.alerted = true
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", c.failedAuth)
	}
}

// Allow records a request from ip and reports whether it is within the
// per-window limit
func (s *SuspiciousActivityDetector) Allow(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.client(ip)
	c.requests++
	if c.requests <= MaxRequestsPerWindow {
		return true
	}
	if (c.requests-MaxRequestsPerWindow)%HighRateLogEvery == 1 {
		slog.Warn(SecurityAlertHighRate, "ip", ip, "count_in_window", c.requests)
	}
	return false
}

// RetryAfter is the time left in the current window
func (s *SuspiciousActivityDetector) RetryAfter() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	left := RateWindow - s.now().Sub(s.windowStart)
	if left < time.Second {
		return time.Second
	}
	return left
}

// Counts returns the request and failed-auth counts of ip in the current window
func (s *SuspiciousActivityDetector) Counts(ip string) (requests, failedAuth int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollWindow()
	if c, ok := s.clients[ip]; ok {
		return c.requests, c.failedAuth
	}
	return 0, 0
}

// client returns the window entry for ip. Caller must hold the mutex.
func (s *SuspiciousActivityDetector) client(ip string) *ipWindow {
	s.rollWindow()
	c, ok := s.clients[ip]
	if !ok {
		c = &ipWindow{}
		s.clients[ip] = c
	}
	return c
}

// rollWindow starts a new window once RateWindow has passed. Caller must hold the mutex.
func (s *SuspiciousActivityDetector) rollWindow() {
	now := s.now()
	if now.Sub(s.windowStart) > RateWindow {
		s.clients = make(map[string]*ipWindow)
		s.windowStart = now
	}
}

// RateLimitMiddleware rejects clients over the per-window request limit.
// Event streams are long-lived and are not counted.
func RateLimitMiddleware(trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == EventsPath {
				next.ServeHTTP(w, r)
				return
			}

			if !detector.Allow(extractIP(r, trustedProxies)) {
				seconds := int(detector.RetryAfter().Round(time.Second) / time.Second)
				w.Header().Set(HeaderRetryAfter, strconv.Itoa(seconds))
				writeMiddlewareError(w, http.StatusTooManyRequests, ErrMsgTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractIP gets the client address. X-Forwarded-For is only honoured when
// the direct peer is a trusted proxy, and then only its last hop is used.
func extractIP(r *http.Request, trustedProxies []string) string {
	remoteIP := hostOnly(r.RemoteAddr)
	if !slices.Contains(trustedProxies, remoteIP) {
		return remoteIP
	}

	forwarded := r.Header.Get(HeaderForwardedFor)
	if forwarded == "" {
		return remoteIP
	}
	hops := strings.Split(forwarded, ",")
	return strings.TrimSpace(hops[len(hops)-1])
}

func hostOnly(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// securityHeaders are set on every response
var securityHeaders = [][2]string{
	{HeaderContentType, HeaderValueNoSniff},
	{HeaderFrameOptions, HeaderValueDeny},
	{HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin},
}

// SecurityHeadersMiddleware adds security headers to responses. API
// responses carry per-user state and are marked uncacheable.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for _, kv := range securityHeaders {
				h.Set(kv[0], kv[1])
			}
			if strings.HasPrefix(r.URL.Path, APIPrefix) {
				h.Set(HeaderCacheControl, HeaderValueNoStore)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeMiddlewareError writes the same JSON error shape the handlers use
func writeMiddlewareError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
