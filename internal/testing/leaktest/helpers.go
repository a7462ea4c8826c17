// Package leaktest checks that background components stop their goroutines.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

const (
	settleDelay  = 10 * time.Millisecond
	pollInterval = 10 * time.Millisecond
	// DefaultTimeout is how long Check waits for goroutines to exit
	DefaultTimeout = 2 * time.Second
	maxStackDump   = 1 << 16
)

// GoroutineChecker compares the goroutine count against a baseline
type GoroutineChecker struct {
	t       testing.TB
	before  int
	timeout time.Duration
}

// NewGoroutineChecker records the current goroutine count as the baseline
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()

	runtime.Gosched()
	time.Sleep(settleDelay)

	return &GoroutineChecker{
		t:       t,
		before:  runtime.NumGoroutine(),
		timeout: DefaultTimeout,
	}
}

// WithTimeout changes how long Check waits
func (g *GoroutineChecker) WithTimeout(d time.Duration) *GoroutineChecker {
	g.timeout = d
	return g
}

// Check waits until at most tolerance goroutines above the baseline remain.
// On timeout it fails the test with a dump of every goroutine stack.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	if n, ok := g.settled(tolerance); !ok {
		buf := make([]byte, maxStackDump)
		buf = buf[:runtime.Stack(buf, true)]
		g.t.Errorf("goroutine leak: before=%d after=%d tolerance=%d\n%s",
			g.before, n, tolerance, buf)
	}
}

func (g *GoroutineChecker) settled(tolerance int) (int, bool) {
	deadline := time.Now().Add(g.timeout)
	for {
		runtime.Gosched()
		n := runtime.NumGoroutine()
		if n-g.before <= tolerance {
			return n, true
		}
		if time.Now().After(deadline) {
			return n, false
		}
		time.Sleep(pollInterval)
	}
}
