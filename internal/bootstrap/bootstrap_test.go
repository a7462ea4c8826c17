package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/storefront/internal/config"
	"github.com/osse101/storefront/internal/pricing"
	"github.com/osse101/storefront/internal/testing/leaktest"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Port:               0,
		Environment:        "test",
		LogDir:             filepath.Join(dir, "logs"),
		StoreBackend:       config.StoreBackendSQLite,
		SQLitePath:         filepath.Join(dir, "data", "storefront.db"),
		CacheSize:          16,
		CacheTTL:           0,
		JWTSecret:          "secret",
		PricingRulesPath:   filepath.Join(dir, "fees.json"),
		Currency:           "EUR",
		PriceFeed:          config.PriceFeedOff,
		PriceCheckInterval: time.Second,
		WorkerCount:        1,
	}
}

func TestBuild_WiresAndShutsDown(t *testing.T) {
	checker := leaktest.NewGoroutineChecker(t)
	cfg := testConfig(t)

	app, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, app.Support, "support is off without a backend URL")
	assert.Nil(t, app.Realtime)

	rec := httptest.NewRecorder()
	app.Server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	app.Server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/badges", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cart":0,"wishlist":0}`, rec.Body.String())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	app.Shutdown(ctx)

	_, err = os.Stat(cfg.SQLitePath)
	assert.NoError(t, err, "sqlite file created")
	checker.Check(2)
}

func TestBuild_UnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.StoreBackend = "floppy"

	_, err := Build(context.Background(), cfg)
	assert.ErrorContains(t, err, ErrMsgUnknownStoreBackend)
}

func TestLoadPricingRules(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "pricing", "fees.json")
	rules, err := LoadPricingRules(missing)
	require.NoError(t, err)
	assert.Equal(t, pricing.DefaultRules(), rules)

	// defaults are written out and load back unchanged
	reloaded, err := LoadPricingRules(missing)
	require.NoError(t, err)
	assert.True(t, rules.ServiceFeePerLine.Equal(reloaded.ServiceFeePerLine))
	assert.True(t, rules.ConsolidationFee.Equal(reloaded.ConsolidationFee))
	assert.Equal(t, rules.Version, reloaded.Version)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"service_fee_per_line": "lots"}`), 0o644))
	_, err = LoadPricingRules(bad)
	assert.ErrorContains(t, err, ErrMsgFailedLoadPricing)
}

func TestCleanupLogs_KeepsNewest(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < LogFileRetentionCount+3; i++ {
		name := filepath.Join(dir, fmt.Sprintf("session_%03d%s", i, LogFileExtension))
		require.NoError(t, os.WriteFile(name, nil, 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))

	cleanupLogs(dir)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var logs []string
	for _, e := range entries {
		if filepath.Ext(e.Name()) == LogFileExtension {
			logs = append(logs, e.Name())
		}
	}
	assert.Len(t, logs, LogFileRetentionCount)
	assert.NotContains(t, logs, "session_000.log")
	assert.Len(t, entries, LogFileRetentionCount+1)
}
