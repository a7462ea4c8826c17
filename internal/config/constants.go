package config

import "time"

const (
	// Configuration file paths
	ConfigPathPricingRules = "configs/pricing/fees.json"
)

// Store backends
const (
	StoreBackendMemory   = "memory"
	StoreBackendSQLite   = "sqlite"
	StoreBackendPostgres = "postgres"
	StoreBackendRedis    = "redis"
)

// Price feeds
const (
	PriceFeedRandomWalk = "random_walk"
	PriceFeedOff        = "off"
)

// Defaults
const (
	DefaultEnvironment        = "dev"
	DefaultServiceName        = "storefront"
	DefaultVersion            = "dev"
	DefaultSQLitePath         = "data/storefront.db"
	DefaultCacheSize          = 512
	DefaultCacheTTL           = 10 * time.Minute
	DefaultSupportTimeout     = 15 * time.Second
	DefaultCurrency           = "EUR"
	DefaultPriceCheckInterval = 30 * time.Second
	DefaultWorkerCount        = 2
)
