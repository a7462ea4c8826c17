package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files (read/write for owner, read for group/others)
	LogFilePermission = 0666
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of log files to retain after cleanup
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStarting            = "Starting storefront"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgFailedCreateLogsDir = "failed to create logs directory"
	LogMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
)

// =============================================================================
// Storage
// =============================================================================

const (
	// RedisKeyPrefix namespaces partitions in a shared Redis
	RedisKeyPrefix = "storefront:"

	// StorageConnectTimeout bounds opening and migrating the backend
	StorageConnectTimeout = 15 * time.Second
)

const (
	LogMsgStorageReady         = "Storage backend ready"
	ErrMsgFailedOpenStorage    = "failed to open storage backend"
	ErrMsgUnknownStoreBackend  = "unknown store backend"
	LogMsgPricingRulesLoaded   = "Pricing rules loaded"
	LogMsgPricingRulesDefaults = "Pricing rules file not found, using built-in fees"
	LogMsgPricingRulesNotSaved = "Failed to write default pricing rules"
	ErrMsgFailedLoadPricing    = "failed to load pricing rules"
)

// =============================================================================
// Event System Configuration
// =============================================================================

const (
	// DeadLetterDirName is created inside the log directory
	DeadLetterDirName = "deadletter"
)

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized    = "Event system initialized"
	LogMsgFailedCreateDeadLetterDir = "failed to create dead-letter writer"
)

// Log messages for event handler registration
const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgSSEBridgeRegistered        = "SSE bridge registered"
	LogMsgBadgesRegistered           = "Badge counters registered"
	ErrMsgFailedRegisterMetrics      = "failed to register metrics collector"
)

// =============================================================================
// Background Work
// =============================================================================

const (
	// WorkerQueueSize is the pending job capacity of the price check pool
	WorkerQueueSize = 64
)

const (
	LogMsgPriceFeedDisabled = "Price feed disabled"
	LogMsgPriceFeedEnabled  = "Price feed enabled"
	LogMsgSupportDisabled   = "Support backend not configured, support routes disabled"
	LogMsgSupportEnabled    = "Support backend configured"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer     = "Shutting down server..."
	LogMsgShuttingDownBackground = "Stopping background work..."
	LogMsgServerStopped          = "Server stopped"
	LogMsgServerForcedShutdown   = "Server forced to shutdown"
	LogMsgStorageCloseFailed     = "Storage backend close failed"
	LogMsgDeadLetterCloseFailed  = "Dead-letter writer close failed"
)
