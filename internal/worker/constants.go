package worker

import "time"

// DefaultJobTimeout bounds a single job run
const DefaultJobTimeout = 30 * time.Second

const (
	LogMsgWorkerJobFailed   = "Worker job failed"
	LogMsgWorkerJobPanicked = "Worker job panicked"

	LogMsgPriceCheckStarted   = "Price check started"
	LogMsgPriceCheckCompleted = "Price check completed"
	LogMsgQuoteFailed         = "Price quote failed"
	LogMsgRecordPriceFailed   = "Failed to record wishlist price"
)
