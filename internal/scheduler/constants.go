package scheduler

// Log messages
const (
	LogMsgJobScheduled = "Job scheduled"
	LogMsgJobCancelled = "Job cancelled"
	LogMsgTickSkipped  = "Worker queue full, skipping tick"
)
