package store

// CurrentSchemaVersion is written into every envelope. Version 0 is the
// legacy layout: a bare JSON array under the partition key.
const CurrentSchemaVersion = 1

// LegacySchemaVersion marks data read from a bare array
const LegacySchemaVersion = 0

// Log messages
const (
	LogMsgPartitionCorrupt  = "Persisted partition is unreadable, treating as empty"
	LogMsgEntityDropped     = "Dropping persisted entity that failed validation"
	LogMsgLegacyPartition   = "Migrating legacy partition layout"
	LogMsgPartitionWritten  = "Partition written"
	LogMsgPartitionReadFail = "Backend read failed, treating partition as empty"
)
