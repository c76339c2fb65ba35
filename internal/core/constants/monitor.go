package constants

import "time"

const (
	// DefaultCapacity is the number of samples retained per channel.
	DefaultCapacity = 100000

	// MinFields is the minimum number of numeric fields in an accepted line.
	MinFields = 5
	// SampleFields is the number of positional fields consumed from a line.
	SampleFields = 9
	// FieldDelimiter separates fields within a telemetry line.
	FieldDelimiter = ";"

	// ReferenceStep is the pressure adjustment applied per key press, in pascal.
	ReferenceStep = 10.0

	// Recorder batching
	RecorderBatchSize     = 256
	RecorderFlushInterval = 2 * time.Second

	// Stream hub buffering
	StreamClientBuffer = 64
	StreamWriteTimeout = 5 * time.Second

	// SparklineWidth is the number of points drawn in the dashboard altitude trace.
	SparklineWidth = 48
)
