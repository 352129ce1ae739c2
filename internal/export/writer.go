// Package export fans generated samples out to CSV, JSONL, stdout,
// GreptimeDB, and TUI sinks.
package export

import "cdnsim/internal/synth"

// SampleWriter handles generated samples.
type SampleWriter interface {
	Write(synth.Sample) error
}

// Optional: writers can also support batch mode.
type batchSampleWriter interface {
	WriteBatch([]synth.Sample) error
}

// RunInfoWriter is implemented by sinks that record run metadata ahead
// of the samples.
type RunInfoWriter interface {
	WriteRunInfo(synth.RunInfo) error
}
