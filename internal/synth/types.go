// Sample and run record types with export tags
package synth

import (
	"os"
	"time"
)

// Sample is one synthetic CDN performance measurement. ServerDelayMs is
// consumed to derive TTFBMs and never exported.
type Sample struct {
	RTTMs          float64 `json:"rtt_ms"`
	TTFBMs         float64 `json:"ttfb_ms"`
	Loss           float64 `json:"loss"`
	ThroughputMbps float64 `json:"throughput_mbps"`
	ServerDelayMs  float64 `json:"-"`
}

// SampleTableName holds the table name used when writing to GreptimeDB.
// It defaults to "cdn_synthetic_samples" but can be overridden via the
// GREPTIMEDB_TABLE environment variable.
var SampleTableName = func() string {
	if env := os.Getenv("GREPTIMEDB_TABLE"); env != "" {
		return env
	}
	return "cdn_synthetic_samples"
}()

func (Sample) TableName() string {
	return SampleTableName
}

// Dataset is an ordered sequence of samples. Order is generation order
// and carries no meaning beyond indexing. A dataset is never mutated
// after Generate returns it.
type Dataset struct {
	Samples []Sample
}

// Len returns the number of samples.
func (d Dataset) Len() int { return len(d.Samples) }

func (d Dataset) column(f func(Sample) float64) []float64 {
	out := make([]float64, len(d.Samples))
	for i, s := range d.Samples {
		out[i] = f(s)
	}
	return out
}

// RTTs returns the RTT column in milliseconds.
func (d Dataset) RTTs() []float64 {
	return d.column(func(s Sample) float64 { return s.RTTMs })
}

// TTFBs returns the TTFB column in milliseconds.
func (d Dataset) TTFBs() []float64 {
	return d.column(func(s Sample) float64 { return s.TTFBMs })
}

// Losses returns the loss column.
func (d Dataset) Losses() []float64 {
	return d.column(func(s Sample) float64 { return s.Loss })
}

// Throughputs returns the throughput column in Mbps.
func (d Dataset) Throughputs() []float64 {
	return d.column(func(s Sample) float64 { return s.ThroughputMbps })
}

// RunInfo is the run-level record for one generation run.
type RunInfo struct {
	ID          string    `json:"run_id"`
	Profile     string    `json:"profile"`
	Seed        int64     `json:"seed"`
	Samples     int       `json:"samples"`
	GeneratedAt time.Time `json:"generated_at"`
}
