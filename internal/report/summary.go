// Package report computes descriptive statistics over synthetic
// datasets and renders them as text, HTML, and scatter plots.
package report

import (
	"math"
	"sort"

	"cdnsim/internal/synth"
)

// FieldSummary holds descriptive statistics for one metric column.
type FieldSummary struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Summary aggregates per-metric statistics plus the two diagnostics
// used to validate a generated dataset: the lossy-sample fraction and
// the RTT-throughput correlation (expected negative).
type Summary struct {
	RTT        FieldSummary
	TTFB       FieldSummary
	Loss       FieldSummary
	Throughput FieldSummary

	LossyCount        int
	LossyFraction     float64
	RTTThroughputCorr float64
}

// Summarize computes descriptive statistics over ds. The dataset is
// read-only to the reporter.
func Summarize(ds synth.Dataset) Summary {
	s := Summary{
		RTT:        summarizeField(ds.RTTs()),
		TTFB:       summarizeField(ds.TTFBs()),
		Loss:       summarizeField(ds.Losses()),
		Throughput: summarizeField(ds.Throughputs()),
	}
	for _, smp := range ds.Samples {
		if smp.Loss > 0 {
			s.LossyCount++
		}
	}
	if ds.Len() > 0 {
		s.LossyFraction = float64(s.LossyCount) / float64(ds.Len())
	}
	s.RTTThroughputCorr = Pearson(ds.RTTs(), ds.Throughputs())
	return s
}

func summarizeField(values []float64) FieldSummary {
	n := len(values)
	if n == 0 {
		return FieldSummary{}
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	var sqSum float64
	for _, v := range values {
		d := v - mean
		sqSum += d * d
	}
	stddev := 0.0
	if n > 1 {
		stddev = math.Sqrt(sqSum / float64(n-1))
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	return FieldSummary{
		Count:  n,
		Mean:   mean,
		StdDev: stddev,
		Min:    sorted[0],
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
		Max:    sorted[n-1],
	}
}

// quantile interpolates linearly between closest ranks of an already
// sorted slice.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Pearson returns the linear correlation coefficient of xs and ys.
// It returns 0 when either column has no variance or the lengths
// differ.
func Pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return 0
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}
