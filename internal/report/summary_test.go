package report

import (
	"math"
	"testing"

	"cdnsim/internal/config"
	"cdnsim/internal/synth"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestSummarizeKnownValues(t *testing.T) {
	ds := synth.Dataset{Samples: []synth.Sample{
		{RTTMs: 1, TTFBMs: 2, Loss: 0, ThroughputMbps: 40},
		{RTTMs: 2, TTFBMs: 4, Loss: 0, ThroughputMbps: 30},
		{RTTMs: 3, TTFBMs: 6, Loss: 0.01, ThroughputMbps: 20},
		{RTTMs: 4, TTFBMs: 8, Loss: 0, ThroughputMbps: 10},
	}}

	s := Summarize(ds)

	if s.RTT.Count != 4 {
		t.Fatalf("expected RTT count 4, got %d", s.RTT.Count)
	}
	if !almostEqual(s.RTT.Mean, 2.5, 1e-12) {
		t.Errorf("expected RTT mean 2.5, got %v", s.RTT.Mean)
	}
	if !almostEqual(s.RTT.StdDev, math.Sqrt(5.0/3.0), 1e-12) {
		t.Errorf("expected RTT stddev %v, got %v", math.Sqrt(5.0/3.0), s.RTT.StdDev)
	}
	if s.RTT.Min != 1 || s.RTT.Max != 4 {
		t.Errorf("expected RTT min/max 1/4, got %v/%v", s.RTT.Min, s.RTT.Max)
	}
	if !almostEqual(s.RTT.Q1, 1.75, 1e-12) {
		t.Errorf("expected RTT Q1 1.75, got %v", s.RTT.Q1)
	}
	if !almostEqual(s.RTT.Median, 2.5, 1e-12) {
		t.Errorf("expected RTT median 2.5, got %v", s.RTT.Median)
	}
	if !almostEqual(s.RTT.Q3, 3.25, 1e-12) {
		t.Errorf("expected RTT Q3 3.25, got %v", s.RTT.Q3)
	}

	if s.LossyCount != 1 {
		t.Errorf("expected 1 lossy sample, got %d", s.LossyCount)
	}
	if !almostEqual(s.LossyFraction, 0.25, 1e-12) {
		t.Errorf("expected lossy fraction 0.25, got %v", s.LossyFraction)
	}
	if !almostEqual(s.RTTThroughputCorr, -1, 1e-12) {
		t.Errorf("expected perfect negative correlation, got %v", s.RTTThroughputCorr)
	}
}

func TestSummarizeEmptyDataset(t *testing.T) {
	s := Summarize(synth.Dataset{})
	if s.RTT.Count != 0 || s.LossyCount != 0 {
		t.Errorf("expected zero counts, got %+v", s)
	}
	if s.RTTThroughputCorr != 0 {
		t.Errorf("expected zero correlation for empty dataset, got %v", s.RTTThroughputCorr)
	}
}

func TestPearson(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		ys   []float64
		want float64
	}{
		{name: "perfect positive", xs: []float64{1, 2, 3}, ys: []float64{2, 4, 6}, want: 1},
		{name: "perfect negative", xs: []float64{1, 2, 3}, ys: []float64{6, 4, 2}, want: -1},
		{name: "no variance", xs: []float64{1, 2, 3}, ys: []float64{5, 5, 5}, want: 0},
		{name: "length mismatch", xs: []float64{1, 2, 3}, ys: []float64{1, 2}, want: 0},
		{name: "empty", xs: nil, ys: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pearson(tt.xs, tt.ys)
			if !almostEqual(got, tt.want, 1e-12) {
				t.Errorf("expected correlation %v, got %v", tt.want, got)
			}
		})
	}
}

// TestSummarizeDefaultRun checks the reference run: default parameters
// with seed 42 must yield 500 samples, exactly 75 of them lossy, a
// respected throughput floor, and a negative RTT-throughput
// correlation.
func TestSummarizeDefaultRun(t *testing.T) {
	gen, err := synth.NewGenerator(config.Default(), synth.DefaultSeed)
	if err != nil {
		t.Fatalf("unexpected generator error: %v", err)
	}

	s := Summarize(gen.Generate())

	if s.RTT.Count != 500 {
		t.Fatalf("expected 500 samples, got %d", s.RTT.Count)
	}
	if s.LossyCount != 75 {
		t.Errorf("expected exactly 75 lossy samples, got %d", s.LossyCount)
	}
	if !almostEqual(s.LossyFraction, 0.15, 1e-12) {
		t.Errorf("expected lossy fraction 0.15, got %v", s.LossyFraction)
	}
	if s.RTTThroughputCorr >= 0 {
		t.Errorf("expected negative RTT-throughput correlation, got %v", s.RTTThroughputCorr)
	}
	if s.Throughput.Min < synth.MinThroughputMbps {
		t.Errorf("expected throughput floor %v, got min %v", synth.MinThroughputMbps, s.Throughput.Min)
	}
	if s.TTFB.Mean <= s.RTT.Mean {
		t.Errorf("expected mean TTFB above mean RTT, got %v <= %v", s.TTFB.Mean, s.RTT.Mean)
	}
	if s.Loss.Max > 0.02 {
		t.Errorf("expected loss magnitudes within default bounds, got max %v", s.Loss.Max)
	}
}
