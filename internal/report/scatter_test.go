package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"cdnsim/internal/config"
	"cdnsim/internal/synth"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func generatedDataset(t *testing.T, samples int) synth.Dataset {
	t.Helper()
	cfg := config.Default()
	cfg.Samples = samples
	gen, err := synth.NewGenerator(cfg, 1)
	if err != nil {
		t.Fatalf("unexpected generator error: %v", err)
	}
	return gen.Generate()
}

func TestParseMetric(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Metric
		wantErr bool
	}{
		{name: "rtt", input: "rtt", want: MetricRTT},
		{name: "uppercase", input: "Throughput", want: MetricThroughput},
		{name: "padded", input: " loss ", want: MetricLoss},
		{name: "ttfb", input: "ttfb", want: MetricTTFB},
		{name: "unknown", input: "jitter", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMetric(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got metric %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected metric %q, got %q", tt.want, got)
			}
		})
	}
}

func TestScatterPNG(t *testing.T) {
	ds := generatedDataset(t, 50)

	png, err := ScatterPNG(ds, MetricRTT, MetricThroughput)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(png) < len(pngMagic) {
		t.Fatalf("expected PNG payload, got %d bytes", len(png))
	}
	if !bytes.Equal(png[:len(pngMagic)], pngMagic) {
		t.Errorf("expected PNG magic bytes, got %x", png[:len(pngMagic)])
	}
}

func TestScatterPNGEmptyDataset(t *testing.T) {
	if _, err := ScatterPNG(synth.Dataset{}, MetricRTT, MetricThroughput); err == nil {
		t.Fatal("expected error for empty dataset")
	}
}

func TestSaveScatter(t *testing.T) {
	ds := generatedDataset(t, 50)
	path := filepath.Join(t.TempDir(), "scatter.png")

	if err := SaveScatter(path, ds, MetricTTFB, MetricThroughput); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected scatter file written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected non-empty scatter file")
	}
}
