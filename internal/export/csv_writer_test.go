package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cdnsim/internal/synth"
)

func TestCSVWriterHeaderAndRows(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewCSVWriter(buf)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}
	samples := []synth.Sample{
		{RTTMs: 30.5, TTFBMs: 52.25, Loss: 0, ThroughputMbps: 80.125},
		{RTTMs: 12, TTFBMs: 20, Loss: 0.0125, ThroughputMbps: 44.5},
	}
	if err := w.WriteBatch(samples); err != nil {
		t.Fatalf("write batch: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "RTT,TTFB,Loss,Throughput" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != "30.5,52.25,0,80.125" {
		t.Fatalf("unexpected first row %q", lines[1])
	}
	if lines[2] != "12,20,0.0125,44.5" {
		t.Fatalf("unexpected second row %q", lines[2])
	}
}

func TestCSVFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.csv")
	w, err := NewCSVFileWriter(path)
	if err != nil {
		t.Fatalf("NewCSVFileWriter: %v", err)
	}
	if err := w.Write(synth.Sample{RTTMs: 1, TTFBMs: 2, Loss: 0, ThroughputMbps: 3}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !strings.HasPrefix(string(data), "RTT,TTFB,Loss,Throughput\n") {
		t.Fatalf("missing header in %q", string(data))
	}
}
