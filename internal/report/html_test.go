package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cdnsim/internal/synth"
)

func testRunInfo() synth.RunInfo {
	return synth.RunInfo{
		ID:          "run-7f3a",
		Profile:     "baseline",
		Seed:        42,
		Samples:     3,
		GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHTML(&buf, Summarize(sampleDataset()), testRunInfo(), []byte("fake-png"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"run-7f3a",
		"baseline",
		"RTT (ms)",
		"Throughput (Mbps)",
		"data:image/png;base64,",
		"2025-06-01",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected report to contain %q", want)
		}
	}
}

func TestWriteHTMLWithoutScatter(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHTML(&buf, Summarize(sampleDataset()), testRunInfo(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "data:image/png") {
		t.Error("expected no inline image when scatter bytes are absent")
	}
}

func TestSaveHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")

	err := SaveHTML(path, Summarize(sampleDataset()), testRunInfo(), []byte("fake-png"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected report file written: %v", err)
	}
	if !strings.Contains(string(data), "<!DOCTYPE html>") {
		t.Error("expected HTML document in report file")
	}
}
