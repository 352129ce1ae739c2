package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"cdnsim/internal/config"
	"cdnsim/internal/synth"
)

func TestStdoutWriterJSONFallback(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &StdoutWriter{out: buf, colorize: false}
	s := synth.Sample{RTTMs: 30, TTFBMs: 50, Loss: 0, ThroughputMbps: 80}
	if err := w.Write(s); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	out := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(out, "{") {
		t.Fatalf("expected JSON output, got %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes, got %q", out)
	}
}

func TestStdoutWriterColorized(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &StdoutWriter{out: buf, colorize: true, cfg: config.Default()}
	run := synth.RunInfo{ID: "run-1", Profile: "baseline", Seed: 42, Samples: 2, GeneratedAt: time.Unix(0, 0).UTC()}
	if err := w.WriteRunInfo(run); err != nil {
		t.Fatalf("write run info: %v", err)
	}
	lossy := synth.Sample{RTTMs: 30, TTFBMs: 50, Loss: 0.015, ThroughputMbps: 20}
	if err := w.Write(lossy); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Generation Parameters:") {
		t.Fatalf("overview not printed: %q", output)
	}
	if !strings.Contains(output, "run-1") || !strings.Contains(output, "baseline") {
		t.Fatalf("run info missing from overview: %q", output)
	}
	if !strings.Contains(output, "\x1b[") {
		t.Fatalf("expected color codes in output: %q", output)
	}
	if !strings.Contains(output, "lossy") {
		t.Fatalf("expected lossy marker: %q", output)
	}

	buf.Reset()
	if err := w.Write(synth.Sample{RTTMs: 10, TTFBMs: 15, ThroughputMbps: 90}); err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	if strings.Contains(buf.String(), "Generation Parameters:") {
		t.Fatalf("overview printed more than once")
	}
	if strings.Contains(buf.String(), "lossy") {
		t.Fatalf("clean sample must not carry lossy marker: %q", buf.String())
	}
}
