// Writer implementation printing samples to STDOUT
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"

	"golang.org/x/term"

	"cdnsim/internal/config"
	"cdnsim/internal/synth"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

func colorWhite() string { return "\x1b[37m" }

// ColorEnabled reports whether colorized output makes sense for f.
// NO_COLOR always wins.
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// StdoutWriter prints samples to STDOUT, colorized with a parameter
// overview for terminals and as plain JSON lines otherwise.
type StdoutWriter struct {
	out      io.Writer
	colorize bool
	cfg      config.GenerationConfig
	run      synth.RunInfo
	once     sync.Once
	index    int
}

// NewStdoutWriter creates a StdoutWriter writing to os.Stdout.
func NewStdoutWriter(cfg config.GenerationConfig, colorize bool) *StdoutWriter {
	return &StdoutWriter{out: os.Stdout, colorize: colorize, cfg: cfg}
}

// WriteRunInfo records run metadata for the parameter overview.
func (w *StdoutWriter) WriteRunInfo(run synth.RunInfo) error {
	w.run = run
	if w.colorize {
		w.once.Do(w.printOverview)
	}
	return nil
}

func (w *StdoutWriter) printOverview() {
	fmt.Fprintln(w.out, "Generation Parameters:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Run ID:\t%s\n", w.run.ID)
	fmt.Fprintf(tw, "Profile:\t%s\n", w.run.Profile)
	fmt.Fprintf(tw, "Seed:\t%d\n", w.run.Seed)
	fmt.Fprintf(tw, "Samples:\t%d\n", w.cfg.Samples)
	fmt.Fprintf(tw, "RTT (mean_log/sigma_log):\t%.4f/%.4f\n", w.cfg.RTT.MeanLog, w.cfg.RTT.SigmaLog)
	fmt.Fprintf(tw, "Delay (mean_log/sigma_log):\t%.4f/%.4f\n", w.cfg.ServerDelay.MeanLog, w.cfg.ServerDelay.SigmaLog)
	fmt.Fprintf(tw, "Loss Probability:\t%.2f\n", w.cfg.Loss.Probability)
	fmt.Fprintf(tw, "Loss Bounds:\t[%.4f, %.4f]\n", w.cfg.Loss.Min, w.cfg.Loss.Max)
	fmt.Fprintf(tw, "Loss Impact Weight:\t%.0f\n", w.cfg.Loss.ImpactWeight)
	fmt.Fprintf(tw, "Throughput Constant:\t%.0f\n", w.cfg.Throughput.Constant)
	fmt.Fprintf(tw, "Throughput Noise:\t[%.2f, %.2f]\n", w.cfg.Throughput.NoiseLow, w.cfg.Throughput.NoiseHigh)
	tw.Flush()
	fmt.Fprintln(w.out)
}

// Write outputs a single sample.
func (w *StdoutWriter) Write(s synth.Sample) error {
	idx := w.index
	w.index++

	if !w.colorize {
		data, _ := json.Marshal(s)
		fmt.Fprintln(w.out, string(data))
		return nil
	}

	w.once.Do(w.printOverview)
	fmt.Fprintln(w.out, colorSampleLine(idx, s))
	return nil
}

// WriteBatch outputs multiple samples.
func (w *StdoutWriter) WriteBatch(samples []synth.Sample) error {
	for _, s := range samples {
		_ = w.Write(s)
	}
	return nil
}

func colorSampleLine(idx int, s synth.Sample) string {
	lossColor := colorGreen
	if s.Loss > 0 {
		lossColor = colorRed
	}
	line := fmt.Sprintf("%s#%04d%s %srtt=%.3f%s %sttfb=%.3f%s %sloss=%.4f%s %sthr=%.3f%s",
		colorGray, idx, colorReset,
		colorGreen, s.RTTMs, colorReset,
		colorYellow, s.TTFBMs, colorReset,
		lossColor, s.Loss, colorReset,
		colorCyan, s.ThroughputMbps, colorReset,
	)
	if s.Loss > 0 {
		line += fmt.Sprintf(" %slossy%s", colorMagenta, colorReset)
	}
	return line
}
