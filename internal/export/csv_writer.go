package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"cdnsim/internal/synth"
)

// csvHeader is the fixed column order of exported CSV files.
var csvHeader = []string{"RTT", "TTFB", "Loss", "Throughput"}

// CSVWriter writes samples as CSV rows behind a fixed header.
type CSVWriter struct {
	f *os.File
	w *csv.Writer
}

// NewCSVWriter wraps w and emits the header row immediately.
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write CSV header: %w", err)
	}
	return &CSVWriter{w: cw}, nil
}

// NewCSVFileWriter creates path and emits the header row.
func NewCSVFileWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create CSV file %s: %w", path, err)
	}
	cw, err := NewCSVWriter(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	cw.f = f
	return cw, nil
}

// Write appends a single sample row.
func (w *CSVWriter) Write(s synth.Sample) error {
	return w.w.Write([]string{
		formatFloat(s.RTTMs),
		formatFloat(s.TTFBMs),
		formatFloat(s.Loss),
		formatFloat(s.ThroughputMbps),
	})
}

// WriteBatch appends multiple sample rows.
func (w *CSVWriter) WriteBatch(samples []synth.Sample) error {
	for _, s := range samples {
		if err := w.Write(s); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes buffered rows and closes the underlying file, if any.
func (w *CSVWriter) Close() error {
	w.w.Flush()
	err := w.w.Error()
	if w.f != nil {
		if e := w.f.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// formatFloat uses the shortest decimal form that round-trips, so
// rereading an exported file reproduces the values bit for bit.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
