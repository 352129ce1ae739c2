package export

import (
	"io"

	"cdnsim/internal/synth"
)

// MultiWriter fans samples out to multiple writers.
type MultiWriter struct {
	writers []SampleWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(ws ...SampleWriter) *MultiWriter {
	return &MultiWriter{writers: ws}
}

// Write sends a sample to all writers.
func (mw *MultiWriter) Write(s synth.Sample) error {
	for _, w := range mw.writers {
		if err := w.Write(s); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch sends multiple samples to all writers, using batch mode
// where supported.
func (mw *MultiWriter) WriteBatch(samples []synth.Sample) error {
	for _, w := range mw.writers {
		if bw, ok := w.(batchSampleWriter); ok {
			if err := bw.WriteBatch(samples); err != nil {
				return err
			}
			continue
		}
		for _, s := range samples {
			if err := w.Write(s); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteRunInfo forwards run metadata to writers that record it.
func (mw *MultiWriter) WriteRunInfo(run synth.RunInfo) error {
	for _, w := range mw.writers {
		if rw, ok := w.(RunInfoWriter); ok {
			if err := rw.WriteRunInfo(run); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close releases writers that hold resources.
func (mw *MultiWriter) Close() error {
	var err error
	for _, w := range mw.writers {
		if c, ok := w.(io.Closer); ok {
			if e := c.Close(); e != nil && err == nil {
				err = e
			}
		}
	}
	return err
}
