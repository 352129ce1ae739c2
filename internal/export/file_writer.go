package export

import (
	"encoding/json"
	"fmt"
	"os"

	"cdnsim/internal/synth"
)

// FileWriter writes samples to a JSONL file, one JSON object per line.
// Run metadata stays out of the stream so the file reads back as pure
// samples.
type FileWriter struct {
	f   *os.File
	enc *json.Encoder
}

// NewFileWriter creates a FileWriter targeting path.
func NewFileWriter(path string) (*FileWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create JSONL file %s: %w", path, err)
	}
	return &FileWriter{f: f, enc: json.NewEncoder(f)}, nil
}

// Write logs a single sample.
func (w *FileWriter) Write(s synth.Sample) error {
	return w.enc.Encode(s)
}

// WriteBatch logs multiple samples.
func (w *FileWriter) WriteBatch(samples []synth.Sample) error {
	for _, s := range samples {
		if err := w.Write(s); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying file.
func (w *FileWriter) Close() error {
	return w.f.Close()
}
