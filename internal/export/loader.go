package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cdnsim/internal/synth"
)

// ReadDataset loads a dataset previously exported as CSV or JSONL,
// picking the decoder by file extension.
func ReadDataset(path string) (synth.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return synth.Dataset{}, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return ReadCSV(f)
	case ".jsonl", ".ndjson":
		return ReadJSONL(f)
	default:
		return synth.Dataset{}, fmt.Errorf("unsupported dataset format %q (want .csv or .jsonl)", ext)
	}
}

// ReadCSV decodes exported CSV rows. The header must match the export
// column order exactly.
func ReadCSV(r io.Reader) (synth.Dataset, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return synth.Dataset{}, fmt.Errorf("read CSV header: %w", err)
	}
	if !headerMatches(header) {
		return synth.Dataset{}, fmt.Errorf("unexpected CSV header %v, want %v", header, csvHeader)
	}

	var ds synth.Dataset
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return synth.Dataset{}, fmt.Errorf("read CSV line %d: %w", line, err)
		}
		s, err := parseRecord(record)
		if err != nil {
			return synth.Dataset{}, fmt.Errorf("parse CSV line %d: %w", line, err)
		}
		ds.Samples = append(ds.Samples, s)
	}
	return ds, nil
}

func headerMatches(header []string) bool {
	if len(header) != len(csvHeader) {
		return false
	}
	for i, h := range header {
		if h != csvHeader[i] {
			return false
		}
	}
	return true
}

func parseRecord(record []string) (synth.Sample, error) {
	if len(record) != len(csvHeader) {
		return synth.Sample{}, fmt.Errorf("expected %d columns, got %d", len(csvHeader), len(record))
	}
	vals := make([]float64, len(record))
	for i, field := range record {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return synth.Sample{}, fmt.Errorf("column %s: %w", csvHeader[i], err)
		}
		vals[i] = v
	}
	return synth.Sample{
		RTTMs:          vals[0],
		TTFBMs:         vals[1],
		Loss:           vals[2],
		ThroughputMbps: vals[3],
		ServerDelayMs:  vals[1] - vals[0],
	}, nil
}

// ReadJSONL decodes exported JSONL rows.
func ReadJSONL(r io.Reader) (synth.Dataset, error) {
	dec := json.NewDecoder(r)
	var ds synth.Dataset
	for {
		var s synth.Sample
		if err := dec.Decode(&s); err != nil {
			if err == io.EOF {
				return ds, nil
			}
			return synth.Dataset{}, fmt.Errorf("decode JSONL row %d: %w", len(ds.Samples)+1, err)
		}
		// The server delay never leaves the process, so rebuild it
		// from the exported columns.
		s.ServerDelayMs = s.TTFBMs - s.RTTMs
		ds.Samples = append(ds.Samples, s)
	}
}
