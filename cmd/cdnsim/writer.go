package main

import (
	"fmt"
	"os"

	"cdnsim/internal/config"
	"cdnsim/internal/export"
	"cdnsim/internal/synth"
)

// newWriters assembles the export fan-out from flags and environment.
// A file writer is added when outPath is set, a colorized stdout writer
// when print is set, and a GreptimeDB writer when GREPTIMEDB_ENDPOINT
// points at an ingest endpoint. With nothing selected, samples go to
// STDOUT as JSON lines.
func newWriters(cfg config.GenerationConfig, run synth.RunInfo, print bool, outPath, format, database string) ([]export.SampleWriter, error) {
	var ws []export.SampleWriter

	if outPath != "" {
		switch format {
		case "csv":
			w, err := export.NewCSVFileWriter(outPath)
			if err != nil {
				return nil, err
			}
			ws = append(ws, w)
		case "jsonl":
			w, err := export.NewFileWriter(outPath)
			if err != nil {
				return nil, err
			}
			ws = append(ws, w)
		default:
			return nil, fmt.Errorf("unknown format %q (want csv or jsonl)", format)
		}
	}

	if print {
		ws = append(ws, export.NewStdoutWriter(cfg, export.ColorEnabled(os.Stdout)))
	}

	if endpoint := os.Getenv("GREPTIMEDB_ENDPOINT"); endpoint != "" {
		w, err := export.NewGreptimeWriter(endpoint, database, run)
		if err != nil {
			return nil, err
		}
		ws = append(ws, w)
	}

	if len(ws) == 0 {
		ws = append(ws, export.NewStdoutWriter(cfg, false))
	}
	return ws, nil
}
