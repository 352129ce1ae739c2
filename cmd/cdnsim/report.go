package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"cdnsim/internal/export"
	"cdnsim/internal/logging"
	"cdnsim/internal/report"
	"cdnsim/internal/synth"
)

var (
	reportInput   string
	reportScatter string
	reportHTML    string
	reportX       string
	reportY       string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize an exported dataset",
	Long:  "report reads a CSV or JSONL dataset, prints summary statistics, and optionally renders scatter plots and an HTML report.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.FromContext(cmd.Context())

		ds, err := export.ReadDataset(reportInput)
		if err != nil {
			return err
		}
		summary := report.Summarize(ds)

		if err := report.WriteText(os.Stdout, summary); err != nil {
			return err
		}

		var png []byte
		if reportScatter != "" || reportHTML != "" {
			x, err := report.ParseMetric(reportX)
			if err != nil {
				return err
			}
			y, err := report.ParseMetric(reportY)
			if err != nil {
				return err
			}
			png, err = report.ScatterPNG(ds, x, y)
			if err != nil {
				return err
			}
		}
		if reportScatter != "" {
			if err := os.WriteFile(reportScatter, png, 0o644); err != nil {
				return err
			}
			log.Info("scatter plot written", "path", reportScatter)
		}
		if reportHTML != "" {
			run := runInfoFromFile(reportInput, ds.Len())
			if err := report.SaveHTML(reportHTML, summary, run, png); err != nil {
				return err
			}
			log.Info("html report written", "path", reportHTML)
		}
		return nil
	},
}

// runInfoFromFile reconstructs minimal run metadata for datasets loaded
// from disk, where the original run record is no longer available.
func runInfoFromFile(path string, samples int) synth.RunInfo {
	run := synth.RunInfo{
		ID:      strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Profile: "imported",
		Samples: samples,
	}
	if info, err := os.Stat(path); err == nil {
		run.GeneratedAt = info.ModTime().UTC()
	}
	return run
}

func init() {
	reportCmd.Flags().StringVar(&reportInput, "input", "", "Path to a CSV or JSONL dataset")
	reportCmd.Flags().StringVar(&reportScatter, "scatter", "", "Write a scatter plot PNG to this path")
	reportCmd.Flags().StringVar(&reportHTML, "html", "", "Write an HTML report to this path")
	reportCmd.Flags().StringVar(&reportX, "x", "rtt", "Scatter x-axis metric: rtt, ttfb, loss, or throughput")
	reportCmd.Flags().StringVar(&reportY, "y", "throughput", "Scatter y-axis metric: rtt, ttfb, loss, or throughput")
	reportCmd.MarkFlagRequired("input")
}
