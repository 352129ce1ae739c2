package report

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteText renders the summary as an aligned table followed by the
// dataset diagnostics.
func WriteText(w io.Writer, s Summary) error {
	if _, err := fmt.Fprintln(w, "Synthetic CDN Dataset Summary"); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tCOUNT\tMEAN\tSTDDEV\tMIN\tQ1\tMEDIAN\tQ3\tMAX")
	writeFieldRow(tw, "RTT (ms)", s.RTT)
	writeFieldRow(tw, "TTFB (ms)", s.TTFB)
	writeFieldRow(tw, "Loss", s.Loss)
	writeFieldRow(tw, "Throughput (Mbps)", s.Throughput)
	if err := tw.Flush(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\nLossy samples: %d of %d (%.1f%%)\n",
		s.LossyCount, s.RTT.Count, s.LossyFraction*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "RTT-Throughput correlation: %.3f\n", s.RTTThroughputCorr); err != nil {
		return err
	}
	if s.RTTThroughputCorr >= 0 && s.RTT.Count > 1 {
		if _, err := fmt.Fprintln(w, "warning: correlation is not negative; higher latency should depress throughput"); err != nil {
			return err
		}
	}
	return nil
}

func writeFieldRow(w io.Writer, label string, f FieldSummary) {
	fmt.Fprintf(w, "%s\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
		label, f.Count, f.Mean, f.StdDev, f.Min, f.Q1, f.Median, f.Q3, f.Max)
}
