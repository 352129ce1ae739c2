package report

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"os"

	"cdnsim/internal/synth"
)

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Synthetic CDN Dataset Report</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
table { border-collapse: collapse; margin: 1rem 0; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.7rem; text-align: right; }
th:first-child, td:first-child { text-align: left; }
caption { text-align: left; font-weight: bold; padding-bottom: 0.3rem; }
.bad { color: #b00; font-weight: bold; }
img { max-width: 100%; border: 1px solid #ccc; margin-top: 1rem; }
</style>
</head>
<body>
<h1>Synthetic CDN Dataset Report</h1>
<table>
<caption>Run</caption>
<tr><th>Run ID</th><td>{{.Run.ID}}</td></tr>
<tr><th>Profile</th><td>{{.Run.Profile}}</td></tr>
<tr><th>Seed</th><td>{{.Run.Seed}}</td></tr>
<tr><th>Samples</th><td>{{.Run.Samples}}</td></tr>
<tr><th>Generated</th><td>{{.Run.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}</td></tr>
</table>
<table>
<caption>Metrics</caption>
<tr><th>Metric</th><th>Count</th><th>Mean</th><th>StdDev</th><th>Min</th><th>Q1</th><th>Median</th><th>Q3</th><th>Max</th></tr>
{{range .Rows}}<tr><td>{{.Label}}</td><td>{{.F.Count}}</td><td>{{printf "%.4f" .F.Mean}}</td><td>{{printf "%.4f" .F.StdDev}}</td><td>{{printf "%.4f" .F.Min}}</td><td>{{printf "%.4f" .F.Q1}}</td><td>{{printf "%.4f" .F.Median}}</td><td>{{printf "%.4f" .F.Q3}}</td><td>{{printf "%.4f" .F.Max}}</td></tr>
{{end}}</table>
<p>Lossy samples: {{.Summary.LossyCount}} ({{printf "%.1f" .LossyPercent}}%)</p>
<p>RTT-Throughput correlation:
{{if ge .Summary.RTTThroughputCorr 0.0}}<span class="bad">{{printf "%.3f" .Summary.RTTThroughputCorr}}</span>
{{else}}{{printf "%.3f" .Summary.RTTThroughputCorr}}{{end}}</p>
{{if .ScatterURL}}<img src="{{.ScatterURL}}" alt="scatter plot">{{end}}
</body>
</html>
`

var reportTmpl = template.Must(template.New("report").Parse(reportTemplate))

type htmlRow struct {
	Label string
	F     FieldSummary
}

type htmlData struct {
	Run        synth.RunInfo
	Summary    Summary
	Rows       []htmlRow
	ScatterURL template.URL
}

// LossyPercent is used by the template.
func (d htmlData) LossyPercent() float64 {
	return d.Summary.LossyFraction * 100
}

// WriteHTML renders a self-contained HTML report. A non-empty
// scatterPNG is inlined as a base64 data URI so the page has no
// external assets.
func WriteHTML(w io.Writer, s Summary, run synth.RunInfo, scatterPNG []byte) error {
	data := htmlData{
		Run:     run,
		Summary: s,
		Rows: []htmlRow{
			{Label: "RTT (ms)", F: s.RTT},
			{Label: "TTFB (ms)", F: s.TTFB},
			{Label: "Loss", F: s.Loss},
			{Label: "Throughput (Mbps)", F: s.Throughput},
		},
	}
	if len(scatterPNG) > 0 {
		data.ScatterURL = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(scatterPNG))
	}
	if err := reportTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render HTML report: %w", err)
	}
	return nil
}

// SaveHTML writes the HTML report to path.
func SaveHTML(path string, s Summary, run synth.RunInfo, scatterPNG []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create HTML report %s: %w", path, err)
	}
	if err := WriteHTML(f, s, run, scatterPNG); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close HTML report %s: %w", path, err)
	}
	return nil
}
