package report

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"cdnsim/internal/synth"
)

// Metric identifies a plottable dataset column.
type Metric string

const (
	MetricRTT        Metric = "rtt"
	MetricTTFB       Metric = "ttfb"
	MetricLoss       Metric = "loss"
	MetricThroughput Metric = "throughput"
)

// ParseMetric maps a user-supplied metric name to a Metric.
func ParseMetric(name string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(name)))
	switch m {
	case MetricRTT, MetricTTFB, MetricLoss, MetricThroughput:
		return m, nil
	}
	return "", fmt.Errorf("unknown metric %q (want rtt, ttfb, loss, or throughput)", name)
}

func (m Metric) axisLabel() string {
	switch m {
	case MetricRTT:
		return "Round-Trip Time (ms)"
	case MetricTTFB:
		return "Time to First Byte (ms)"
	case MetricLoss:
		return "Packet Loss Fraction"
	case MetricThroughput:
		return "Throughput (Mbps)"
	}
	return string(m)
}

func (m Metric) shortLabel() string {
	switch m {
	case MetricRTT:
		return "RTT"
	case MetricTTFB:
		return "TTFB"
	case MetricLoss:
		return "Loss"
	case MetricThroughput:
		return "Throughput"
	}
	return string(m)
}

func (m Metric) values(ds synth.Dataset) []float64 {
	switch m {
	case MetricRTT:
		return ds.RTTs()
	case MetricTTFB:
		return ds.TTFBs()
	case MetricLoss:
		return ds.Losses()
	case MetricThroughput:
		return ds.Throughputs()
	}
	return nil
}

// pointStyle draws dots only: no connecting stroke, half-transparent
// fill so dense regions read darker.
func pointStyle() chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    4,
		DotColor:    drawing.Color{R: 31, G: 119, B: 180, A: 128},
	}
}

// ScatterPNG renders a scatter of y against x and returns the encoded
// PNG bytes.
func ScatterPNG(ds synth.Dataset, x, y Metric) ([]byte, error) {
	if ds.Len() == 0 {
		return nil, fmt.Errorf("cannot plot empty dataset")
	}

	ch := chart.Chart{
		Title:  fmt.Sprintf("%s vs. %s (Synthetic CDN Data)", x.shortLabel(), y.shortLabel()),
		Width:  1000,
		Height: 600,
		Background: chart.Style{
			Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{Name: x.axisLabel()},
		YAxis: chart.YAxis{Name: y.axisLabel()},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "samples",
				XValues: x.values(ds),
				YValues: y.values(ds),
				Style:   pointStyle(),
			},
		},
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render scatter plot: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveScatter renders the scatter plot and writes it to path.
func SaveScatter(path string, ds synth.Dataset, x, y Metric) error {
	png, err := ScatterPNG(ds, x, y)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return fmt.Errorf("write scatter plot %s: %w", path, err)
	}
	return nil
}
