package export

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"cdnsim/internal/synth"
)

// greptimeClient abstracts the ingester client for testing.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeWriter ships sample batches to GreptimeDB via the ingester
// client. Samples carry no timestamps of their own, so rows get a
// synthetic time index advancing one millisecond per sample from the
// run start.
type GreptimeWriter struct {
	client greptimeClient
	run    synth.RunInfo
	log    *slog.Logger
}

// NewGreptimeWriter connects to a GreptimeDB endpoint given as
// host:port.
func NewGreptimeWriter(endpoint, database string, run synth.RunInfo) (*GreptimeWriter, error) {
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse GreptimeDB endpoint %q: %w", endpoint, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("parse GreptimeDB port %q: %w", portStr, err)
	}

	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	cli, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to GreptimeDB: %w", err)
	}
	return &GreptimeWriter{client: cli, run: run, log: slog.Default()}, nil
}

// Write inserts a single sample.
func (w *GreptimeWriter) Write(s synth.Sample) error {
	return w.WriteBatch([]synth.Sample{s})
}

// WriteBatch inserts samples in one ingest request.
func (w *GreptimeWriter) WriteBatch(samples []synth.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	tbl, err := sampleTable()
	if err != nil {
		return err
	}

	start := w.run.GeneratedAt
	if start.IsZero() {
		start = time.Now().UTC()
	}
	for i, s := range samples {
		ts := start.Add(time.Duration(i) * time.Millisecond)
		if err := tbl.AddRow(w.run.ID, w.run.Profile, s.RTTMs, s.TTFBMs, s.Loss, s.ThroughputMbps, ts); err != nil {
			return fmt.Errorf("append sample %d: %w", i, err)
		}
	}

	resp, err := w.client.Write(context.Background(), tbl)
	if err != nil {
		return fmt.Errorf("write samples to GreptimeDB: %w", err)
	}
	affected := resp.GetAffectedRows().GetValue()
	if int(affected) != len(samples) {
		w.log.Warn("GreptimeDB row count mismatch", "written", affected, "expected", len(samples))
	}
	w.log.Debug("wrote samples to GreptimeDB", "rows", affected, "table", synth.SampleTableName)
	return nil
}

func sampleTable() (*table.Table, error) {
	tbl, err := table.New(synth.SampleTableName)
	if err != nil {
		return nil, fmt.Errorf("create table %s: %w", synth.SampleTableName, err)
	}
	if err := tbl.AddTagColumn("run_id", types.STRING); err != nil {
		return nil, fmt.Errorf("define run_id column: %w", err)
	}
	if err := tbl.AddTagColumn("profile", types.STRING); err != nil {
		return nil, fmt.Errorf("define profile column: %w", err)
	}
	for _, name := range []string{"rtt_ms", "ttfb_ms", "loss", "throughput_mbps"} {
		if err := tbl.AddFieldColumn(name, types.FLOAT64); err != nil {
			return nil, fmt.Errorf("define %s column: %w", name, err)
		}
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return nil, fmt.Errorf("define ts column: %w", err)
	}
	return tbl, nil
}
