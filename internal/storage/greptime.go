package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"github.com/san-kum/vehiclelab/internal/logging"
	"github.com/san-kum/vehiclelab/internal/sim"
)

const (
	SamplesTable     = "vehicle_samples"
	defaultBatchSize = 1000
)

type tableWriter interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeSink writes sample series to GreptimeDB, one row per body per
// frame. Run time is laid out on the wall clock starting at Start.
type GreptimeSink struct {
	client    tableWriter
	table     string
	batchSize int
	log       *slog.Logger

	// Start anchors sample time zero. The zero value means time.Now at
	// each WriteResult call.
	Start time.Time
}

func NewGreptimeSink(host string, port int, database string, logger *slog.Logger) (*GreptimeSink, error) {
	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	cli, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("greptime client: %w", err)
	}
	return newSink(cli, logger), nil
}

func newSink(client tableWriter, logger *slog.Logger) *GreptimeSink {
	return &GreptimeSink{
		client:    client,
		table:     SamplesTable,
		batchSize: defaultBatchSize,
		log:       logging.OrDefault(logger).With("component", "greptime"),
	}
}

func (g *GreptimeSink) newTable() (*table.Table, error) {
	tbl, err := table.New(g.table)
	if err != nil {
		return nil, err
	}

	for _, col := range []string{"run_id", "scenario_id", "body_id"} {
		if err := tbl.AddTagColumn(col, types.STRING); err != nil {
			return nil, err
		}
	}
	for _, col := range []string{"sim_time", "x", "y", "z", "speed", "acceleration", "power", "energy"} {
		if err := tbl.AddFieldColumn(col, types.FLOAT64); err != nil {
			return nil, err
		}
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return nil, err
	}
	return tbl, nil
}

// WriteResult sends every sample of res in batches and returns the number
// of rows written.
func (g *GreptimeSink) WriteResult(ctx context.Context, runID string, res *sim.Result) (int, error) {
	if res == nil || res.Scenario == nil {
		return 0, fmt.Errorf("storage: result without scenario")
	}

	start := g.Start
	if start.IsZero() {
		start = time.Now()
	}

	written := 0
	var tbl *table.Table
	pending := 0

	flush := func() error {
		if pending == 0 {
			return nil
		}
		if _, err := g.client.Write(ctx, tbl); err != nil {
			g.log.Error("write failed", "run", runID, "rows", pending, "error", err)
			return err
		}
		written += pending
		pending = 0
		return nil
	}

	for _, body := range res.Series.BodyIDs() {
		for _, s := range res.Series[body] {
			if pending == 0 {
				var err error
				if tbl, err = g.newTable(); err != nil {
					return written, err
				}
			}

			ts := start.Add(time.Duration(s.Time * float64(time.Second)))
			err := tbl.AddRow(runID, res.Scenario.ID, body,
				s.Time, s.Position[0], s.Position[1], s.Position[2],
				s.Speed, s.AccelerationMagnitude, s.Power, s.CumulativeEnergy, ts)
			if err != nil {
				return written, err
			}
			pending++

			if pending >= g.batchSize {
				if err := flush(); err != nil {
					return written, err
				}
			}
		}
	}

	if err := flush(); err != nil {
		return written, err
	}
	g.log.Info("wrote samples", "run", runID, "rows", written)
	return written, nil
}
