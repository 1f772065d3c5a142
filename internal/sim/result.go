package sim

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/vehiclelab/internal/metrics"
	"github.com/san-kum/vehiclelab/internal/physics"
	"github.com/san-kum/vehiclelab/internal/scenario"
)

// Result is the exportable record of a run.
type Result struct {
	Scenario    *scenario.Scenario  `json:"scenario"`
	State       State               `json:"state"`
	ElapsedTime float64             `json:"elapsed_time"`
	Series      metrics.Series      `json:"series"`
	Metrics     metrics.Performance `json:"metrics"`
}

// Completed reports whether the metrics were frozen by a finished run.
func (r *Result) Completed() bool { return r.State == Completed }

// Result snapshots the current run. Before completion the metrics are
// computed from the samples recorded so far.
func (e *Engine) Result() (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.scenario == nil {
		return nil, ErrNoScenario
	}

	res := &Result{
		Scenario:    e.scenario.Clone(),
		State:       e.state,
		ElapsedTime: e.elapsed,
		Series:      e.series.Clone(),
	}
	if e.perf != nil {
		res.Metrics = *e.perf
	} else {
		res.Metrics = metrics.Compute(res.Series, e.elapsed)
	}
	return res, nil
}

// ExportResults renders the current run in format f.
func (e *Engine) ExportResults(f Format) ([]byte, error) {
	res, err := e.Result()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := res.Write(&buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (r *Result) Write(w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		return r.WriteJSON(w)
	case FormatCSV:
		return r.WriteCSV(w)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

func (r *Result) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func ReadJSON(rd io.Reader) (*Result, error) {
	var res Result
	if err := json.NewDecoder(rd).Decode(&res); err != nil {
		return nil, err
	}
	if res.Series == nil {
		res.Series = make(metrics.Series)
	}
	return &res, nil
}

const (
	TrajectorySection = "Trajectory Data"
	VelocitySection   = "Velocity Data"
)

var (
	trajectoryHeader = []string{"Time", "X", "Y", "Z", "ObjectId"}
	velocityHeader   = []string{"Time", "Speed", "VX", "VY", "VZ", "ObjectId"}
)

// WriteCSV writes the trajectory and velocity sections, separated by a blank
// line. Rows are grouped by body id in sorted order.
func (r *Result) WriteCSV(w io.Writer) error {
	ids := r.Series.BodyIDs()

	cw := csv.NewWriter(w)
	cw.Write([]string{TrajectorySection})
	cw.Write(trajectoryHeader)
	for _, id := range ids {
		for _, s := range r.Series[id] {
			cw.Write([]string{
				formatFloat(s.Time),
				formatFloat(s.Position[0]),
				formatFloat(s.Position[1]),
				formatFloat(s.Position[2]),
				id,
			})
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}

	cw.Write([]string{VelocitySection})
	cw.Write(velocityHeader)
	for _, id := range ids {
		for _, s := range r.Series[id] {
			cw.Write([]string{
				formatFloat(s.Time),
				formatFloat(s.Speed),
				formatFloat(s.Velocity[0]),
				formatFloat(s.Velocity[1]),
				formatFloat(s.Velocity[2]),
				id,
			})
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

type TrajectoryRow struct {
	Time     float64
	Position physics.Vec3
	ObjectID string
}

type VelocityRow struct {
	Time     float64
	Speed    float64
	Velocity physics.Vec3
	ObjectID string
}

// CSVExport is a parsed CSV export. The two sections are independent; row i
// of one does not necessarily match row i of the other.
type CSVExport struct {
	Trajectory []TrajectoryRow
	Velocity   []VelocityRow
}

// ReadCSV parses the output of WriteCSV.
func ReadCSV(rd io.Reader) (*CSVExport, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	out := &CSVExport{}
	section := ""
	for i, rec := range records {
		if len(rec) == 1 {
			switch rec[0] {
			case TrajectorySection, VelocitySection:
				section = rec[0]
				continue
			}
		}
		if len(rec) > 0 && rec[0] == "Time" {
			continue
		}

		nums, err := parseFloats(rec[:len(rec)-1])
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		id := rec[len(rec)-1]

		switch {
		case section == TrajectorySection && len(nums) == 4:
			out.Trajectory = append(out.Trajectory, TrajectoryRow{
				Time:     nums[0],
				Position: physics.Vec3{nums[1], nums[2], nums[3]},
				ObjectID: id,
			})
		case section == VelocitySection && len(nums) == 5:
			out.Velocity = append(out.Velocity, VelocityRow{
				Time:     nums[0],
				Speed:    nums[1],
				Velocity: physics.Vec3{nums[2], nums[3], nums[4]},
				ObjectID: id,
			})
		default:
			return nil, fmt.Errorf("record %d: unexpected %d fields in %q", i+1, len(rec), section)
		}
	}
	return out, nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
