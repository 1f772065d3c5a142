package experiment

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/san-kum/vehiclelab/internal/metrics"
	"github.com/san-kum/vehiclelab/internal/scenario"
	"github.com/san-kum/vehiclelab/internal/sim"
)

const (
	ParamFriction      = "friction"
	ParamAirResistance = "air_resistance"
	ParamGravity       = "gravity"
	ParamTimeStep      = "time_step"
)

// Sweep varies one physics setting linearly over [Min, Max] in Steps
// points, both ends included.
type Sweep struct {
	Param string  `yaml:"param" json:"param"`
	Min   float64 `yaml:"min" json:"min"`
	Max   float64 `yaml:"max" json:"max"`
	Steps int     `yaml:"steps" json:"steps"`
}

type SweepPoint struct {
	Value    float64
	Scenario *scenario.Scenario
	Result   *sim.Result
}

func (s Sweep) Values() []float64 {
	if s.Steps <= 1 {
		return []float64{s.Min}
	}
	step := (s.Max - s.Min) / float64(s.Steps-1)
	out := make([]float64, s.Steps)
	for i := range out {
		out[i] = s.Min + float64(i)*step
	}
	out[len(out)-1] = s.Max
	return out
}

func apply(sc *scenario.Scenario, param string, v float64) error {
	switch param {
	case ParamFriction:
		sc.Physics.Friction = v
	case ParamAirResistance:
		sc.Physics.AirResistance = v
	case ParamGravity:
		sc.Physics.Gravity = v
	case ParamTimeStep:
		sc.Physics.TimeStep = v
	default:
		return fmt.Errorf("unknown sweep parameter: %s", param)
	}
	return nil
}

// Scenarios derives one validated variant of base per sweep value. Variant
// ids are "<base>-<param>-<value>".
func (s Sweep) Scenarios(base *scenario.Scenario) ([]*scenario.Scenario, error) {
	values := s.Values()
	out := make([]*scenario.Scenario, 0, len(values))
	for _, v := range values {
		sc := base.Clone()
		if err := apply(sc, s.Param, v); err != nil {
			return nil, err
		}
		label := strconv.FormatFloat(v, 'g', 4, 64)
		sc.ID = fmt.Sprintf("%s-%s-%s", base.ID, s.Param, label)
		sc.Name = fmt.Sprintf("%s (%s=%s)", base.Name, s.Param, label)
		if err := sc.Validate(); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}

// Run executes every variant through an Ensemble.
func (s Sweep) Run(ctx context.Context, base *scenario.Scenario, cfg Config, workers int) ([]SweepPoint, error) {
	scenarios, err := s.Scenarios(base)
	if err != nil {
		return nil, err
	}

	ens := NewEnsemble(cfg)
	ens.Workers = workers
	results, err := ens.Run(ctx, scenarios)
	if err != nil {
		return nil, err
	}

	values := s.Values()
	points := make([]SweepPoint, len(results))
	for i, res := range results {
		points[i] = SweepPoint{Value: values[i], Scenario: scenarios[i], Result: res}
	}
	return points, nil
}

// Best returns the point that optimises metric. Energy consumption is
// minimised, everything else maximised.
func Best(points []SweepPoint, metric string) (SweepPoint, error) {
	if !metrics.IsKnown(metric) {
		return SweepPoint{}, fmt.Errorf("unknown metric: %s", metric)
	}
	if len(points) == 0 {
		return SweepPoint{}, fmt.Errorf("no sweep points")
	}

	minimise := metric == metrics.MetricTotalEnergyConsumption
	best := math.Inf(1)
	if !minimise {
		best = math.Inf(-1)
	}
	idx := 0
	for i, p := range points {
		v, _ := p.Result.Metrics.Get(metric)
		if (minimise && v < best) || (!minimise && v > best) {
			best = v
			idx = i
		}
	}
	return points[idx], nil
}
