package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/vehiclelab/internal/physics"
)

func handSeries() Series {
	return Series{
		"a": {
			{Time: 0, Position: physics.Vec3{0, 0, 0}, Speed: 3, AccelerationMagnitude: 0, CumulativeEnergy: 0},
			{Time: 0.5, Position: physics.Vec3{3, 4, 0}, Speed: 7, AccelerationMagnitude: 2.5, CumulativeEnergy: 1},
			{Time: 1.0, Position: physics.Vec3{3, 4, 12}, Speed: 4, AccelerationMagnitude: 9, CumulativeEnergy: 2.5},
		},
		"b": {
			{Time: 0, Position: physics.Vec3{10, 0, 0}, Speed: 1, CumulativeEnergy: 0},
			{Time: 1.0, Position: physics.Vec3{10, 0, 1}, Speed: 2, AccelerationMagnitude: 1, CumulativeEnergy: 1.5},
		},
	}
}

func TestCompute(t *testing.T) {
	p := Compute(handSeries(), 2.0)

	// 5 + 12 for a, 1 for b
	if math.Abs(p.TotalDistance-18) > 1e-12 {
		t.Errorf("distance = %f, want 18", p.TotalDistance)
	}
	if p.MaxSpeed != 7 {
		t.Errorf("max speed = %f, want 7", p.MaxSpeed)
	}
	if p.MaxAcceleration != 9 {
		t.Errorf("max acceleration = %f, want 9", p.MaxAcceleration)
	}
	if math.Abs(p.TotalEnergyConsumption-4) > 1e-12 {
		t.Errorf("energy = %f, want 4", p.TotalEnergyConsumption)
	}
	if math.Abs(p.AverageSpeed-p.TotalDistance/2.0) > 1e-12 {
		t.Errorf("average speed = %f, want %f", p.AverageSpeed, p.TotalDistance/2)
	}
	if math.Abs(p.EnergyEfficiency-p.TotalDistance/p.TotalEnergyConsumption) > 1e-12 {
		t.Errorf("efficiency = %f", p.EnergyEfficiency)
	}
}

func TestComputeEdgeCases(t *testing.T) {
	p := Compute(Series{}, 0)
	if p != (Performance{}) {
		t.Errorf("expected zero metrics for empty series, got %+v", p)
	}

	still := Series{"a": {{Time: 0}, {Time: 1, Position: physics.Vec3{1, 0, 0}}}}
	p = Compute(still, 0)
	if p.AverageSpeed != 0 {
		t.Error("average speed must be 0 when elapsed is 0")
	}
	if want := 1 / Epsilon; math.Abs(p.EnergyEfficiency-want) > want*1e-12 {
		t.Errorf("expected distance/epsilon, got %g", p.EnergyEfficiency)
	}
}

func TestAccumulatorReset(t *testing.T) {
	all := []Metric{NewMaxSpeed(), NewMaxAcceleration(), NewDistance(), NewEnergy()}
	series := handSeries()

	for _, m := range all {
		for _, id := range series.BodyIDs() {
			for _, s := range series[id] {
				m.Observe(id, s)
			}
		}
		if m.Value() == 0 {
			t.Errorf("%s: expected non-zero value", m.Name())
		}
		m.Reset()
		if m.Value() != 0 {
			t.Errorf("%s: expected zero after reset", m.Name())
		}
	}
}

func TestPerformanceGet(t *testing.T) {
	p := Performance{MaxSpeed: 1, AverageSpeed: 2, TotalDistance: 3, TotalEnergyConsumption: 4, MaxAcceleration: 5, EnergyEfficiency: 6}
	m := p.Map()

	for i, name := range Names {
		if m[name] != float64(i+1) {
			t.Errorf("%s = %f, want %d", name, m[name], i+1)
		}
		if !IsKnown(name) {
			t.Errorf("%s should be known", name)
		}
	}
	if _, ok := p.Get("topSpeed"); ok {
		t.Error("unexpected metric")
	}
}

func TestSeriesHelpers(t *testing.T) {
	s := handSeries()
	if got := s.BodyIDs(); len(got) != 2 || got[0] != "a" {
		t.Errorf("unexpected ids %v", got)
	}
	if s.Len() != 5 {
		t.Errorf("expected 5 samples, got %d", s.Len())
	}

	c := s.Clone()
	c["a"][0].Speed = 100
	if s["a"][0].Speed == 100 {
		t.Error("clone shares backing arrays")
	}
	if sp := s.Speeds("a"); len(sp) != 3 || sp[1] != 7 {
		t.Errorf("unexpected speeds %v", sp)
	}
}
