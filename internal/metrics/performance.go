package metrics

import "math"

const (
	MetricMaxSpeed               = "maxSpeed"
	MetricAverageSpeed           = "averageSpeed"
	MetricTotalDistance          = "totalDistance"
	MetricTotalEnergyConsumption = "totalEnergyConsumption"
	MetricMaxAcceleration        = "maxAcceleration"
	MetricEnergyEfficiency       = "energyEfficiency"
)

// Names lists the performance metrics in their canonical order.
var Names = []string{
	MetricMaxSpeed,
	MetricAverageSpeed,
	MetricTotalDistance,
	MetricTotalEnergyConsumption,
	MetricMaxAcceleration,
	MetricEnergyEfficiency,
}

// Epsilon bounds the energy denominator of the efficiency ratio.
const Epsilon = 1e-9

// Performance summarises a completed run.
type Performance struct {
	MaxSpeed               float64 `json:"max_speed"`
	AverageSpeed           float64 `json:"average_speed"`
	TotalDistance          float64 `json:"total_distance"`
	TotalEnergyConsumption float64 `json:"total_energy_consumption"`
	MaxAcceleration        float64 `json:"max_acceleration"`
	EnergyEfficiency       float64 `json:"energy_efficiency"`
}

// Get returns the named metric.
func (p Performance) Get(name string) (float64, bool) {
	switch name {
	case MetricMaxSpeed:
		return p.MaxSpeed, true
	case MetricAverageSpeed:
		return p.AverageSpeed, true
	case MetricTotalDistance:
		return p.TotalDistance, true
	case MetricTotalEnergyConsumption:
		return p.TotalEnergyConsumption, true
	case MetricMaxAcceleration:
		return p.MaxAcceleration, true
	case MetricEnergyEfficiency:
		return p.EnergyEfficiency, true
	}
	return 0, false
}

// Map returns every metric keyed by name.
func (p Performance) Map() map[string]float64 {
	m := make(map[string]float64, len(Names))
	for _, name := range Names {
		m[name], _ = p.Get(name)
	}
	return m
}

// IsKnown reports whether name is one of Names.
func IsKnown(name string) bool {
	_, ok := Performance{}.Get(name)
	return ok
}

// Compute derives the performance metrics of a series that ran for elapsed seconds.
func Compute(series Series, elapsed float64) Performance {
	maxSpeed := NewMaxSpeed()
	maxAcc := NewMaxAcceleration()
	distance := NewDistance()
	energy := NewEnergy()
	accumulators := []Metric{maxSpeed, maxAcc, distance, energy}

	for _, id := range series.BodyIDs() {
		for _, s := range series[id] {
			for _, m := range accumulators {
				m.Observe(id, s)
			}
		}
	}

	p := Performance{
		MaxSpeed:               maxSpeed.Value(),
		TotalDistance:          distance.Value(),
		TotalEnergyConsumption: energy.Value(),
		MaxAcceleration:        maxAcc.Value(),
	}
	if elapsed > 0 {
		p.AverageSpeed = p.TotalDistance / elapsed
	}
	p.EnergyEfficiency = p.TotalDistance / math.Max(p.TotalEnergyConsumption, Epsilon)
	return p
}
