package metrics

import "math"

// Metric accumulates one scalar over a sample series.
type Metric interface {
	Name() string
	Observe(body string, s Sample)
	Value() float64
	Reset()
}

type MaxSpeed struct {
	max float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (m *MaxSpeed) Name() string { return MetricMaxSpeed }

func (m *MaxSpeed) Observe(_ string, s Sample) {
	m.max = math.Max(m.max, s.Speed)
}

func (m *MaxSpeed) Value() float64 { return m.max }
func (m *MaxSpeed) Reset()         { m.max = 0 }

type MaxAcceleration struct {
	max float64
}

func NewMaxAcceleration() *MaxAcceleration { return &MaxAcceleration{} }

func (m *MaxAcceleration) Name() string { return MetricMaxAcceleration }

func (m *MaxAcceleration) Observe(_ string, s Sample) {
	m.max = math.Max(m.max, s.AccelerationMagnitude)
}

func (m *MaxAcceleration) Value() float64 { return m.max }
func (m *MaxAcceleration) Reset()         { m.max = 0 }

// Distance sums the displacement between consecutive samples of each body.
type Distance struct {
	last  map[string]Sample
	total float64
}

func NewDistance() *Distance {
	return &Distance{last: make(map[string]Sample)}
}

func (d *Distance) Name() string { return MetricTotalDistance }

func (d *Distance) Observe(body string, s Sample) {
	if prev, ok := d.last[body]; ok {
		d.total += s.Position.Sub(prev.Position).Len()
	}
	d.last[body] = s
}

func (d *Distance) Value() float64 { return d.total }

func (d *Distance) Reset() {
	d.last = make(map[string]Sample)
	d.total = 0
}
