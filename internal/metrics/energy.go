package metrics

// Energy reports the final cumulative energy of each body, summed in the
// order bodies were first observed.
type Energy struct {
	final map[string]float64
	order []string
}

func NewEnergy() *Energy {
	return &Energy{final: make(map[string]float64)}
}

func (e *Energy) Name() string { return MetricTotalEnergyConsumption }

func (e *Energy) Observe(body string, s Sample) {
	if _, ok := e.final[body]; !ok {
		e.order = append(e.order, body)
	}
	e.final[body] = s.CumulativeEnergy
}

func (e *Energy) Value() float64 {
	total := 0.0
	for _, id := range e.order {
		total += e.final[id]
	}
	return total
}

func (e *Energy) Reset() {
	e.final = make(map[string]float64)
	e.order = nil
}
