package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/vehiclelab/internal/driver"
	"github.com/san-kum/vehiclelab/internal/physics"
)

// Vehicle describes one body to register in every run of an experiment.
// Zero Friction or AirResistance inherit the scenario's coefficients.
type Vehicle struct {
	ID            string       `yaml:"id" json:"id"`
	Mass          float64      `yaml:"mass" json:"mass"`
	Friction      float64      `yaml:"friction,omitempty" json:"friction,omitempty"`
	AirResistance float64      `yaml:"air_resistance,omitempty" json:"air_resistance,omitempty"`
	Throttle      physics.Vec3 `yaml:"throttle,omitempty" json:"throttle,omitempty"`
	CruiseSpeed   float64      `yaml:"cruise_speed,omitempty" json:"cruise_speed,omitempty"`
	Heading       physics.Vec3 `yaml:"heading,omitempty" json:"heading,omitempty"`
}

func (v Vehicle) Props() physics.Props {
	return physics.Props{Mass: v.Mass, Friction: v.Friction, AirResistance: v.AirResistance}
}

// Driver builds a fresh driver for one run. Cruise control wins over a
// fixed throttle; a vehicle with neither coasts and gets nil.
func (v Vehicle) Driver() driver.Driver {
	switch {
	case v.CruiseSpeed > 0:
		return driver.NewCruise(v.CruiseSpeed, v.Heading)
	case v.Throttle != (physics.Vec3{}):
		return driver.NewConstant(v.Throttle)
	}
	return nil
}

func (v Vehicle) validate() error {
	if v.ID == "" {
		return fmt.Errorf("vehicle without id")
	}
	if !(v.Mass > 0) {
		return fmt.Errorf("vehicle %s: mass must be positive, got %f", v.ID, v.Mass)
	}
	return nil
}

// Registry names the built-in vehicle types.
type Registry struct {
	vehicles map[string]func() Vehicle
}

func NewRegistry() *Registry {
	r := &Registry{vehicles: make(map[string]func() Vehicle)}

	r.vehicles["sedan"] = func() Vehicle { return Vehicle{ID: "sedan", Mass: 1500} }
	r.vehicles["suv"] = func() Vehicle { return Vehicle{ID: "suv", Mass: 2200, AirResistance: 0.45} }
	r.vehicles["truck"] = func() Vehicle { return Vehicle{ID: "truck", Mass: 8000, AirResistance: 0.8} }
	r.vehicles["sports"] = func() Vehicle { return Vehicle{ID: "sports", Mass: 1300, AirResistance: 0.25} }
	r.vehicles["scooter"] = func() Vehicle { return Vehicle{ID: "scooter", Mass: 120, AirResistance: 0.2} }

	return r
}

func (r *Registry) Register(name string, fn func() Vehicle) {
	r.vehicles[name] = fn
}

func (r *Registry) GetVehicle(name string) (Vehicle, error) {
	fn, ok := r.vehicles[name]
	if !ok {
		return Vehicle{}, fmt.Errorf("unknown vehicle: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListVehicles() []string {
	names := make([]string, 0, len(r.vehicles))
	for name := range r.vehicles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
