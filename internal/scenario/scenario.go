package scenario

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/vehiclelab/internal/physics"
)

const (
	DefaultGravity       = -9.81
	DefaultFriction      = 0.5
	DefaultAirResistance = 0.3
	DefaultTimeStep      = 1.0 / 60
	DefaultLighting      = "day"
)

// ErrInvalid wraps every structural problem found by Validate.
var ErrInvalid = errors.New("scenario: invalid")

type Terrain string

const (
	TerrainFlat  Terrain = "flat"
	TerrainHills Terrain = "hills"
	TerrainSlope Terrain = "slope"
)

func (t Terrain) Valid() bool {
	switch t {
	case TerrainFlat, TerrainHills, TerrainSlope:
		return true
	}
	return false
}

type Weather string

const (
	WeatherSunny  Weather = "sunny"
	WeatherCloudy Weather = "cloudy"
	WeatherRainy  Weather = "rainy"
)

func (w Weather) Valid() bool {
	switch w {
	case WeatherSunny, WeatherCloudy, WeatherRainy:
		return true
	}
	return false
}

type Environment struct {
	Terrain  Terrain `json:"terrain" yaml:"terrain"`
	Weather  Weather `json:"weather" yaml:"weather"`
	Lighting string  `json:"lighting,omitempty" yaml:"lighting,omitempty"`
}

type InitialConditions struct {
	Position physics.Vec3 `json:"position" yaml:"position"`
	Velocity physics.Vec3 `json:"velocity" yaml:"velocity"`
	Rotation physics.Vec3 `json:"rotation" yaml:"rotation"`
}

type PhysicsSettings struct {
	Gravity       float64 `json:"gravity" yaml:"gravity"`
	Friction      float64 `json:"friction" yaml:"friction"`
	AirResistance float64 `json:"air_resistance" yaml:"air_resistance"`
	TimeStep      float64 `json:"time_step" yaml:"time_step"`
}

// Scenario describes one simulation run. It is treated as immutable once
// handed to an engine.
type Scenario struct {
	ID                string             `json:"id" yaml:"id"`
	Name              string             `json:"name" yaml:"name"`
	Description       string             `json:"description,omitempty" yaml:"description,omitempty"`
	Environment       Environment        `json:"environment" yaml:"environment"`
	InitialConditions *InitialConditions `json:"initial_conditions,omitempty" yaml:"initial_conditions,omitempty"`
	Physics           PhysicsSettings    `json:"physics" yaml:"physics"`
	ExpectedOutcomes  map[string]float64 `json:"expected_outcomes,omitempty" yaml:"expected_outcomes,omitempty"`
}

// DefaultPhysics returns earth gravity with dry-asphalt coefficients at 60 Hz.
func DefaultPhysics() PhysicsSettings {
	return PhysicsSettings{
		Gravity:       DefaultGravity,
		Friction:      DefaultFriction,
		AirResistance: DefaultAirResistance,
		TimeStep:      DefaultTimeStep,
	}
}

// Default returns a scenario with every optional field filled in.
func Default() *Scenario {
	return &Scenario{
		Environment: Environment{
			Terrain:  TerrainFlat,
			Weather:  WeatherSunny,
			Lighting: DefaultLighting,
		},
		Physics: DefaultPhysics(),
	}
}

// New returns a default scenario with the given identity.
func New(id, name string) *Scenario {
	s := Default()
	s.ID = id
	s.Name = name
	return s
}

// Validate reports every structural problem at once.
func (s *Scenario) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil scenario", ErrInvalid)
	}

	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
	}

	if s.ID == "" {
		add("id is required")
	}
	if s.Name == "" {
		add("name is required")
	}
	if !s.Environment.Terrain.Valid() {
		add("unknown terrain %q", s.Environment.Terrain)
	}
	if !s.Environment.Weather.Valid() {
		add("unknown weather %q", s.Environment.Weather)
	}

	p := s.Physics
	if math.IsNaN(p.Gravity) || math.IsInf(p.Gravity, 0) {
		add("gravity must be finite")
	}
	if !(p.Friction >= 0 && p.Friction <= 1) {
		add("friction must be in [0,1], got %g", p.Friction)
	}
	if !(p.AirResistance >= 0) || math.IsInf(p.AirResistance, 0) {
		add("air_resistance must be >= 0, got %g", p.AirResistance)
	}
	if !(p.TimeStep > 0) || math.IsInf(p.TimeStep, 0) {
		add("time_step must be > 0, got %g", p.TimeStep)
	}

	if ic := s.InitialConditions; ic != nil {
		if !physics.IsFinite(ic.Position) || !physics.IsFinite(ic.Velocity) || !physics.IsFinite(ic.Rotation) {
			add("initial conditions must be finite")
		}
	}

	return errors.Join(errs...)
}

// Clone returns a deep copy.
func (s *Scenario) Clone() *Scenario {
	c := *s
	if s.InitialConditions != nil {
		ic := *s.InitialConditions
		c.InitialConditions = &ic
	}
	if s.ExpectedOutcomes != nil {
		c.ExpectedOutcomes = make(map[string]float64, len(s.ExpectedOutcomes))
		for k, v := range s.ExpectedOutcomes {
			c.ExpectedOutcomes[k] = v
		}
	}
	return &c
}
