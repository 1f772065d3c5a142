package scenario

import (
	"sort"

	"github.com/san-kum/vehiclelab/internal/physics"
)

var presets = map[string]*Scenario{
	"city-cruise": {
		ID: "city-cruise", Name: "City cruise",
		Description: "Urban speed on dry asphalt",
		Environment: Environment{Terrain: TerrainFlat, Weather: WeatherSunny, Lighting: "day"},
		InitialConditions: &InitialConditions{
			Position: physics.Vec3{0, 0.5, 0}, Velocity: physics.Vec3{13.9, 0, 0},
		},
		Physics: PhysicsSettings{Gravity: -9.81, Friction: 0.02, AirResistance: 0.35, TimeStep: 1.0 / 60},
	},
	"highway": {
		ID: "highway", Name: "Highway coast-down",
		Description: "Release the throttle at motorway speed",
		Environment: Environment{Terrain: TerrainFlat, Weather: WeatherCloudy, Lighting: "day"},
		InitialConditions: &InitialConditions{
			Position: physics.Vec3{0, 0.5, 0}, Velocity: physics.Vec3{33.3, 0, 0},
		},
		Physics: PhysicsSettings{Gravity: -9.81, Friction: 0.015, AirResistance: 0.4, TimeStep: 1.0 / 60},
	},
	"emergency-brake": {
		ID: "emergency-brake", Name: "Emergency brake",
		Description: "Full braking from 50 km/h on dry road",
		Environment: Environment{Terrain: TerrainFlat, Weather: WeatherSunny, Lighting: "day"},
		InitialConditions: &InitialConditions{
			Velocity: physics.Vec3{13.9, 0, 0},
		},
		Physics: PhysicsSettings{Gravity: -9.81, Friction: 0.8, AirResistance: 0.3, TimeStep: 1.0 / 60},
	},
	"wet-brake": {
		ID: "wet-brake", Name: "Wet braking",
		Description: "Full braking from 50 km/h on a wet road",
		Environment: Environment{Terrain: TerrainFlat, Weather: WeatherRainy, Lighting: "dusk"},
		InitialConditions: &InitialConditions{
			Velocity: physics.Vec3{13.9, 0, 0},
		},
		Physics: PhysicsSettings{Gravity: -9.81, Friction: 0.45, AirResistance: 0.3, TimeStep: 1.0 / 60},
	},
	"ramp-jump": {
		ID: "ramp-jump", Name: "Ramp jump",
		Description: "Leave a ramp lip and land on the ground plane",
		Environment: Environment{Terrain: TerrainSlope, Weather: WeatherSunny, Lighting: "day"},
		InitialConditions: &InitialConditions{
			Position: physics.Vec3{0, 3, 0}, Velocity: physics.Vec3{15, 6, 0}, Rotation: physics.Vec3{0, 0, 0.2},
		},
		Physics: PhysicsSettings{Gravity: -9.81, Friction: 0.1, AirResistance: 0.3, TimeStep: 1.0 / 120},
	},
	"hill-descent": {
		ID: "hill-descent", Name: "Hill descent",
		Description: "Roll off a crest without throttle",
		Environment: Environment{Terrain: TerrainHills, Weather: WeatherCloudy, Lighting: "day"},
		InitialConditions: &InitialConditions{
			Position: physics.Vec3{0, 12, 0}, Velocity: physics.Vec3{5, 0, 0},
		},
		Physics: PhysicsSettings{Gravity: -9.81, Friction: 0.05, AirResistance: 0.3, TimeStep: 1.0 / 60},
	},
	"lunar-rover": {
		ID: "lunar-rover", Name: "Lunar rover",
		Description: "Low gravity, no atmosphere",
		Environment: Environment{Terrain: TerrainFlat, Weather: WeatherSunny, Lighting: "night"},
		InitialConditions: &InitialConditions{
			Position: physics.Vec3{0, 1, 0}, Velocity: physics.Vec3{4, 0, 0},
		},
		Physics: PhysicsSettings{Gravity: -1.62, Friction: 0.3, AirResistance: 0, TimeStep: 1.0 / 60},
	},
}

// Preset returns a copy of the named preset, or nil.
func Preset(name string) *Scenario {
	s, ok := presets[name]
	if !ok {
		return nil
	}
	return s.Clone()
}

// PresetNames lists preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
