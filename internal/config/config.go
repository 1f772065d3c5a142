package config

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/vehiclelab/internal/experiment"
	"github.com/san-kum/vehiclelab/internal/sim"
)

const (
	DefaultDataDir    = "./runs"
	DefaultLogLevel   = "info"
	DefaultDuration   = 30.0
	DefaultTimeStep   = 1.0 / 60
	DefaultPowerScale = 0.1
	DefaultMass       = 1500.0
	DefaultGreptime   = 4001
)

type Config struct {
	DataDir  string         `yaml:"data_dir"`
	LogLevel string         `yaml:"log_level"`
	Engine   EngineConfig   `yaml:"engine"`
	Vehicle  VehicleConfig  `yaml:"vehicle"`
	Greptime GreptimeConfig `yaml:"greptime"`
}

type EngineConfig struct {
	Duration   float64 `yaml:"duration"`
	TimeStep   float64 `yaml:"time_step"`
	PowerScale float64 `yaml:"power_scale"`
}

// VehicleConfig is the vehicle used when a command is not given one.
// Zero friction and air resistance inherit the scenario's values.
type VehicleConfig struct {
	ID            string  `yaml:"id"`
	Mass          float64 `yaml:"mass"`
	Friction      float64 `yaml:"friction"`
	AirResistance float64 `yaml:"air_resistance"`
	CruiseSpeed   float64 `yaml:"cruise_speed"`
}

// GreptimeConfig enables the sample sink when Host is set.
type GreptimeConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:  DefaultDataDir,
		LogLevel: DefaultLogLevel,
		Engine: EngineConfig{
			Duration:   DefaultDuration,
			TimeStep:   DefaultTimeStep,
			PowerScale: DefaultPowerScale,
		},
		Vehicle: VehicleConfig{
			ID:   "vehicle",
			Mass: DefaultMass,
		},
		Greptime: GreptimeConfig{
			Port:     DefaultGreptime,
			Database: "public",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) SimConfig(logger *slog.Logger) sim.Config {
	return sim.Config{
		Duration:   c.Engine.Duration,
		TimeStep:   c.Engine.TimeStep,
		PowerScale: c.Engine.PowerScale,
		Logger:     logger,
	}
}

func (c *Config) DefaultVehicle() experiment.Vehicle {
	return experiment.Vehicle{
		ID:            c.Vehicle.ID,
		Mass:          c.Vehicle.Mass,
		Friction:      c.Vehicle.Friction,
		AirResistance: c.Vehicle.AirResistance,
		CruiseSpeed:   c.Vehicle.CruiseSpeed,
	}
}
