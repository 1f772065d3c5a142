package experiment

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/vehiclelab/internal/scenario"
	"github.com/san-kum/vehiclelab/internal/sim"
)

// Suite is a YAML batch of scenarios run with the same vehicles.
//
//	name: braking
//	duration: 8
//	vehicles:
//	  - {id: sedan, mass: 1500}
//	scenarios:
//	  - preset: emergency-brake
//	  - file: wet.yaml
type Suite struct {
	Name      string       `yaml:"name"`
	Duration  float64      `yaml:"duration"`
	TimeStep  float64      `yaml:"time_step"`
	Workers   int          `yaml:"workers"`
	Vehicles  []Vehicle    `yaml:"vehicles"`
	Scenarios []SuiteEntry `yaml:"scenarios"`
	Metrics   []string     `yaml:"metrics"`

	dir string
}

// SuiteEntry names a scenario by preset or by file, relative to the suite.
type SuiteEntry struct {
	Preset string `yaml:"preset,omitempty"`
	File   string `yaml:"file,omitempty"`
}

func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse suite %s: %w", path, err)
	}
	s.dir = filepath.Dir(path)

	if len(s.Vehicles) == 0 {
		return nil, fmt.Errorf("suite %s: no vehicles", path)
	}
	if len(s.Scenarios) == 0 {
		return nil, fmt.Errorf("suite %s: no scenarios", path)
	}
	return &s, nil
}

// ResolveScenarios loads every entry in order.
func (s *Suite) ResolveScenarios() ([]*scenario.Scenario, error) {
	out := make([]*scenario.Scenario, 0, len(s.Scenarios))
	for i, e := range s.Scenarios {
		var (
			sc  *scenario.Scenario
			err error
		)
		switch {
		case e.Preset != "" && e.File != "":
			err = fmt.Errorf("sets both preset and file")
		case e.Preset != "":
			if sc = scenario.Preset(e.Preset); sc == nil {
				err = fmt.Errorf("unknown preset %q", e.Preset)
			}
		case e.File != "":
			path := e.File
			if !filepath.IsAbs(path) {
				path = filepath.Join(s.dir, path)
			}
			sc, err = scenario.LoadValidated(path)
		default:
			err = fmt.Errorf("names no preset or file")
		}
		if err != nil {
			return nil, fmt.Errorf("suite entry %d: %w", i+1, err)
		}
		out = append(out, sc)
	}
	return out, nil
}

func (s *Suite) Config(engine sim.Config) Config {
	return Config{
		Vehicles: s.Vehicles,
		Params:   sim.RunParams{Duration: s.Duration, TimeStep: s.TimeStep},
		Engine:   engine,
	}
}

// Run resolves and runs every scenario concurrently.
func (s *Suite) Run(ctx context.Context, engine sim.Config) ([]*scenario.Scenario, []*sim.Result, error) {
	scenarios, err := s.ResolveScenarios()
	if err != nil {
		return nil, nil, err
	}
	ens := NewEnsemble(s.Config(engine))
	ens.Workers = s.Workers
	results, err := ens.Run(ctx, scenarios)
	if err != nil {
		return nil, nil, err
	}
	return scenarios, results, nil
}
