// Package experiment runs scenarios end to end: single runs, concurrent
// ensembles, parameter sweeps and YAML suites.
package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/vehiclelab/internal/physics"
	"github.com/san-kum/vehiclelab/internal/scenario"
	"github.com/san-kum/vehiclelab/internal/sim"
)

type Config struct {
	Vehicles []Vehicle
	Params   sim.RunParams
	Engine   sim.Config
}

// Experiment prepares an engine for one scenario and runs it to completion.
type Experiment struct {
	cfg    Config
	sc     *scenario.Scenario
	engine *sim.Engine
}

func New(sc *scenario.Scenario, cfg Config) *Experiment {
	return &Experiment{cfg: cfg, sc: sc}
}

// Setup builds the engine and registers every vehicle. Run calls it when
// it has not been called yet.
func (e *Experiment) Setup() error {
	if len(e.cfg.Vehicles) == 0 {
		return fmt.Errorf("experiment %s: no vehicles", e.scenarioID())
	}

	engine := sim.New(e.cfg.Engine)
	if err := engine.SetupScenario(e.sc); err != nil {
		return err
	}

	for _, v := range e.cfg.Vehicles {
		if err := v.validate(); err != nil {
			return err
		}
		h := physics.NewTransform(physics.Vec3{}, physics.Vec3{})
		if err := engine.AddSimulationObject(v.ID, h, v.Props()); err != nil {
			return err
		}
		if d := v.Driver(); d != nil {
			if err := engine.AttachDriver(v.ID, d); err != nil {
				return err
			}
		}
	}

	e.engine = engine
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.engine == nil {
		if err := e.Setup(); err != nil {
			return nil, err
		}
	}
	res, err := e.engine.RunToCompletion(ctx, e.cfg.Params)
	if err != nil {
		return nil, fmt.Errorf("experiment %s: %w", e.scenarioID(), err)
	}
	return res, nil
}

// Engine returns the underlying engine for subscribing to events.
func (e *Experiment) Engine() *sim.Engine {
	return e.engine
}

func (e *Experiment) scenarioID() string {
	if e.sc == nil {
		return "<nil>"
	}
	return e.sc.ID
}

// RunScenario runs sc once with the given vehicles.
func RunScenario(ctx context.Context, sc *scenario.Scenario, cfg Config) (*sim.Result, error) {
	return New(sc, cfg).Run(ctx)
}
