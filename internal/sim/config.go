package sim

import (
	"fmt"
	"log/slog"
	"math"
)

const (
	// RestSpeedThreshold is the speed below which a body counts as at rest.
	RestSpeedThreshold = 0.1
	// MinRestTime is how long a run must last before rest can end it.
	MinRestTime = 1.0

	// durationTolerance absorbs the drift of summing a fractional step.
	durationTolerance = 1e-9
)

type Config struct {
	// Duration is the run length used when RunParams leaves it zero.
	Duration float64
	// TimeStep is used when neither RunParams nor the scenario set one.
	TimeStep float64
	// PowerScale converts |v·a| into the recorded instantaneous power.
	PowerScale float64
	Logger     *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		Duration:   30.0,
		TimeStep:   1.0 / 60,
		PowerScale: 0.1,
	}
}

// RunParams override the engine defaults for a single run.
type RunParams struct {
	Duration float64 `json:"duration" yaml:"duration"`
	TimeStep float64 `json:"time_step" yaml:"time_step"`
}

func (p RunParams) validate() error {
	if p.Duration < 0 || math.IsNaN(p.Duration) || math.IsInf(p.Duration, 0) {
		return fmt.Errorf("%w: duration %v", ErrInvalidParams, p.Duration)
	}
	if p.TimeStep < 0 || math.IsNaN(p.TimeStep) || math.IsInf(p.TimeStep, 0) {
		return fmt.Errorf("%w: time step %v", ErrInvalidParams, p.TimeStep)
	}
	return nil
}
