package sim

import (
	"context"
	"time"
)

// Drive schedules Step until the run ends. With interval <= 0 steps run back
// to back and Drive returns as soon as the engine is not running. Otherwise
// one step is taken per tick, ticks are skipped while paused, and Drive
// returns once the run is completed or stopped. Cancelling ctx stops the
// loop and returns ctx.Err(); the engine state is left as it was.
func (e *Engine) Drive(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if !e.Step() {
				return nil
			}
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			switch e.State() {
			case Running:
				e.Step()
			case Paused:
			default:
				return nil
			}
		}
	}
}

// RunToCompletion starts a run and drives it back to back.
func (e *Engine) RunToCompletion(ctx context.Context, p RunParams) (*Result, error) {
	if err := e.Run(p); err != nil {
		return nil, err
	}
	if err := e.Drive(ctx, 0); err != nil {
		return nil, err
	}
	return e.Result()
}
