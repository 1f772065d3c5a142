package sim

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/san-kum/vehiclelab/internal/driver"
	"github.com/san-kum/vehiclelab/internal/logging"
	"github.com/san-kum/vehiclelab/internal/metrics"
	"github.com/san-kum/vehiclelab/internal/physics"
	"github.com/san-kum/vehiclelab/internal/scenario"
)

type pose struct {
	pos physics.Vec3
	rot physics.Vec3
}

// Engine runs one scenario at a time. All methods are safe for concurrent
// use; event handlers are called with the internal lock released and may
// call back into the engine.
type Engine struct {
	mu  sync.Mutex
	cfg Config
	log *slog.Logger

	integrator *physics.Integrator
	scenario   *scenario.Scenario
	initial    map[string]pose
	drivers    map[string]driver.Driver

	state    State
	elapsed  float64
	duration float64
	timeStep float64
	series   metrics.Series
	perf     *metrics.Performance

	subs    []subscription
	nextSub int
}

func New(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.Duration <= 0 {
		cfg.Duration = def.Duration
	}
	if cfg.TimeStep <= 0 {
		cfg.TimeStep = def.TimeStep
	}
	if cfg.PowerScale <= 0 {
		cfg.PowerScale = def.PowerScale
	}

	return &Engine{
		cfg:        cfg,
		log:        logging.OrDefault(cfg.Logger).With("component", "sim"),
		integrator: physics.NewIntegrator(scenario.DefaultGravity),
		initial:    make(map[string]pose),
		drivers:    make(map[string]driver.Driver),
		duration:   cfg.Duration,
		timeStep:   cfg.TimeStep,
		series:     make(metrics.Series),
	}
}

// SetupScenario validates sc and makes a private copy of it the current
// scenario. Bodies already registered stay registered.
func (e *Engine) SetupScenario(sc *scenario.Scenario) error {
	if err := sc.Validate(); err != nil {
		e.log.Warn("rejected scenario", "error", err)
		return fmt.Errorf("setup scenario: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Running || e.state == Paused {
		return e.reject("setup scenario")
	}

	e.scenario = sc.Clone()
	e.integrator.SetGravity(sc.Physics.Gravity)
	e.series = make(metrics.Series)
	e.perf = nil
	e.elapsed = 0
	e.state = Stopped

	e.log.Debug("scenario set", "scenario", sc.ID, "gravity", sc.Physics.Gravity)
	return nil
}

// AddSimulationObject registers a body moving h. Zero friction or air
// resistance inherit the scenario's values. When the scenario carries
// initial conditions they are applied to the body before this returns.
func (e *Engine) AddSimulationObject(id string, h physics.Handle, p physics.Props) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if sc := e.scenario; sc != nil {
		if p.Friction == 0 {
			p.Friction = sc.Physics.Friction
		}
		if p.AirResistance == 0 {
			p.AirResistance = sc.Physics.AirResistance
		}
	}

	if err := e.integrator.AddBody(id, h, p); err != nil {
		return err
	}

	if sc := e.scenario; sc != nil && sc.InitialConditions != nil {
		ic := sc.InitialConditions
		h.SetPosition(ic.Position)
		h.SetRotation(ic.Rotation)
		e.integrator.SetKinematics(id, ic.Velocity, physics.Vec3{})
	}
	e.initial[id] = pose{pos: h.Position(), rot: h.Rotation()}

	if e.state == Running || e.state == Paused {
		e.recordInitial(id)
	}
	return nil
}

// RemoveSimulationObject unregisters id. Samples already recorded for it
// are kept.
func (e *Engine) RemoveSimulationObject(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.initial, id)
	delete(e.drivers, id)
	return e.integrator.RemoveBody(id)
}

// ApplyForce queues f on body id for the next step only.
func (e *Engine) ApplyForce(id string, f physics.Vec3) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.integrator.ApplyForce(id, f)
}

// AttachDriver makes d supply a force to body id at the start of every
// step. A nil d detaches the current driver.
func (e *Engine) AttachDriver(id string, d driver.Driver) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.integrator.Body(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBody, id)
	}
	if d == nil {
		delete(e.drivers, id)
		return nil
	}
	e.drivers[id] = d
	return nil
}

// Run starts a new run from stopped or completed. Zero parameters fall back
// to the scenario's time step and the engine's configured duration.
func (e *Engine) Run(p RunParams) error {
	e.mu.Lock()

	if e.scenario == nil {
		e.mu.Unlock()
		e.log.Warn("run without scenario")
		return ErrNoScenario
	}
	if e.state == Running || e.state == Paused {
		err := e.reject("run")
		e.mu.Unlock()
		return err
	}
	if err := p.validate(); err != nil {
		e.mu.Unlock()
		return err
	}

	e.duration = e.cfg.Duration
	if p.Duration > 0 {
		e.duration = p.Duration
	}
	e.timeStep = e.cfg.TimeStep
	if ts := e.scenario.Physics.TimeStep; ts > 0 {
		e.timeStep = ts
	}
	if p.TimeStep > 0 {
		e.timeStep = p.TimeStep
	}

	e.elapsed = 0
	e.series = make(metrics.Series)
	e.perf = nil
	e.resetDrivers()
	for _, id := range e.integrator.IDs() {
		e.recordInitial(id)
	}
	e.state = Running

	e.log.Info("run started", "scenario", e.scenario.ID,
		"duration", e.duration, "time_step", e.timeStep, "bodies", e.integrator.Len())

	ev := e.event(EventStarted)
	subs := e.subscribers()
	e.mu.Unlock()

	e.dispatch(subs, []Event{ev})
	return nil
}

// Step advances the run by one frame. It does nothing and returns false
// unless the engine is running.
func (e *Engine) Step() bool {
	e.mu.Lock()

	if e.state != Running {
		e.mu.Unlock()
		return false
	}

	ids := e.integrator.IDs()
	for _, id := range ids {
		d, ok := e.drivers[id]
		if !ok {
			continue
		}
		st, _ := e.integrator.State(id)
		e.integrator.ApplyForce(id, d.Force(st, e.elapsed))
	}

	e.elapsed += e.timeStep
	e.integrator.Step(e.timeStep)

	for _, id := range e.integrator.IDs() {
		e.record(id)
	}

	var events []Event
	if e.finished() {
		events = append(events, e.complete())
	}
	subs := e.subscribers()
	e.mu.Unlock()

	e.dispatch(subs, events)
	return true
}

func (e *Engine) Pause() error {
	e.mu.Lock()
	if e.state != Running {
		err := e.reject("pause")
		e.mu.Unlock()
		return err
	}
	e.state = Paused
	ev := e.event(EventPaused)
	subs := e.subscribers()
	e.mu.Unlock()

	e.dispatch(subs, []Event{ev})
	return nil
}

func (e *Engine) Resume() error {
	e.mu.Lock()
	if e.state != Paused {
		err := e.reject("resume")
		e.mu.Unlock()
		return err
	}
	e.state = Running
	ev := e.event(EventResumed)
	subs := e.subscribers()
	e.mu.Unlock()

	e.dispatch(subs, []Event{ev})
	return nil
}

// Reset is valid from any state. Every body goes back to the pose it had
// right after registration, at rest with no queued forces.
func (e *Engine) Reset() {
	e.mu.Lock()

	for _, id := range e.integrator.IDs() {
		b, _ := e.integrator.Body(id)
		if p, ok := e.initial[id]; ok {
			b.Handle.SetPosition(p.pos)
			b.Handle.SetRotation(p.rot)
		}
		e.integrator.SetKinematics(id, physics.Vec3{}, physics.Vec3{})
	}
	e.resetDrivers()

	e.elapsed = 0
	e.series = make(metrics.Series)
	e.perf = nil
	e.state = Stopped

	ev := e.event(EventReset)
	subs := e.subscribers()
	e.mu.Unlock()

	e.dispatch(subs, []Event{ev})
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) ElapsedTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.elapsed
}

// Duration is the length of the current or last run.
func (e *Engine) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

// Scenario returns a copy of the current scenario, or nil.
func (e *Engine) Scenario() *scenario.Scenario {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.scenario == nil {
		return nil
	}
	return e.scenario.Clone()
}

// Series returns a copy of the samples recorded so far.
func (e *Engine) Series() metrics.Series {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.series.Clone()
}

// Performance returns the metrics frozen at completion.
func (e *Engine) Performance() (metrics.Performance, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.perf == nil {
		return metrics.Performance{}, false
	}
	return *e.perf, true
}

// Bodies returns a snapshot of every registered body in registration order.
func (e *Engine) Bodies() []physics.BodyState {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := e.integrator.IDs()
	out := make([]physics.BodyState, 0, len(ids))
	for _, id := range ids {
		st, _ := e.integrator.State(id)
		out = append(out, st)
	}
	return out
}

func (e *Engine) finished() bool {
	if e.elapsed >= e.duration-durationTolerance {
		return true
	}
	if e.elapsed <= MinRestTime {
		return false
	}
	for _, id := range e.integrator.IDs() {
		b, _ := e.integrator.Body(id)
		// NaN speeds never count as rest
		if !(b.Speed() < RestSpeedThreshold) {
			return false
		}
	}
	return true
}

func (e *Engine) complete() Event {
	perf := metrics.Compute(e.series, e.elapsed)
	e.perf = &perf
	e.state = Completed

	e.log.Info("run completed", "scenario", e.scenario.ID,
		"elapsed", e.elapsed, "samples", e.series.Len(), "max_speed", perf.MaxSpeed)

	ev := e.event(EventCompleted)
	ev.Completion = &Completion{
		ElapsedTime: e.elapsed,
		Series:      e.series.Clone(),
		Metrics:     perf,
	}
	return ev
}

func (e *Engine) recordInitial(id string) {
	b, ok := e.integrator.Body(id)
	if !ok {
		return
	}
	e.series[id] = append(e.series[id], metrics.Sample{
		Time:     e.elapsed,
		Position: b.Handle.Position(),
		Speed:    b.Speed(),
		Velocity: b.Velocity,
	})
}

func (e *Engine) record(id string) {
	b, ok := e.integrator.Body(id)
	if !ok {
		return
	}

	power := math.Abs(b.Velocity.Dot(b.Acceleration)) * e.cfg.PowerScale
	energy := power * e.timeStep
	prev := e.series[id]
	if n := len(prev); n > 0 {
		energy += prev[n-1].CumulativeEnergy
	}

	e.series[id] = append(prev, metrics.Sample{
		Time:                  e.elapsed,
		Position:              b.Handle.Position(),
		Speed:                 b.Speed(),
		Velocity:              b.Velocity,
		AccelerationMagnitude: b.Acceleration.Len(),
		Acceleration:          b.Acceleration,
		Power:                 power,
		CumulativeEnergy:      energy,
	})
}

func (e *Engine) resetDrivers() {
	for _, d := range e.drivers {
		if r, ok := d.(driver.Resetter); ok {
			r.Reset()
		}
	}
}

func (e *Engine) reject(op string) error {
	err := &TransitionError{Op: op, State: e.state}
	e.log.Warn("ignored lifecycle call", "op", op, "state", e.state.String())
	return err
}

func (e *Engine) event(t EventType) Event {
	return Event{Type: t, State: e.state, ElapsedTime: e.elapsed}
}

func (e *Engine) subscribers() []subscription {
	out := make([]subscription, len(e.subs))
	copy(out, e.subs)
	return out
}
