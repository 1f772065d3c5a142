package physics

import (
	"fmt"
	"math"
)

// Integrator advances every registered body by one fixed timestep.
// It is not safe for concurrent use.
type Integrator struct {
	gravity float64
	bodies  map[string]*Body
	order   []string
}

func NewIntegrator(gravity float64) *Integrator {
	return &Integrator{
		gravity: gravity,
		bodies:  make(map[string]*Body),
		order:   make([]string, 0),
	}
}

func (in *Integrator) SetGravity(g float64) { in.gravity = g }
func (in *Integrator) Gravity() float64     { return in.gravity }
func (in *Integrator) Len() int             { return len(in.order) }

// AddBody registers a body moving h. The body starts at rest.
func (in *Integrator) AddBody(id string, h Handle, p Props) error {
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidBody)
	}
	if h == nil {
		return fmt.Errorf("%w: %s has no handle", ErrInvalidBody, id)
	}
	if !(p.Mass > 0) {
		return fmt.Errorf("%w: %s mass must be positive, got %f", ErrInvalidBody, id, p.Mass)
	}
	if _, ok := in.bodies[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateBody, id)
	}

	in.bodies[id] = &Body{
		ID:            id,
		Handle:        h,
		Mass:          p.Mass,
		Friction:      p.Friction,
		AirResistance: p.AirResistance,
	}
	in.order = append(in.order, id)
	return nil
}

// RemoveBody unregisters id. It returns false if id was not registered.
func (in *Integrator) RemoveBody(id string) bool {
	if _, ok := in.bodies[id]; !ok {
		return false
	}
	delete(in.bodies, id)
	for i, o := range in.order {
		if o == id {
			in.order = append(in.order[:i:i], in.order[i+1:]...)
			break
		}
	}
	return true
}

// ApplyForce queues f on id for the next step. Unknown ids are ignored.
func (in *Integrator) ApplyForce(id string, f Vec3) bool {
	b, ok := in.bodies[id]
	if !ok {
		return false
	}
	b.pending = append(b.pending, f)
	return true
}

// Body returns the live body registered as id.
func (in *Integrator) Body(id string) (*Body, bool) {
	b, ok := in.bodies[id]
	return b, ok
}

// State returns a snapshot of id.
func (in *Integrator) State(id string) (BodyState, bool) {
	b, ok := in.bodies[id]
	if !ok {
		return BodyState{}, false
	}
	return b.snapshot(), true
}

// IDs returns the registered ids in registration order.
func (in *Integrator) IDs() []string {
	ids := make([]string, len(in.order))
	copy(ids, in.order)
	return ids
}

// SetKinematics overwrites velocity and acceleration of id and drops its
// pending forces.
func (in *Integrator) SetKinematics(id string, vel, acc Vec3) bool {
	b, ok := in.bodies[id]
	if !ok {
		return false
	}
	b.Velocity = vel
	b.Acceleration = acc
	b.pending = b.pending[:0]
	return true
}

// Step advances every body by dt.
func (in *Integrator) Step(dt float64) {
	ids := in.IDs()
	for _, id := range ids {
		b, ok := in.bodies[id]
		if !ok {
			continue
		}
		in.stepBody(b, dt)
	}
}

func (in *Integrator) stepBody(b *Body, dt float64) {
	force := in.totalForce(b)

	b.Acceleration = force.Mul(1 / b.Mass)
	b.Velocity = b.Velocity.Add(b.Acceleration.Mul(dt))

	pos := b.Handle.Position().Add(b.Velocity.Mul(dt))
	if pos[1] < 0 {
		pos[1] = 0
		b.Velocity[1] = math.Max(b.Velocity[1], 0)
	}
	b.Handle.SetPosition(pos)

	b.pending = b.pending[:0]
}

func (in *Integrator) totalForce(b *Body) Vec3 {
	force := Vec3{0, b.Mass * in.gravity, 0}

	for _, f := range b.pending {
		force = force.Add(f)
	}

	speed := b.Velocity.Len()
	if speed > 0 {
		dir := b.Velocity.Mul(1 / speed)
		friction := dir.Mul(-b.Friction * b.Mass * math.Abs(in.gravity))
		drag := b.Velocity.Mul(-b.AirResistance * speed)
		force = force.Add(friction).Add(drag)
	}

	return force
}
