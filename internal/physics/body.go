package physics

// Props are the physical coefficients of a body.
type Props struct {
	Mass          float64 `json:"mass" yaml:"mass"`
	Friction      float64 `json:"friction" yaml:"friction"`
	AirResistance float64 `json:"air_resistance" yaml:"air_resistance"`
}

// Body is a point mass registered with an Integrator.
type Body struct {
	ID            string
	Handle        Handle
	Velocity      Vec3
	Acceleration  Vec3
	Mass          float64
	Friction      float64
	AirResistance float64

	pending []Vec3
}

// PendingForces returns a copy of the forces queued for the next step.
func (b *Body) PendingForces() []Vec3 {
	out := make([]Vec3, len(b.pending))
	copy(out, b.pending)
	return out
}

// Speed is the magnitude of the body's velocity.
func (b *Body) Speed() float64 {
	return b.Velocity.Len()
}

// BodyState is a value snapshot of a body after the last step.
type BodyState struct {
	ID           string  `json:"id"`
	Position     Vec3    `json:"position"`
	Rotation     Vec3    `json:"rotation"`
	Velocity     Vec3    `json:"velocity"`
	Acceleration Vec3    `json:"acceleration"`
	Mass         float64 `json:"mass"`
}

// Speed is the magnitude of the snapshot velocity.
func (s BodyState) Speed() float64 {
	return s.Velocity.Len()
}

func (b *Body) snapshot() BodyState {
	return BodyState{
		ID:           b.ID,
		Position:     b.Handle.Position(),
		Rotation:     b.Handle.Rotation(),
		Velocity:     b.Velocity,
		Acceleration: b.Acceleration,
		Mass:         b.Mass,
	}
}
