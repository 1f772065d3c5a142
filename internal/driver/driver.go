package driver

import "github.com/san-kum/vehiclelab/internal/physics"

// Driver produces the force applied to a body on the next step.
type Driver interface {
	Force(b physics.BodyState, t float64) physics.Vec3
}

// Resetter is implemented by drivers carrying state between frames.
type Resetter interface {
	Reset()
}

// None applies no force.
type None struct{}

func (None) Force(physics.BodyState, float64) physics.Vec3 { return physics.Vec3{} }

// Constant applies the same force every frame.
type Constant struct {
	F physics.Vec3
}

func NewConstant(f physics.Vec3) *Constant {
	return &Constant{F: f}
}

func (c *Constant) Force(physics.BodyState, float64) physics.Vec3 { return c.F }
