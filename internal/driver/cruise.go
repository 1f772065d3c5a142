package driver

import (
	"math"

	"github.com/san-kum/vehiclelab/internal/physics"
)

// Cruise holds a target speed along a heading with a PID loop on speed
// error. The output acceleration is scaled by body mass and clamped to
// MaxAccel.
type Cruise struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Target   float64
	Heading  physics.Vec3
	MaxAccel float64
	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func NewCruise(target float64, heading physics.Vec3) *Cruise {
	if heading.Len() == 0 {
		heading = physics.Vec3{1, 0, 0}
	}
	return &Cruise{
		Kp:       1.2,
		Ki:       0.1,
		Kd:       0.05,
		Target:   target,
		Heading:  heading.Normalize(),
		MaxAccel: 4.0,
		first:    true,
	}
}

func (c *Cruise) Force(b physics.BodyState, t float64) physics.Vec3 {
	err := c.Target - b.Velocity.Dot(c.Heading)

	var u, step float64
	if c.first {
		c.prevErr = err
		c.prevT = t
		c.first = false
		u = c.Kp * err
	} else if dt := t - c.prevT; dt > 0 {
		step = err * dt
		c.integral += step
		derivative := (err - c.prevErr) / dt
		u = c.Kp*err + c.Ki*c.integral + c.Kd*derivative
		c.prevErr = err
		c.prevT = t
	} else {
		u = c.Kp * err
	}

	if c.MaxAccel > 0 && math.Abs(u) > c.MaxAccel {
		// no integration while saturated
		c.integral -= step
		u = math.Copysign(c.MaxAccel, u)
	}
	return c.Heading.Mul(u * b.Mass)
}

func (c *Cruise) Reset() {
	c.integral = 0
	c.prevErr = 0
	c.prevT = 0
	c.first = true
}
