package driver

import (
	"testing"

	"github.com/san-kum/vehiclelab/internal/physics"
)

func TestNone(t *testing.T) {
	f := None{}.Force(physics.BodyState{Mass: 1000}, 0)
	if f != (physics.Vec3{}) {
		t.Errorf("expected zero force, got %v", f)
	}
}

func TestConstant(t *testing.T) {
	c := NewConstant(physics.Vec3{100, 0, 0})
	for i := 0; i < 3; i++ {
		if f := c.Force(physics.BodyState{}, float64(i)); f[0] != 100 {
			t.Errorf("frame %d: expected 100, got %v", i, f)
		}
	}
}

func TestCruiseDirection(t *testing.T) {
	c := NewCruise(20, physics.Vec3{2, 0, 0})

	slow := physics.BodyState{Mass: 1000, Velocity: physics.Vec3{10, 0, 0}}
	if f := c.Force(slow, 0); f[0] <= 0 {
		t.Errorf("expected forward force below target, got %v", f)
	}

	c.Reset()
	fast := physics.BodyState{Mass: 1000, Velocity: physics.Vec3{30, 0, 0}}
	if f := c.Force(fast, 0); f[0] >= 0 {
		t.Errorf("expected braking force above target, got %v", f)
	}
}

func TestCruiseClamp(t *testing.T) {
	c := NewCruise(100, physics.Vec3{0, 0, 1})
	f := c.Force(physics.BodyState{Mass: 10}, 0)
	if f[2] != c.MaxAccel*10 {
		t.Errorf("expected clamped force %f, got %f", c.MaxAccel*10, f[2])
	}
}

func TestCruiseConverges(t *testing.T) {
	in := physics.NewIntegrator(0)
	h := &physics.Transform{}
	if err := in.AddBody("car", h, physics.Props{Mass: 1200}); err != nil {
		t.Fatal(err)
	}
	c := NewCruise(15, physics.Vec3{1, 0, 0})

	dt := 1.0 / 60
	for i := 0; i < 60*60; i++ {
		st, _ := in.State("car")
		in.ApplyForce("car", c.Force(st, float64(i)*dt))
		in.Step(dt)
	}

	st, _ := in.State("car")
	if d := st.Speed() - 15; d > 0.5 || d < -0.5 {
		t.Errorf("expected speed near 15, got %f", st.Speed())
	}
}
