package physics

import (
	"errors"
	"math"
	"testing"
)

const tol = 1e-9

func approx(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestAddBodyValidation(t *testing.T) {
	in := NewIntegrator(-9.81)

	tests := []struct {
		name   string
		id     string
		handle Handle
		props  Props
		want   error
	}{
		{"empty id", "", &Transform{}, Props{Mass: 1}, ErrInvalidBody},
		{"nil handle", "a", nil, Props{Mass: 1}, ErrInvalidBody},
		{"zero mass", "a", &Transform{}, Props{Mass: 0}, ErrInvalidBody},
		{"nan mass", "a", &Transform{}, Props{Mass: math.NaN()}, ErrInvalidBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := in.AddBody(tt.id, tt.handle, tt.props)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if err := in.AddBody("a", &Transform{}, Props{Mass: 1}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := in.AddBody("a", &Transform{}, Props{Mass: 1}); !errors.Is(err, ErrDuplicateBody) {
		t.Errorf("expected duplicate error, got %v", err)
	}
}

func TestConstantForceIntegration(t *testing.T) {
	in := NewIntegrator(0)
	h := NewTransform(Vec3{0, 5, 0}, Vec3{})
	if err := in.AddBody("car", h, Props{Mass: 2}); err != nil {
		t.Fatal(err)
	}

	body, _ := in.Body("car")
	body.Velocity = Vec3{1, 0, 0}

	force := Vec3{4, 0, 2}
	dt := 0.01
	steps := 250

	expectedPos := h.Position()
	v := body.Velocity
	for i := 0; i < steps; i++ {
		in.ApplyForce("car", force)
		in.Step(dt)

		v = v.Add(force.Mul(dt / 2))
		expectedPos = expectedPos.Add(v.Mul(dt))
	}

	wantV := Vec3{1, 0, 0}.Add(force.Mul(float64(steps) * dt / 2))
	for i := 0; i < 3; i++ {
		if !approx(body.Velocity[i], wantV[i], 1e-9) {
			t.Errorf("velocity[%d] = %.9f, want %.9f", i, body.Velocity[i], wantV[i])
		}
		if !approx(h.Position()[i], expectedPos[i], 1e-9) {
			t.Errorf("position[%d] = %.9f, want %.9f", i, h.Position()[i], expectedPos[i])
		}
	}
}

func TestGroundClamp(t *testing.T) {
	in := NewIntegrator(-9.81)
	h := NewTransform(Vec3{0, 0.001, 0}, Vec3{})
	if err := in.AddBody("car", h, Props{Mass: 1000}); err != nil {
		t.Fatal(err)
	}
	body, _ := in.Body("car")
	body.Velocity = Vec3{3, -20, 0}

	for i := 0; i < 10; i++ {
		in.Step(1.0 / 60)
		if h.Position()[1] < 0 {
			t.Fatalf("step %d: body sank to y=%f", i, h.Position()[1])
		}
		if body.Velocity[1] < 0 && h.Position()[1] == 0 {
			t.Fatalf("step %d: grounded body kept downward velocity %f", i, body.Velocity[1])
		}
	}

	if h.Position()[1] != 0 {
		t.Errorf("expected y exactly 0, got %v", h.Position()[1])
	}
	if body.Velocity[0] <= 0 {
		t.Error("ground clamp should not zero horizontal velocity")
	}
}

func TestFrictionOpposesMotion(t *testing.T) {
	in := NewIntegrator(-9.81)
	h := &Transform{}
	if err := in.AddBody("car", h, Props{Mass: 1000, Friction: 0.5}); err != nil {
		t.Fatal(err)
	}
	body, _ := in.Body("car")
	body.Velocity = Vec3{5, 0, 0}

	in.Step(1.0 / 60)

	wantAx := -0.5 * 9.81
	if !approx(body.Acceleration[0], wantAx, tol) {
		t.Errorf("ax = %f, want %f", body.Acceleration[0], wantAx)
	}
	if body.Velocity[0] >= 5 {
		t.Errorf("friction should slow the body, got vx=%f", body.Velocity[0])
	}
}

func TestQuadraticDrag(t *testing.T) {
	in := NewIntegrator(0)
	if err := in.AddBody("car", &Transform{}, Props{Mass: 2, AirResistance: 0.3}); err != nil {
		t.Fatal(err)
	}
	body, _ := in.Body("car")
	body.Velocity = Vec3{0, 0, 10}

	in.Step(0.001)

	// |F| = k * |v|^2 = 0.3 * 100, a = F / m
	want := -0.3 * 100 / 2
	if !approx(body.Acceleration[2], want, tol) {
		t.Errorf("az = %f, want %f", body.Acceleration[2], want)
	}
}

func TestForcesClearedAfterStep(t *testing.T) {
	in := NewIntegrator(0)
	if err := in.AddBody("car", &Transform{}, Props{Mass: 1}); err != nil {
		t.Fatal(err)
	}
	in.ApplyForce("car", Vec3{1, 0, 0})
	in.ApplyForce("car", Vec3{1, 0, 0})

	body, _ := in.Body("car")
	if len(body.PendingForces()) != 2 {
		t.Fatalf("expected 2 pending forces, got %d", len(body.PendingForces()))
	}

	in.Step(0.1)
	if len(body.PendingForces()) != 0 {
		t.Error("pending forces not cleared")
	}

	v := body.Velocity[0]
	in.Step(0.1)
	if body.Velocity[0] != v {
		t.Error("force acted on a step it was not applied to")
	}
}

func TestApplyForceUnknownBody(t *testing.T) {
	in := NewIntegrator(-9.81)
	if in.ApplyForce("ghost", Vec3{1, 2, 3}) {
		t.Error("expected false for unknown body")
	}
}

func TestRemoveBodyIdempotent(t *testing.T) {
	in := NewIntegrator(-9.81)
	_ = in.AddBody("a", &Transform{}, Props{Mass: 1})
	_ = in.AddBody("b", &Transform{}, Props{Mass: 1})

	if !in.RemoveBody("a") {
		t.Error("expected true on first removal")
	}
	if in.RemoveBody("a") {
		t.Error("expected false on second removal")
	}
	if ids := in.IDs(); len(ids) != 1 || ids[0] != "b" {
		t.Errorf("unexpected ids after removal: %v", ids)
	}
}

type removingHandle struct {
	Transform
	in     *Integrator
	target string
}

func (h *removingHandle) SetPosition(p Vec3) {
	h.Transform.SetPosition(p)
	h.in.RemoveBody(h.target)
}

func TestRemoveDuringStep(t *testing.T) {
	in := NewIntegrator(0)
	first := &removingHandle{in: in, target: "second"}
	second := &Transform{}

	_ = in.AddBody("first", first, Props{Mass: 1})
	_ = in.AddBody("second", second, Props{Mass: 1})
	in.ApplyForce("second", Vec3{1, 0, 0})

	in.Step(1)

	if second.Position() != (Vec3{}) {
		t.Error("removed body should not advance in the same step")
	}
	if in.Len() != 1 {
		t.Errorf("expected 1 body, got %d", in.Len())
	}
}

func TestDeterministic(t *testing.T) {
	run := func() Vec3 {
		in := NewIntegrator(-9.81)
		h := NewTransform(Vec3{0, 2, 0}, Vec3{})
		_ = in.AddBody("car", h, Props{Mass: 1200, Friction: 0.4, AirResistance: 0.3})
		b, _ := in.Body("car")
		b.Velocity = Vec3{12, 3, -1}
		for i := 0; i < 500; i++ {
			in.ApplyForce("car", Vec3{2000, 0, 0})
			in.Step(1.0 / 60)
		}
		return h.Position()
	}

	if run() != run() {
		t.Error("identical inputs produced different positions")
	}
}

func TestNaNPropagates(t *testing.T) {
	in := NewIntegrator(0)
	h := &Transform{}
	_ = in.AddBody("car", h, Props{Mass: 1})
	in.ApplyForce("car", Vec3{math.NaN(), 0, 0})
	in.Step(0.1)

	if IsFinite(h.Position()) {
		t.Error("expected NaN to reach the position")
	}
}
