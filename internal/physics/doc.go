// Package physics advances point-mass bodies with a fixed-step integrator.
//
// Each registered body carries mass and friction/drag coefficients and an
// externally owned [Handle] whose position the integrator moves:
//
//   - [Integrator]: owns the bodies and accumulates forces every step
//   - [Body]: velocity, acceleration and pending forces of one point mass
//   - [Handle]: position/rotation view owned by a renderer or the caller
//   - [Transform]: the in-process Handle implementation
//
// # Forces
//
// Every step sums gravity, the applied forces queued since the last step,
// kinetic friction and quadratic air drag, then advances velocity before
// position (semi-implicit Euler). Bodies cannot sink below y = 0.
//
//	integ := physics.NewIntegrator(-9.81)
//	integ.AddBody("car", &physics.Transform{}, physics.Props{Mass: 1000, Friction: 0.5})
//	integ.ApplyForce("car", physics.Vec3{4000, 0, 0})
//	integ.Step(1.0 / 60)
//
// Applied forces are cleared after each step and must be queued again for
// every frame they should act.
package physics
