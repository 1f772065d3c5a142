// Package sim drives a physics.Integrator through a run lifecycle.
//
// An Engine owns one scenario, the bodies registered against it and the
// samples recorded while it runs. Stepping is explicit: tests call Step
// directly, while Drive schedules steps in real time or back to back.
//
//	stopped --Run--> running --Pause--> paused --Resume--> running
//	running --(duration reached or every body at rest)--> completed
//	completed --Run--> running
//	any --Reset--> stopped
//
// Running again from completed clears the elapsed time and the recorded
// samples but keeps the bodies where the last run left them. Reset first to
// restore their initial poses.
package sim
