package sim

import "errors"

var (
	// ErrNoScenario is returned when a call needs a scenario and none is set.
	ErrNoScenario = errors.New("sim: no scenario set")

	// ErrInvalidTransition is returned for lifecycle calls the current state
	// does not allow. The engine is left untouched.
	ErrInvalidTransition = errors.New("sim: invalid state transition")

	// ErrInvalidParams indicates negative or non-finite run parameters.
	ErrInvalidParams = errors.New("sim: invalid run parameters")

	// ErrUnknownBody is returned when a body id is not registered.
	ErrUnknownBody = errors.New("sim: unknown body")

	// ErrUnknownFormat is returned by ParseFormat.
	ErrUnknownFormat = errors.New("sim: unknown export format")
)

// TransitionError records which call was rejected in which state.
type TransitionError struct {
	Op    string
	State State
}

func (e *TransitionError) Error() string {
	return "sim: cannot " + e.Op + " while " + e.State.String()
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
