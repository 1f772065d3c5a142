package sim

import "fmt"

type State int

const (
	Stopped State = iota
	Running
	Paused
	Completed
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "stopped":
		*s = Stopped
	case "running":
		*s = Running
	case "paused":
		*s = Paused
	case "completed":
		*s = Completed
	default:
		return fmt.Errorf("sim: unknown state %q", string(b))
	}
	return nil
}
