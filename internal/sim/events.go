package sim

import (
	"fmt"

	"github.com/san-kum/vehiclelab/internal/metrics"
)

type EventType string

const (
	EventStarted   EventType = "started"
	EventPaused    EventType = "paused"
	EventResumed   EventType = "resumed"
	EventReset     EventType = "reset"
	EventCompleted EventType = "completed"
)

// Event is a snapshot taken when the engine changed state.
type Event struct {
	Type        EventType
	State       State
	ElapsedTime float64
	// Completion is only set on EventCompleted.
	Completion *Completion
}

type Completion struct {
	ElapsedTime float64
	Series      metrics.Series
	Metrics     metrics.Performance
}

// Handler observes engine events. Handlers run synchronously on the
// goroutine that triggered the event, without the engine lock held.
type Handler func(Event) error

type subscription struct {
	id int
	fn Handler
}

// Subscribe registers h and returns an id for Unsubscribe.
func (e *Engine) Subscribe(h Handler) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextSub++
	e.subs = append(e.subs, subscription{id: e.nextSub, fn: h})
	return e.nextSub
}

func (e *Engine) Unsubscribe(id int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, s := range e.subs {
		if s.id == id {
			e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
			return true
		}
	}
	return false
}

// dispatch must be called without e.mu held.
func (e *Engine) dispatch(subs []subscription, events []Event) {
	for _, ev := range events {
		for _, s := range subs {
			if err := e.invoke(s, ev); err != nil {
				e.log.Error("event handler failed",
					"event", ev.Type, "subscriber", s.id, "error", err)
			}
		}
	}
}

func (e *Engine) invoke(s subscription, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.fn(ev)
}
