package render

import (
	ierr "github.com/flexprice/invoicer/internal/errors"
)

// State of a single render request
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateRendering  State = "rendering"
	StateRejected   State = "rejected"
)

var transitions = map[State][]State{
	StateIdle:       {StateValidating},
	StateValidating: {StateRendering, StateRejected},
}

// machine tracks one request through Idle -> Validating -> Rendering|Rejected
type machine struct {
	state State
}

func newMachine() *machine {
	return &machine{state: StateIdle}
}

func (m *machine) to(next State) error {
	for _, allowed := range transitions[m.state] {
		if allowed == next {
			m.state = next
			return nil
		}
	}
	return ierr.NewErrorf("illegal render state transition %s -> %s", m.state, next).
		Mark(ierr.ErrInvalidOperation)
}
