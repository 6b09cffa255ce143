package engine

import "sync/atomic"

// State represents the engine lifecycle.
type State int32

const (
	StateIdle      State = iota // created but not started
	StatePreparing              // staging the interface
	StateRunning                // steady-state send loop
	StateStopping               // cancellation or fatal failure observed
	StateStopped                // terminal; the engine is not reusable
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StatePreparing:
		return "Preparing"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateStopped:
		return "Stopped"
	}
	return "Unknown"
}

// atomicState wraps atomic operations for State.
type atomicState struct {
	v int32
}

func (a *atomicState) Set(s State) {
	atomic.StoreInt32(&a.v, int32(s))
}

func (a *atomicState) Get() State {
	return State(atomic.LoadInt32(&a.v))
}

func (a *atomicState) CompareAndSwap(old, new State) bool {
	return atomic.CompareAndSwapInt32(&a.v, int32(old), int32(new))
}
