package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtomicState_CompareAndSwap(t *testing.T) {
	var s atomicState

	assert.Equal(t, StateIdle, s.Get())
	assert.True(t, s.CompareAndSwap(StateIdle, StatePreparing))
	assert.False(t, s.CompareAndSwap(StateIdle, StatePreparing), "second starter must lose the race")
	assert.Equal(t, StatePreparing, s.Get())

	s.Set(StateStopped)
	assert.Equal(t, StateStopped, s.Get())
}

func TestState_String(t *testing.T) {
	cases := map[State]string{
		StateIdle:      "Idle",
		StatePreparing: "Preparing",
		StateRunning:   "Running",
		StateStopping:  "Stopping",
		StateStopped:   "Stopped",
		State(42):      "Unknown",
	}
	for s, want := range cases {
		assert.Equal(t, want, s.String())
	}
}
