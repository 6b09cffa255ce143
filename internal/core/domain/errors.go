package domain

import (
	"errors"
	"fmt"
)

// ErrInterfaceNotFound indicates the named interface does not exist or has no
// 802.11 stack. Fatal precondition, never retried.
var ErrInterfaceNotFound = errors.New("interface not found")

// UnsupportedAdapterError indicates the adapter exists but lacks a capability
// required for raw frame transmission.
type UnsupportedAdapterError struct {
	Interface string
	Missing   string // "monitor mode" or "injection"
}

func (e *UnsupportedAdapterError) Error() string {
	return fmt.Sprintf("adapter %s does not support %s", e.Interface, e.Missing)
}

// ModeTransitionError indicates a step of the interface staging sequence
// failed after exhausting its retry budget.
type ModeTransitionError struct {
	Interface string
	Step      string
	Err       error
}

func (e *ModeTransitionError) Error() string {
	return fmt.Sprintf("interface %s: %s failed: %v", e.Interface, e.Step, e.Err)
}

func (e *ModeTransitionError) Unwrap() error { return e.Err }

// FrequencySetError indicates the fixed operating frequency could not be set.
type FrequencySetError struct {
	Interface    string
	FrequencyMHz int
	Err          error
}

func (e *FrequencySetError) Error() string {
	return fmt.Sprintf("interface %s: set frequency %d MHz failed: %v", e.Interface, e.FrequencyMHz, e.Err)
}

func (e *FrequencySetError) Unwrap() error { return e.Err }

// InvalidRangeError indicates an invalid payload size range.
type InvalidRangeError struct {
	Min int
	Max int
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid payload range: min %d, max %d", e.Min, e.Max)
}

// SustainedFailureError indicates a contiguous run of frame injection
// failures exceeded the engine's threshold, which signals adapter or driver
// failure rather than a transient drop.
type SustainedFailureError struct {
	Consecutive int
	Err         error
}

func (e *SustainedFailureError) Error() string {
	return fmt.Sprintf("sustained injection failure: %d consecutive errors, last: %v", e.Consecutive, e.Err)
}

func (e *SustainedFailureError) Unwrap() error { return e.Err }
