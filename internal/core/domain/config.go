// Package domain holds the value objects shared by the transmitter core:
// the resolved run configuration, interface state, and the error taxonomy.
package domain

import (
	"net"
	"time"
)

// RunConfig is the fully resolved, immutable configuration the engine runs
// with. Channel and frequency are both populated by the time this struct
// exists; the configuration layer rejects inputs where they conflict.
type RunConfig struct {
	Interface    string
	Channel      int
	FrequencyMHz int
	TxInterval   time.Duration
	PayloadMin   int
	PayloadMax   int
	SkipPrepare  bool
	SeqIncrement bool
}

// InterfaceState is a point-in-time snapshot of a wireless interface as
// reported by the OS. It is owned by the interface manager and never shared
// across processes.
type InterfaceState struct {
	Name         string
	Phy          string
	Mode         string // "managed", "monitor" or "unknown"
	Channel      int
	FrequencyMHz int
	HardwareAddr net.HardwareAddr
}

// CapabilityReport describes what a wireless adapter can do.
type CapabilityReport struct {
	Interface         string
	Phy               string
	SupportsMonitor   bool
	SupportsInjection bool
}
