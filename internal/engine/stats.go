package engine

import "sync/atomic"

// TxStats holds monotonically increasing transmission counters. Reset at
// process start, never persisted.
type TxStats struct {
	framesSent   atomic.Uint64
	framesFailed atomic.Uint64
	bytesSent    atomic.Uint64
}

func (s *TxStats) recordSent(n int) {
	s.framesSent.Add(1)
	s.bytesSent.Add(uint64(n))
}

func (s *TxStats) recordFailed() {
	s.framesFailed.Add(1)
}

// FramesSent returns the number of frames successfully injected.
func (s *TxStats) FramesSent() uint64 { return s.framesSent.Load() }

// FramesFailed returns the number of injection failures.
func (s *TxStats) FramesFailed() uint64 { return s.framesFailed.Load() }

// BytesSent returns total bytes injected, headers included.
func (s *TxStats) BytesSent() uint64 { return s.bytesSent.Load() }
