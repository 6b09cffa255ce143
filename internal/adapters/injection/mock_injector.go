package injection

import "sync"

// MockInjector implements PacketInjector for testing. It captures injected
// frames in memory instead of sending them to a network interface.
type MockInjector struct {
	mu     sync.Mutex
	Frames [][]byte
	Closed bool

	// Err, when set, is returned by every Inject call.
	Err error
}

// NewMockInjector creates a new instance of MockInjector.
func NewMockInjector() *MockInjector {
	return &MockInjector{
		Frames: make([][]byte, 0),
	}
}

// Inject stores a copy of the frame, or fails with Err.
func (m *MockInjector) Inject(frame []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	// Copy so callers can reuse their assembly buffer.
	f := make([]byte, len(frame))
	copy(f, frame)
	m.Frames = append(m.Frames, f)
	return nil
}

// Close marks the injector as closed.
func (m *MockInjector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
}

// GetFrames returns a copy of the captured frames.
func (m *MockInjector) GetFrames() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	frames := make([][]byte, len(m.Frames))
	for i, f := range m.Frames {
		frames[i] = make([]byte, len(f))
		copy(frames[i], f)
	}
	return frames
}

// SetErr switches every subsequent Inject call to fail with err (nil to
// restore success).
func (m *MockInjector) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}
