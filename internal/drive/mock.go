package drive

import (
	"bytes"
	"errors"
	"strings"
	"sync"
)

// TestablePort implements Porter with configurable behaviour for testing.
// It captures written commands and can inject write and close errors.
type TestablePort struct {
	mu sync.Mutex

	// WriteBuffer captures data written to the port
	WriteBuffer *bytes.Buffer

	// WriteError is returned by the next Write call if set
	WriteError error

	// CloseError is returned by Close if set
	CloseError error

	// Closed indicates whether Close was called
	Closed bool

	// WriteCalls records the number of Write calls
	WriteCalls int
}

// NewTestablePort creates a new TestablePort for testing.
func NewTestablePort() *TestablePort {
	return &TestablePort{WriteBuffer: bytes.NewBuffer(nil)}
}

// Write captures p, optionally returning an injected error instead.
func (t *TestablePort) Write(p []byte) (n int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.WriteCalls++

	if t.Closed {
		return 0, errors.New("serial port closed")
	}

	if t.WriteError != nil {
		err := t.WriteError
		t.WriteError = nil
		return 0, err
	}

	return t.WriteBuffer.Write(p)
}

// Close marks the port as closed.
func (t *TestablePort) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Closed = true
	return t.CloseError
}

// Commands returns the newline-delimited command tokens written so far.
func (t *TestablePort) Commands() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	raw := strings.TrimSuffix(t.WriteBuffer.String(), "\n")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "\n")
}

// Reset clears the captured writes.
func (t *TestablePort) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.WriteBuffer.Reset()
	t.WriteCalls = 0
}
