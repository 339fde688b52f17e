package build

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Session is the explicit per-build context. It owns the serial-number
// counter used to derive unique chart identifiers, so multiple
// independent builds in one process never share state.
//
// Serials are unique and monotonically increasing within a session and
// reset with every new session; identifiers derived from them are not
// stable across builds.
type Session struct {
	// ID identifies this build in logs.
	ID string

	// Started is the session creation time.
	Started time.Time

	serial atomic.Int64
}

// NewSession creates a fresh build session.
func NewSession() *Session {
	return &Session{
		ID:      uuid.NewString(),
		Started: time.Now(),
	}
}

// NextSerial allocates the next serial number, starting at zero.
func (s *Session) NextSerial() int {
	return int(s.serial.Add(1)) - 1
}

// Serials returns how many serial numbers have been allocated, which
// equals the number of directive invocations processed.
func (s *Session) Serials() int {
	return int(s.serial.Load())
}
