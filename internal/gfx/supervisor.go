package gfx

import (
	"time"

	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/events"
)

// ContextState is the supervisor's explicit state enum. The frame driver
// inspects it directly instead of relying on error subclassing.
type ContextState int

const (
	ContextValid ContextState = iota
	ContextLost
	ContextRecovering
)

func (s ContextState) String() string {
	switch s {
	case ContextValid:
		return "valid"
	case ContextLost:
		return "lost"
	case ContextRecovering:
		return "recovering"
	default:
		return "unknown"
	}
}

// DefaultRestoreTimeout is how long the supervisor waits for a restored
// signal before attempting a manual restore.
const DefaultRestoreTimeout = 10 * time.Second

// ContextEvent notifies observers of state changes. Persistent is set when
// recovery has been given up on and the host should show a lasting notice.
type ContextEvent struct {
	State      ContextState
	Persistent bool
}

// Supervisor tracks context validity around the frame loop. Transitions
// serialize with ticks: the scheduler consults Usable before any draw, so
// no frame runs between a lost signal and the halt.
type Supervisor struct {
	device  Device
	timeout time.Duration

	state           ContextState
	lostAt          time.Time
	manualAttempted bool
	persistent      bool

	bus *events.Bus[ContextEvent]
}

func NewSupervisor(device Device, timeout time.Duration) *Supervisor {
	if timeout <= 0 {
		timeout = DefaultRestoreTimeout
	}
	return &Supervisor{
		device:  device,
		timeout: timeout,
		state:   ContextValid,
		bus:     events.NewBus[ContextEvent](),
	}
}

// State returns the current context state.
func (s *Supervisor) State() ContextState { return s.state }

// PersistentNotice reports whether recovery was abandoned.
func (s *Supervisor) PersistentNotice() bool { return s.persistent }

// OnStateChange subscribes to context transitions.
func (s *Supervisor) OnStateChange(fn func(ContextEvent)) *events.Subscription {
	return s.bus.Subscribe(fn)
}

// Close releases all subscribers.
func (s *Supervisor) Close() { s.bus.Close() }

// NotifyLost records a context-lost signal from the platform.
func (s *Supervisor) NotifyLost(now time.Time) {
	if s.state == ContextLost {
		return
	}
	s.state = ContextLost
	s.lostAt = now
	s.manualAttempted = false
	s.persistent = false
	s.bus.Publish(ContextEvent{State: ContextLost})
}

// NotifyRestored records a context-restored signal. The caller is expected
// to re-upload all cached resources afterwards; device-side texture memory
// does not survive the loss.
func (s *Supervisor) NotifyRestored() {
	if s.state == ContextValid {
		return
	}
	s.state = ContextValid
	s.persistent = false
	s.bus.Publish(ContextEvent{State: ContextValid})
}

// Usable is consulted once per tick. While lost, it drives the restore
// timeout: after the timeout a single manual restore is attempted when the
// device supports it; otherwise the supervisor settles into a persistent
// degraded notice and waits for the platform signal.
func (s *Supervisor) Usable(now time.Time) bool {
	switch s.state {
	case ContextValid:
		return true
	case ContextRecovering:
		return false
	default:
	}

	if s.manualAttempted || now.Sub(s.lostAt) < s.timeout {
		return false
	}
	s.manualAttempted = true

	if !s.device.SupportsManualRestore() {
		s.persistent = true
		s.bus.Publish(ContextEvent{State: ContextLost, Persistent: true})
		return false
	}

	s.state = ContextRecovering
	s.bus.Publish(ContextEvent{State: ContextRecovering})

	if err := s.device.Restore(); err != nil {
		s.state = ContextLost
		s.persistent = true
		s.bus.Publish(ContextEvent{State: ContextLost, Persistent: true})
		return false
	}

	s.NotifyRestored()
	return true
}
