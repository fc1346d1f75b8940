package selection

import (
	"errors"
	"sync"
)

// State of an in-progress seat selection. Selection is client-local:
// nothing is held server-side until the booking commit.
type State string

const (
	StateIdle       State = "IDLE"       // no ticket count chosen yet
	StatePicking    State = "PICKING"    // 0 <= selected < target
	StateReady      State = "READY"      // selected == target
	StateCommitting State = "COMMITTING" // checkout submitted
	StateCommitted  State = "COMMITTED"  // terminal
	StateCancelled  State = "CANCELLED"  // terminal, user abandoned checkout
)

var (
	ErrNoTarget        = errors.New("ticket count not chosen yet")
	ErrSelectionFull   = errors.New("selection already has the chosen number of seats")
	ErrSeatUnavailable = errors.New("seat is not available for selection")
	ErrNotReady        = errors.New("selection is not complete")
	ErrFinished        = errors.New("selection is already finished")
	ErrNotCommitting   = errors.New("no commit in progress")
)

// Machine enforces the selection-count and toggle invariants while a
// user picks seats before checkout.
type Machine struct {
	mu      sync.Mutex
	state   State
	target  int
	picks   []string
	lastErr error
}

func New() *Machine {
	return &Machine{state: StateIdle}
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Picks returns the current selection in pick order.
func (m *Machine) Picks() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.picks))
	copy(out, m.picks)
	return out
}

// Err returns the error surfaced by the last failed commit, if any.
func (m *Machine) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// SetTarget sets the number of tickets being bought. Lowering it below
// the current selection truncates from the end, keeping the earliest
// picks in original order.
func (m *Machine) SetTarget(n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finished() || m.state == StateCommitting {
		return ErrFinished
	}
	if n <= 0 {
		return errors.New("ticket count must be positive")
	}
	m.target = n
	if len(m.picks) > n {
		m.picks = m.picks[:n]
	}
	m.reevaluate()
	return nil
}

// Toggle adds the seat if absent and removes it if present. selectable
// is the caller's availability verdict for the seat; it only matters
// when adding.
func (m *Machine) Toggle(seatID string, selectable bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finished() || m.state == StateCommitting {
		return ErrFinished
	}
	if m.state == StateIdle {
		return ErrNoTarget
	}

	for i, picked := range m.picks {
		if picked == seatID {
			m.picks = append(m.picks[:i], m.picks[i+1:]...)
			m.reevaluate()
			return nil
		}
	}

	if !selectable {
		return ErrSeatUnavailable
	}
	if len(m.picks) >= m.target {
		// Rejected with no state change; the caller surfaces the warning.
		return ErrSelectionFull
	}
	m.picks = append(m.picks, seatID)
	m.reevaluate()
	return nil
}

// Drop removes a seat that another user booked out from under this
// selection, re-opening picking.
func (m *Machine) Drop(seatID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, picked := range m.picks {
		if picked == seatID {
			m.picks = append(m.picks[:i], m.picks[i+1:]...)
			break
		}
	}
	if m.state == StateReady || m.state == StatePicking {
		m.reevaluate()
	}
}

// BeginCommit moves a complete selection into the commit phase.
func (m *Machine) BeginCommit() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finished() {
		return ErrFinished
	}
	if m.state != StateReady {
		return ErrNotReady
	}
	m.state = StateCommitting
	m.lastErr = nil
	return nil
}

// Complete marks the commit as succeeded. Terminal.
func (m *Machine) Complete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateCommitting {
		return ErrNotCommitting
	}
	m.state = StateCommitted
	return nil
}

// Fail records a commit failure and returns the machine to picking or
// ready so the user can retry. Recoverable, unlike Cancel.
func (m *Machine) Fail(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateCommitting {
		return ErrNotCommitting
	}
	m.lastErr = err
	m.reevaluate()
	return nil
}

// Cancel abandons the checkout, discarding the local selection. No
// server-side effect: no hold was ever taken.
func (m *Machine) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateCommitted {
		return
	}
	m.picks = nil
	m.state = StateCancelled
}

func (m *Machine) finished() bool {
	return m.state == StateCommitted || m.state == StateCancelled
}

func (m *Machine) reevaluate() {
	if m.target <= 0 {
		m.state = StateIdle
		return
	}
	if len(m.picks) == m.target {
		m.state = StateReady
	} else {
		m.state = StatePicking
	}
}
