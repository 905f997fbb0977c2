package vending

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/vending-fleet/internal/models"
	"github.com/rogerio-castellano/vending-fleet/internal/repo"
)

// SessionManager hands out restocking sessions. A machine admits one
// session at a time: two restockers must not interleave edits to the same
// staging layout.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[int]*Session
	machines repo.MachineRepository
}

func NewSessionManager(machines repo.MachineRepository) *SessionManager {
	return &SessionManager{
		sessions: make(map[int]*Session),
		machines: machines,
	}
}

// Open starts a restocking session for the machine, taking exclusive
// staging rights. It fails with ErrSessionActive while another session
// holds them.
func (m *SessionManager) Open(machineID int) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[machineID]; ok {
		return nil, ErrSessionActive
	}
	machine, err := m.machines.GetByID(machineID)
	if err != nil {
		return nil, fmt.Errorf("fetching machine %d: %w", machineID, err)
	}
	if !machine.Current.SameShape(machine.Staging) {
		return nil, ErrLayoutMismatch
	}

	s := &Session{
		ID:          uuid.NewString(),
		machine:     machine,
		state:       Planning,
		nextID:      1,
		outstanding: make(map[int]Instruction),
		completed:   make(map[int]bool),
		byPos:       make(map[models.Position]int),
		donePos:     make(map[models.Position]models.Slot),
		machines:    m.machines,
	}
	s.refresh()
	m.sessions[machineID] = s
	return s, nil
}

// Get returns the active session for the machine.
func (m *SessionManager) Get(machineID int) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[machineID]
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}

// Release drops the session and frees the machine's staging rights.
// Callers release after a successful commit or an abandon.
func (m *SessionManager) Release(machineID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, machineID)
}
