package vending

import (
	"fmt"
	"sync"

	"github.com/rogerio-castellano/vending-fleet/internal/models"
	"github.com/rogerio-castellano/vending-fleet/internal/repo"
)

// SessionState tracks the lifecycle of a restocking session.
type SessionState int

const (
	// Planning: instructions outstanding, layout not yet committed.
	Planning SessionState = iota
	// Ready: every required instruction completed, commit may proceed.
	Ready
	// Committed: staging layout promoted to current and persisted.
	Committed
	// Abandoned: staged edits discarded, current layout unchanged.
	Abandoned
)

func (s SessionState) String() string {
	switch s {
	case Planning:
		return "planning"
	case Ready:
		return "ready"
	case Committed:
		return "committed"
	case Abandoned:
		return "abandoned"
	}
	return "unknown"
}

// Instruction is one numbered restocking task derived from diffing the
// staging layout against the current layout. Required instructions block
// the commit; optional ones (quantity-only top-ups) do not.
type Instruction struct {
	ID          int             `json:"id"`
	Description string          `json:"description"`
	Required    bool            `json:"required"`
	Position    models.Position `json:"position"`
}

// Session holds exclusive staging rights to one machine for the duration
// of a restock. Edits apply to a working copy of the staging layout; the
// store is untouched until a successful commit.
type Session struct {
	ID string

	mu          sync.Mutex
	machine     models.Machine
	state       SessionState
	nextID      int
	order       []int
	outstanding map[int]Instruction
	completed   map[int]bool
	byPos       map[models.Position]int
	donePos     map[models.Position]models.Slot

	machines repo.MachineRepository
}

// State returns the session's lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// MachineID returns the machine this session holds staging rights to.
func (s *Session) MachineID() int {
	return s.machine.ID
}

// StageChange sets the product at pos in the staging layout and resets
// the slot to full depth: a staged change always means the slot will be
// fully stocked on commit. Only the staging layout is touched.
func (s *Session) StageChange(pos models.Position, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Committed || s.state == Abandoned {
		return ErrSessionClosed
	}
	slot := s.machine.Staging.At(pos)
	if slot == nil {
		return ErrInvalidLocation
	}
	slot.Product = product
	slot.Quantity = s.machine.Staging.Depth
	if product == nil {
		slot.Quantity = 0
	}
	s.refresh()
	return nil
}

// Instructions returns the outstanding checklist in issue order. IDs are
// assigned sequentially from 1, stay stable for the session, and are
// never reused once an instruction has been completed.
func (s *Session) Instructions() []Instruction {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refresh()
	out := make([]Instruction, 0, len(s.outstanding))
	for _, id := range s.order {
		if ins, ok := s.outstanding[id]; ok {
			out = append(out, ins)
		}
	}
	return out
}

// CompleteInstruction marks the instruction done and removes it from the
// outstanding set. An unknown (or already completed) id is an error.
func (s *Session) CompleteInstruction(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Committed || s.state == Abandoned {
		return ErrSessionClosed
	}
	ins, ok := s.outstanding[id]
	if !ok {
		return ErrUnknownInstruction
	}
	delete(s.outstanding, id)
	delete(s.byPos, ins.Position)
	s.completed[id] = true
	// Remember what the slot was asked to become, so a later refresh
	// does not reissue work that is already done.
	if slot := s.machine.Staging.At(ins.Position); slot != nil {
		s.donePos[ins.Position] = *slot
	}
	s.updateState()
	return nil
}

// AttemptCommit promotes the staging layout into place: a full by-value
// replacement of the current layout and a single whole-machine write.
// It returns false without committing while any required instruction is
// outstanding. A failed write leaves the session in Ready so the caller
// can retry.
func (s *Session) AttemptCommit() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Committed || s.state == Abandoned {
		return false, ErrSessionClosed
	}
	s.refresh()
	if s.state != Ready {
		return false, nil
	}

	mu := lockFor(s.machine.ID)
	mu.Lock()
	defer mu.Unlock()

	// Re-fetch so purchases made during the session are not resurrected
	// on fields outside the layouts.
	fresh, err := s.machines.GetByID(s.machine.ID)
	if err != nil {
		return false, fmt.Errorf("fetching machine %d: %w", s.machine.ID, err)
	}
	if !fresh.Current.SameShape(s.machine.Staging) {
		return false, ErrLayoutMismatch
	}
	fresh.Current = s.machine.Staging.Clone()
	fresh.Staging = s.machine.Staging.Clone()
	if _, err := s.machines.Update(fresh); err != nil {
		return false, fmt.Errorf("persisting machine %d: %w", s.machine.ID, err)
	}

	s.machine = fresh
	s.state = Committed
	return true, nil
}

// Abandon discards every staged edit. The current layout and the store
// are left untouched.
func (s *Session) Abandon() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Committed || s.state == Abandoned {
		return ErrSessionClosed
	}
	s.state = Abandoned
	return nil
}

// refresh re-diffs staging against current and reconciles the checklist:
// positions that newly differ get fresh IDs, positions edited back into
// agreement drop their instruction, and descriptions follow the latest
// staged value. A position whose instruction was completed stays quiet
// until its staging slot is edited again; completed IDs are never
// reissued.
func (s *Session) refresh() {
	if s.state == Committed || s.state == Abandoned {
		return
	}
	for i := range s.machine.Staging.Slots {
		for j := range s.machine.Staging.Slots[i] {
			pos := models.Position{Row: i, Col: j}
			cur := s.machine.Current.Slots[i][j]
			staged := s.machine.Staging.Slots[i][j]

			desc, required, differs := diffSlot(cur, staged, pos)
			id, instructed := s.byPos[pos]
			doneSlot, done := s.donePos[pos]
			switch {
			case differs && instructed:
				s.outstanding[id] = Instruction{ID: id, Description: desc, Required: required, Position: pos}
			case differs && done && sameSlot(staged, doneSlot):
				// The restocker already did this; nothing to reissue.
			case differs:
				delete(s.donePos, pos)
				id = s.nextID
				s.nextID++
				s.order = append(s.order, id)
				s.outstanding[id] = Instruction{ID: id, Description: desc, Required: required, Position: pos}
				s.byPos[pos] = id
			case instructed:
				delete(s.outstanding, id)
				delete(s.byPos, pos)
			default:
				delete(s.donePos, pos)
			}
		}
	}
	s.updateState()
}

// sameSlot compares slots by product identity and quantity.
func sameSlot(a, b models.Slot) bool {
	aID, bID := 0, 0
	if a.Product != nil {
		aID = a.Product.ID
	}
	if b.Product != nil {
		bID = b.Product.ID
	}
	return aID == bID && a.Quantity == b.Quantity
}

func (s *Session) updateState() {
	if s.state == Committed || s.state == Abandoned {
		return
	}
	for _, ins := range s.outstanding {
		if ins.Required {
			s.state = Planning
			return
		}
	}
	s.state = Ready
}

// diffSlot compares one position across the two layouts. A product swap
// (including filling or emptying the slot) is a required task; topping up
// an already-correct product is best-effort.
func diffSlot(cur, staged models.Slot, pos models.Position) (string, bool, bool) {
	curID, stagedID := 0, 0
	if cur.Product != nil {
		curID = cur.Product.ID
	}
	if staged.Product != nil {
		stagedID = staged.Product.ID
	}

	switch {
	case stagedID != curID && staged.Product == nil:
		return fmt.Sprintf("Remove %s from slot (%d,%d)", cur.Product.Name, pos.Row, pos.Col), true, true
	case stagedID != curID:
		return fmt.Sprintf("Load %d %s into slot (%d,%d)", staged.Quantity, staged.Product.Name, pos.Row, pos.Col), true, true
	case staged.Product != nil && staged.Quantity != cur.Quantity:
		return fmt.Sprintf("Top up %s in slot (%d,%d) to %d", staged.Product.Name, pos.Row, pos.Col, staged.Quantity), false, true
	}
	return "", false, false
}
