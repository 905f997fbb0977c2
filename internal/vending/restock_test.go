package vending

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/rogerio-castellano/vending-fleet/internal/models"
	"github.com/rogerio-castellano/vending-fleet/internal/repo"
)

func openTestSession(t *testing.T) (*SessionManager, *Session, *fleet) {
	t.Helper()

	f := newTestFleet(t, 200)
	mgr := NewSessionManager(f.machines)
	session, err := mgr.Open(f.machineID)
	if err != nil {
		t.Fatalf("opening session: %v", err)
	}
	return mgr, session, f
}

func findByPosition(instructions []Instruction, pos models.Position) (Instruction, bool) {
	for _, ins := range instructions {
		if ins.Position == pos {
			return ins, true
		}
	}
	return Instruction{}, false
}

func TestSessionManager_OneSessionPerMachine(t *testing.T) {
	mgr, session, f := openTestSession(t)

	if session.ID == "" {
		t.Error("expected a session ID")
	}
	if _, err := mgr.Open(f.machineID); !errors.Is(err, ErrSessionActive) {
		t.Fatalf("expected ErrSessionActive, got %v", err)
	}

	mgr.Release(f.machineID)
	if _, err := mgr.Open(f.machineID); err != nil {
		t.Fatalf("expected reopen after release, got %v", err)
	}
}

func TestSessionManager_UnknownMachine(t *testing.T) {
	mgr := NewSessionManager(repo.NewInMemoryMachineRepository())

	if _, err := mgr.Open(42); !errors.Is(err, repo.ErrMachineNotFound) {
		t.Fatalf("expected ErrMachineNotFound, got %v", err)
	}
	if _, err := mgr.Get(42); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestSession_StageChangeProducesInstructions(t *testing.T) {
	_, session, _ := openTestSession(t)

	if got := len(session.Instructions()); got != 0 {
		t.Fatalf("expected no instructions on a fresh session, got %d", got)
	}

	// Load soda into the empty corner slot: a required product change.
	if err := session.StageChange(models.Position{Row: 1, Col: 1}, &soda); err != nil {
		t.Fatalf("staging change: %v", err)
	}
	// Top up the chips slot: quantity-only, best effort.
	if err := session.StageChange(models.Position{Row: 0, Col: 0}, &chips); err != nil {
		t.Fatalf("staging top-up: %v", err)
	}

	instructions := session.Instructions()
	if len(instructions) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(instructions))
	}

	load, ok := findByPosition(instructions, models.Position{Row: 1, Col: 1})
	if !ok || !load.Required {
		t.Errorf("expected a required instruction at (1,1), got %+v", load)
	}
	if !strings.Contains(load.Description, "Load") || !strings.Contains(load.Description, "Soda") {
		t.Errorf("unexpected description: %q", load.Description)
	}

	topUp, ok := findByPosition(instructions, models.Position{Row: 0, Col: 0})
	if !ok || topUp.Required {
		t.Errorf("expected an optional top-up at (0,0), got %+v", topUp)
	}
	if !strings.Contains(topUp.Description, "Top up") {
		t.Errorf("unexpected description: %q", topUp.Description)
	}
}

func TestSession_StageRemoval(t *testing.T) {
	_, session, _ := openTestSession(t)

	if err := session.StageChange(models.Position{Row: 1, Col: 0}, nil); err != nil {
		t.Fatalf("staging removal: %v", err)
	}

	instructions := session.Instructions()
	if len(instructions) != 1 {
		t.Fatalf("expected 1 instruction, got %d", len(instructions))
	}
	if !instructions[0].Required {
		t.Error("removal must be a required instruction")
	}
	if !strings.Contains(instructions[0].Description, "Remove Gum") {
		t.Errorf("unexpected description: %q", instructions[0].Description)
	}
}

func TestSession_StageOutOfBounds(t *testing.T) {
	_, session, _ := openTestSession(t)

	if err := session.StageChange(models.Position{Row: 5, Col: 0}, &soda); !errors.Is(err, ErrInvalidLocation) {
		t.Fatalf("expected ErrInvalidLocation, got %v", err)
	}
}

func TestSession_EditBackToAgreementDropsInstruction(t *testing.T) {
	_, session, _ := openTestSession(t)

	if err := session.StageChange(models.Position{Row: 1, Col: 1}, &soda); err != nil {
		t.Fatalf("staging change: %v", err)
	}
	if got := len(session.Instructions()); got != 1 {
		t.Fatalf("expected 1 instruction, got %d", got)
	}

	if err := session.StageChange(models.Position{Row: 1, Col: 1}, nil); err != nil {
		t.Fatalf("reverting change: %v", err)
	}
	if got := len(session.Instructions()); got != 0 {
		t.Errorf("expected reverted edit to drop its instruction, got %d", got)
	}
	if session.State() != Ready {
		t.Errorf("expected Ready with nothing outstanding, got %v", session.State())
	}
}

func TestSession_InstructionIDsAreNotReused(t *testing.T) {
	_, session, _ := openTestSession(t)

	pos := models.Position{Row: 1, Col: 1}
	if err := session.StageChange(pos, &soda); err != nil {
		t.Fatalf("staging change: %v", err)
	}
	first := session.Instructions()[0]
	if err := session.CompleteInstruction(first.ID); err != nil {
		t.Fatalf("completing instruction: %v", err)
	}

	// The same position staged again gets a fresh number.
	if err := session.StageChange(pos, &chips); err != nil {
		t.Fatalf("restaging slot: %v", err)
	}
	second, ok := findByPosition(session.Instructions(), pos)
	if !ok {
		t.Fatal("expected a new instruction for the restaged slot")
	}
	if second.ID == first.ID {
		t.Errorf("instruction ID %d was reused after completion", first.ID)
	}
}

func TestSession_CompletedWorkIsNotReissued(t *testing.T) {
	_, session, _ := openTestSession(t)

	pos := models.Position{Row: 1, Col: 1}
	if err := session.StageChange(pos, &soda); err != nil {
		t.Fatalf("staging change: %v", err)
	}
	ins, ok := findByPosition(session.Instructions(), pos)
	if !ok {
		t.Fatal("expected an instruction for the staged slot")
	}
	if err := session.CompleteInstruction(ins.ID); err != nil {
		t.Fatalf("completing instruction: %v", err)
	}

	// The slot still differs from the current layout, but the work is
	// done: repeated checklist reads must not resurrect the task.
	for i := 0; i < 3; i++ {
		if got := session.Instructions(); len(got) != 0 {
			t.Fatalf("completed task came back on read %d: %+v", i+1, got)
		}
	}
	if session.State() != Ready {
		t.Fatalf("expected Ready after completing all required work, got %v", session.State())
	}

	committed, err := session.AttemptCommit()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !committed {
		t.Fatal("commit refused after all required instructions were completed")
	}
}

func TestSession_CompleteUnknownInstruction(t *testing.T) {
	_, session, _ := openTestSession(t)

	if err := session.CompleteInstruction(99); !errors.Is(err, ErrUnknownInstruction) {
		t.Fatalf("expected ErrUnknownInstruction, got %v", err)
	}
}

func TestSession_CommitBlockedByRequiredWork(t *testing.T) {
	_, session, f := openTestSession(t)

	if err := session.StageChange(models.Position{Row: 1, Col: 1}, &soda); err != nil {
		t.Fatalf("staging change: %v", err)
	}

	committed, err := session.AttemptCommit()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if committed {
		t.Fatal("commit must not proceed with required work outstanding")
	}
	if session.State() != Planning {
		t.Errorf("expected Planning, got %v", session.State())
	}

	// The store is untouched.
	machine, _ := f.machines.GetByID(f.machineID)
	if machine.Current.At(models.Position{Row: 1, Col: 1}).Product != nil {
		t.Error("store layout changed before commit")
	}
}

func TestSession_CommitAppliesStagedLayout(t *testing.T) {
	_, session, f := openTestSession(t)

	if err := session.StageChange(models.Position{Row: 1, Col: 1}, &soda); err != nil {
		t.Fatalf("staging change: %v", err)
	}
	for _, ins := range session.Instructions() {
		if err := session.CompleteInstruction(ins.ID); err != nil {
			t.Fatalf("completing instruction %d: %v", ins.ID, err)
		}
	}

	committed, err := session.AttemptCommit()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !committed {
		t.Fatal("expected commit to proceed")
	}
	if session.State() != Committed {
		t.Errorf("expected Committed, got %v", session.State())
	}

	machine, _ := f.machines.GetByID(f.machineID)
	slot := machine.Current.At(models.Position{Row: 1, Col: 1})
	if slot.Product == nil || slot.Product.ID != soda.ID {
		t.Fatalf("expected Soda at (1,1), got %+v", slot)
	}
	if slot.Quantity != machine.Current.Depth {
		t.Errorf("expected a freshly stocked slot at depth %d, got %d", machine.Current.Depth, slot.Quantity)
	}
	if !reflect.DeepEqual(machine.Current, machine.Staging) {
		t.Error("staging must match current after commit")
	}

	// The session is spent.
	if err := session.StageChange(models.Position{Row: 0, Col: 0}, nil); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("expected ErrSessionClosed, got %v", err)
	}
}

func TestSession_CommitSurvivesConcurrentPurchases(t *testing.T) {
	_, session, f := openTestSession(t)

	if err := session.StageChange(models.Position{Row: 1, Col: 1}, &soda); err != nil {
		t.Fatalf("staging change: %v", err)
	}

	// A customer buys chips mid-session.
	if _, err := f.svc.Attempt(f.machineID, f.customerID, models.Position{Row: 0, Col: 0}); err != nil {
		t.Fatalf("purchase during session: %v", err)
	}

	for _, ins := range session.Instructions() {
		if err := session.CompleteInstruction(ins.ID); err != nil {
			t.Fatalf("completing instruction %d: %v", ins.ID, err)
		}
	}
	if committed, err := session.AttemptCommit(); err != nil || !committed {
		t.Fatalf("commit failed: committed=%v err=%v", committed, err)
	}

	// The commit replaces the layout wholesale with the staged plan; the
	// customer's balance is untouched by the restock.
	machine, _ := f.machines.GetByID(f.machineID)
	if got := machine.Current.At(models.Position{Row: 0, Col: 0}).Quantity; got != 3 {
		t.Errorf("expected the staged chip count 3, got %d", got)
	}
	if got := f.balance(t); got != 50 {
		t.Errorf("expected balance 50 after purchase, got %d", got)
	}
}

func TestSession_CommitFailureLeavesSessionRetryable(t *testing.T) {
	f := newTestFleet(t, 200)
	failing := failingMachineRepo{f.machines}
	mgr := NewSessionManager(failing)
	session, err := mgr.Open(f.machineID)
	if err != nil {
		t.Fatalf("opening session: %v", err)
	}

	if err := session.StageChange(models.Position{Row: 0, Col: 0}, &chips); err != nil {
		t.Fatalf("staging top-up: %v", err)
	}

	if _, err := session.AttemptCommit(); err == nil {
		t.Fatal("expected an error when the layout write fails")
	}
	if session.State() != Ready {
		t.Errorf("expected session to stay Ready for a retry, got %v", session.State())
	}
}

func TestSession_Abandon(t *testing.T) {
	mgr, session, f := openTestSession(t)

	if err := session.StageChange(models.Position{Row: 1, Col: 1}, &soda); err != nil {
		t.Fatalf("staging change: %v", err)
	}
	before, _ := f.machines.GetByID(f.machineID)

	if err := session.Abandon(); err != nil {
		t.Fatalf("abandoning session: %v", err)
	}
	mgr.Release(f.machineID)

	after, _ := f.machines.GetByID(f.machineID)
	if !reflect.DeepEqual(before, after) {
		t.Error("abandon must leave the machine untouched")
	}
	if session.State() != Abandoned {
		t.Errorf("expected Abandoned, got %v", session.State())
	}
	if _, err := session.AttemptCommit(); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("expected ErrSessionClosed, got %v", err)
	}
}
