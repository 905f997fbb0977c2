package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/vending-fleet/internal/models"
	repo "github.com/rogerio-castellano/vending-fleet/internal/repo"
	"github.com/rogerio-castellano/vending-fleet/internal/vending"
)

// OpenRestockHandler godoc
// @Summary Open a restocking session for a machine
// @Tags restock
// @Produce json
// @Param id path int true "Machine ID"
// @Success 201 {object} SessionResponse
// @Failure 404 {string} string "Machine not found"
// @Failure 409 {string} string "Session already active"
// @Router /machines/{id}/restock [post]
func OpenRestockHandler(w http.ResponseWriter, r *http.Request) {
	machineID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid machine ID", http.StatusBadRequest)
		return
	}

	session, err := sessionMgr.Open(machineID)
	if err != nil {
		switch {
		case errors.Is(err, vending.ErrSessionActive):
			http.Error(w, "a restocking session is already active for this machine", http.StatusConflict)
		case errors.Is(err, repo.ErrMachineNotFound):
			http.Error(w, "machine not found", http.StatusNotFound)
		case errors.Is(err, vending.ErrLayoutMismatch):
			http.Error(w, "machine layouts are out of shape", http.StatusConflict)
		default:
			http.Error(w, "failed to open session", http.StatusInternalServerError)
		}
		return
	}

	if err := writeJSON(w, http.StatusCreated, sessionResponse(session)); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// StageChangeHandler godoc
// @Summary Stage a slot change on the open session
// @Tags restock
// @Accept json
// @Produce json
// @Param id path int true "Machine ID"
// @Param change body StageChangeRequest true "Slot position and product (null product clears the slot)"
// @Success 200 {object} SessionResponse
// @Failure 404 {string} string "No active session or product not found"
// @Router /machines/{id}/restock/slots [put]
func StageChangeHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := activeSession(w, r)
	if !ok {
		return
	}

	var req StageChangeRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	var product *models.Product
	if req.ProductID != nil {
		p, err := productRepo.GetByID(*req.ProductID)
		if err != nil {
			if errors.Is(err, repo.ErrProductNotFound) {
				http.Error(w, "product not found", http.StatusNotFound)
				return
			}
			http.Error(w, "failed to retrieve product", http.StatusInternalServerError)
			return
		}
		product = &p
	}

	pos := models.Position{Row: req.Row, Col: req.Col}
	if err := session.StageChange(pos, product); err != nil {
		switch {
		case errors.Is(err, vending.ErrInvalidLocation):
			http.Error(w, "slot position out of bounds", http.StatusBadRequest)
		case errors.Is(err, vending.ErrSessionClosed):
			http.Error(w, "session is closed", http.StatusConflict)
		default:
			http.Error(w, "failed to stage change", http.StatusInternalServerError)
		}
		return
	}

	if err := writeJSON(w, http.StatusOK, sessionResponse(session)); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// GetInstructionsHandler godoc
// @Summary List outstanding restocking instructions
// @Tags restock
// @Produce json
// @Param id path int true "Machine ID"
// @Success 200 {object} SessionResponse
// @Failure 404 {string} string "No active session"
// @Router /machines/{id}/restock/instructions [get]
func GetInstructionsHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := activeSession(w, r)
	if !ok {
		return
	}

	if err := writeJSON(w, http.StatusOK, sessionResponse(session)); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// CompleteInstructionHandler godoc
// @Summary Mark a restocking instruction as done
// @Tags restock
// @Produce json
// @Param id path int true "Machine ID"
// @Param instructionId path int true "Instruction ID"
// @Success 200 {object} SessionResponse
// @Failure 404 {string} string "No active session or unknown instruction"
// @Router /machines/{id}/restock/instructions/{instructionId}/complete [post]
func CompleteInstructionHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := activeSession(w, r)
	if !ok {
		return
	}

	instructionID, err := strconv.Atoi(chi.URLParam(r, "instructionId"))
	if err != nil {
		http.Error(w, "invalid instruction ID", http.StatusBadRequest)
		return
	}

	if err := session.CompleteInstruction(instructionID); err != nil {
		switch {
		case errors.Is(err, vending.ErrUnknownInstruction):
			http.Error(w, "unknown instruction", http.StatusNotFound)
		case errors.Is(err, vending.ErrSessionClosed):
			http.Error(w, "session is closed", http.StatusConflict)
		default:
			http.Error(w, "failed to complete instruction", http.StatusInternalServerError)
		}
		return
	}

	if err := writeJSON(w, http.StatusOK, sessionResponse(session)); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// CommitRestockHandler godoc
// @Summary Commit the staged layout to the machine
// @Tags restock
// @Produce json
// @Param id path int true "Machine ID"
// @Success 200 {object} CommitResponse
// @Failure 404 {string} string "No active session"
// @Failure 502 {string} string "Persistence failure"
// @Router /machines/{id}/restock/commit [post]
func CommitRestockHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := activeSession(w, r)
	if !ok {
		return
	}

	committed, err := session.AttemptCommit()
	if err != nil {
		switch {
		case errors.Is(err, vending.ErrSessionClosed):
			http.Error(w, "session is closed", http.StatusConflict)
		case errors.Is(err, vending.ErrLayoutMismatch):
			http.Error(w, "machine layout changed shape since the session opened", http.StatusConflict)
		default:
			log.Printf("restock commit failed: %v", err)
			http.Error(w, "layout could not be persisted", http.StatusBadGateway)
		}
		return
	}
	if committed {
		sessionMgr.Release(session.MachineID())
	}

	resp := CommitResponse{Committed: committed, State: session.State().String()}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// AbandonRestockHandler godoc
// @Summary Abandon the open restocking session
// @Tags restock
// @Param id path int true "Machine ID"
// @Success 204
// @Failure 404 {string} string "No active session"
// @Router /machines/{id}/restock [delete]
func AbandonRestockHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := activeSession(w, r)
	if !ok {
		return
	}

	if err := session.Abandon(); err != nil {
		http.Error(w, "session is closed", http.StatusConflict)
		return
	}
	sessionMgr.Release(session.MachineID())

	w.WriteHeader(http.StatusNoContent)
}

func activeSession(w http.ResponseWriter, r *http.Request) (*vending.Session, bool) {
	machineID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid machine ID", http.StatusBadRequest)
		return nil, false
	}

	session, err := sessionMgr.Get(machineID)
	if err != nil {
		http.Error(w, "no active restocking session for this machine", http.StatusNotFound)
		return nil, false
	}
	return session, true
}

func sessionResponse(s *vending.Session) SessionResponse {
	return SessionResponse{
		SessionID:    s.ID,
		MachineID:    s.MachineID(),
		State:        s.State().String(),
		Instructions: s.Instructions(),
	}
}
