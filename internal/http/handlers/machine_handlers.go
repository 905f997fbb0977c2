package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	repo "github.com/rogerio-castellano/vending-fleet/internal/repo"
	"github.com/rogerio-castellano/vending-fleet/internal/vending"
)

// ListMachinesHandler godoc
// @Summary List active vending machines
// @Tags machines
// @Produce json
// @Success 200 {array} MachineResponse
// @Router /machines [get]
func ListMachinesHandler(w http.ResponseWriter, r *http.Request) {
	machines, err := machineRepo.GetAll()
	if err != nil {
		http.Error(w, "failed to retrieve machines", http.StatusInternalServerError)
		return
	}

	resp := []MachineResponse{}
	for _, m := range machines {
		if !m.Active {
			continue
		}
		resp = append(resp, MachineResponse{
			Id:      m.ID,
			Street:  m.Location.Street,
			City:    m.Location.City,
			State:   m.Location.State,
			ZipCode: m.Location.ZipCode,
			Active:  m.Active,
			Rows:    m.Current.Rows(),
			Cols:    m.Current.Cols(),
			Depth:   m.Current.Depth,
		})
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// GetLayoutHandler godoc
// @Summary Show the customer-facing layout of a machine
// @Tags machines
// @Produce json
// @Param id path int true "Machine ID"
// @Success 200 {object} LayoutResponse
// @Failure 404 {string} string "Machine not found"
// @Router /machines/{id}/layout [get]
func GetLayoutHandler(w http.ResponseWriter, r *http.Request) {
	machineID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid machine ID", http.StatusBadRequest)
		return
	}

	grid, err := purchaseSvc.ListLayout(machineID)
	if err != nil {
		if errors.Is(err, repo.ErrMachineNotFound) || errors.Is(err, vending.ErrInvalidLocation) {
			http.Error(w, "machine not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to retrieve layout", http.StatusInternalServerError)
		return
	}

	items := make([][]*ProductResponse, len(grid))
	for i, row := range grid {
		items[i] = make([]*ProductResponse, len(row))
		for j, p := range row {
			if p == nil {
				continue
			}
			items[i][j] = &ProductResponse{Id: p.ID, Name: p.Name, Price: p.Price, Active: p.Active}
		}
	}

	if err := writeJSON(w, http.StatusOK, LayoutResponse{Items: items}); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
