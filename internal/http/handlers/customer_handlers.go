package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	repo "github.com/rogerio-castellano/vending-fleet/internal/repo"
)

// GetBalanceHandler godoc
// @Summary Show a customer's account balance
// @Tags customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} BalanceResponse
// @Failure 404 {string} string "Customer not found"
// @Router /customers/{id}/balance [get]
func GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid customer ID", http.StatusBadRequest)
		return
	}

	balance, err := purchaseSvc.Balance(customerID)
	if err != nil {
		if errors.Is(err, repo.ErrCustomerNotFound) {
			http.Error(w, "customer not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to retrieve balance", http.StatusInternalServerError)
		return
	}

	resp := BalanceResponse{CustomerID: customerID, Balance: balance}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// FrequentlyPurchasedHandler godoc
// @Summary List currently stocked products a customer buys most often
// @Tags customers
// @Produce json
// @Param id path int true "Machine ID"
// @Param customerId path int true "Customer ID"
// @Success 200 {array} ProductResponse
// @Failure 404 {string} string "Machine or customer not found"
// @Router /machines/{id}/customers/{customerId}/frequent [get]
func FrequentlyPurchasedHandler(w http.ResponseWriter, r *http.Request) {
	machineID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid machine ID", http.StatusBadRequest)
		return
	}
	customerID, err := strconv.Atoi(chi.URLParam(r, "customerId"))
	if err != nil {
		http.Error(w, "invalid customer ID", http.StatusBadRequest)
		return
	}

	if cached, ok := cachedFrequency(machineID, customerID); ok {
		if err := writeJSON(w, http.StatusOK, cached); err != nil {
			log.Printf("failed to encode response: %v", err)
		}
		return
	}

	products, err := purchaseSvc.FrequentlyPurchased(machineID, customerID)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrMachineNotFound):
			http.Error(w, "machine not found", http.StatusNotFound)
		case errors.Is(err, repo.ErrCustomerNotFound):
			http.Error(w, "customer not found", http.StatusNotFound)
		default:
			http.Error(w, "failed to retrieve purchase history", http.StatusInternalServerError)
		}
		return
	}

	resp := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, ProductResponse{Id: p.ID, Name: p.Name, Price: p.Price, Active: p.Active})
	}

	storeFrequency(machineID, customerID, resp)

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func cachedFrequency(machineID, customerID int) ([]ProductResponse, bool) {
	if Rdb == nil {
		return nil, false
	}
	raw, err := Rdb.Get(Ctx, frequencyCacheKey(machineID, customerID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("frequency cache read failed: %v", err)
		}
		return nil, false
	}
	var cached []ProductResponse
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		log.Printf("frequency cache entry is corrupt, dropping it: %v", err)
		Rdb.Del(Ctx, frequencyCacheKey(machineID, customerID))
		return nil, false
	}
	return cached, true
}

func storeFrequency(machineID, customerID int, products []ProductResponse) {
	if Rdb == nil {
		return
	}
	raw, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := Rdb.Set(Ctx, frequencyCacheKey(machineID, customerID), raw, frequencyCacheTTL).Err(); err != nil {
		log.Printf("frequency cache write failed: %v", err)
	}
}
