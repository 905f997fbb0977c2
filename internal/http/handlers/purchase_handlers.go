package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/vending-fleet/internal/alert"
	"github.com/rogerio-castellano/vending-fleet/internal/models"
	repo "github.com/rogerio-castellano/vending-fleet/internal/repo"
	"github.com/rogerio-castellano/vending-fleet/internal/vending"
)

// PurchaseHandler godoc
// @Summary Purchase the item at a slot position
// @Tags purchases
// @Accept json
// @Produce json
// @Param id path int true "Machine ID"
// @Param purchase body PurchaseRequest true "Customer and slot position"
// @Success 201 {object} PurchaseResponse
// @Failure 400 {string} string "Invalid location"
// @Failure 402 {string} string "Insufficient funds"
// @Failure 404 {string} string "No product"
// @Failure 409 {string} string "Sold out or inactive"
// @Failure 502 {string} string "Persistence failure"
// @Router /machines/{id}/purchase [post]
func PurchaseHandler(w http.ResponseWriter, r *http.Request) {
	machineID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid machine ID", http.StatusBadRequest)
		return
	}

	var req PurchaseRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	customerID := req.CustomerID
	if customerID == 0 {
		customerID = models.CashCustomerID
	}

	pos := models.Position{Row: req.Row, Col: req.Col}
	tx, err := purchaseSvc.Attempt(machineID, customerID, pos)
	if err != nil {
		respondPurchaseError(w, err)
		return
	}

	finishPurchase(w, machineID, customerID, tx)
}

// PurchaseByProductHandler godoc
// @Summary Purchase an item by product identity
// @Tags purchases
// @Accept json
// @Produce json
// @Param id path int true "Machine ID"
// @Param purchase body PurchaseByProductRequest true "Customer and product"
// @Success 201 {object} PurchaseResponse
// @Failure 404 {string} string "Item not found"
// @Router /machines/{id}/purchase/by-product [post]
func PurchaseByProductHandler(w http.ResponseWriter, r *http.Request) {
	machineID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid machine ID", http.StatusBadRequest)
		return
	}

	var req PurchaseByProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	customerID := req.CustomerID
	if customerID == 0 {
		customerID = models.CashCustomerID
	}

	tx, err := purchaseSvc.AttemptByProduct(machineID, customerID, req.ProductID)
	if err != nil {
		respondPurchaseError(w, err)
		return
	}

	finishPurchase(w, machineID, customerID, tx)
}

func respondPurchaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrMachineNotFound):
		http.Error(w, "machine not found", http.StatusNotFound)
	case errors.Is(err, repo.ErrCustomerNotFound):
		http.Error(w, "customer not found", http.StatusNotFound)
	case vending.IsValidation(err):
		http.Error(w, err.Error(), purchaseErrorStatus(err))
	default:
		log.Printf("purchase failed: %v", err)
		http.Error(w, "purchase could not be persisted", http.StatusBadGateway)
	}
}

func finishPurchase(w http.ResponseWriter, machineID, customerID int, tx models.Transaction) {
	product, err := productRepo.GetByID(tx.ProductID)
	if err != nil {
		log.Printf("could not fetch product %d after purchase: %v", tx.ProductID, err)
	}
	balance, err := purchaseSvc.Balance(customerID)
	if err != nil {
		log.Printf("could not fetch balance for customer %d: %v", customerID, err)
	}

	notifyIfSoldOut(machineID, tx, product.Name)
	invalidateFrequencyCache(machineID, customerID)

	resp := PurchaseResponse{
		TransactionID: tx.ID,
		ProductID:     tx.ProductID,
		ProductName:   product.Name,
		PricePaid:     product.Price,
		Balance:       balance,
		Row:           tx.Row,
		Col:           tx.Col,
	}
	if err := writeJSON(w, http.StatusCreated, resp); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// notifyIfSoldOut logs a sold-out event when the purchased slot ran dry.
func notifyIfSoldOut(machineID int, tx models.Transaction, productName string) {
	machine, err := machineRepo.GetByID(machineID)
	if err != nil {
		return
	}
	slot := machine.Current.At(models.Position{Row: tx.Row, Col: tx.Col})
	if slot != nil && slot.Product != nil && slot.Quantity == 0 {
		alert.LogSoldOut(machineID, productName, tx.Row, tx.Col)
	}
}

func frequencyCacheKey(machineID, customerID int) string {
	return fmt.Sprintf("frequent:%d:%d", machineID, customerID)
}

func invalidateFrequencyCache(machineID, customerID int) {
	if Rdb == nil {
		return
	}
	if err := Rdb.Del(Ctx, frequencyCacheKey(machineID, customerID)).Err(); err != nil {
		log.Printf("failed to invalidate frequency cache: %v", err)
	}
}
