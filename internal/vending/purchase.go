package vending

import (
	"fmt"
	"log"
	"time"

	"github.com/rogerio-castellano/vending-fleet/internal/models"
	"github.com/rogerio-castellano/vending-fleet/internal/repo"
)

// PurchaseService validates purchase attempts against a machine's current
// layout and applies the three-part update: record the transaction, debit
// the balance, decrement the stock.
type PurchaseService struct {
	machines     repo.MachineRepository
	customers    repo.CustomerRepository
	transactions repo.TransactionRepository
}

func NewPurchaseService(machines repo.MachineRepository, customers repo.CustomerRepository, transactions repo.TransactionRepository) *PurchaseService {
	return &PurchaseService{
		machines:     machines,
		customers:    customers,
		transactions: transactions,
	}
}

// Attempt tries to purchase the item at pos from the machine's current
// layout. Checks run in order and stop at the first failure: bounds,
// empty slot, stock, product active, funds. On success exactly one
// transaction is recorded, the balance drops by the product price, and
// the slot quantity drops by one. A failed store write is reported as an
// error; the purchase is never reported successful unless every write
// landed.
func (s *PurchaseService) Attempt(machineID, customerID int, pos models.Position) (models.Transaction, error) {
	mu := lockFor(machineID)
	mu.Lock()
	defer mu.Unlock()

	machine, err := s.machines.GetByID(machineID)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("fetching machine %d: %w", machineID, err)
	}
	customer, err := s.customers.GetByID(customerID)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("fetching customer %d: %w", customerID, err)
	}
	return s.purchase(&machine, &customer, pos)
}

// AttemptByProduct resolves a purchase by product identity: the first
// slot in row-major order holding that product with stock remaining wins.
func (s *PurchaseService) AttemptByProduct(machineID, customerID, productID int) (models.Transaction, error) {
	mu := lockFor(machineID)
	mu.Lock()
	defer mu.Unlock()

	machine, err := s.machines.GetByID(machineID)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("fetching machine %d: %w", machineID, err)
	}
	customer, err := s.customers.GetByID(customerID)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("fetching customer %d: %w", customerID, err)
	}

	for i, row := range machine.Current.Slots {
		for j := range row {
			slot := row[j]
			if slot.Product != nil && slot.Product.ID == productID && slot.Quantity > 0 {
				return s.purchase(&machine, &customer, models.Position{Row: i, Col: j})
			}
		}
	}
	return models.Transaction{}, ErrItemNotFound
}

// purchase runs with the machine lock held. The writes go customer,
// machine, transaction: the append-only ledger is written last so it
// never records a purchase whose debit or decrement failed to land.
// Earlier writes are compensated when a later one fails.
func (s *PurchaseService) purchase(machine *models.Machine, customer *models.Customer, pos models.Position) (models.Transaction, error) {
	slot := machine.Current.At(pos)
	if slot == nil {
		return models.Transaction{}, ErrInvalidLocation
	}
	if slot.Product == nil {
		return models.Transaction{}, ErrNoProduct
	}
	if slot.Quantity <= 0 {
		return models.Transaction{}, ErrSoldOut
	}
	if !slot.Product.Active {
		return models.Transaction{}, ErrItemInactive
	}
	if customer.Balance < slot.Product.Price {
		return models.Transaction{}, ErrInsufficientFunds
	}

	debited := *customer
	debited.Balance -= slot.Product.Price
	if _, err := s.customers.Update(debited); err != nil {
		return models.Transaction{}, fmt.Errorf("persisting balance: %w", err)
	}

	slot.Quantity--
	if _, err := s.machines.Update(*machine); err != nil {
		slot.Quantity++
		if _, rbErr := s.customers.Update(*customer); rbErr != nil {
			log.Printf("balance rollback failed for customer %d: %v", customer.ID, rbErr)
		}
		return models.Transaction{}, fmt.Errorf("persisting stock: %w", err)
	}

	tx := models.Transaction{
		Timestamp:  time.Now().UTC(),
		MachineID:  machine.ID,
		CustomerID: customer.ID,
		ProductID:  slot.Product.ID,
		Row:        pos.Row,
		Col:        pos.Col,
	}
	created, err := s.transactions.Create(tx)
	if err != nil {
		slot.Quantity++
		if _, rbErr := s.machines.Update(*machine); rbErr != nil {
			log.Printf("stock rollback failed for machine %d: %v", machine.ID, rbErr)
		}
		if _, rbErr := s.customers.Update(*customer); rbErr != nil {
			log.Printf("balance rollback failed for customer %d: %v", customer.ID, rbErr)
		}
		return models.Transaction{}, fmt.Errorf("recording transaction: %w", err)
	}

	customer.Balance = debited.Balance
	return created, nil
}

// ListLayout returns the customer-facing grid. Sold-out and inactive
// slots are reported as empty.
func (s *PurchaseService) ListLayout(machineID int) ([][]*models.Product, error) {
	machine, err := s.machines.GetByID(machineID)
	if err != nil {
		return nil, fmt.Errorf("fetching machine %d: %w", machineID, err)
	}

	items := make([][]*models.Product, machine.Current.Rows())
	for i, row := range machine.Current.Slots {
		items[i] = make([]*models.Product, len(row))
		for j, slot := range row {
			if slot.Product != nil && slot.Quantity > 0 && slot.Product.Active {
				items[i][j] = slot.Product
			}
		}
	}
	return items, nil
}

// Balance returns the customer's current balance in minor currency units.
func (s *PurchaseService) Balance(customerID int) (int, error) {
	customer, err := s.customers.GetByID(customerID)
	if err != nil {
		return 0, fmt.Errorf("fetching customer %d: %w", customerID, err)
	}
	return customer.Balance, nil
}
