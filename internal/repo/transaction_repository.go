package repo

import (
	"github.com/rogerio-castellano/vending-fleet/internal/models"
)

// TransactionRepository is the append-only purchase ledger. Transactions
// are never updated or deleted once created.
type TransactionRepository interface {
	Create(t models.Transaction) (models.Transaction, error)
	GetByCustomerID(customerID int) ([]models.Transaction, error)
	CountByProduct() (map[int]int, error)
}
