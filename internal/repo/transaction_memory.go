package repo

import (
	"sync"

	"github.com/rogerio-castellano/vending-fleet/internal/models"
)

// InMemoryTransactionRepository is an in-memory implementation of TransactionRepository.
type InMemoryTransactionRepository struct {
	mu           sync.Mutex
	transactions []models.Transaction
}

func NewInMemoryTransactionRepository() *InMemoryTransactionRepository {
	return &InMemoryTransactionRepository{
		transactions: []models.Transaction{},
	}
}

func (r *InMemoryTransactionRepository) Create(t models.Transaction) (models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t.ID = len(r.transactions) + 1
	r.transactions = append(r.transactions, t)
	return t, nil
}

func (r *InMemoryTransactionRepository) GetByCustomerID(customerID int) ([]models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Transaction
	for _, t := range r.transactions {
		if t.CustomerID == customerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *InMemoryTransactionRepository) CountByProduct() (map[int]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[int]int)
	for _, t := range r.transactions {
		counts[t.ProductID]++
	}
	return counts, nil
}

// All returns every recorded transaction, oldest first.
func (r *InMemoryTransactionRepository) All() []models.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Transaction, len(r.transactions))
	copy(out, r.transactions)
	return out
}
