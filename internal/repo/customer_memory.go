package repo

import (
	"sync"

	"github.com/rogerio-castellano/vending-fleet/internal/models"
)

// InMemoryCustomerRepository is an in-memory implementation of CustomerRepository.
// The anonymous cash customer is always present.
type InMemoryCustomerRepository struct {
	mu        sync.Mutex
	customers []models.Customer
	nextID    int
}

func NewInMemoryCustomerRepository() *InMemoryCustomerRepository {
	return &InMemoryCustomerRepository{
		customers: []models.Customer{models.NewCashCustomer()},
		nextID:    1,
	}
}

func (r *InMemoryCustomerRepository) Create(customer models.Customer) (models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	customer.ID = r.nextID
	r.nextID++
	r.customers = append(r.customers, customer)
	return customer, nil
}

func (r *InMemoryCustomerRepository) GetByID(id int) (models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Customer{}, ErrCustomerNotFound
}

func (r *InMemoryCustomerRepository) Update(customer models.Customer) (models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.customers {
		if c.ID == customer.ID {
			r.customers[i] = customer
			return customer, nil
		}
	}
	return models.Customer{}, ErrCustomerNotFound
}
