package repo

import (
	"errors"

	"github.com/rogerio-castellano/vending-fleet/internal/models"
)

// CustomerRepository defines the interface for customer data operations.
type CustomerRepository interface {
	Create(customer models.Customer) (models.Customer, error)
	GetByID(id int) (models.Customer, error)
	Update(customer models.Customer) (models.Customer, error)
}

// ErrCustomerNotFound is returned when a customer is not found in the repository.
var ErrCustomerNotFound = errors.New("customer not found")
