package repo

import (
	"errors"

	"github.com/rogerio-castellano/vending-fleet/internal/models"
)

// ProductRepository defines the interface for catalog data operations.
type ProductRepository interface {
	Create(product models.Product) (models.Product, error)
	GetAll() ([]models.Product, error)
	GetByID(id int) (models.Product, error)
	GetByName(name string) (models.Product, error)
	Update(product models.Product) (models.Product, error)
}

// ErrProductNotFound is returned when a product is not found in the repository.
var ErrProductNotFound = errors.New("product not found")

// ErrDuplicatedValueUnique is returned when an insert violates a unique constraint.
var ErrDuplicatedValueUnique = errors.New("duplicated value on unique column")
