package repo

import (
	"errors"

	"github.com/rogerio-castellano/vending-fleet/internal/models"
)

// MachineRepository defines the interface for machine data operations.
// Update is a whole-machine write: both layouts land in one call.
type MachineRepository interface {
	Create(machine models.Machine) (models.Machine, error)
	GetAll() ([]models.Machine, error)
	GetByID(id int) (models.Machine, error)
	Update(machine models.Machine) (models.Machine, error)
}

// ErrMachineNotFound is returned when a machine is not found in the repository.
var ErrMachineNotFound = errors.New("machine not found")
