package repo

import (
	"sync"

	"github.com/rogerio-castellano/vending-fleet/internal/models"
)

// InMemoryMachineRepository is an in-memory implementation of MachineRepository.
// Layouts are cloned on the way in and out so callers never share slot
// storage with the repository.
type InMemoryMachineRepository struct {
	mu       sync.Mutex
	machines []models.Machine
	nextID   int
}

func NewInMemoryMachineRepository() *InMemoryMachineRepository {
	return &InMemoryMachineRepository{
		machines: []models.Machine{},
		nextID:   1,
	}
}

func cloneMachine(m models.Machine) models.Machine {
	m.Current = m.Current.Clone()
	m.Staging = m.Staging.Clone()
	return m
}

func (r *InMemoryMachineRepository) Create(machine models.Machine) (models.Machine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	machine.ID = r.nextID
	r.nextID++
	r.machines = append(r.machines, cloneMachine(machine))
	return machine, nil
}

func (r *InMemoryMachineRepository) GetAll() ([]models.Machine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Machine, len(r.machines))
	for i, m := range r.machines {
		out[i] = cloneMachine(m)
	}
	return out, nil
}

func (r *InMemoryMachineRepository) GetByID(id int) (models.Machine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.machines {
		if m.ID == id {
			return cloneMachine(m), nil
		}
	}
	return models.Machine{}, ErrMachineNotFound
}

func (r *InMemoryMachineRepository) Update(machine models.Machine) (models.Machine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.machines {
		if m.ID == machine.ID {
			r.machines[i] = cloneMachine(machine)
			return machine, nil
		}
	}
	return models.Machine{}, ErrMachineNotFound
}
