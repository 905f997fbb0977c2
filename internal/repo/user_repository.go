package repo

import (
	"errors"

	"github.com/rogerio-castellano/vending-fleet/internal/models"
)

// UserRepository stores staff accounts (restockers and managers).
type UserRepository interface {
	GetByUsername(username string) (models.User, error)
	CreateUser(u models.User) (models.User, error)
}

// ErrUserNotFound is returned when a user is not found in the repository.
var ErrUserNotFound = errors.New("user not found")
