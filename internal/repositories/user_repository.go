package repositories

import (
	"errors"

	"userapi/internal/models"
)

// ErrDuplicateKey is returned by write operations when the store's unique
// constraint on username or email rejects the row. It is the backstop for
// the racy application-side existence pre-checks.
var ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")

// UserRepository defines the interface for user data access.
// Get* methods return (nil, nil) when no row matches: absence is a normal
// outcome, not an error.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetAll() ([]models.User, error)
	Update(user *models.User) error
	Delete(id string) error
	ExistsByID(id string) (bool, error)
	ExistsByUsername(username string) (bool, error)
	ExistsByEmail(email string) (bool, error)
}
