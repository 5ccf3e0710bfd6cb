package repositories

import (
	"context"

	"github.com/devilmonastery/greenhouse/internal/domain/entities"
)

// AccountRepository defines the interface for member identity data access
type AccountRepository interface {
	// Create inserts a new account and assigns the next member ID.
	// Returns ErrEmailOnFile if the email is already registered; the
	// backing store must enforce this with a uniqueness constraint, not
	// only a pre-check, so concurrent creates race safely.
	Create(ctx context.Context, account *entities.Account, passwordHash string) error

	// GetByID retrieves an account by its member ID.
	// Returns ErrAccountNotFound if no row matches.
	GetByID(ctx context.Context, id int64) (*entities.Account, error)

	// GetByUsernameOrEmail retrieves an account whose username or email
	// matches the key, case-insensitively on either column.
	// Returns ErrUsernameNotFound if neither matches.
	GetByUsernameOrEmail(ctx context.Context, key string) (*entities.Account, error)

	// GetPasswordHash retrieves the stored password hash for an account.
	// Kept separate from GetByUsernameOrEmail so the hash never rides
	// along on ordinary reads.
	GetPasswordHash(ctx context.Context, id int64) (string, error)

	// MarkPictureSet flips the picture_set flag to true. Idempotent.
	MarkPictureSet(ctx context.Context, id int64) error

	// ExistsByEmail checks if an account exists with the given email
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
