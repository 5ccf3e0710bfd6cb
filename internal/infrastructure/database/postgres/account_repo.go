package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/devilmonastery/greenhouse/internal/domain/entities"
	"github.com/devilmonastery/greenhouse/internal/domain/repositories"
	"github.com/devilmonastery/greenhouse/internal/pkg/metrics"
)

// AccountRepository implements the AccountRepository interface for PostgreSQL
type AccountRepository struct {
	db  *sqlx.DB
	log *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(db *sqlx.DB) repositories.AccountRepository {
	return &AccountRepository{
		db:  db,
		log: slog.Default().With(slog.String("repo", "account")),
	}
}

// accountRow represents a member as stored in the database
type accountRow struct {
	ID         int64          `db:"id"`
	FirstName  string         `db:"first_name"`
	LastName   string         `db:"last_name"`
	Email      string         `db:"email"`
	Username   sql.NullString `db:"username"`
	Gender     string         `db:"gender"`
	BirthDate  time.Time      `db:"birth_date"`
	PictureSet bool           `db:"picture_set"`
	CreatedAt  time.Time      `db:"created_at"`
}

// toEntity converts an accountRow to a domain entity
func (r *accountRow) toEntity() *entities.Account {
	return &entities.Account{
		ID:         r.ID,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Username:   r.Username.String, // empty string if NULL
		Gender:     entities.Gender(r.Gender),
		BirthDate:  r.BirthDate,
		PictureSet: r.PictureSet,
		CreatedAt:  r.CreatedAt,
	}
}

const accountColumns = `id, first_name, last_name, email, username, gender, birth_date, picture_set, created_at`

// Create inserts a new account; the database sequence assigns the member ID
func (r *AccountRepository) Create(ctx context.Context, account *entities.Account, passwordHash string) error {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordDBOperation("account", "create", time.Since(start), 1, err)
	}()

	r.log.Debug("creating account",
		slog.String("email", account.Email),
		slog.String("username", account.Username))

	account.CreatedAt = time.Now()

	username := sql.NullString{String: account.Username, Valid: account.Username != ""}

	query := `
		INSERT INTO members (first_name, last_name, email, password_hash, username, gender, birth_date, picture_set, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err = r.db.QueryRowxContext(ctx, query,
		account.FirstName,
		account.LastName,
		account.Email,
		passwordHash,
		username,
		string(account.Gender),
		account.BirthDate,
		account.PictureSet,
		account.CreatedAt,
	).Scan(&account.ID)
	if err != nil {
		if isUniqueViolation(err, "members_email_key") {
			err = repositories.ErrEmailOnFile
			return err
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by its member ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*entities.Account, error) {
	start := time.Now()
	var err error
	var rowCount int64
	defer func() {
		metrics.RecordDBOperation("account", "get_by_id", time.Since(start), rowCount, err)
	}()

	var row accountRow
	query := `SELECT ` + accountColumns + ` FROM members WHERE id = $1`

	err = r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			err = repositories.ErrAccountNotFound
			return nil, err
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	rowCount = 1
	return row.toEntity(), nil
}

// GetByUsernameOrEmail retrieves an account by username or email,
// case-insensitively on either column
func (r *AccountRepository) GetByUsernameOrEmail(ctx context.Context, key string) (*entities.Account, error) {
	start := time.Now()
	var err error
	var rowCount int64
	defer func() {
		metrics.RecordDBOperation("account", "get_by_username_or_email", time.Since(start), rowCount, err)
	}()

	var row accountRow
	query := `
		SELECT ` + accountColumns + `
		FROM members
		WHERE lower(username) = lower($1) OR lower(email) = lower($1)
		LIMIT 1`

	err = r.db.GetContext(ctx, &row, query, key)
	if err != nil {
		if err == sql.ErrNoRows {
			err = repositories.ErrUsernameNotFound
			return nil, err
		}
		return nil, fmt.Errorf("failed to get account by username or email: %w", err)
	}

	rowCount = 1
	return row.toEntity(), nil
}

// GetPasswordHash retrieves the stored password hash for an account
func (r *AccountRepository) GetPasswordHash(ctx context.Context, id int64) (string, error) {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordDBOperation("account", "get_password_hash", time.Since(start), -1, err)
	}()

	var hash string
	query := `SELECT password_hash FROM members WHERE id = $1`

	err = r.db.GetContext(ctx, &hash, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			err = repositories.ErrAccountNotFound
			return "", err
		}
		return "", fmt.Errorf("failed to get password hash: %w", err)
	}

	return hash, nil
}

// MarkPictureSet flips the picture_set flag. Re-marking an already-marked
// account is a no-op, as is marking an absent one.
func (r *AccountRepository) MarkPictureSet(ctx context.Context, id int64) error {
	start := time.Now()
	var err error
	var rowsAffected int64
	defer func() {
		metrics.RecordDBOperation("account", "mark_picture_set", time.Since(start), rowsAffected, err)
	}()

	query := `UPDATE members SET picture_set = TRUE WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark picture set: %w", err)
	}

	rowsAffected, _ = result.RowsAffected()
	return nil
}

// ExistsByEmail checks if an account exists by email
func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	start := time.Now()
	var err error
	var rowCount int64
	defer func() {
		metrics.RecordDBOperation("account", "exists_by_email", time.Since(start), rowCount, err)
	}()

	var count int
	query := `SELECT COUNT(*) FROM members WHERE lower(email) = lower($1)`

	err = r.db.GetContext(ctx, &count, query, email)
	if err != nil {
		return false, fmt.Errorf("failed to check account existence by email: %w", err)
	}

	rowCount = int64(count)
	return count > 0, nil
}

// Ensure AccountRepository implements repositories.AccountRepository
var _ repositories.AccountRepository = (*AccountRepository)(nil)
