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
	"github.com/devilmonastery/greenhouse/internal/pkg/idgen"
	"github.com/devilmonastery/greenhouse/internal/pkg/metrics"
)

// ConnectedAppRepository implements the ConnectedAppRepository interface
// for PostgreSQL
type ConnectedAppRepository struct {
	db  *sqlx.DB
	log *slog.Logger
}

// NewConnectedAppRepository creates a new PostgreSQL connected-app repository
func NewConnectedAppRepository(db *sqlx.DB) repositories.ConnectedAppRepository {
	return &ConnectedAppRepository{
		db:  db,
		log: slog.Default().With(slog.String("repo", "connected_app")),
	}
}

// connectedAppRow represents an issued credential as stored in the database
type connectedAppRow struct {
	ID           string    `db:"id"`
	AccountID    int64     `db:"member"`
	APIKey       string    `db:"api_key"`
	AccessToken  string    `db:"access_token"`
	SecretCipher string    `db:"secret_cipher"`
	IssuedAt     time.Time `db:"issued_at"`
}

// toEntity converts a connectedAppRow to a domain entity.
// Secret stays ciphertext; the service decrypts it.
func (r *connectedAppRow) toEntity() *entities.ConnectedApp {
	return &entities.ConnectedApp{
		ID:          r.ID,
		AccountID:   r.AccountID,
		APIKey:      r.APIKey,
		AccessToken: r.AccessToken,
		Secret:      r.SecretCipher,
		IssuedAt:    r.IssuedAt,
	}
}

// Create inserts a freshly issued credential row. The apps foreign key is
// the authority on API key validity.
func (r *ConnectedAppRepository) Create(ctx context.Context, app *entities.ConnectedApp) error {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordDBOperation("connected_app", "create", time.Since(start), 1, err)
	}()

	if app.ID == "" {
		app.ID = idgen.GenerateID()
	}
	if app.IssuedAt.IsZero() {
		app.IssuedAt = time.Now()
	}

	r.log.Debug("creating connected app",
		slog.Int64("account_id", app.AccountID),
		slog.String("api_key", app.APIKey))

	query := `
		INSERT INTO connected_apps (id, member, api_key, access_token, secret_cipher, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.ExecContext(ctx, query,
		app.ID,
		app.AccountID,
		app.APIKey,
		app.AccessToken,
		app.Secret,
		app.IssuedAt,
	)
	if err != nil {
		// Only the apps foreign key means a bad API key; the member foreign
		// key failing is an infrastructure-level surprise, not taxonomy.
		if isForeignKeyViolation(err, "connected_apps_api_key_fkey") {
			err = repositories.ErrInvalidAPIKey
			return err
		}
		return fmt.Errorf("failed to create connected app: %w", err)
	}

	return nil
}

// GetByAccessToken retrieves a credential by its access token, secret still
// encrypted
func (r *ConnectedAppRepository) GetByAccessToken(ctx context.Context, accessToken string) (*entities.ConnectedApp, error) {
	start := time.Now()
	var err error
	var rowCount int64
	defer func() {
		metrics.RecordDBOperation("connected_app", "get_by_access_token", time.Since(start), rowCount, err)
	}()

	var row connectedAppRow
	query := `
		SELECT id, member, api_key, access_token, secret_cipher, issued_at
		FROM connected_apps
		WHERE access_token = $1`

	err = r.db.GetContext(ctx, &row, query, accessToken)
	if err != nil {
		if err == sql.ErrNoRows {
			err = repositories.ErrConnectedAppNotFound
			return nil, err
		}
		return nil, fmt.Errorf("failed to get connected app: %w", err)
	}

	rowCount = 1
	return row.toEntity(), nil
}

// AppExists checks whether an API key belongs to a registered app
func (r *ConnectedAppRepository) AppExists(ctx context.Context, apiKey string) (bool, error) {
	start := time.Now()
	var err error
	var rowCount int64
	defer func() {
		metrics.RecordDBOperation("connected_app", "app_exists", time.Since(start), rowCount, err)
	}()

	var count int
	query := `SELECT COUNT(*) FROM apps WHERE api_key = $1`

	err = r.db.GetContext(ctx, &count, query, apiKey)
	if err != nil {
		return false, fmt.Errorf("failed to check app existence: %w", err)
	}

	rowCount = int64(count)
	return count > 0, nil
}

// GetApp retrieves the registered app for an API key
func (r *ConnectedAppRepository) GetApp(ctx context.Context, apiKey string) (*entities.App, error) {
	start := time.Now()
	var err error
	var rowCount int64
	defer func() {
		metrics.RecordDBOperation("connected_app", "get_app", time.Since(start), rowCount, err)
	}()

	var app entities.App
	query := `SELECT api_key, name FROM apps WHERE api_key = $1`

	err = r.db.GetContext(ctx, &app, query, apiKey)
	if err != nil {
		if err == sql.ErrNoRows {
			err = repositories.ErrInvalidAPIKey
			return nil, err
		}
		return nil, fmt.Errorf("failed to get app: %w", err)
	}

	rowCount = 1
	return &app, nil
}

// Ensure ConnectedAppRepository implements repositories.ConnectedAppRepository
var _ repositories.ConnectedAppRepository = (*ConnectedAppRepository)(nil)
