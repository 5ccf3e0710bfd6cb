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

// ConnectedAccountRepository implements the ConnectedAccountRepository
// interface for PostgreSQL
type ConnectedAccountRepository struct {
	db  *sqlx.DB
	log *slog.Logger
}

// NewConnectedAccountRepository creates a new PostgreSQL connected-account repository
func NewConnectedAccountRepository(db *sqlx.DB) repositories.ConnectedAccountRepository {
	return &ConnectedAccountRepository{
		db:  db,
		log: slog.Default().With(slog.String("repo", "connected_account")),
	}
}

// Create inserts a new provider link. The (member, provider) uniqueness
// constraint is the authority on duplicates; an application-level pre-check
// alone would leave a race window between check and insert.
func (r *ConnectedAccountRepository) Create(ctx context.Context, link *entities.ConnectedAccount, tokenDigest string) error {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordDBOperation("connected_account", "create", time.Since(start), 1, err)
	}()

	if link.ID == "" {
		link.ID = idgen.GenerateID()
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}

	r.log.Debug("creating connected account",
		slog.Int64("account_id", link.AccountID),
		slog.String("provider", link.Provider))

	query := `
		INSERT INTO connected_accounts (id, member, provider, token_cipher, token_digest, provider_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.ExecContext(ctx, query,
		link.ID,
		link.AccountID,
		link.Provider,
		link.AccessToken,
		tokenDigest,
		link.ProviderUserID,
		link.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "connected_accounts_member_provider_key") {
			err = repositories.ErrAccountAlreadyConnected
			return err
		}
		return fmt.Errorf("failed to create connected account: %w", err)
	}

	return nil
}

// Delete removes the link for the (account, provider) pair.
// Deleting an absent link is not an error.
func (r *ConnectedAccountRepository) Delete(ctx context.Context, accountID int64, provider string) error {
	start := time.Now()
	var err error
	var rowsAffected int64
	defer func() {
		metrics.RecordDBOperation("connected_account", "delete", time.Since(start), rowsAffected, err)
	}()

	query := `DELETE FROM connected_accounts WHERE member = $1 AND provider = $2`

	result, err := r.db.ExecContext(ctx, query, accountID, provider)
	if err != nil {
		return fmt.Errorf("failed to delete connected account: %w", err)
	}

	rowsAffected, _ = result.RowsAffected()
	return nil
}

// GetAccountByProviderDigest resolves the owning account for a provider and
// token digest
func (r *ConnectedAccountRepository) GetAccountByProviderDigest(ctx context.Context, provider, tokenDigest string) (*entities.Account, error) {
	start := time.Now()
	var err error
	var rowCount int64
	defer func() {
		metrics.RecordDBOperation("connected_account", "get_account_by_digest", time.Since(start), rowCount, err)
	}()

	var row accountRow
	query := `
		SELECT m.id, m.first_name, m.last_name, m.email, m.username, m.gender, m.birth_date, m.picture_set, m.created_at
		FROM members m
		INNER JOIN connected_accounts c ON c.member = m.id
		WHERE c.provider = $1 AND c.token_digest = $2
		LIMIT 1`

	err = r.db.GetContext(ctx, &row, query, provider, tokenDigest)
	if err != nil {
		if err == sql.ErrNoRows {
			err = repositories.ErrConnectedAccountNotFound
			return nil, err
		}
		return nil, fmt.Errorf("failed to get account by provider credentials: %w", err)
	}

	rowCount = 1
	return row.toEntity(), nil
}

// ListAccountsByProviderUserIDs returns the accounts linked to the provider
// whose provider-side user ID is in ids, in storage order
func (r *ConnectedAccountRepository) ListAccountsByProviderUserIDs(ctx context.Context, provider string, ids []string) ([]*entities.Account, error) {
	start := time.Now()
	var err error
	var rowCount int64
	defer func() {
		metrics.RecordDBOperation("connected_account", "list_accounts_by_provider_user_ids", time.Since(start), rowCount, err)
	}()

	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT m.id, m.first_name, m.last_name, m.email, m.username, m.gender, m.birth_date, m.picture_set, m.created_at
		FROM members m
		INNER JOIN connected_accounts c ON c.member = m.id
		WHERE c.provider = ? AND c.provider_user_id IN (?)
		ORDER BY c.created_at, c.id`, provider, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build friend accounts query: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []accountRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend accounts: %w", err)
	}

	rowCount = int64(len(rows))

	accounts := make([]*entities.Account, len(rows))
	for i, row := range rows {
		accounts[i] = row.toEntity()
	}

	return accounts, nil
}

// Exists checks whether a link exists for the (account, provider) pair
func (r *ConnectedAccountRepository) Exists(ctx context.Context, accountID int64, provider string) (bool, error) {
	start := time.Now()
	var err error
	var rowCount int64
	defer func() {
		metrics.RecordDBOperation("connected_account", "exists", time.Since(start), rowCount, err)
	}()

	var count int
	query := `SELECT COUNT(*) FROM connected_accounts WHERE member = $1 AND provider = $2`

	err = r.db.GetContext(ctx, &count, query, accountID, provider)
	if err != nil {
		return false, fmt.Errorf("failed to check connected account existence: %w", err)
	}

	rowCount = int64(count)
	return count > 0, nil
}

// Ensure ConnectedAccountRepository implements repositories.ConnectedAccountRepository
var _ repositories.ConnectedAccountRepository = (*ConnectedAccountRepository)(nil)
