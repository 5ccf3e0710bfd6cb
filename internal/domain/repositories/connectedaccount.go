package repositories

import (
	"context"

	"github.com/devilmonastery/greenhouse/internal/domain/entities"
)

// ConnectedAccountRepository defines the interface for provider-link data
// access. Lookup-by-token goes through the deterministic token digest; the
// reversible ciphertext is stored alongside it for later retrieval.
type ConnectedAccountRepository interface {
	// Create inserts a new provider link. Returns
	// ErrAccountAlreadyConnected if a link already exists for the
	// (account, provider) pair; enforced by a uniqueness constraint so two
	// concurrent connects cannot both succeed.
	Create(ctx context.Context, link *entities.ConnectedAccount, tokenDigest string) error

	// Delete removes the link for the (account, provider) pair.
	// Deleting an absent link is not an error.
	Delete(ctx context.Context, accountID int64, provider string) error

	// GetAccountByProviderDigest resolves the owning account for a
	// provider and token digest. Returns ErrConnectedAccountNotFound if no
	// link matches.
	GetAccountByProviderDigest(ctx context.Context, provider, tokenDigest string) (*entities.Account, error)

	// ListAccountsByProviderUserIDs returns the accounts linked to the
	// given provider whose provider-side user ID is in ids, in storage
	// order. Unknown IDs are skipped.
	ListAccountsByProviderUserIDs(ctx context.Context, provider string, ids []string) ([]*entities.Account, error)

	// Exists checks whether a link exists for the (account, provider) pair
	Exists(ctx context.Context, accountID int64, provider string) (bool, error)
}
