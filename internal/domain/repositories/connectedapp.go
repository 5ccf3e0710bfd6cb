package repositories

import (
	"context"

	"github.com/devilmonastery/greenhouse/internal/domain/entities"
)

// ConnectedAppRepository defines the interface for issued API credential
// data access
type ConnectedAppRepository interface {
	// Create inserts a freshly issued credential row. The app entity
	// carries the ciphertext secret; plaintext never reaches this layer.
	// Returns ErrInvalidAPIKey if the API key is not a registered app.
	Create(ctx context.Context, app *entities.ConnectedApp) error

	// GetByAccessToken retrieves a credential by its access token, secret
	// still encrypted. Returns ErrConnectedAppNotFound if no row matches.
	GetByAccessToken(ctx context.Context, accessToken string) (*entities.ConnectedApp, error)

	// AppExists checks whether an API key belongs to a registered app
	AppExists(ctx context.Context, apiKey string) (bool, error)

	// GetApp retrieves the registered app for an API key.
	// Returns ErrInvalidAPIKey if the key is not registered.
	GetApp(ctx context.Context, apiKey string) (*entities.App, error)
}
