package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/devilmonastery/greenhouse/internal/domain/entities"
	"github.com/devilmonastery/greenhouse/internal/domain/repositories"
	"github.com/devilmonastery/greenhouse/internal/pkg/metrics"
	"github.com/devilmonastery/greenhouse/internal/pkg/secrets"
)

// ConnectedAppService issues and resolves per-application API credentials.
// Every successful ConnectApp mints a fresh access token and secret; the
// plaintext pair is returned exactly once, and only the secret's ciphertext
// is stored.
type ConnectedAppService struct {
	apps  repositories.ConnectedAppRepository
	codec *secrets.Codec
	log   *slog.Logger
}

// NewConnectedAppService creates a new connected-app service
func NewConnectedAppService(apps repositories.ConnectedAppRepository, codec *secrets.Codec) *ConnectedAppService {
	return &ConnectedAppService{
		apps:  apps,
		codec: codec,
		log:   slog.Default().With(slog.String("service", "connected_app")),
	}
}

// ConnectApp issues a new API credential for the member and registered
// application. Returns repositories.ErrInvalidAPIKey when the key is not a
// registered app. Repeat calls for the same (account, key) pair issue
// fresh, unrelated credentials.
func (s *ConnectedAppService) ConnectApp(ctx context.Context, accountID int64, apiKey string) (*entities.ConnectedApp, error) {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordServiceOperation("connected_app", "connect", time.Since(start), err)
	}()

	registered, err := s.apps.AppExists(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to check api key: %w", err)
	}
	if !registered {
		err = repositories.ErrInvalidAPIKey
		return nil, err
	}

	accessToken, err := generateCredential()
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	secret, err := generateCredential()
	if err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}

	cipher, err := s.codec.Encrypt(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt secret: %w", err)
	}

	app := &entities.ConnectedApp{
		AccountID:   accountID,
		APIKey:      apiKey,
		AccessToken: accessToken,
		Secret:      cipher,
	}

	if err = s.apps.Create(ctx, app); err != nil {
		if errors.Is(err, repositories.ErrInvalidAPIKey) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to store credential: %w", err)
	}

	metrics.CredentialsIssued.WithLabelValues(apiKey).Inc()
	s.log.Info("app connected",
		slog.Int64("account_id", accountID),
		slog.String("api_key", apiKey))

	// Hand the plaintext pair back to the caller; this is its only trip
	// out of the server in the clear.
	app.Secret = secret
	return app, nil
}

// FindConnectedApp resolves an issued credential by its access token, with
// the secret decrypted for return. Returns
// repositories.ErrConnectedAppNotFound if no credential matches.
func (s *ConnectedAppService) FindConnectedApp(ctx context.Context, accessToken string) (*entities.ConnectedApp, error) {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordServiceOperation("connected_app", "find", time.Since(start), err)
	}()

	app, err := s.apps.GetByAccessToken(ctx, accessToken)
	if err != nil {
		if errors.Is(err, repositories.ErrConnectedAppNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to resolve credential: %w", err)
	}

	plaintext, err := s.codec.Decrypt(app.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt secret: %w", err)
	}
	app.Secret = plaintext

	return app, nil
}

// FindApp resolves a registered application by its API key. Returns
// repositories.ErrInvalidAPIKey if the key is not registered.
func (s *ConnectedAppService) FindApp(ctx context.Context, apiKey string) (*entities.App, error) {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordServiceOperation("connected_app", "find_app", time.Since(start), err)
	}()

	app, err := s.apps.GetApp(ctx, apiKey)
	if err != nil {
		if errors.Is(err, repositories.ErrInvalidAPIKey) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to resolve app: %w", err)
	}
	return app, nil
}

// generateCredential returns a fresh unguessable credential string with a
// recognizable prefix: gh_ followed by 32 random bytes, URL-safe base64
func generateCredential() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "gh_" + base64.RawURLEncoding.EncodeToString(buf), nil
}
