package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"

	"github.com/devilmonastery/greenhouse/internal/domain/entities"
	"github.com/devilmonastery/greenhouse/internal/domain/repositories"
	"github.com/devilmonastery/greenhouse/internal/pkg/metrics"
	"github.com/devilmonastery/greenhouse/internal/pkg/secrets"
)

// ConnectedAccountService links member accounts to external identity
// provider accounts. Provider tokens are obtained elsewhere (the OAuth
// dance is not this subsystem's job); this service stores and resolves
// them. Tokens are encrypted at rest and indexed by a keyed digest so a
// lookup never has to decrypt the whole table.
type ConnectedAccountService struct {
	links repositories.ConnectedAccountRepository
	codec *secrets.Codec
	urls  URLConfig
	log   *slog.Logger
}

// NewConnectedAccountService creates a new connected-account service
func NewConnectedAccountService(links repositories.ConnectedAccountRepository, codec *secrets.Codec, urls URLConfig) *ConnectedAccountService {
	return &ConnectedAccountService{
		links: links,
		codec: codec,
		urls:  urls,
		log:   slog.Default().With(slog.String("service", "connected_account")),
	}
}

// ConnectAccount links a member to a provider account. Returns
// repositories.ErrAccountAlreadyConnected if a link already exists for the
// (account, provider) pair. The pre-check answers fast; the storage
// uniqueness constraint decides races.
func (s *ConnectedAccountService) ConnectAccount(ctx context.Context, accountID int64, provider string, token *oauth2.Token, providerUserID string) error {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordServiceOperation("connected_account", "connect", time.Since(start), err)
	}()

	exists, err := s.links.Exists(ctx, accountID, provider)
	if err != nil {
		return fmt.Errorf("failed to check existing link: %w", err)
	}
	if exists {
		err = repositories.ErrAccountAlreadyConnected
		return err
	}

	cipher, err := s.codec.Encrypt(token.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to encrypt access token: %w", err)
	}

	link := &entities.ConnectedAccount{
		AccountID:      accountID,
		Provider:       provider,
		AccessToken:    cipher,
		ProviderUserID: providerUserID,
	}

	if err = s.links.Create(ctx, link, s.codec.Digest(token.AccessToken)); err != nil {
		if errors.Is(err, repositories.ErrAccountAlreadyConnected) {
			return err
		}
		return fmt.Errorf("failed to create link: %w", err)
	}

	s.log.Info("account connected",
		slog.Int64("account_id", accountID),
		slog.String("provider", provider))

	return nil
}

// DisconnectAccount removes the member's link to the provider.
// Disconnecting an absent link is a no-op.
func (s *ConnectedAccountService) DisconnectAccount(ctx context.Context, accountID int64, provider string) error {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordServiceOperation("connected_account", "disconnect", time.Since(start), err)
	}()

	if err = s.links.Delete(ctx, accountID, provider); err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	s.log.Info("account disconnected",
		slog.Int64("account_id", accountID),
		slog.String("provider", provider))

	return nil
}

// FindByConnectedAccount resolves the member who linked the given provider
// access token. Returns repositories.ErrConnectedAccountNotFound if no
// link matches.
func (s *ConnectedAccountService) FindByConnectedAccount(ctx context.Context, provider, accessToken string) (*entities.Account, error) {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordServiceOperation("connected_account", "find_by_connected_account", time.Since(start), err)
	}()

	account, err := s.links.GetAccountByProviderDigest(ctx, provider, s.codec.Digest(accessToken))
	if err != nil {
		if errors.Is(err, repositories.ErrConnectedAccountNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to resolve connected account: %w", err)
	}

	return s.urls.decorate(account), nil
}

// FindFriendAccounts returns the members linked to the given provider whose
// provider-side user ID appears in providerUserIDs. Unknown IDs are
// skipped; order follows storage order.
func (s *ConnectedAccountService) FindFriendAccounts(ctx context.Context, provider string, providerUserIDs []string) ([]*entities.Account, error) {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordServiceOperation("connected_account", "find_friend_accounts", time.Since(start), err)
	}()

	accounts, err := s.links.ListAccountsByProviderUserIDs(ctx, provider, providerUserIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend accounts: %w", err)
	}

	return s.urls.decorateAll(accounts), nil
}

// HasConnectedAccount reports whether the member has a link to the provider
func (s *ConnectedAccountService) HasConnectedAccount(ctx context.Context, accountID int64, provider string) (bool, error) {
	return s.links.Exists(ctx, accountID, provider)
}
