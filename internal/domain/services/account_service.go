package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/devilmonastery/greenhouse/internal/domain/entities"
	"github.com/devilmonastery/greenhouse/internal/domain/repositories"
	"github.com/devilmonastery/greenhouse/internal/pkg/metrics"
	"github.com/devilmonastery/greenhouse/internal/pkg/password"
)

// AccountService provides business logic for member identity management
type AccountService struct {
	accounts repositories.AccountRepository
	hasher   *password.Hasher
	urls     URLConfig
	log      *slog.Logger
}

// NewAccountService creates a new account service
func NewAccountService(accounts repositories.AccountRepository, hasher *password.Hasher, urls URLConfig) *AccountService {
	return &AccountService{
		accounts: accounts,
		hasher:   hasher,
		urls:     urls,
		log:      slog.Default().With(slog.String("service", "account")),
	}
}

// CreateAccount creates a member account from a Person.
// Returns repositories.ErrEmailOnFile if the email is already registered.
// The pre-check below gives a fast answer; the members_email_key constraint
// is what actually closes the race against a concurrent create.
func (s *AccountService) CreateAccount(ctx context.Context, person *entities.Person) (*entities.Account, error) {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordServiceOperation("account", "create_account", time.Since(start), err)
	}()

	exists, err := s.accounts.ExistsByEmail(ctx, person.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		err = repositories.ErrEmailOnFile
		return nil, err
	}

	hash, err := s.hasher.Hash(person.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &entities.Account{
		FirstName: person.FirstName,
		LastName:  person.LastName,
		Email:     person.Email,
		Username:  person.Username,
		Gender:    person.Gender,
		BirthDate: person.BirthDate,
	}

	if err = s.accounts.Create(ctx, account, hash); err != nil {
		if errors.Is(err, repositories.ErrEmailOnFile) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.log.Info("account created",
		slog.Int64("account_id", account.ID),
		slog.String("username", account.Username))

	return s.urls.decorate(account), nil
}

// Authenticate verifies a member's credentials. The key may be a username
// or an email. Returns repositories.ErrUsernameNotFound when no identity
// matches and repositories.ErrInvalidPassword on a mismatch; the stored
// hash never leaves this method.
func (s *AccountService) Authenticate(ctx context.Context, usernameOrEmail, rawPassword string) (*entities.Account, error) {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordServiceOperation("account", "authenticate", time.Since(start), err)
	}()

	account, err := s.accounts.GetByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, repositories.ErrUsernameNotFound) {
			s.log.Debug("authentication failed", slog.String("reason", lookupFailureReason(err)))
			return nil, err
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	hash, err := s.accounts.GetPasswordHash(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	if !s.hasher.Matches(rawPassword, hash) {
		err = repositories.ErrInvalidPassword
		s.log.Debug("authentication failed",
			slog.Int64("account_id", account.ID),
			slog.String("reason", lookupFailureReason(err)))
		return nil, err
	}

	return s.urls.decorate(account), nil
}

// FindByID retrieves an account by member ID. Absence is an explicit nil
// result, not an error; this asymmetry with FindByUsername is deliberate
// and callers rely on it.
func (s *AccountService) FindByID(ctx context.Context, id int64) (*entities.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return s.urls.decorate(account), nil
}

// FindByUsername retrieves an account by username or email.
// Returns repositories.ErrUsernameNotFound if neither matches.
func (s *AccountService) FindByUsername(ctx context.Context, usernameOrEmail string) (*entities.Account, error) {
	account, err := s.accounts.GetByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, repositories.ErrUsernameNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return s.urls.decorate(account), nil
}

// MarkProfilePictureSet records that the member uploaded a profile picture.
// Subsequent reads derive the picture URL from the account ID instead of
// the gender default. Idempotent.
func (s *AccountService) MarkProfilePictureSet(ctx context.Context, id int64) error {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordServiceOperation("account", "mark_profile_picture_set", time.Since(start), err)
	}()

	if err = s.accounts.MarkPictureSet(ctx, id); err != nil {
		return fmt.Errorf("failed to mark profile picture set: %w", err)
	}
	return nil
}
