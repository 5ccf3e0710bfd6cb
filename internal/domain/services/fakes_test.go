package services

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/devilmonastery/greenhouse/internal/domain/entities"
	"github.com/devilmonastery/greenhouse/internal/domain/repositories"
)

// In-memory repository fakes. They enforce the same uniqueness rules and
// return the same sentinel errors as the postgres implementations.

type fakeAccountRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]entities.Account
	hashes map[int64]string
}

var _ repositories.AccountRepository = (*fakeAccountRepo)(nil)

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		nextID: 1,
		rows:   make(map[int64]entities.Account),
		hashes: make(map[int64]string),
	}
}

func (r *fakeAccountRepo) Create(_ context.Context, account *entities.Account, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rows {
		if strings.EqualFold(row.Email, account.Email) {
			return repositories.ErrEmailOnFile
		}
	}

	account.ID = r.nextID
	account.CreatedAt = time.Now()
	r.nextID++
	r.rows[account.ID] = *account
	r.hashes[account.ID] = passwordHash
	return nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id int64) (*entities.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrAccountNotFound
	}
	return &row, nil
}

func (r *fakeAccountRepo) GetByUsernameOrEmail(_ context.Context, key string) (*entities.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rows {
		if strings.EqualFold(row.Username, key) || strings.EqualFold(row.Email, key) {
			row := row
			return &row, nil
		}
	}
	return nil, repositories.ErrUsernameNotFound
}

func (r *fakeAccountRepo) GetPasswordHash(_ context.Context, id int64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	hash, ok := r.hashes[id]
	if !ok {
		return "", repositories.ErrAccountNotFound
	}
	return hash, nil
}

func (r *fakeAccountRepo) MarkPictureSet(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if row, ok := r.rows[id]; ok {
		row.PictureSet = true
		r.rows[id] = row
	}
	return nil
}

func (r *fakeAccountRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rows {
		if strings.EqualFold(row.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

type fakeLink struct {
	link   entities.ConnectedAccount
	digest string
}

type fakeConnectedAccountRepo struct {
	mu       sync.Mutex
	accounts *fakeAccountRepo
	nextID   int
	links    []fakeLink
}

var _ repositories.ConnectedAccountRepository = (*fakeConnectedAccountRepo)(nil)

func newFakeConnectedAccountRepo(accounts *fakeAccountRepo) *fakeConnectedAccountRepo {
	return &fakeConnectedAccountRepo{accounts: accounts, nextID: 1}
}

func (r *fakeConnectedAccountRepo) Create(_ context.Context, link *entities.ConnectedAccount, tokenDigest string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.links {
		if existing.link.AccountID == link.AccountID && existing.link.Provider == link.Provider {
			return repositories.ErrAccountAlreadyConnected
		}
	}

	link.ID = strconv.Itoa(r.nextID)
	link.CreatedAt = time.Now()
	r.nextID++
	r.links = append(r.links, fakeLink{link: *link, digest: tokenDigest})
	return nil
}

func (r *fakeConnectedAccountRepo) Delete(_ context.Context, accountID int64, provider string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.links[:0]
	for _, existing := range r.links {
		if existing.link.AccountID == accountID && existing.link.Provider == provider {
			continue
		}
		kept = append(kept, existing)
	}
	r.links = kept
	return nil
}

func (r *fakeConnectedAccountRepo) GetAccountByProviderDigest(ctx context.Context, provider, tokenDigest string) (*entities.Account, error) {
	r.mu.Lock()
	var accountID int64
	found := false
	for _, existing := range r.links {
		if existing.link.Provider == provider && existing.digest == tokenDigest {
			accountID = existing.link.AccountID
			found = true
			break
		}
	}
	r.mu.Unlock()

	if !found {
		return nil, repositories.ErrConnectedAccountNotFound
	}
	return r.accounts.GetByID(ctx, accountID)
}

func (r *fakeConnectedAccountRepo) ListAccountsByProviderUserIDs(ctx context.Context, provider string, ids []string) ([]*entities.Account, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	r.mu.Lock()
	var accountIDs []int64
	for _, existing := range r.links {
		if existing.link.Provider == provider && wanted[existing.link.ProviderUserID] {
			accountIDs = append(accountIDs, existing.link.AccountID)
		}
	}
	r.mu.Unlock()

	var accounts []*entities.Account
	for _, id := range accountIDs {
		account, err := r.accounts.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func (r *fakeConnectedAccountRepo) Exists(_ context.Context, accountID int64, provider string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.links {
		if existing.link.AccountID == accountID && existing.link.Provider == provider {
			return true, nil
		}
	}
	return false, nil
}

// cipherFor returns the stored ciphertext for a link, for asserting that
// plaintext tokens never reach the repository.
func (r *fakeConnectedAccountRepo) cipherFor(accountID int64, provider string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.links {
		if existing.link.AccountID == accountID && existing.link.Provider == provider {
			return existing.link.AccessToken, true
		}
	}
	return "", false
}

type fakeConnectedAppRepo struct {
	mu         sync.Mutex
	registered map[string]entities.App
	nextID     int
	rows       map[string]entities.ConnectedApp
}

var _ repositories.ConnectedAppRepository = (*fakeConnectedAppRepo)(nil)

func newFakeConnectedAppRepo(apiKeys ...string) *fakeConnectedAppRepo {
	registered := make(map[string]entities.App, len(apiKeys))
	for _, key := range apiKeys {
		registered[key] = entities.App{APIKey: key, Name: "app " + key}
	}
	return &fakeConnectedAppRepo{
		registered: registered,
		nextID:     1,
		rows:       make(map[string]entities.ConnectedApp),
	}
}

func (r *fakeConnectedAppRepo) Create(_ context.Context, app *entities.ConnectedApp) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.registered[app.APIKey]; !ok {
		return repositories.ErrInvalidAPIKey
	}

	app.ID = strconv.Itoa(r.nextID)
	app.IssuedAt = time.Now()
	r.nextID++
	r.rows[app.AccessToken] = *app
	return nil
}

func (r *fakeConnectedAppRepo) GetByAccessToken(_ context.Context, accessToken string) (*entities.ConnectedApp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[accessToken]
	if !ok {
		return nil, repositories.ErrConnectedAppNotFound
	}
	return &row, nil
}

func (r *fakeConnectedAppRepo) AppExists(_ context.Context, apiKey string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.registered[apiKey]
	return ok, nil
}

func (r *fakeConnectedAppRepo) GetApp(_ context.Context, apiKey string) (*entities.App, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	app, ok := r.registered[apiKey]
	if !ok {
		return nil, repositories.ErrInvalidAPIKey
	}
	return &app, nil
}

// storedSecret returns the ciphertext secret as persisted, for asserting
// the plaintext never reaches the repository.
func (r *fakeConnectedAppRepo) storedSecret(accessToken string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[accessToken]
	if !ok {
		return "", false
	}
	return row.Secret, true
}
