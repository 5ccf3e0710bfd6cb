package services

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"github.com/devilmonastery/greenhouse/internal/domain/entities"
	"github.com/devilmonastery/greenhouse/internal/domain/repositories"
	"github.com/devilmonastery/greenhouse/internal/pkg/password"
	"github.com/devilmonastery/greenhouse/internal/pkg/secrets"
)

func testCodec(t *testing.T) *secrets.Codec {
	t.Helper()
	codec, err := secrets.NewCodec("secret", "5b8bd7612cdab5ed")
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}
	return codec
}

func newTestConnectedAccountService(t *testing.T) (*ConnectedAccountService, *AccountService, *fakeConnectedAccountRepo) {
	t.Helper()
	accounts := newFakeAccountRepo()
	links := newFakeConnectedAccountRepo(accounts)
	accountSvc := NewAccountService(accounts, password.NewHasher(bcrypt.MinCost), testURLConfig())
	linkSvc := NewConnectedAccountService(links, testCodec(t), testURLConfig())
	return linkSvc, accountSvc, links
}

func TestConnectAndFindByConnectedAccount(t *testing.T) {
	linkSvc, accountSvc, links := newTestConnectedAccountService(t)
	ctx := context.Background()

	account := mustCreateAccount(t, accountSvc, &entities.Person{
		FirstName: "Craig", LastName: "Walls",
		Email: "cwalls@interface21.com", Username: "craig", Password: "letmein",
		Gender: entities.GenderMale,
	})

	token := &oauth2.Token{AccessToken: "accessToken"}
	if err := linkSvc.ConnectAccount(ctx, account.ID, "facebook", token, "345678901"); err != nil {
		t.Fatalf("ConnectAccount() error = %v", err)
	}

	resolved, err := linkSvc.FindByConnectedAccount(ctx, "facebook", "accessToken")
	if err != nil {
		t.Fatalf("FindByConnectedAccount() error = %v", err)
	}
	if resolved.ID != account.ID {
		t.Errorf("resolved account ID = %d, want %d", resolved.ID, account.ID)
	}
	if resolved.ProfileURL == "" || resolved.PictureURL == "" {
		t.Error("resolved account is missing derived URLs")
	}

	// The token is stored encrypted, never verbatim.
	cipher, ok := links.cipherFor(account.ID, "facebook")
	if !ok {
		t.Fatal("no stored link for the connected account")
	}
	if cipher == "accessToken" {
		t.Error("access token was stored in plaintext")
	}
}

func TestFindByConnectedAccountUnknownToken(t *testing.T) {
	linkSvc, _, _ := newTestConnectedAccountService(t)

	_, err := linkSvc.FindByConnectedAccount(context.Background(), "facebook", "never-issued")
	if !errors.Is(err, repositories.ErrConnectedAccountNotFound) {
		t.Errorf("FindByConnectedAccount() error = %v, want ErrConnectedAccountNotFound", err)
	}
}

func TestConnectAccountTwice(t *testing.T) {
	linkSvc, accountSvc, _ := newTestConnectedAccountService(t)
	ctx := context.Background()

	account := mustCreateAccount(t, accountSvc, &entities.Person{
		FirstName: "Craig", LastName: "Walls",
		Email: "cwalls@interface21.com", Username: "craig", Password: "letmein",
		Gender: entities.GenderMale,
	})

	token := &oauth2.Token{AccessToken: "accessToken"}
	if err := linkSvc.ConnectAccount(ctx, account.ID, "facebook", token, "345678901"); err != nil {
		t.Fatalf("ConnectAccount() error = %v", err)
	}

	// A second link for the same (account, provider) pair is rejected even
	// with a different token.
	other := &oauth2.Token{AccessToken: "otherToken"}
	err := linkSvc.ConnectAccount(ctx, account.ID, "facebook", other, "345678901")
	if !errors.Is(err, repositories.ErrAccountAlreadyConnected) {
		t.Errorf("second ConnectAccount() error = %v, want ErrAccountAlreadyConnected", err)
	}

	// A different provider for the same account is fine.
	if err := linkSvc.ConnectAccount(ctx, account.ID, "twitter", token, "@craig"); err != nil {
		t.Errorf("ConnectAccount() on second provider error = %v", err)
	}
}

func TestDisconnectAccount(t *testing.T) {
	linkSvc, accountSvc, _ := newTestConnectedAccountService(t)
	ctx := context.Background()

	account := mustCreateAccount(t, accountSvc, &entities.Person{
		FirstName: "Craig", LastName: "Walls",
		Email: "cwalls@interface21.com", Username: "craig", Password: "letmein",
		Gender: entities.GenderMale,
	})

	token := &oauth2.Token{AccessToken: "accessToken"}
	if err := linkSvc.ConnectAccount(ctx, account.ID, "facebook", token, "345678901"); err != nil {
		t.Fatalf("ConnectAccount() error = %v", err)
	}

	connected, err := linkSvc.HasConnectedAccount(ctx, account.ID, "facebook")
	if err != nil {
		t.Fatalf("HasConnectedAccount() error = %v", err)
	}
	if !connected {
		t.Fatal("HasConnectedAccount() = false after connect")
	}

	if err := linkSvc.DisconnectAccount(ctx, account.ID, "facebook"); err != nil {
		t.Fatalf("DisconnectAccount() error = %v", err)
	}

	connected, err = linkSvc.HasConnectedAccount(ctx, account.ID, "facebook")
	if err != nil {
		t.Fatalf("HasConnectedAccount() error = %v", err)
	}
	if connected {
		t.Error("HasConnectedAccount() = true after disconnect")
	}

	if _, err := linkSvc.FindByConnectedAccount(ctx, "facebook", "accessToken"); !errors.Is(err, repositories.ErrConnectedAccountNotFound) {
		t.Errorf("FindByConnectedAccount() after disconnect error = %v, want ErrConnectedAccountNotFound", err)
	}

	// Disconnecting again is a no-op.
	if err := linkSvc.DisconnectAccount(ctx, account.ID, "facebook"); err != nil {
		t.Errorf("second DisconnectAccount() error = %v", err)
	}
}

func TestFindFriendAccounts(t *testing.T) {
	linkSvc, accountSvc, _ := newTestConnectedAccountService(t)
	ctx := context.Background()

	keith := mustCreateAccount(t, accountSvc, &entities.Person{
		FirstName: "Keith", LastName: "Donald",
		Email: "keith@interface21.com", Username: "habuma", Password: "melbourne",
		Gender: entities.GenderMale,
	})
	craig := mustCreateAccount(t, accountSvc, &entities.Person{
		FirstName: "Craig", LastName: "Walls",
		Email: "cwalls@interface21.com", Username: "craig", Password: "letmein",
		Gender: entities.GenderMale,
	})
	mustCreateAccount(t, accountSvc, &entities.Person{
		FirstName: "Jack", LastName: "Black",
		Email: "jack@blackinc.com", Username: "foobie", Password: "foobar",
		Gender: entities.GenderMale,
	})

	if err := linkSvc.ConnectAccount(ctx, keith.ID, "facebook", &oauth2.Token{AccessToken: "keithToken"}, "100001"); err != nil {
		t.Fatalf("ConnectAccount() error = %v", err)
	}
	if err := linkSvc.ConnectAccount(ctx, craig.ID, "facebook", &oauth2.Token{AccessToken: "craigToken"}, "100002"); err != nil {
		t.Fatalf("ConnectAccount() error = %v", err)
	}

	// Unknown provider-side IDs are skipped without error.
	friends, err := linkSvc.FindFriendAccounts(ctx, "facebook", []string{"100001", "100002", "999999"})
	if err != nil {
		t.Fatalf("FindFriendAccounts() error = %v", err)
	}
	if len(friends) != 2 {
		t.Fatalf("FindFriendAccounts() returned %d accounts, want 2", len(friends))
	}
	if friends[0].ID != keith.ID || friends[1].ID != craig.ID {
		t.Errorf("friend IDs = [%d %d], want [%d %d]", friends[0].ID, friends[1].ID, keith.ID, craig.ID)
	}
	for _, friend := range friends {
		if friend.ProfileURL == "" || friend.PictureURL == "" {
			t.Errorf("friend %d is missing derived URLs", friend.ID)
		}
	}

	friends, err = linkSvc.FindFriendAccounts(ctx, "facebook", nil)
	if err != nil {
		t.Fatalf("FindFriendAccounts() with no IDs error = %v", err)
	}
	if len(friends) != 0 {
		t.Errorf("FindFriendAccounts() with no IDs returned %d accounts, want 0", len(friends))
	}
}
