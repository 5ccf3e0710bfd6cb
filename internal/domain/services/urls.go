package services

import (
	"github.com/devilmonastery/greenhouse/internal/domain/entities"
	"github.com/devilmonastery/greenhouse/internal/pkg/urlutil"
)

// URLConfig carries the member-facing URL settings shared by the services.
// Passed in at construction time; there is no ambient configuration.
type URLConfig struct {
	// ProfileTemplate has one {profileKey} placeholder
	ProfileTemplate string
	// PictureBase prefixes profile picture paths
	PictureBase string
}

// decorate fills in the derived URL fields on an account before it is
// returned to a caller
func (u URLConfig) decorate(account *entities.Account) *entities.Account {
	if account == nil {
		return nil
	}
	account.ProfileURL = urlutil.ProfileURL(u.ProfileTemplate, account.ProfileKey())
	account.PictureURL = urlutil.PictureURL(u.PictureBase, account.ID, string(account.Gender), account.PictureSet, urlutil.PictureSmall)
	return account
}

// decorateAll applies decorate to a slice of accounts
func (u URLConfig) decorateAll(accounts []*entities.Account) []*entities.Account {
	for _, a := range accounts {
		u.decorate(a)
	}
	return accounts
}
