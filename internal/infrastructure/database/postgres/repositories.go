package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/devilmonastery/greenhouse/internal/domain/repositories"
)

// NewRepositories wires every PostgreSQL repository over one connection
func NewRepositories(db *sqlx.DB) *repositories.Repositories {
	return &repositories.Repositories{
		Accounts:          NewAccountRepository(db),
		ConnectedAccounts: NewConnectedAccountRepository(db),
		ConnectedApps:     NewConnectedAppRepository(db),
	}
}
