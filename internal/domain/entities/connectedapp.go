package entities

import "time"

// ConnectedApp is an API credential issued to a registered client
// application on behalf of a member. AccessToken and Secret are generated
// fresh on every issuance and handed back in plaintext exactly once; at
// rest the secret is stored encrypted and only decrypted again on lookup.
type ConnectedApp struct {
	ID          string    `json:"id" db:"id"`
	AccountID   int64     `json:"account_id" db:"member"`
	APIKey      string    `json:"api_key" db:"api_key"`
	AccessToken string    `json:"access_token" db:"access_token"`
	Secret      string    `json:"-" db:"secret_cipher"` // never serialized
	IssuedAt    time.Time `json:"issued_at" db:"issued_at"`
}

// App is a registered client application. API keys are assigned
// out-of-band; this subsystem validates them but never mints them.
type App struct {
	APIKey string `json:"api_key" db:"api_key"`
	Name   string `json:"name" db:"name"`
}
