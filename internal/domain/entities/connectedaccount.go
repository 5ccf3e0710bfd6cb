package entities

import "time"

// ConnectedAccount links a member to an external identity-provider account.
// The provider's access token is encrypted at rest; ProviderUserID stays in
// plaintext because friend lookup matches on it directly.
// At most one ConnectedAccount exists per (account, provider) pair.
type ConnectedAccount struct {
	ID             string    `json:"id" db:"id"`
	AccountID      int64     `json:"account_id" db:"member"`
	Provider       string    `json:"provider" db:"provider"` // "facebook", "twitter", "tripit", etc.
	AccessToken    string    `json:"-" db:"token_cipher"`    // ciphertext at rest, never serialized
	ProviderUserID string    `json:"provider_user_id" db:"provider_user_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// ProviderKey returns a formatted provider+account string for logging
func (c *ConnectedAccount) ProviderKey() string {
	return c.Provider + ":" + c.ProviderUserID
}
