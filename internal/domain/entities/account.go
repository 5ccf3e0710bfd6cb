package entities

import (
	"strconv"
	"time"
)

// Person is the transient input for account creation. It is never stored
// as-is; CreateAccount turns it into an Account.
type Person struct {
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Password  string    `json:"-"` // raw password, hashed before storage
	Gender    Gender    `json:"gender"`
	BirthDate time.Time `json:"birth_date"`
}

// Account represents a member identity record
type Account struct {
	ID         int64     `json:"id" db:"id"`
	FirstName  string    `json:"first_name" db:"first_name"`
	LastName   string    `json:"last_name" db:"last_name"`
	Email      string    `json:"email" db:"email"`
	Username   string    `json:"username" db:"username"`
	Gender     Gender    `json:"gender" db:"gender"`
	BirthDate  time.Time `json:"birth_date" db:"birth_date"`
	PictureSet bool      `json:"picture_set" db:"picture_set"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`

	// Derived at read time from the profile URL template and the picture
	// resolver; never persisted.
	ProfileURL string `json:"profile_url" db:"-"`
	PictureURL string `json:"picture_url" db:"-"`
}

// Gender of a member, as stored and as used in default picture paths
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender maps a string to a Gender, defaulting to male for unknown input
func ParseGender(s string) Gender {
	if Gender(s) == GenderFemale {
		return GenderFemale
	}
	return GenderMale
}

// FullName returns the member's display name
func (a *Account) FullName() string {
	return a.FirstName + " " + a.LastName
}

// ProfileKey returns the member's public identifier: the username when one
// is set, otherwise the numeric ID
func (a *Account) ProfileKey() string {
	if a.Username != "" {
		return a.Username
	}
	return strconv.FormatInt(a.ID, 10)
}
