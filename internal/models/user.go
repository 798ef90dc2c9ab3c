package models

import "time"

// User is a stored account record. Password holds the bcrypt hash, never
// the plaintext. Tokens is the bounded list of outstanding refresh tokens,
// ordered by insertion.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Password  string `json:"-"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	Tokens []TokenEntry `json:"-"`
}

// TokenEntry is one outstanding refresh token held against a user.
type TokenEntry struct {
	ID           int64     `json:"id"`
	RefreshToken string    `json:"refresh_token"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasRefreshToken reports whether the exact token value is currently stored.
func (u *User) HasRefreshToken(token string) bool {
	for _, entry := range u.Tokens {
		if entry.RefreshToken == token {
			return true
		}
	}
	return false
}
