package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/dilekiremozbay/2homework/internal/models"
	"github.com/dilekiremozbay/2homework/internal/storage"
)

// ErrInvalidCredentials covers both an unknown username and a wrong
// password, so a caller cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("incorrect username or password")

// CredentialVerifier checks a username/password pair against stored records.
type CredentialVerifier struct {
	users storage.UserRepository
}

func NewCredentialVerifier(users storage.UserRepository) *CredentialVerifier {
	return &CredentialVerifier{users: users}
}

func (v *CredentialVerifier) Verify(ctx context.Context, username, password string) (*models.User, error) {
	user, err := v.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
