package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/doviland/gestionale/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthUserStore interface {
	FindActiveByEmail(email string) (models.User, error)
	FindActiveByID(userID uint) (models.User, error)
}

// AuthService checks credentials and resolves bearer-token principals.
type AuthService struct {
	users AuthUserStore
}

func NewAuthService(users AuthUserStore) *AuthService {
	return &AuthService{users: users}
}

// Authenticate verifies an email/password pair against the active user
// set. Unknown, deactivated and wrong-password cases are indistinguishable
// to the caller.
func (service *AuthService) Authenticate(email string, password string) (models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.User{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	user, err := service.users.FindActiveByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// ResolvePrincipal loads the active user behind a verified token. A token
// for a deactivated or deleted user resolves to nothing.
func (service *AuthService) ResolvePrincipal(userID uint) (models.User, error) {
	user, err := service.users.FindActiveByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}
