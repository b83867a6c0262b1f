package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/shashiranjanraj/shoplist/app/repositories"
	"github.com/shashiranjanraj/shoplist/pkg/auth"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong
// password; the two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("services: invalid credentials")

// AuthService verifies credentials and issues tokens.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Login checks email/password against the stored bcrypt hash and returns a
// signed JWT on success.
func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return auth.GenerateToken(user.ID)
}
