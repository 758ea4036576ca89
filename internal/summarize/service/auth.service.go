package service

import (
	"errors"
	"time"

	"summarist/internal/summarize/model"
	"summarist/internal/summarize/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 24 * time.Hour

type AuthService struct {
	Users  *repository.UserRepository
	Secret []byte
}

func NewAuthService(users *repository.UserRepository, secret []byte) *AuthService {
	return &AuthService{Users: users, Secret: secret}
}

// Register creates an account with a bcrypt-hashed password. Duplicate
// usernames surface as model.ErrDuplicateUser.
func (s *AuthService) Register(username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.Users.Create(username, string(hash))
}

// Login checks the credentials and returns a signed session token. Unknown
// users and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(username, password string) (string, error) {
	user, err := s.Users.GetByUsername(username)
	if errors.Is(err, model.ErrNotFound) {
		return "", model.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", model.ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"sub": user.Username,
		"exp": time.Now().Add(sessionTTL).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}
