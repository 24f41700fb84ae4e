package services

import (
	"fmt"
	"time"

	"chatter/auth"
	"chatter/errors"
	"chatter/repositories"
)

type IAuthService interface {
	Signup(name, email, password string) error
	Login(email, password string) (Token, string, error)
}

// AuthService is the identity verifier boundary: it turns credentials
// into an opaque signed token carrying {userId, name, email}. The core
// relay only ever consumes the resulting identity.
type AuthService struct {
	userRepository    repositories.IUserRepository
	authTokenDuration time.Duration
}

type Token string

func NewAuthService(repo repositories.IUserRepository, authTokenDuration time.Duration) IAuthService {
	return &AuthService{userRepository: repo, authTokenDuration: authTokenDuration}
}

// Signup validates the request, hashes the password and persists the
// account. No token is issued here; the client logs in afterwards.
func (s *AuthService) Signup(name, email, password string) error {
	valReq := auth.SignupRequest{
		Name:     name,
		Email:    email,
		Password: password,
	}

	// Business rules checked before any expensive cryptographic work
	if err := auth.ValidateSignup(valReq); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}

	// Hashing happens in the service layer to keep the repository
	// unaware of plain passwords
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing failed: %w", err)
	}

	if _, err := s.userRepository.CreateUser(name, email, hashedPassword); err != nil {
		return err // Propagates ErrUserAlreadyExists if the email is taken
	}
	return nil
}

// Login verifies credentials and returns a session token together with
// the display name the client greets the user with.
func (s *AuthService) Login(email, password string) (Token, string, error) {
	user, err := s.userRepository.GetUserByEmail(email)
	if err != nil {
		// Generic error to prevent user enumeration attacks
		return "", "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", "", errors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Name, user.Email, s.authTokenDuration)
	if err != nil {
		return "", "", errors.ErrTokenGeneration
	}

	return Token(token), user.Name, nil
}
