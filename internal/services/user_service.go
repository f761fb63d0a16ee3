package services

import (
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	apperrors "budgetd/internal/errors"
	"budgetd/internal/models"
	"budgetd/internal/storage"
)

const minPasswordLength = 8

// Basic local@domain shape. Anything stricter rejects addresses that mail
// servers accept.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+$`)

// userService handles registration and credential verification.
type userService struct {
	store storage.UserStore
}

// NewUserService creates a new UserServicer backed by the given store.
func NewUserService(store storage.UserStore) UserServicer {
	return &userService{store: store}
}

// Register validates the registration fields, hashes the password, and
// creates the user. On any validation failure no user row is created.
func (s *userService) Register(username, email, password, confirm string) (*models.User, error) {
	if username == "" || email == "" || password == "" || confirm == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "username, email, password, and confirmPassword are required")
	}
	if password != confirm {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "passwords do not match")
	}
	if len(password) < minPasswordLength {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "password must be at least 8 characters")
	}
	if !emailPattern.MatchString(email) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid email address")
	}

	taken, err := s.store.UserExists(username, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrUserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Username: strings.ToLower(username),
		Email:    strings.ToLower(email),
		Password: string(hashed),
	}
	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the password against the stored bcrypt hash. An unknown
// username and a wrong password are indistinguishable to the caller.
func (s *userService) Login(username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "username and password are required")
	}

	user, err := s.store.GetUserByUsername(username)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}
