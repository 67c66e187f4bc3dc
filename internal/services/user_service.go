package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"haushaltsbuch/internal/auth"
	apperrors "haushaltsbuch/internal/errors"
	"haushaltsbuch/internal/models"
	"haushaltsbuch/internal/store"
	"haushaltsbuch/internal/uuid"
)

// userService handles user-related business logic.
type userService struct {
	repo   *store.Repository
	hasher *auth.PasswordHasher
	now    func() time.Time
}

// NewUserService creates a new UserServicer.
func NewUserService(repo *store.Repository, hasher *auth.PasswordHasher) UserServicer {
	return &userService{repo: repo, hasher: hasher, now: time.Now}
}

// CreateUser registers a new user. Usernames are unique regardless of case.
func (s *userService) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "username and password are required")
	}

	// Hash outside the store lock
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.now().Unix(),
	}

	err = s.repo.Update(ctx, func(ds *models.Dataset) (bool, error) {
		if ds.FindUsername(username) >= 0 {
			return false, apperrors.ErrDuplicateUsername
		}
		ds.Users = append(ds.Users, user)
		return true, nil
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by case-insensitive username
func (s *userService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.repo.View(ctx, func(ds *models.Dataset) error {
		i := ds.FindUsername(username)
		if i < 0 {
			return apperrors.ErrUserNotFound
		}
		user = ds.Users[i]
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.repo.View(ctx, func(ds *models.Dataset) error {
		i := ds.FindUser(id)
		if i < 0 {
			return apperrors.ErrUserNotFound
		}
		user = ds.Users[i]
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &user, nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	return s.hasher.Verify(user.PasswordHash, password)
}

// AttemptLogin resolves the user and checks the password. Unknown users and
// wrong passwords produce the same error.
func (s *userService) AttemptLogin(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.VerifyPassword(user, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// storeError passes AppErrors through and wraps anything else the store
// returns as an internal error.
func storeError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
