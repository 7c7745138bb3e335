// Package auth implements the authentication core: password hashing, session
// token issuance and verification, and the registration/login flows.
package auth

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/nvaldez/bookshelf/internal/apperror"
	"github.com/nvaldez/bookshelf/internal/models"
	"github.com/nvaldez/bookshelf/internal/store"
)

// UserStore is the slice of the persistence layer the auth service needs.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	InsertUser(ctx context.Context, name, email, passwordHash string) (int64, error)
}

// Service orchestrates registration and login.
type Service struct {
	store  UserStore
	issuer *TokenIssuer
	log    *zap.Logger
}

func NewService(store UserStore, issuer *TokenIssuer, log *zap.Logger) *Service {
	return &Service{store: store, issuer: issuer, log: log}
}

// LoginResult is what a successful login returns: the session token and the
// public user projection. The password hash never leaves the service.
type LoginResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// Register creates a new user and returns the store-assigned id.
//
// The email existence pre-check and the insert are not atomic; two concurrent
// registrations can both pass the check. The unique constraint on
// users.email is the real guard, and its violation is reported as the same
// conflict error.
func (s *Service) Register(ctx context.Context, name, email, password string) (int64, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || strings.TrimSpace(password) == "" {
		return 0, apperror.NewValidation("name, email and password are required")
	}

	_, err := s.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return 0, apperror.NewConflict("user already exists")
	case !errors.Is(err, store.ErrNotFound):
		return 0, apperror.NewStore(err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return 0, apperror.NewInternal(err)
	}

	id, err := s.store.InsertUser(ctx, name, email, hash)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return 0, apperror.NewConflict("user already exists")
		}
		return 0, apperror.NewStore(err)
	}

	s.log.Info("user registered", zap.Int64("user_id", id), zap.String("email", email))
	return id, nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, apperror.NewValidation("email and password are required")
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NewNotFound("user does not exist")
		}
		return nil, apperror.NewStore(err)
	}

	ok, err := CheckPassword(password, user.PasswordHash)
	if err != nil {
		// Not a bad login attempt: the stored digest itself is broken.
		s.log.Error("stored password hash is malformed",
			zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, apperror.NewInvalidCredentials()
	}
	if !ok {
		return nil, apperror.NewInvalidCredentials()
	}

	// Refuse before issuing rather than handing out an unsigned token.
	if !s.issuer.Configured() {
		return nil, apperror.NewConfiguration(ErrNoSecret)
	}

	token, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		return nil, apperror.NewConfiguration(err)
	}

	s.log.Info("user logged in", zap.Int64("user_id", user.ID))
	return &LoginResult{Token: token, User: user.Public()}, nil
}
