package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/emilythestrangee/threadboard/backend/internal/apperr"
	"github.com/emilythestrangee/threadboard/backend/internal/models"
)

// UserStore is the slice of persistence the auth flows need.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id int) (*models.User, error)
	FindUserByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
}

// Service implements registration, login and token refresh.
type Service struct {
	users  UserStore
	tokens *TokenService
	hasher *Hasher
}

func NewService(users UserStore, tokens *TokenService, hasher *Hasher) *Service {
	if hasher == nil {
		hasher = defaultHasher
	}
	return &Service{users: users, tokens: tokens, hasher: hasher}
}

// Register creates the user and logs them in.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	taken, err := s.users.UsernameTaken(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, "", apperr.Conflict("Username already exists")
	}
	taken, err = s.users.EmailTaken(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, "", apperr.Conflict("Email already registered")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{Username: username, Email: email, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID, 0)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login checks the password of the user named by identifier (username or
// email). Unknown users and wrong passwords fail the same way.
func (s *Service) Login(ctx context.Context, identifier, password string) (string, error) {
	user, err := s.users.FindUserByIdentifier(ctx, identifier)
	if errors.Is(err, apperr.ErrNotFound) {
		return "", apperr.Unauthenticated("Invalid credentials")
	}
	if err != nil {
		return "", err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", apperr.Unauthenticated("Invalid credentials")
	}
	return s.tokens.Issue(user.ID, 0)
}

// Refresh re-issues a token for an already authenticated subject, provided
// the user still exists.
func (s *Service) Refresh(ctx context.Context, subjectID int) (string, error) {
	if _, err := s.Me(ctx, subjectID); err != nil {
		return "", err
	}
	return s.tokens.Issue(subjectID, 0)
}

// Me returns the authenticated user.
func (s *Service) Me(ctx context.Context, subjectID int) (*models.User, error) {
	user, err := s.users.GetUser(ctx, subjectID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Unauthenticated("User no longer exists")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
