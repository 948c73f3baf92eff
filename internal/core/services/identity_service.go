package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/ports"
)

type IdentityService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenProvider
}

func NewIdentityService(users ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenProvider) *IdentityService {
	return &IdentityService{users: users, hasher: hasher, tokens: tokens}
}

func (s *IdentityService) Signup(ctx context.Context, cmd ports.SignupCmd) (*ports.AuthResult, error) {
	// 1. Shape validation
	if err := domain.ValidateEmail(cmd.Email); err != nil {
		return nil, err
	}
	if len(cmd.Password) < domain.MinPasswordLength {
		return nil, domain.ErrWeakPassword
	}

	hash, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := domain.NewUser(cmd.Username, cmd.FullName, cmd.Email, hash)
	if err != nil {
		return nil, err
	}

	// 2. Uniqueness, the store's unique indexes catch the races
	if err := ensureAbsent(ctx, s.users.GetByUsername, user.Username, domain.ErrUsernameTaken); err != nil {
		return nil, err
	}
	if err := ensureAbsent(ctx, s.users.GetByEmail, user.Email, domain.ErrEmailTaken); err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("User registered", "user_id", user.ID, "username", user.Username)
	return s.issue(user)
}

func (s *IdentityService) Login(ctx context.Context, cmd ports.LoginCmd) (*ports.AuthResult, error) {
	user, err := s.users.GetByUsername(ctx, cmd.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, cmd.Password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(user)
}

// Logout bumps the session version so that every token issued so far stops
// authenticating.
func (s *IdentityService) Logout(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.SessionVersion++
	user.Touch()
	return s.users.Update(ctx, user)
}

func (s *IdentityService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *IdentityService) Authenticate(ctx context.Context, token string) (string, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return "", domain.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidToken
		}
		return "", err
	}
	if user.SessionVersion != claims.SessionVersion {
		return "", domain.ErrInvalidToken
	}
	return user.ID, nil
}

func (s *IdentityService) issue(user *domain.User) (*ports.AuthResult, error) {
	token, err := s.tokens.Generate(ports.TokenClaims{UserID: user.ID, SessionVersion: user.SessionVersion})
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &ports.AuthResult{User: user, Token: token}, nil
}

type lookupFn func(ctx context.Context, key string) (*domain.User, error)

// ensureAbsent maps a successful lookup to the taken error.
func ensureAbsent(ctx context.Context, lookup lookupFn, key string, taken error) error {
	_, err := lookup(ctx, key)
	switch {
	case err == nil:
		return taken
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	default:
		return err
	}
}
