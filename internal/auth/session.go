// Package auth implements the session lifecycle: issuing signed session
// credentials backed by persisted token rows, revoking them on logout and
// validating password credentials on login.
package auth

import (
	"context"
	"errors"

	"github.com/iliyamo/taskboard/internal/model"
	"github.com/iliyamo/taskboard/internal/repository"
	"github.com/iliyamo/taskboard/internal/utils"
)

// ErrUserNotFound and ErrBadPassword keep the two login failure modes
// apart; the HTTP layer surfaces them as distinct responses.
var (
	ErrUserNotFound = errors.New("user does not exist")
	ErrBadPassword  = errors.New("incorrect password")
)

// Service issues and revokes session tokens and checks password
// credentials against the user store.
type Service struct {
	secret     string
	bcryptCost int
	users      *repository.UserRepo
	tokens     *repository.TokenRepo
}

func NewService(secret string, bcryptCost int, users *repository.UserRepo, tokens *repository.TokenRepo) *Service {
	return &Service{secret: secret, bcryptCost: bcryptCost, users: users, tokens: tokens}
}

// HashPassword hashes a plaintext with the configured cost.
func (s *Service) HashPassword(plain string) (string, error) {
	return utils.HashPassword(plain, s.bcryptCost)
}

// IssueToken signs a session credential for the user and persists the
// matching token row. Signing and persistence are not atomic: when the
// insert fails the signed string is returned to nobody and can never
// authenticate, because verification always requires the active row.
func (s *Service) IssueToken(ctx context.Context, u model.User) (string, error) {
	signed, err := utils.NewSessionToken(s.secret, u.ID, u.Name, u.Role)
	if err != nil {
		return "", err
	}
	if _, err := s.tokens.Store(ctx, u.ID, signed); err != nil {
		return "", err
	}
	return signed, nil
}

// RevokeToken deactivates the row matching both key and id while still
// active. repository.ErrNotFound propagates as-is so callers report a
// token-not-found condition, never a user-not-found one.
func (s *Service) RevokeToken(ctx context.Context, key string, tokenID uint64) error {
	return s.tokens.Revoke(ctx, key, tokenID)
}

// VerifyCredentials resolves the user by email and compares the plaintext
// against the stored bcrypt hash. The compare runs in constant time per
// bcrypt's contract.
func (s *Service) VerifyCredentials(ctx context.Context, email, password string) (model.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	if !utils.VerifyPassword(u.Password, password) {
		return model.User{}, ErrBadPassword
	}
	return u, nil
}
