package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/arashkm/vidhub/internal/model"
	repository "github.com/arashkm/vidhub/internal/repository/repoerr"
)

// UserStore is the slice of the persistence layer the session manager
// needs. repository.UserRepo implements it against MySQL; tests use an
// in-memory fake. RotateRefreshToken must be atomic per record: it
// replaces the stored token only when the current value equals old, and
// reports repository.ErrNotFound otherwise. That compare-and-swap is
// what decides the race between two concurrent refreshes holding the
// same superseded token.
type UserStore interface {
	FindByLogin(ctx context.Context, username, email string) (model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	SaveRefreshToken(ctx context.Context, id, token string) error
	RotateRefreshToken(ctx context.Context, id, old, next string) error
	ClearRefreshToken(ctx context.Context, id string) error
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	Access  string `json:"accessToken"`
	Refresh string `json:"refreshToken"`
}

// SessionManager drives the per-session state machine: anonymous →
// authenticated → rotated → terminated. All session state lives on the
// user record in the store; the manager itself holds no mutable state
// and is safe for concurrent use.
type SessionManager struct {
	Store  UserStore
	Issuer Issuer
}

func NewSessionManager(store UserStore, issuer Issuer) *SessionManager {
	return &SessionManager{Store: store, Issuer: issuer}
}

// Login verifies credentials and opens a session. The new refresh token
// overwrites whatever was stored before, so at most one refresh token
// per account is ever valid (single active session).
func (m *SessionManager) Login(ctx context.Context, username, email, password string) (TokenPair, model.Profile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	if (username == "" && email == "") || password == "" {
		return TokenPair{}, model.Profile{}, ErrValidation
	}

	u, err := m.Store.FindByLogin(ctx, username, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, model.Profile{}, ErrNotFound
		}
		return TokenPair{}, model.Profile{}, err
	}
	if !VerifyPassword(u.PasswordHash, password) {
		return TokenPair{}, model.Profile{}, ErrBadCredentials
	}

	pair, err := m.issuePair(u)
	if err != nil {
		return TokenPair{}, model.Profile{}, err
	}
	if err := m.Store.SaveRefreshToken(ctx, u.ID, pair.Refresh); err != nil {
		return TokenPair{}, model.Profile{}, err
	}
	return pair, u.Profile(), nil
}

// Refresh exchanges a valid refresh token for a new pair and rotates
// the stored token. The presented token must match the stored value
// exactly: a signed, unexpired token that has been rotated away or
// cleared by logout is rejected. Every failure is ErrUnauthorized.
func (m *SessionManager) Refresh(ctx context.Context, presented string) (TokenPair, model.Profile, error) {
	presented = strings.TrimSpace(presented)
	if presented == "" {
		return TokenPair{}, model.Profile{}, ErrUnauthorized
	}
	claims, err := m.Issuer.ParseRefresh(presented)
	if err != nil {
		return TokenPair{}, model.Profile{}, ErrUnauthorized
	}

	u, err := m.Store.FindByID(ctx, claims.Subject)
	if err != nil {
		return TokenPair{}, model.Profile{}, ErrUnauthorized
	}
	if u.RefreshToken == "" || u.RefreshToken != presented {
		return TokenPair{}, model.Profile{}, ErrUnauthorized
	}

	pair, err := m.issuePair(u)
	if err != nil {
		return TokenPair{}, model.Profile{}, err
	}
	// Compare-and-swap: if another request rotated the token between
	// our read and this write, we lose and the caller gets 401.
	if err := m.Store.RotateRefreshToken(ctx, u.ID, presented, pair.Refresh); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, model.Profile{}, ErrUnauthorized
		}
		return TokenPair{}, model.Profile{}, err
	}
	return pair, u.Profile(), nil
}

// Logout terminates the session by clearing the stored refresh token.
// Already-issued access tokens stay valid until their own expiry;
// stateless tokens cannot be revoked early.
func (m *SessionManager) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrUnauthorized
	}
	return m.Store.ClearRefreshToken(ctx, userID)
}

func (m *SessionManager) issuePair(u model.User) (TokenPair, error) {
	access, err := m.Issuer.IssueAccess(u)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := m.Issuer.IssueRefresh(u.ID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}
