package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/arashkm/vidhub/internal/model"
)

// AccessClaims is the claim set carried by an access token. It is
// self-contained: the auth gate can identify the caller without a
// database round trip, although it still re-checks that the account
// exists. Access claims are never persisted anywhere.
type AccessClaims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

// RefreshClaims is the minimal claim set carried by a refresh token:
// just the subject plus the registered issued-at/expiry claims.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

// Issuer signs and verifies access and refresh tokens. Access and
// refresh tokens use separate secrets and separate lifetimes: a leaked
// access token is short-lived, while a refresh token is long-lived but
// revocable through the stored per-user value. The Issuer is pure; it
// performs no I/O and reads no ambient state.
type Issuer struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// IssueAccess signs an HS256 access token for the given user.
func (i Issuer) IssueAccess(u model.User) (string, error) {
	now := time.Now().UTC()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.AccessTTL)),
		},
		Email:    u.Email,
		Username: u.Username,
		FullName: u.FullName,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.AccessSecret)
}

// IssueRefresh signs an HS256 refresh token for the given user ID.
func (i Issuer) IssueRefresh(userID string) (string, error) {
	now := time.Now().UTC()
	claims := RefreshClaims{
		// jti makes every token unique even within the same second,
		// so a rotated-in refresh token never equals the one it
		// replaces.
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.RefreshTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.RefreshSecret)
}

// ParseAccess verifies signature and expiry of an access token and
// returns its claims. Any failure collapses to ErrUnauthorized.
func (i Issuer) ParseAccess(token string) (AccessClaims, error) {
	var claims AccessClaims
	if err := parse(token, &claims, i.AccessSecret); err != nil {
		return AccessClaims{}, err
	}
	return claims, nil
}

// ParseRefresh verifies signature and expiry of a refresh token and
// returns its claims. Any failure collapses to ErrUnauthorized.
func (i Issuer) ParseRefresh(token string) (RefreshClaims, error) {
	var claims RefreshClaims
	if err := parse(token, &claims, i.RefreshSecret); err != nil {
		return RefreshClaims{}, err
	}
	return claims, nil
}

func parse(token string, claims jwt.Claims, secret []byte) error {
	tok, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC; otherwise a
		// crafted "alg" header could bypass the secret entirely.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthorized
		}
		return secret, nil
	})
	// Expired, forged and malformed all look the same to the caller.
	if err != nil || !tok.Valid {
		return ErrUnauthorized
	}
	return nil
}
