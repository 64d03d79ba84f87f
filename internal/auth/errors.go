// Package auth implements the credential and session subsystem: password
// hashing, access/refresh token issuance and verification, and the login/
// refresh/logout state machine. These sentinel errors form the failure
// taxonomy that handlers translate into HTTP responses; nothing below this
// package ever reaches a client unmapped.
package auth

import "errors"

// ErrValidation is returned when required input is missing or malformed.
// Handlers should translate this into an HTTP 400 response.
var ErrValidation = errors.New("validation failed")

// ErrNotFound is returned when no account matches the given identifier.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("user not found")

// ErrBadCredentials is returned when the password does not match.
// Handlers should translate this into an HTTP 401 response.
var ErrBadCredentials = errors.New("invalid credentials")

// ErrUnauthorized covers every token failure: missing, forged, expired or
// revoked. The cases are deliberately not distinguished so that callers
// learn nothing about which check failed. HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")
