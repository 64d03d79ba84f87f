// Package repository persists users, videos and subscriptions in MySQL.
// These sentinel values let handlers and the session manager distinguish
// failure scenarios without inspecting driver errors: ErrNotFound maps to
// HTTP 404 (or 401 inside the session state machine), ErrDuplicate to 409.
package repository

import "github.com/arashkm/vidhub/internal/repository/repoerr"

// ErrNotFound is returned when a lookup matches no row, or when a
// conditional update (such as refresh-token rotation) touches no row.
// It is the same value as repoerr.ErrNotFound, defined in a leaf package
// so internal/auth can use it without an import cycle.
var ErrNotFound = repoerr.ErrNotFound

// ErrDuplicate is returned when an insert violates a unique index,
// such as an already-taken username or email.
var ErrDuplicate = repoerr.ErrDuplicate
