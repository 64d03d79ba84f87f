// Package repoerr holds the repository sentinel errors in a leaf package
// so that internal/auth can reference them without importing the full
// repository package, which itself depends on internal/auth (an import
// cycle otherwise). The repository package re-exports these same values,
// so errors.Is comparisons against either name see one identity.
package repoerr

import "errors"

// ErrNotFound is returned when a lookup matches no row, or when a
// conditional update (such as refresh-token rotation) touches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique index,
// such as an already-taken username or email.
var ErrDuplicate = errors.New("duplicate")
