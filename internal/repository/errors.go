// Package repository implements SQL persistence for users, tokens and
// tasks. Sentinel errors let handlers distinguish failure scenarios without
// inspecting driver errors; anything else that bubbles up is treated as an
// internal failure by the error boundary.
package repository

import "errors"

// ErrEmailExists is returned by UserRepo.Create when the email column's
// unique constraint rejects the insert.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when a row is absent, soft-deleted where the
// query excludes deleted rows, or scoped away from the caller.
var ErrNotFound = errors.New("not found")
