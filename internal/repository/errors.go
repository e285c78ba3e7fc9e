// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// parsing driver error strings themselves. Unique-constraint violations
// on the users table are mapped to a per-column sentinel so the API can
// tell the caller exactly which identity field collided.
package repository

import "errors"

// ErrUsernameExists is returned when an insert or update collides with
// the unique index on users.username.
var ErrUsernameExists = errors.New("Username already exists")

// ErrEmailExists is returned when an insert or update collides with
// the unique index on users.email.
var ErrEmailExists = errors.New("Email already exists")

// ErrMobileExists is returned when an insert or update collides with
// the unique index on users.mobile.
var ErrMobileExists = errors.New("Mobile number already exists")

// ErrUserExists is the fallback when a duplicate-key error cannot be
// attributed to a specific column.
var ErrUserExists = errors.New("User already exists")
