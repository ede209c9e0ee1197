// Package store provides the persisted state of the bot: user accounts,
// the BIN metadata table and the operator-curated VBV token table.
package store

import "errors"

// Domain errors returned by the stores
var (
	// ErrAlreadyExists indicates an account for the user ID is already present
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotFound indicates the requested record was not found
	ErrNotFound = errors.New("not found")
)
