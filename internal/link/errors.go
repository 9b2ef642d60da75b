package link

import "errors"

var (
	// ErrNotFound means no link exists under the given key.
	ErrNotFound = errors.New("link not found")

	// ErrExpired means the link exists but is past its expiry.
	ErrExpired = errors.New("link expired")

	// ErrAliasTaken means the requested custom alias collides with an
	// existing short code or alias.
	ErrAliasTaken = errors.New("alias already taken")

	// ErrForbidden means the requesting principal does not own the link.
	ErrForbidden = errors.New("not the link owner")

	// ErrDuplicateKey is returned by repositories when an insert violates
	// the unique key namespace. The store's constraint is the final arbiter
	// for uniqueness under concurrent creates.
	ErrDuplicateKey = errors.New("duplicate link key")

	// ErrCodeSpaceExhausted means code generation could not find a free
	// code within its retry budget.
	ErrCodeSpaceExhausted = errors.New("short code space exhausted")
)
