package user

import "errors"

var (
	// ErrNotFound occurs when the referenced user id is not registered.
	ErrNotFound = errors.New("user not found")

	// ErrAlreadyExists indicates the email is already taken; email is the
	// uniqueness key for signup.
	ErrAlreadyExists = errors.New("user already exists")
)
