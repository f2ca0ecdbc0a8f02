package auth

import "errors"

// ErrUserExists indicates a duplicate email address at the directory level.
var ErrUserExists = errors.New("user already exists")

// ErrNoSuchUser is returned by directory mutations targeting an absent user ID.
var ErrNoSuchUser = errors.New("no such user")
