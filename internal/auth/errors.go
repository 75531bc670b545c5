package auth

import "errors"

// ErrInvalidCredentials covers both unknown email and wrong password. The
// message is shared so responses cannot be used to probe which accounts exist.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrUserExists is returned when registration collides with an existing
// email or username.
var ErrUserExists = errors.New("user with this email or username already exists")
