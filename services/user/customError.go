package user

import "errors"

var (
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidRole        = errors.New(`role must be "guest" or "admin"`)
	ErrEmptyProfile       = errors.New("no profile fields to update")
	ErrInvalidProfile     = errors.New("first name cannot be blank")
)
