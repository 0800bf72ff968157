package auth

import "errors"

var (
	ErrMissingFields         = errors.New("first_name, last_name, email and password are required")
	ErrEmailPasswordRequired = errors.New("Email and password are required")
	ErrInvalidEmail          = errors.New("Invalid email address")
	ErrInvalidName           = errors.New("Invalid name")
	ErrWeakPassword          = errors.New("Password must be 8 to 72 bytes long")
	ErrEmailTaken            = errors.New("Email already registered")
	ErrInvalidCredentials    = errors.New("Invalid email or password")
	ErrNotAuthenticated      = errors.New("Not authenticated")
	ErrInvalidToken          = errors.New("Invalid or expired token")
	ErrTokenRevoked          = errors.New("Token has been revoked")
	ErrUserNotFound          = errors.New("User not found")
)
