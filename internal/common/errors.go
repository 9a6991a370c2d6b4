// Package common defines shared sentinel errors used across authgate
// components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Validation errors (rejected before any store access).
	ErrorValidation = errors.New("validation error")

	// Auth errors. Unknown email, password-less account, and wrong password
	// all map to ErrorInvalidCredentials so callers cannot enumerate accounts.
	ErrorInvalidCredentials = errors.New("invalid credentials")

	// Token lifecycle errors.
	ErrNoToken      = errors.New("no token provided")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// A validly signed token whose account has since been deleted.
	ErrorUserNotFound = errors.New("user not found")

	// Registration conflict (duplicate email while overwrite is disabled).
	ErrorEmailExists = errors.New("email already registered")
)
