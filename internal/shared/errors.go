package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken indicates a registration conflict on the email column.
	ErrEmailTaken = errors.New("email already taken")
	// ErrAccountInactive indicates login against a deactivated account.
	ErrAccountInactive = errors.New("account is inactive")
	// ErrNotAuthenticated indicates a request without a valid session.
	ErrNotAuthenticated = errors.New("not authenticated")
)
