package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication and session errors
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrSessionExpired     = fmt.Errorf("session expired")
	ErrAccountDisabled    = fmt.Errorf("account is deactivated")
	ErrAdminRequired      = fmt.Errorf("admin access required")

	// Provider credential and API errors
	ErrCredentialMissing = fmt.Errorf("provider credential missing")
	ErrTransport         = fmt.Errorf("transport error")
	ErrProvider          = fmt.Errorf("provider error")

	// Storage errors
	ErrNotFound       = fmt.Errorf("record not found")
	ErrDuplicateEmail = fmt.Errorf("email already registered")

	// Input validation errors
	ErrValidation      = fmt.Errorf("validation failed")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
