package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound          = errors.New("entity not found")
	ErrAlreadyExists     = errors.New("entity already exists")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("operation requires admin role")
	ErrRateLimited       = errors.New("rate limit exceeded")
	ErrStoreUnconfigured = errors.New("document store is not configured")

	// Storage plumbing
	ErrInvalidExecContext = errors.New("invalid execution context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")

	// Inventory lifecycle
	ErrCodeNotAvailable = errors.New("recharge code is not available for sale")
	ErrSaleInProgress   = errors.New("recharge code sale already in progress")
	ErrInvalidType      = errors.New("unknown recharge code type")
	ErrInvalidPlatform  = errors.New("unknown platform")
	ErrNegativeAmount   = errors.New("monetary amounts must be non-negative")

	// CSV import
	ErrImportBlocked = errors.New("import has row errors; nothing was committed")
	ErrImportEmpty   = errors.New("import contains no candidates")
)
