package models

import "errors"

// Validation failures. These are expected outcomes of user input and are
// returned to the caller rather than treated as faults.
var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrBelowMinimum       = errors.New("amount is below the minimum redemption")
	ErrKYCRequired        = errors.New("identity verification required")
	ErrCooldownActive     = errors.New("daily reward already claimed")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidCurrency    = errors.New("invalid currency")
	ErrMaintenanceMode    = errors.New("games are under maintenance")
	ErrFeatureDisabled    = errors.New("feature is disabled")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is locked")
	ErrInvalidInput       = errors.New("invalid input")
)

// Session-state failures.
var (
	ErrLoginRequired   = errors.New("login required")
	ErrSessionNotFound = errors.New("session not found")
	ErrForbidden       = errors.New("admin role required")
)

// Lookup failures.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrGameNotFound       = errors.New("game not found")
	ErrPackageNotFound    = errors.New("package not found")
	ErrAlertNotFound      = errors.New("alert not found")
	ErrRedemptionNotFound = errors.New("redemption not found")
	ErrRedemptionClosed   = errors.New("redemption already processed")
	ErrGameExists         = errors.New("game already exists")
)

// Persistence failures.
var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrSchemaVersion    = errors.New("unsupported snapshot schema version")
)
