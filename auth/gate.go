package auth

import "fmt"

// PermissionError represents an authorization failure for a cache management
// operation. The message names the missing permission, never cache contents.
type PermissionError struct {
	// Principal is the identity that was denied.
	Principal string

	// Permission is the permission that was required.
	Permission Permission

	// Reason explains why access was denied.
	Reason string
}

// Error returns the error message.
func (e *PermissionError) Error() string {
	return fmt.Sprintf("authorization denied: principal=%q permission=%q reason=%q",
		e.Principal, e.Permission, e.Reason)
}

// Is reports whether this error matches ErrForbidden.
func (e *PermissionError) Is(target error) bool {
	return target == ErrForbidden
}

// Gate validates that a principal holds the permission an operation requires.
type Gate struct{}

// NewGate creates a new permission gate.
func NewGate() *Gate {
	return &Gate{}
}

// Validate returns nil when the identity holds the required permission, or a
// *PermissionError otherwise.
func (g *Gate) Validate(identity *Identity, required Permission) error {
	if identity == nil {
		return &PermissionError{
			Permission: required,
			Reason:     "no identity provided",
		}
	}

	if !identity.HasPermission(required) {
		return &PermissionError{
			Principal:  identity.Principal,
			Permission: required,
			Reason:     "permission not granted",
		}
	}

	return nil
}
