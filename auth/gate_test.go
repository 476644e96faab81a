package auth

import (
	"errors"
	"testing"
)

func TestGateValidateGranted(t *testing.T) {
	gate := NewGate()
	identity := &Identity{
		Principal:   "admin1",
		Permissions: []string{string(ViewCacheKeys)},
	}

	if err := gate.Validate(identity, ViewCacheKeys); err != nil {
		t.Fatalf("Validate should pass: %v", err)
	}
}

func TestGateValidateDenied(t *testing.T) {
	gate := NewGate()
	identity := &Identity{
		Principal:   "viewer1",
		Permissions: []string{string(ViewCacheKeys)},
	}

	err := gate.Validate(identity, DeleteCacheKeys)
	if err == nil {
		t.Fatal("Validate should fail without the permission")
	}
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("Expected ErrForbidden, got %v", err)
	}

	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("Expected *PermissionError, got %T", err)
	}
	if permErr.Permission != DeleteCacheKeys {
		t.Fatalf("Expected permission %q, got %q", DeleteCacheKeys, permErr.Permission)
	}
}

func TestGatePermissionsAreIndependent(t *testing.T) {
	gate := NewGate()
	deleter := &Identity{
		Principal:   "deleter1",
		Permissions: []string{string(DeleteCacheKeys)},
	}

	if err := gate.Validate(deleter, DeleteCacheKeys); err != nil {
		t.Fatalf("Delete permission should pass: %v", err)
	}
	if err := gate.Validate(deleter, ViewCacheKeys); err == nil {
		t.Fatal("Delete permission must not imply view permission")
	}
}

func TestGateValidateNilIdentity(t *testing.T) {
	gate := NewGate()

	err := gate.Validate(nil, ViewCacheKeys)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("Expected ErrForbidden for nil identity, got %v", err)
	}
}

func TestIdentityHasPermission(t *testing.T) {
	identity := &Identity{Permissions: []string{"VIEW.CACHE.KEYS"}}

	if !identity.HasPermission(ViewCacheKeys) {
		t.Fatal("Permission should be present")
	}
	if identity.HasPermission(DeleteCacheKeys) {
		t.Fatal("Permission should be absent")
	}
}
