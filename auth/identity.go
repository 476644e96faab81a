package auth

// Permission is a permission code required for a cache management operation.
type Permission string

// Cache management permission codes. Viewing and deleting are independent
// grants; holding one does not imply the other.
const (
	ViewCacheKeys   Permission = "VIEW.CACHE.KEYS"
	DeleteCacheKeys Permission = "DELETE.CACHE.KEYS"
)

// Identity represents an authenticated principal.
type Identity struct {
	// Principal is the unique identifier (e.g., user ID).
	Principal string

	// Roles are the roles assigned to this identity.
	Roles []string

	// Permissions are the permission codes granted to this identity.
	Permissions []string
}

// HasPermission checks if the identity holds a specific permission.
func (id *Identity) HasPermission(perm Permission) bool {
	for _, p := range id.Permissions {
		if p == string(perm) {
			return true
		}
	}
	return false
}
