package auth

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// BearerConfig configures the bearer token authenticator.
type BearerConfig struct {
	// SigningKey is the HMAC key used to validate tokens.
	SigningKey []byte

	// TokenPrefix is the prefix before the token in the Authorization
	// header. Default: "Bearer "
	TokenPrefix string

	// PrincipalClaim is the claim containing the user principal.
	// Default: "sub"
	PrincipalClaim string

	// RolesClaim is the claim containing user roles. Default: "roles"
	RolesClaim string

	// PermissionsClaim is the claim containing permission codes.
	// Default: "perms"
	PermissionsClaim string
}

// BearerAuthenticator resolves an Identity from a JWT bearer token.
type BearerAuthenticator struct {
	config BearerConfig
}

// NewBearerAuthenticator creates a new bearer token authenticator.
func NewBearerAuthenticator(config BearerConfig) *BearerAuthenticator {
	// Apply defaults
	if config.TokenPrefix == "" {
		config.TokenPrefix = "Bearer "
	}
	if config.PrincipalClaim == "" {
		config.PrincipalClaim = "sub"
	}
	if config.RolesClaim == "" {
		config.RolesClaim = "roles"
	}
	if config.PermissionsClaim == "" {
		config.PermissionsClaim = "perms"
	}

	return &BearerAuthenticator{config: config}
}

// Authenticate validates the Authorization header value and returns the
// identity encoded in the token.
func (a *BearerAuthenticator) Authenticate(header string) (*Identity, error) {
	if header == "" {
		return nil, ErrMissingCredentials
	}

	tokenString := strings.TrimPrefix(header, a.config.TokenPrefix)
	if tokenString == header {
		return nil, ErrMissingCredentials
	}
	tokenString = strings.TrimSpace(tokenString)

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenMalformed
		}
		return a.config.SigningKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	if !token.Valid {
		return nil, ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenMalformed
	}

	identity := &Identity{
		Roles:       stringsClaim(claims, a.config.RolesClaim),
		Permissions: stringsClaim(claims, a.config.PermissionsClaim),
	}
	if principal, ok := claims[a.config.PrincipalClaim].(string); ok {
		identity.Principal = principal
	}

	return identity, nil
}

// stringsClaim extracts a string slice claim. JSON arrays decode as []any.
func stringsClaim(claims jwt.MapClaims, name string) []string {
	raw, ok := claims[name].([]any)
	if !ok {
		return nil
	}
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			values = append(values, s)
		}
	}
	return values
}
