package cacheadmin

import (
	"github.com/huykn/cache-admin/auth"
	"github.com/huykn/cache-admin/cache"
	"github.com/huykn/cache-admin/inspect"
)

// ErrKeyNotFound is returned when inspecting a key that is not resident.
var ErrKeyNotFound = inspect.ErrKeyNotFound

// ErrForbidden is returned when the caller lacks a required permission.
var ErrForbidden = auth.ErrForbidden

// ErrInvalidConfig is returned when the configuration is invalid.
var ErrInvalidConfig = cache.ErrInvalidConfig
