package cacheadmin

import (
	"github.com/huykn/cache-admin/admin"
	"github.com/huykn/cache-admin/auth"
	"github.com/huykn/cache-admin/cache"
	"github.com/huykn/cache-admin/types"
)

// Logger is an alias for cache.Logger.
type Logger = cache.Logger

// Marshaller is an alias for cache.Marshaller.
type Marshaller = cache.Marshaller

// KeyedCache is an alias for cache.KeyedCache.
type KeyedCache = cache.KeyedCache

// KeyedCacheMetrics is an alias for cache.KeyedCacheMetrics.
type KeyedCacheMetrics = cache.KeyedCacheMetrics

// KeyedCacheFactory is an alias for cache.KeyedCacheFactory.
type KeyedCacheFactory = cache.KeyedCacheFactory

// LocalCacheConfig is an alias for cache.LocalCacheConfig.
type LocalCacheConfig = cache.LocalCacheConfig

// Identity is an alias for auth.Identity.
type Identity = auth.Identity

// Permission is an alias for auth.Permission.
type Permission = auth.Permission

// RemovalResult is an alias for admin.RemovalResult.
type RemovalResult = admin.RemovalResult

// AuditLogger is an alias for admin.AuditLogger.
type AuditLogger = admin.AuditLogger

// CacheNotification is an alias for types.CacheNotification.
type CacheNotification = types.CacheNotification

// ConfigNotification is an alias for types.ConfigNotification.
type ConfigNotification = types.ConfigNotification

// DefaultLocalCacheConfig returns default local cache configuration.
func DefaultLocalCacheConfig() LocalCacheConfig {
	return cache.DefaultLocalCacheConfig()
}
