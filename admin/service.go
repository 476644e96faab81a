// Package admin implements the cache management operations: listing resident
// keys, inspecting a key through its sanitized view, and bulk-removing keys
// with cross-instance invalidation broadcast.
package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/huykn/cache-admin/auth"
	"github.com/huykn/cache-admin/cache"
	"github.com/huykn/cache-admin/inspect"
)

// Publisher announces locally removed keys to peer instances.
type Publisher interface {
	// PublishRemoval announces removed keys. Best-effort, never fails.
	PublishRemoval(keys []string)
}

// RemovalResult is the outcome of a RemoveKeys call.
type RemovalResult struct {
	// Message is a human-readable summary.
	Message string `json:"Result"`

	// RemovedKeys are the keys that were resident and actually removed,
	// always a subset of the requested keys.
	RemovedKeys []string `json:"RemovedKeys"`
}

// Service composes the permission gate, the local store, the inspector and
// the invalidation publisher into the cache management operation set.
type Service struct {
	store     cache.KeyedCache
	inspector *inspect.Inspector
	gate      *auth.Gate
	publisher Publisher
	audit     AuditLogger
	logger    cache.Logger
}

// NewService creates a new cache management service.
func NewService(store cache.KeyedCache, publisher Publisher, audit AuditLogger, logger cache.Logger) *Service {
	if audit == nil {
		audit = NewLogAuditor(logger)
	}
	if logger == nil {
		logger = cache.NewNoOpLogger()
	}
	return &Service{
		store:     store,
		inspector: inspect.NewInspector(store),
		gate:      auth.NewGate(),
		publisher: publisher,
		audit:     audit,
		logger:    logger,
	}
}

// ListKeys returns all resident cache keys. Requires ViewCacheKeys.
func (s *Service) ListKeys(ctx context.Context, identity *auth.Identity) ([]string, error) {
	if err := s.gate.Validate(identity, auth.ViewCacheKeys); err != nil {
		return nil, err
	}
	return s.inspector.Keys(), nil
}

// InspectKey returns the sanitized view of one entry. Requires ViewCacheKeys.
// An absent key returns inspect.ErrKeyNotFound, distinct from a permission
// failure.
func (s *Service) InspectKey(ctx context.Context, identity *auth.Identity, key string) (map[string]string, error) {
	if err := s.gate.Validate(identity, auth.ViewCacheKeys); err != nil {
		return nil, err
	}
	return s.inspector.SanitizedValue(key)
}

// RemoveKeys removes the given keys from the local store, announces the
// removal to peers and audit-logs it. Requires DeleteCacheKeys; a permission
// failure returns an error before any mutation. Any other internal failure
// yields a soft result with an empty RemovedKeys slice rather than an error,
// so the admin surface never pretends success and never crashes the caller.
// Safe to call twice with the same keys; the second removal set is smaller
// or empty, never an error.
func (s *Service) RemoveKeys(ctx context.Context, identity *auth.Identity, keys []string) (RemovalResult, error) {
	if err := s.gate.Validate(identity, auth.DeleteCacheKeys); err != nil {
		return RemovalResult{}, err
	}

	removed, err := s.removeLocal(keys)
	if err != nil {
		s.logger.Error("remove-keys: error removing items from cache", "error", err)
		return RemovalResult{
			Message:     "Error removing items from cache.",
			RemovedKeys: []string{},
		}, nil
	}

	if len(removed) > 0 {
		s.publisher.PublishRemoval(removed)

		principal := ""
		if identity != nil {
			principal = identity.Principal
		}
		s.audit.Record(principal, "cache-management",
			fmt.Sprintf("Keys removed: %s.", strings.Join(removed, ",")))
	}

	return RemovalResult{
		Message:     fmt.Sprintf("Completed removing %d items from cache.", len(removed)),
		RemovedKeys: removed,
	}, nil
}

// removeLocal performs the store mutation, converting a store panic into an
// error so RemoveKeys can report a soft failure.
func (s *Service) removeLocal(keys []string) (removed []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			removed = nil
			err = fmt.Errorf("cache store failure: %v", r)
		}
	}()

	return s.store.Remove(keys), nil
}
