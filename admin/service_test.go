package admin

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/huykn/cache-admin/auth"
	"github.com/huykn/cache-admin/cache"
	"github.com/huykn/cache-admin/inspect"
)

type recordingPublisher struct {
	published [][]string
}

func (p *recordingPublisher) PublishRemoval(keys []string) {
	p.published = append(p.published, keys)
}

type recordingAuditor struct {
	records []string
}

func (a *recordingAuditor) Record(principal, action, detail string) {
	a.records = append(a.records, principal+"|"+action+"|"+detail)
}

func newTestService(t *testing.T) (*Service, cache.KeyedCache, *recordingPublisher, *recordingAuditor) {
	t.Helper()
	store, err := cache.NewLRUCache(100)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(store.Close)

	publisher := &recordingPublisher{}
	auditor := &recordingAuditor{}
	service := NewService(store, publisher, auditor, cache.NewNoOpLogger())
	return service, store, publisher, auditor
}

func viewer() *auth.Identity {
	return &auth.Identity{Principal: "viewer1", Permissions: []string{string(auth.ViewCacheKeys)}}
}

func deleter() *auth.Identity {
	return &auth.Identity{Principal: "deleter1", Permissions: []string{string(auth.DeleteCacheKeys)}}
}

func TestListKeys(t *testing.T) {
	service, store, _, _ := newTestService(t)
	store.Set("A", 1, 1)
	store.Set("B", 2, 1)
	store.Set("C", 3, 1)

	keys, err := service.ListKeys(context.Background(), viewer())
	if err != nil {
		t.Fatalf("ListKeys failed: %v", err)
	}

	sort.Strings(keys)
	expected := []string{"A", "B", "C"}
	if len(keys) != 3 {
		t.Fatalf("Expected 3 keys, got %v", keys)
	}
	for i := range expected {
		if keys[i] != expected[i] {
			t.Fatalf("Expected %v, got %v", expected, keys)
		}
	}
}

func TestListKeysForbidden(t *testing.T) {
	service, _, _, _ := newTestService(t)

	_, err := service.ListKeys(context.Background(), deleter())
	if !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden, got %v", err)
	}
}

func TestInspectKey(t *testing.T) {
	service, store, _, _ := newTestService(t)
	type entry struct {
		Name        string
		Description string
	}
	store.Set("B", entry{Name: "foo"}, 1)

	view, err := service.InspectKey(context.Background(), viewer(), "B")
	if err != nil {
		t.Fatalf("InspectKey failed: %v", err)
	}

	if view["Name"] != inspect.NotNullMarker {
		t.Fatalf("Expected Name=%q, got %q", inspect.NotNullMarker, view["Name"])
	}
	if view["Description"] != inspect.NullMarker {
		t.Fatalf("Expected Description=%q, got %q", inspect.NullMarker, view["Description"])
	}
}

func TestInspectKeyNotFound(t *testing.T) {
	service, _, _, _ := newTestService(t)

	_, err := service.InspectKey(context.Background(), viewer(), "absent")
	if !errors.Is(err, inspect.ErrKeyNotFound) {
		t.Fatalf("Expected ErrKeyNotFound, got %v", err)
	}
}

func TestInspectKeyForbidden(t *testing.T) {
	service, store, _, _ := newTestService(t)
	store.Set("B", 1, 1)

	_, err := service.InspectKey(context.Background(), deleter(), "B")
	if !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden, got %v", err)
	}
}

func TestRemoveKeysRemovesPresentSubset(t *testing.T) {
	service, store, publisher, _ := newTestService(t)
	store.Set("A", 1, 1)
	store.Set("B", 2, 1)
	store.Set("C", 3, 1)

	result, err := service.RemoveKeys(context.Background(), deleter(), []string{"A", "Z"})
	if err != nil {
		t.Fatalf("RemoveKeys failed: %v", err)
	}

	if len(result.RemovedKeys) != 1 || result.RemovedKeys[0] != "A" {
		t.Fatalf("Expected RemovedKeys=[A], got %v", result.RemovedKeys)
	}
	if result.Message != "Completed removing 1 items from cache." {
		t.Fatalf("Unexpected message: %q", result.Message)
	}

	if _, found := store.Get("A"); found {
		t.Fatal("Removed key should be absent from the store")
	}
	if store.Len() != 2 {
		t.Fatalf("Expected 2 remaining keys, got %d", store.Len())
	}

	if len(publisher.published) != 1 {
		t.Fatalf("Expected one notification, got %d", len(publisher.published))
	}
	if len(publisher.published[0]) != 1 || publisher.published[0][0] != "A" {
		t.Fatalf("Notification should carry only the removed keys, got %v", publisher.published[0])
	}
}

func TestRemoveKeysIsIdempotent(t *testing.T) {
	service, store, _, _ := newTestService(t)
	store.Set("A", 1, 1)

	first, err := service.RemoveKeys(context.Background(), deleter(), []string{"A"})
	if err != nil {
		t.Fatalf("First RemoveKeys failed: %v", err)
	}
	if len(first.RemovedKeys) != 1 {
		t.Fatalf("Expected one key removed, got %v", first.RemovedKeys)
	}

	second, err := service.RemoveKeys(context.Background(), deleter(), []string{"A"})
	if err != nil {
		t.Fatalf("Second RemoveKeys failed: %v", err)
	}
	if len(second.RemovedKeys) != 0 {
		t.Fatalf("Second removal should remove nothing, got %v", second.RemovedKeys)
	}
	if second.Message != "Completed removing 0 items from cache." {
		t.Fatalf("Unexpected message: %q", second.Message)
	}
}

func TestRemoveKeysPermissionPrecedesMutation(t *testing.T) {
	service, store, publisher, auditor := newTestService(t)
	store.Set("B", 2, 1)

	_, err := service.RemoveKeys(context.Background(), viewer(), []string{"B"})
	if !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden, got %v", err)
	}

	// verify by re-listing: the store is untouched
	if _, found := store.Get("B"); !found {
		t.Fatal("Store must be untouched after a forbidden removal")
	}
	if len(publisher.published) != 0 {
		t.Fatal("No notification may be published on a forbidden removal")
	}
	if len(auditor.records) != 0 {
		t.Fatal("No audit record may be written on a forbidden removal")
	}
}

func TestRemoveKeysNoNotificationWhenNothingRemoved(t *testing.T) {
	service, _, publisher, auditor := newTestService(t)

	result, err := service.RemoveKeys(context.Background(), deleter(), []string{"absent"})
	if err != nil {
		t.Fatalf("RemoveKeys failed: %v", err)
	}
	if len(result.RemovedKeys) != 0 {
		t.Fatalf("Expected no removals, got %v", result.RemovedKeys)
	}
	if len(publisher.published) != 0 {
		t.Fatal("Empty removals must not publish")
	}
	if len(auditor.records) != 0 {
		t.Fatal("Empty removals must not audit")
	}
}

func TestRemoveKeysAudits(t *testing.T) {
	service, store, _, auditor := newTestService(t)
	store.Set("A", 1, 1)

	if _, err := service.RemoveKeys(context.Background(), deleter(), []string{"A"}); err != nil {
		t.Fatalf("RemoveKeys failed: %v", err)
	}

	if len(auditor.records) != 1 {
		t.Fatalf("Expected one audit record, got %d", len(auditor.records))
	}
}

// panickingStore fails every Remove to exercise the soft failure path.
type panickingStore struct {
	cache.KeyedCache
}

func (p *panickingStore) Remove(keys []string) []string {
	panic("store exploded")
}

func TestRemoveKeysSoftFailure(t *testing.T) {
	store, err := cache.NewLRUCache(100)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	publisher := &recordingPublisher{}
	service := NewService(&panickingStore{KeyedCache: store}, publisher, &recordingAuditor{}, cache.NewNoOpLogger())

	result, err := service.RemoveKeys(context.Background(), deleter(), []string{"A"})
	if err != nil {
		t.Fatalf("Soft failure must not return an error, got %v", err)
	}
	if result.Message != "Error removing items from cache." {
		t.Fatalf("Unexpected message: %q", result.Message)
	}
	if len(result.RemovedKeys) != 0 {
		t.Fatalf("Failure result must report no removed keys, got %v", result.RemovedKeys)
	}
	if len(publisher.published) != 0 {
		t.Fatal("Failure must not publish")
	}
}
