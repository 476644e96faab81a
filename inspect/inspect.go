// Package inspect produces privacy-safe renderings of cached values. A
// sanitized view maps each property of a cached value to a presence marker,
// revealing the value's shape but never its data.
package inspect

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/huykn/cache-admin/cache"
)

// Presence markers. These are the only two strings that ever appear as
// values in a sanitized view.
const (
	NotNullMarker = "==NOTNULL=="
	NullMarker    = "null"
)

// ErrKeyNotFound is returned when inspecting a key that is not resident.
var ErrKeyNotFound = errors.New("cache key not found")

// Inspector reads the store's key set and renders sanitized views of
// individual entries.
type Inspector struct {
	store cache.KeyedCache
}

// NewInspector creates a new Inspector over the given store.
func NewInspector(store cache.KeyedCache) *Inspector {
	return &Inspector{store: store}
}

// Keys returns all currently resident keys.
func (i *Inspector) Keys() []string {
	return i.store.Keys()
}

// SanitizedValue renders the entry under key as a property-presence map.
// The view is computed fresh on every call and never cached. Absent keys
// return ErrKeyNotFound; the store is never mutated.
func (i *Inspector) SanitizedValue(key string) (map[string]string, error) {
	if key == "" {
		return nil, ErrKeyNotFound
	}

	value, found := i.store.Get(key)
	if !found {
		return nil, ErrKeyNotFound
	}

	return Sanitize(value), nil
}

// Sanitize renders a value as a property-presence map. Struct fields and map
// keys become entries; any other value is rendered under a single "value"
// entry. Empty strings and nil references render as NullMarker. A non-nil
// but empty collection renders as NotNullMarker: the marker reports presence
// of the reference, not its length.
func Sanitize(value any) map[string]string {
	v := reflect.ValueOf(value)
	v, ok := deref(v)
	if !ok {
		return map[string]string{"value": NullMarker}
	}

	result := make(map[string]string)

	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for idx := 0; idx < t.NumField(); idx++ {
			field := t.Field(idx)
			if !field.IsExported() {
				continue
			}
			result[field.Name] = marker(v.Field(idx))
		}

	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			result[fmt.Sprintf("%v", iter.Key().Interface())] = marker(iter.Value())
		}

	default:
		result["value"] = marker(v)
	}

	return result
}

// marker reports presence for a single property slot.
func marker(v reflect.Value) string {
	v, ok := deref(v)
	if !ok {
		return NullMarker
	}

	switch v.Kind() {
	case reflect.String:
		if v.Len() == 0 {
			return NullMarker
		}
	case reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		if v.IsNil() {
			return NullMarker
		}
	}

	return NotNullMarker
}

// deref unwraps pointers and interfaces. Returns false when the chain ends
// in nil or an invalid value.
func deref(v reflect.Value) (reflect.Value, bool) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return v, false
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return v, false
	}
	return v, true
}
