// Package httpapi exposes the cache management operations over HTTP.
// Permission failures map to 403, absent keys to 404, and other failures to
// a generic 400 whose detail stays in the server log. Removal failures are
// soft: the endpoint answers 200 with an error message and an empty removed
// set so the admin UI never sees a hard failure for a partial operation.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/huykn/cache-admin/admin"
	"github.com/huykn/cache-admin/auth"
	"github.com/huykn/cache-admin/cache"
	"github.com/huykn/cache-admin/inspect"
)

// InspectionResponse wraps a sanitized view.
type InspectionResponse struct {
	Result map[string]string `json:"Result"`
}

// Handler serves the cache management endpoints.
type Handler struct {
	service *admin.Service
	logger  cache.Logger
}

// NewHandler creates a new Handler over the given service.
func NewHandler(service *admin.Service, logger cache.Logger) *Handler {
	if logger == nil {
		logger = cache.NewNoOpLogger()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the management endpoints on the mux. These endpoints
// expect an authenticated identity on the request context.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /cache-management/keys", h.listKeys)
	mux.HandleFunc("GET /cache-management/key-value", h.inspectKey)
	mux.HandleFunc("POST /cache-management/remove-keys", h.removeKeys)
}

// RegisterHealth mounts the unauthenticated health endpoint on the mux.
func (h *Handler) RegisterHealth(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.health)
}

func (h *Handler) listKeys(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())

	keys, err := h.service.ListKeys(r.Context(), identity)
	if err != nil {
		if errors.Is(err, auth.ErrForbidden) {
			h.logger.Error("list-keys: permission denied", "error", err)
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		h.logger.Error("list-keys: failed", "error", err)
		http.Error(w, "Can't list cache provider keys, see error log for more details.", http.StatusBadRequest)
		return
	}

	h.writeJSON(w, keys)
}

func (h *Handler) inspectKey(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())
	key := r.URL.Query().Get("key")

	view, err := h.service.InspectKey(r.Context(), identity, key)
	if err != nil {
		switch {
		case errors.Is(err, inspect.ErrKeyNotFound):
			h.logger.Error("key-value: key not found", "error", err)
			http.Error(w, "cache key not found", http.StatusNotFound)
		case errors.Is(err, auth.ErrForbidden):
			h.logger.Error("key-value: permission denied", "error", err)
			http.Error(w, "forbidden", http.StatusForbidden)
		default:
			h.logger.Error("key-value: failed", "error", err)
			http.Error(w, "Can't view cache provider key details, see error log for more details.", http.StatusBadRequest)
		}
		return
	}

	h.writeJSON(w, InspectionResponse{Result: view})
}

func (h *Handler) removeKeys(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())

	var keys []string
	if err := json.NewDecoder(r.Body).Decode(&keys); err != nil {
		http.Error(w, "request body must be a JSON array of cache keys", http.StatusBadRequest)
		return
	}

	result, err := h.service.RemoveKeys(r.Context(), identity, keys)
	if err != nil {
		if errors.Is(err, auth.ErrForbidden) {
			h.logger.Error("remove-keys: permission denied", "error", err)
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		h.logger.Error("remove-keys: failed", "error", err)
		http.Error(w, "Error removing items from cache.", http.StatusBadRequest)
		return
	}

	h.writeJSON(w, result)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("httpapi: failed to encode response", "error", err)
	}
}
