// Package httpapi provides the REST HTTP adapter for the server surfaces.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/hylla/lyst/internal/adapters/server/common"
)

// maxRequestBodyBytes limits decoded JSON payload size for fail-closed request handling.
const maxRequestBodyBytes int64 = 1 << 20

// Handler serves the versioned API subrouter mounted under `/api/v1`.
type Handler struct {
	checklist common.ChecklistService
}

// APIError represents one structured API failure response.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Hint    string         `json:"hint,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

// ErrorEnvelope wraps one structured API error.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// NewHandler constructs one HTTP API adapter over a checklist service.
func NewHandler(checklist common.ChecklistService) *Handler {
	return &Handler{checklist: checklist}
}

// ServeHTTP routes one versioned API request to the matching handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Request-ID", uuid.NewString())
	if h == nil || h.checklist == nil {
		writeJSONError(w, http.StatusServiceUnavailable, APIError{
			Code:    "service_unavailable",
			Message: "checklist service is not configured",
		})
		return
	}

	path := normalizePath(r.URL.Path)
	if path == "lists" {
		switch r.Method {
		case http.MethodGet:
			h.handleListLists(w, r)
		case http.MethodPost:
			h.handleCreateList(w, r)
		default:
			writeMethodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
		return
	}
	if listID, ok := resolveResourceID(path, "lists/", "/items"); ok {
		switch r.Method {
		case http.MethodGet:
			h.handleListItems(w, r, listID)
		case http.MethodPost:
			h.handleAddItem(w, r, listID)
		default:
			writeMethodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
		return
	}
	if listID, ok := resolveResourceID(path, "lists/", ""); ok {
		switch r.Method {
		case http.MethodPatch:
			h.handleRenameList(w, r, listID)
		case http.MethodDelete:
			h.handleDeleteList(w, r, listID)
		default:
			writeMethodNotAllowed(w, http.MethodPatch, http.MethodDelete)
		}
		return
	}
	if itemID, ok := resolveResourceID(path, "items/", "/move"); ok {
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, http.MethodPost)
			return
		}
		h.handleMoveItem(w, r, itemID)
		return
	}
	if itemID, ok := resolveResourceID(path, "items/", "/toggle"); ok {
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, http.MethodPost)
			return
		}
		h.handleToggleItem(w, r, itemID)
		return
	}
	if itemID, ok := resolveResourceID(path, "items/", ""); ok {
		switch r.Method {
		case http.MethodPatch:
			h.handleEditItem(w, r, itemID)
		case http.MethodDelete:
			h.handleDeleteItem(w, r, itemID)
		default:
			writeMethodNotAllowed(w, http.MethodPatch, http.MethodDelete)
		}
		return
	}
	writeJSONError(w, http.StatusNotFound, APIError{
		Code:    "not_found",
		Message: "endpoint not found",
	})
}

// handleListLists serves GET `/lists`.
func (h *Handler) handleListLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.checklist.ListLists(r.Context())
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"lists": lists,
	})
}

// handleCreateList serves POST `/lists`.
func (h *Handler) handleCreateList(w http.ResponseWriter, r *http.Request) {
	var req common.CreateListRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		writeErrorFrom(w, err)
		return
	}
	list, err := h.checklist.CreateList(r.Context(), req)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

// handleRenameList serves PATCH `/lists/{id}`.
func (h *Handler) handleRenameList(w http.ResponseWriter, r *http.Request, listID int64) {
	var payload common.RenameListRequest
	if err := decodeJSONBody(r.Context(), w, r, &payload); err != nil {
		writeErrorFrom(w, err)
		return
	}
	payload.ID = listID
	list, err := h.checklist.RenameList(r.Context(), payload)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// handleDeleteList serves DELETE `/lists/{id}`.
func (h *Handler) handleDeleteList(w http.ResponseWriter, r *http.Request, listID int64) {
	if err := h.checklist.DeleteList(r.Context(), listID); err != nil {
		writeErrorFrom(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListItems serves GET `/lists/{id}/items`.
func (h *Handler) handleListItems(w http.ResponseWriter, r *http.Request, listID int64) {
	items, err := h.checklist.ListItems(r.Context(), listID)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
	})
}

// handleAddItem serves POST `/lists/{id}/items`.
func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request, listID int64) {
	var payload common.AddItemRequest
	if err := decodeJSONBody(r.Context(), w, r, &payload); err != nil {
		writeErrorFrom(w, err)
		return
	}
	payload.ListID = listID
	item, err := h.checklist.AddItem(r.Context(), payload)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// handleEditItem serves PATCH `/items/{id}`.
func (h *Handler) handleEditItem(w http.ResponseWriter, r *http.Request, itemID int64) {
	var payload common.EditItemRequest
	if err := decodeJSONBody(r.Context(), w, r, &payload); err != nil {
		writeErrorFrom(w, err)
		return
	}
	payload.ID = itemID
	item, err := h.checklist.EditItem(r.Context(), payload)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// handleDeleteItem serves DELETE `/items/{id}`.
func (h *Handler) handleDeleteItem(w http.ResponseWriter, r *http.Request, itemID int64) {
	if err := h.checklist.DeleteItem(r.Context(), itemID); err != nil {
		writeErrorFrom(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleToggleItem serves POST `/items/{id}/toggle`.
func (h *Handler) handleToggleItem(w http.ResponseWriter, r *http.Request, itemID int64) {
	item, err := h.checklist.ToggleItem(r.Context(), itemID)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// handleMoveItem serves POST `/items/{id}/move`.
func (h *Handler) handleMoveItem(w http.ResponseWriter, r *http.Request, itemID int64) {
	var payload common.MoveItemRequest
	if err := decodeJSONBody(r.Context(), w, r, &payload); err != nil {
		writeErrorFrom(w, err)
		return
	}
	payload.ID = itemID
	item, err := h.checklist.MoveItem(r.Context(), payload)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// resolveResourceID parses `{prefix}{id}{suffix}` paths and returns the numeric id.
func resolveResourceID(path, prefix, suffix string) (int64, bool) {
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		return 0, false
	}
	raw := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(path, prefix), suffix))
	if raw == "" || strings.Contains(raw, "/") {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// normalizePath canonicalizes one request path for route matching.
func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	path = strings.Trim(path, "/")
	return path
}

// writeErrorFrom maps adapter errors into structured HTTP responses.
func writeErrorFrom(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		writeJSONError(w, http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: "unknown error",
		})
	case errors.Is(err, common.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, APIError{
			Code:    "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, common.ErrInvalidRequest):
		writeJSONError(w, http.StatusBadRequest, APIError{
			Code:    "invalid_request",
			Message: err.Error(),
		})
	default:
		writeJSONError(w, http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: err.Error(),
		})
	}
}

// writeMethodNotAllowed writes a structured 405 response with `Allow` headers.
func writeMethodNotAllowed(w http.ResponseWriter, methods ...string) {
	if len(methods) > 0 {
		w.Header().Set("Allow", strings.Join(methods, ", "))
	}
	writeJSONError(w, http.StatusMethodNotAllowed, APIError{
		Code:    "method_not_allowed",
		Message: "method not allowed",
	})
}

// writeJSONError writes one structured error envelope.
func writeJSONError(w http.ResponseWriter, statusCode int, apiErr APIError) {
	writeJSON(w, statusCode, ErrorEnvelope{Error: apiErr})
}

// writeJSON writes one JSON response envelope.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":{"code":"encode_error","message":"%s"}}`, err.Error()), http.StatusInternalServerError)
	}
}

// decodeJSONBody decodes one required JSON request body with strict shape checks.
func decodeJSONBody(ctx context.Context, w http.ResponseWriter, r *http.Request, out any) error {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	defer reader.Close()

	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode request body: %w", errors.Join(common.ErrInvalidRequest, err))
	}
	// Reject trailing payloads so malformed JSON bodies fail closed.
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode request body: trailing content: %w", common.ErrInvalidRequest)
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("request canceled: %w", ctx.Err())
	default:
		return nil
	}
}
