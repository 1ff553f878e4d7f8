package handler

import (
	"log/slog"
	"net/http"

	docstoreSvc "opsconsole/internal/domain/services/docstore"
	"opsconsole/internal/httputil"
)

// ItemHandler handles rename, move and delete over mixed selections
type ItemHandler struct {
	items  docstoreSvc.ItemService
	logger *slog.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(items docstoreSvc.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{items: items, logger: logger}
}

// Rename renames a folder or file
// POST /api/items/rename
func (h *ItemHandler) Rename(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req docstoreSvc.RenameRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.items.Rename(r.Context(), p, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// Move re-parents the selected items
// POST /api/items/move
// 200 when every item moved, 207 with per-item detail otherwise.
// A cycle rejects the whole request with 409 before anything moves.
func (h *ItemHandler) Move(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req docstoreSvc.MoveRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.items.Move(r.Context(), p, &req)
	respondBatch(w, h.logger, result, err)
}

// Delete removes the selected items
// POST /api/items/delete
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req docstoreSvc.DeleteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.items.Delete(r.Context(), p, &req)
	respondBatch(w, h.logger, result, err)
}
