package handler

import (
	"log/slog"
	"net/http"

	docstoreSvc "opsconsole/internal/domain/services/docstore"
	"opsconsole/internal/httputil"
)

// TreeHandler serves the caller's root listing and accessible tree
type TreeHandler struct {
	access docstoreSvc.AccessService
	logger *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(access docstoreSvc.AccessService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{access: access, logger: logger}
}

// ListRoots returns the roots visible to the caller.
// GET /api/roots
// A client without a personal root gets 200 with provisioning=true.
func (h *TreeHandler) ListRoots(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	listing, err := h.access.ListRoots(r.Context(), p)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, listing)
}

// GetTree returns every folder the caller can see, ancestor-complete.
// GET /api/tree
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	folders, err := h.access.AccessibleTree(r.Context(), p)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folders)
}
