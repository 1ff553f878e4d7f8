package handler

import (
	"log/slog"
	"net/http"

	docstoreSvc "opsconsole/internal/domain/services/docstore"
	"opsconsole/internal/httputil"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	folders docstoreSvc.FolderService
	logger  *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folders docstoreSvc.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{folders: folders, logger: logger}
}

// CreateFolder creates a folder
// POST /api/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req docstoreSvc.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	folder, err := h.folders.CreateFolder(r.Context(), p, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// ListChildren lists a folder's contents
// GET /api/folders/{id}/children
func (h *FolderHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	contents, err := h.folders.ListChildren(r.Context(), p, id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, contents)
}

// Breadcrumbs returns the root-first trail to a folder
// GET /api/folders/{id}/breadcrumbs
func (h *FolderHandler) Breadcrumbs(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	crumbs, err := h.folders.Breadcrumbs(r.Context(), p, id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, crumbs)
}

// updateFolderBody is the merge-patch body for display fields
type updateFolderBody struct {
	Color     httputil.OptionalString `json:"color"`
	Icon      httputil.OptionalString `json:"icon"`
	SortOrder *int                    `json:"sort_order"`
}

// UpdateFolder patches display fields. null clears color or icon.
// PATCH /api/folders/{id}
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var body updateFolderBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	folder, err := h.folders.UpdateFolder(r.Context(), p, id, &docstoreSvc.UpdateFolderRequest{
		Color:     docstoreSvc.OptionalText{Present: body.Color.Present, Value: body.Color.Value},
		Icon:      docstoreSvc.OptionalText{Present: body.Icon.Present, Value: body.Icon.Value},
		SortOrder: body.SortOrder,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}
