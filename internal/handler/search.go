package handler

import (
	"log/slog"
	"net/http"

	docstoreSvc "opsconsole/internal/domain/services/docstore"
	"opsconsole/internal/httputil"
)

// SearchHandler handles name search
type SearchHandler struct {
	search docstoreSvc.SearchService
	logger *slog.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(search docstoreSvc.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{search: search, logger: logger}
}

// Search finds visible folders and files by name
// GET /api/search?q=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	results, err := h.search.Search(r.Context(), p, r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, results)
}
