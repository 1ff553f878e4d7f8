package handler

import (
	"log/slog"
	"net/http"

	"opsconsole/internal/config"
	docstoreService "opsconsole/internal/service/docstore"
)

// NewRouter registers every document store route on a fresh mux.
// Authentication is applied by the caller's middleware chain.
func NewRouter(svcs *docstoreService.Services, cfg *config.Config, logger *slog.Logger) *http.ServeMux {
	treeHandler := NewTreeHandler(svcs.Access, logger)
	folderHandler := NewFolderHandler(svcs.Folder, logger)
	itemHandler := NewItemHandler(svcs.Item, logger)
	fileHandler := NewFileHandler(svcs.File, cfg.MaxUploadBytes, logger)
	searchHandler := NewSearchHandler(svcs.Search, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", HealthCheck)

	// Navigation
	mux.HandleFunc("GET /api/roots", treeHandler.ListRoots)
	mux.HandleFunc("GET /api/tree", treeHandler.GetTree)
	mux.HandleFunc("GET /api/search", searchHandler.Search)

	// Folders
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.UpdateFolder)
	mux.HandleFunc("GET /api/folders/{id}/children", folderHandler.ListChildren)
	mux.HandleFunc("GET /api/folders/{id}/breadcrumbs", folderHandler.Breadcrumbs)
	mux.HandleFunc("POST /api/folders/{id}/files", fileHandler.Upload)

	// Mixed selections
	mux.HandleFunc("POST /api/items/rename", itemHandler.Rename)
	mux.HandleFunc("POST /api/items/move", itemHandler.Move)
	mux.HandleFunc("POST /api/items/delete", itemHandler.Delete)

	// Files
	mux.HandleFunc("GET /api/files/{id}/url", fileHandler.SignedURL)
	mux.HandleFunc("GET /api/files/{id}/content", fileHandler.Download)

	return mux
}
