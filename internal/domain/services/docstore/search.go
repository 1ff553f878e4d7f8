package docstore

import (
	"context"

	"opsconsole/internal/domain/models/docstore"
)

// SearchService finds folders and files by name
type SearchService interface {
	// Search returns visible folders and files whose name contains query (case-insensitive)
	Search(ctx context.Context, p *docstore.Principal, query string) (*docstore.SearchResults, error)
}
