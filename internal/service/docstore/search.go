package docstore

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"opsconsole/internal/config"
	models "opsconsole/internal/domain/models/docstore"
	docstoreRepo "opsconsole/internal/domain/repositories/docstore"
	docstoreSvc "opsconsole/internal/domain/services/docstore"
)

// candidates fetched per visible result, since filtering drops some
const searchOverfetch = 4

type searchService struct {
	folderRepo docstoreRepo.FolderRepository
	fileRepo   docstoreRepo.FileRepository
	loader     *SubtreeLoader
}

// NewSearchService creates the name search service
func NewSearchService(
	folderRepo docstoreRepo.FolderRepository,
	fileRepo docstoreRepo.FileRepository,
	loader *SubtreeLoader,
) docstoreSvc.SearchService {
	return &searchService{folderRepo: folderRepo, fileRepo: fileRepo, loader: loader}
}

// Search matches folder and file names case-insensitively and keeps only
// what the principal can see
func (s *searchService) Search(ctx context.Context, p *models.Principal, query string) (*models.SearchResults, error) {
	query = normalizeName(query)
	if err := validateSearchQuery(query); err != nil {
		return nil, err
	}

	var view *View
	var folders []models.Folder
	var files []models.File
	limit := config.SearchResultLimit * searchOverfetch

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		view, err = s.loader.Load(egCtx, p)
		return err
	})
	eg.Go(func() error {
		var err error
		folders, err = s.folderRepo.SearchByName(egCtx, query, limit)
		if err != nil {
			return fmt.Errorf("search folders: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		files, err = s.fileRepo.SearchByName(egCtx, query, limit)
		if err != nil {
			return fmt.Errorf("search files: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	results := &models.SearchResults{
		Query:   query,
		Folders: []models.Folder{},
		Files:   []models.File{},
	}
	for _, f := range folders {
		if len(results.Folders) == config.SearchResultLimit {
			break
		}
		if view.CanSee(f.ID) {
			results.Folders = append(results.Folders, f)
		}
	}
	for _, f := range files {
		if len(results.Files) == config.SearchResultLimit {
			break
		}
		if view.CanSeeContents(f.FolderID) {
			results.Files = append(results.Files, f)
		}
	}
	return results, nil
}
