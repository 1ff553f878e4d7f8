package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"opsconsole/internal/domain"
	models "opsconsole/internal/domain/models/docstore"
	docstoreRepo "opsconsole/internal/domain/repositories/docstore"
	docstoreSvc "opsconsole/internal/domain/services/docstore"
	"opsconsole/internal/objectstore"
)

type fileService struct {
	fileRepo       docstoreRepo.FileRepository
	objects        objectstore.Store
	loader         *SubtreeLoader
	maxUploadBytes int64
	signedURLTTL   time.Duration
	logger         *slog.Logger
}

// NewFileService creates the upload/download service
func NewFileService(
	fileRepo docstoreRepo.FileRepository,
	objects objectstore.Store,
	loader *SubtreeLoader,
	maxUploadBytes int64,
	signedURLTTL time.Duration,
	logger *slog.Logger,
) docstoreSvc.FileService {
	return &fileService{
		fileRepo:       fileRepo,
		objects:        objects,
		loader:         loader,
		maxUploadBytes: maxUploadBytes,
		signedURLTTL:   signedURLTTL,
		logger:         logger,
	}
}

// UploadFile writes the bytes to the object store, then records the file.
// If the record cannot be written the stored object is left for the orphan sweep.
func (s *fileService) UploadFile(ctx context.Context, p *models.Principal, req *docstoreSvc.UploadFileRequest) (*models.File, error) {
	req.Name = normalizeName(req.Name)
	if err := validateFileName(req.Name); err != nil {
		return nil, err
	}
	if len(req.Data) == 0 {
		return nil, domain.NewValidation("file %q is empty", req.Name)
	}
	if int64(len(req.Data)) > s.maxUploadBytes {
		return nil, domain.NewValidation("file %q is %s, the limit is %s",
			req.Name, humanize.Bytes(uint64(len(req.Data))), humanize.Bytes(uint64(s.maxUploadBytes)))
	}

	view, err := s.loader.Load(ctx, p)
	if err != nil {
		return nil, err
	}
	if _, err := view.RequireEditable(req.FolderID); err != nil {
		return nil, err
	}

	mime := mimetype.Detect(req.Data)
	ext := strings.ToLower(filepath.Ext(req.Name))
	if ext == "" {
		ext = mime.Extension()
	}
	now := time.Now().UTC()
	file := &models.File{
		ID:           uuid.NewString(),
		Name:         req.Name,
		OriginalName: req.Name,
		FolderID:     req.FolderID,
		StoragePath:  req.FolderID + "/" + uuid.NewString() + ext,
		MimeType:     mime.String(),
		Kind:         models.ClassifyMIME(mime.String()),
		SizeBytes:    int64(len(req.Data)),
		Metadata:     req.Metadata,
		CreatedBy:    p.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.objects.Put(ctx, file.StoragePath, req.Data, file.MimeType); err != nil {
		return nil, &domain.StorageError{Op: "put", Path: file.StoragePath, Err: err}
	}
	if err := s.fileRepo.Create(ctx, file); err != nil {
		s.logger.Warn("file record not written, stored object orphaned",
			"storage_path", file.StoragePath,
			"folder_id", file.FolderID,
			"error", err,
		)
		return nil, fmt.Errorf("record file %q: %w", file.Name, err)
	}

	s.logger.Info("file uploaded",
		"file_id", file.ID,
		"folder_id", file.FolderID,
		"kind", file.Kind,
		"size", humanize.Bytes(uint64(file.SizeBytes)),
		"principal", p.ID,
	)
	return file, nil
}

// SignedURL returns a time-limited download link for a visible file
func (s *fileService) SignedURL(ctx context.Context, p *models.Principal, fileID string) (*docstoreSvc.SignedURL, error) {
	file, err := s.visibleFile(ctx, p, fileID)
	if err != nil {
		return nil, err
	}
	url, err := s.objects.SignedURL(ctx, file.StoragePath, s.signedURLTTL)
	if err != nil {
		return nil, &domain.StorageError{Op: "sign", Path: file.StoragePath, Err: err}
	}
	return &docstoreSvc.SignedURL{
		FileID:    file.ID,
		URL:       url,
		ExpiresAt: time.Now().UTC().Add(s.signedURLTTL),
	}, nil
}

// Download returns a visible file and its bytes
func (s *fileService) Download(ctx context.Context, p *models.Principal, fileID string) (*models.File, []byte, error) {
	file, err := s.visibleFile(ctx, p, fileID)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.objects.Get(ctx, file.StoragePath)
	if err != nil {
		if errors.Is(err, objectstore.ErrObjectNotFound) {
			s.logger.Warn("file record has no stored object", "file_id", file.ID, "storage_path", file.StoragePath)
		}
		return nil, nil, &domain.StorageError{Op: "get", Path: file.StoragePath, Err: err}
	}
	return file, data, nil
}

func (s *fileService) visibleFile(ctx context.Context, p *models.Principal, fileID string) (*models.File, error) {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("file", fileID)
		}
		return nil, err
	}
	view, err := s.loader.Load(ctx, p)
	if err != nil {
		return nil, err
	}
	if !view.CanSeeContents(file.FolderID) {
		return nil, domain.NewNotFound("file", fileID)
	}
	return file, nil
}
