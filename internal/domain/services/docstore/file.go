package docstore

import (
	"context"
	"time"

	"opsconsole/internal/domain/models/docstore"
)

// FileService handles file bytes: upload and download
type FileService interface {
	// UploadFile stores the bytes, then records the metadata. A metadata
	// failure after a successful put leaves an orphaned object for the sweep.
	UploadFile(ctx context.Context, p *docstore.Principal, req *UploadFileRequest) (*docstore.File, error)

	// SignedURL returns a time-limited download URL
	SignedURL(ctx context.Context, p *docstore.Principal, fileID string) (*SignedURL, error)

	// Download returns the file record and its bytes
	Download(ctx context.Context, p *docstore.Principal, fileID string) (*docstore.File, []byte, error)
}

// UploadFileRequest represents an upload
type UploadFileRequest struct {
	FolderID string                 `json:"folder_id"`
	Name     string                 `json:"name"`
	Data     []byte                 `json:"-"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// SignedURL is a presigned download link
type SignedURL struct {
	FileID    string    `json:"file_id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
