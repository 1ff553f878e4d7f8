package docstore

import (
	"strings"
	"time"
)

// FileKind is the coarse type classification used for previews.
type FileKind string

const (
	FileKindImage    FileKind = "image"
	FileKindVideo    FileKind = "video"
	FileKindAudio    FileKind = "audio"
	FileKindPDF      FileKind = "pdf"
	FileKindDocument FileKind = "document"
	FileKindOther    FileKind = "other"
)

// ClassifyMIME maps a MIME type onto a FileKind.
func ClassifyMIME(mimeType string) FileKind {
	base := strings.ToLower(strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0]))
	switch {
	case strings.HasPrefix(base, "image/"):
		return FileKindImage
	case strings.HasPrefix(base, "video/"):
		return FileKindVideo
	case strings.HasPrefix(base, "audio/"):
		return FileKindAudio
	case base == "application/pdf":
		return FileKindPDF
	case strings.HasPrefix(base, "text/"),
		strings.Contains(base, "officedocument"),
		strings.Contains(base, "opendocument"),
		base == "application/msword",
		base == "application/rtf",
		base == "application/json":
		return FileKindDocument
	default:
		return FileKindOther
	}
}

// File is a stored object owned by exactly one folder. Its location is
// entirely determined by FolderID; it has no path of its own.
type File struct {
	ID            string                 `json:"id" db:"id"`
	Name          string                 `json:"name" db:"name"`
	OriginalName  string                 `json:"original_name" db:"original_name"`
	FolderID      string                 `json:"folder_id" db:"folder_id"`
	StoragePath   string                 `json:"storage_path" db:"storage_path"`
	MimeType      string                 `json:"mime_type" db:"mime_type"`
	Kind          FileKind               `json:"kind" db:"kind"`
	SizeBytes     int64                  `json:"size_bytes" db:"size_bytes"`
	Metadata      map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
	ThumbnailPath *string                `json:"thumbnail_path,omitempty" db:"thumbnail_path"`
	CreatedBy     string                 `json:"created_by" db:"created_by"`
	CreatedAt     time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at" db:"updated_at"`
}

// IsMedia reports whether the file can be opened in the media previewer.
func (f *File) IsMedia() bool {
	switch f.Kind {
	case FileKindImage, FileKindVideo, FileKindAudio, FileKindPDF:
		return true
	}
	return false
}
