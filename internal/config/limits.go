package config

import "time"

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit the folders.name CHECK constraint.
	MaxFolderNameLength = 255

	// MaxFileNameLength is the maximum length for file names.
	MaxFileNameLength = 255

	// MaxSearchQueryLength bounds search input.
	MaxSearchQueryLength = 100

	// SearchResultLimit caps each result kind (folders, files) per search.
	SearchResultLimit = 50

	// MaxFolderDepth is the deepest depth a folder may have (roots are 0).
	// It stays below tree.MaxAncestorHops so that a legal chain is never
	// mistaken for a corrupt one.
	MaxFolderDepth = 32

	// MaxBatchItems bounds a single move or delete request.
	MaxBatchItems = 500

	// DefaultMaxUploadBytes is used when MAX_UPLOAD_BYTES is unset (50 MiB).
	DefaultMaxUploadBytes = 50 << 20

	// DefaultSignedURLTTL is used when SIGNED_URL_TTL is unset.
	DefaultSignedURLTTL = 15 * time.Minute

	// DefaultOrphanGrace keeps in-flight uploads out of the orphan sweep.
	DefaultOrphanGrace = 24 * time.Hour
)
