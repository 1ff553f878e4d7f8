package docstore

import (
	"context"
	"time"
)

// MaintenanceService holds administrative repair operations
type MaintenanceService interface {
	// RepairTree recomputes path and depth for every folder from parent_id.
	// Unreachable folders are reported and left for manual repair.
	RepairTree(ctx context.Context, dryRun bool) (*RepairReport, error)

	// SweepOrphans removes stored objects that no file record references and
	// that are older than grace
	SweepOrphans(ctx context.Context, dryRun bool, grace time.Duration) (*SweepReport, error)

	// Grant sets a per-folder grant, or the global edit grant when FolderID is empty
	Grant(ctx context.Context, req *GrantRequest) error
}

// PathChange records one repaired folder
type PathChange struct {
	FolderID string `json:"folder_id"`
	OldPath  string `json:"old_path"`
	NewPath  string `json:"new_path"`
	OldDepth int    `json:"old_depth"`
	NewDepth int    `json:"new_depth"`
}

// RepairReport summarizes a repair pass
type RepairReport struct {
	Scanned     int          `json:"scanned"`
	Changes     []PathChange `json:"changes"`
	Unreachable string       `json:"unreachable,omitempty"`
	Applied     bool         `json:"applied"`
}

// SweepReport summarizes an orphan sweep
type SweepReport struct {
	Scanned  int               `json:"scanned"`
	Orphans  []string          `json:"orphans"`
	Removed  int               `json:"removed"`
	Failures map[string]string `json:"failures,omitempty"`
}

// GrantRequest sets an edit grant
type GrantRequest struct {
	UserID   string `json:"user_id"`
	FolderID string `json:"folder_id,omitempty"`
	CanEdit  bool   `json:"can_edit"`
}
