package docstore

import "time"

// FolderGrant is an explicit per-folder grant. Absence means no grant for the pair.
type FolderGrant struct {
	UserID    string    `json:"user_id" db:"user_id"`
	FolderID  string    `json:"folder_id" db:"folder_id"`
	CanEdit   bool      `json:"can_edit" db:"can_edit"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
