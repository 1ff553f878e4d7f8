package docstore

import (
	"time"
)

// Category is the fixed taxonomy a folder belongs to. Children inherit their parent's category.
type Category string

const (
	CategoryGeneral   Category = "general"
	CategoryClients   Category = "clients"
	CategoryProjects  Category = "projects"
	CategoryMedia     Category = "media"
	CategoryTemplates Category = "templates"
	CategoryArchive   Category = "archive"
)

// Categories lists the default taxonomy in display order.
var Categories = []Category{
	CategoryGeneral,
	CategoryClients,
	CategoryProjects,
	CategoryMedia,
	CategoryTemplates,
	CategoryArchive,
}

// Folder is a node in the document store. ParentID is a plain foreign key;
// Path and Depth are materialized from the parent chain.
type Folder struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Category  Category  `json:"category" db:"category"`
	ParentID  *string   `json:"parent_id" db:"parent_id"` // NULL = root
	Path      string    `json:"path" db:"path"`
	Depth     int       `json:"depth" db:"depth"`
	Color     string    `json:"color" db:"color"`
	Icon      string    `json:"icon" db:"icon"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	IsSystem  bool      `json:"is_system" db:"is_system"`
	OwnerID   *string   `json:"owner_id,omitempty" db:"owner_id"` // set on personal roots only
	CreatedBy string    `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsRoot returns true if the folder is at the root level.
func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}

// ParentIDValue returns the parent id or "" for roots.
func (f *Folder) ParentIDValue() string {
	if f.ParentID == nil {
		return ""
	}
	return *f.ParentID
}

// AccessibleFolder is a folder annotated with the caller's edit right.
type AccessibleFolder struct {
	Folder
	CanEdit bool `json:"can_edit"`
}

// RootListing is the root view for a principal. Provisioning is true when a
// client or prospect has no personal root yet.
type RootListing struct {
	Folders      []Folder `json:"folders"`
	Provisioning bool     `json:"provisioning"`
}

// FolderContents represents a folder with its children
type FolderContents struct {
	Folder  *Folder  `json:"folder"`
	Folders []Folder `json:"folders"`
	Files   []File   `json:"files"`
	CanEdit bool     `json:"can_edit"`
}
