package docstore

import "fmt"

// ItemKind distinguishes folders from files in mixed selections.
type ItemKind string

const (
	ItemFolder ItemKind = "folder"
	ItemFile   ItemKind = "file"
)

// ItemRef identifies a selectable item.
type ItemRef struct {
	ID   string   `json:"id"`
	Kind ItemKind `json:"kind"`
}

func (r ItemRef) String() string {
	return fmt.Sprintf("%s:%s", r.Kind, r.ID)
}

// FolderRef returns an ItemRef for a folder id.
func FolderRef(id string) ItemRef { return ItemRef{ID: id, Kind: ItemFolder} }

// FileRef returns an ItemRef for a file id.
func FileRef(id string) ItemRef { return ItemRef{ID: id, Kind: ItemFile} }

// SearchResults holds visibility-filtered search matches.
type SearchResults struct {
	Query   string   `json:"query"`
	Folders []Folder `json:"folders"`
	Files   []File   `json:"files"`
}
