package browser

import (
	"errors"
	"fmt"

	models "opsconsole/internal/domain/models/docstore"
)

// ErrModeBusy is returned when entering a mode while another one is active
var ErrModeBusy = errors.New("another interaction is in progress")

// ModeKind names the single active interaction
type ModeKind int

const (
	ModeIdle ModeKind = iota
	ModeCreating
	ModeRenaming
	ModeDeleting
	ModeMoving
	ModePreviewingMedia
)

func (k ModeKind) String() string {
	switch k {
	case ModeIdle:
		return "idle"
	case ModeCreating:
		return "creating"
	case ModeRenaming:
		return "renaming"
	case ModeDeleting:
		return "deleting"
	case ModeMoving:
		return "moving"
	case ModePreviewingMedia:
		return "previewing_media"
	}
	return fmt.Sprintf("ModeKind(%d)", int(k))
}

// Mode is the one active interaction and its subject. Only the fields that
// belong to Kind are set.
type Mode struct {
	Kind     ModeKind
	ParentID string           // Creating; "" creates a root
	Item     models.ItemRef   // Renaming
	Items    []models.ItemRef // Deleting, Moving
	File     *models.File     // PreviewingMedia
}

// Idle is the resting mode
func Idle() Mode { return Mode{Kind: ModeIdle} }

// Creating a folder under parentID
func Creating(parentID string) Mode { return Mode{Kind: ModeCreating, ParentID: parentID} }

// Renaming one item
func Renaming(item models.ItemRef) Mode { return Mode{Kind: ModeRenaming, Item: item} }

// Deleting confirms removal of items
func Deleting(items []models.ItemRef) Mode {
	return Mode{Kind: ModeDeleting, Items: append([]models.ItemRef(nil), items...)}
}

// Moving picks a target folder for items
func Moving(items []models.ItemRef) Mode {
	return Mode{Kind: ModeMoving, Items: append([]models.ItemRef(nil), items...)}
}

// PreviewingMedia shows a media file
func PreviewingMedia(file *models.File) Mode { return Mode{Kind: ModePreviewingMedia, File: file} }

// validate checks that the mode carries a usable subject
func (m Mode) validate() error {
	switch m.Kind {
	case ModeIdle, ModeCreating:
		return nil
	case ModeRenaming:
		if m.Item.ID == "" {
			return errors.New("renaming requires an item")
		}
	case ModeDeleting, ModeMoving:
		if len(m.Items) == 0 {
			return fmt.Errorf("%s requires at least one item", m.Kind)
		}
	case ModePreviewingMedia:
		if m.File == nil || !m.File.IsMedia() {
			return errors.New("only image, video, audio or pdf files can be previewed")
		}
	default:
		return fmt.Errorf("unknown mode %v", m.Kind)
	}
	return nil
}
