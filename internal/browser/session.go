// Package browser holds the interaction state of a folder browser: the open
// folder and its listing, breadcrumbs, the selection, the active interaction
// mode and drag-and-drop. It talks to the document store through Backend.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"opsconsole/internal/domain"
	models "opsconsole/internal/domain/models/docstore"
	"opsconsole/internal/tree"
)

// ErrNoDrag is returned by Drop when no drag is in progress
var ErrNoDrag = errors.New("no drag in progress")

// Backend is the subset of the document store a browser session uses,
// already bound to one principal
type Backend interface {
	ListRoots(ctx context.Context) (*models.RootListing, error)
	ListChildren(ctx context.Context, folderID string) (*models.FolderContents, error)
	Breadcrumbs(ctx context.Context, folderID string) ([]models.Folder, error)
	AccessibleTree(ctx context.Context) ([]models.AccessibleFolder, error)
	Move(ctx context.Context, items []models.ItemRef, targetFolderID string) (*domain.BatchResult, error)
}

// Session is one user's browser state. It is not safe for concurrent use.
type Session struct {
	backend Backend
	logger  *slog.Logger

	current      *models.Folder // nil at the root listing
	crumbs       []models.Folder
	folders      []models.Folder
	files        []models.File
	canEdit      bool
	provisioning bool
	degraded     error

	selection *Selection
	mode      Mode
	drag      []models.ItemRef
}

// NewSession starts a session at the root listing state (nothing loaded yet)
func NewSession(backend Backend, logger *slog.Logger) *Session {
	return &Session{
		backend:   backend,
		logger:    logger,
		selection: NewSelection(nil),
		mode:      Idle(),
	}
}

// Current is the open folder, nil at the root listing
func (s *Session) Current() *models.Folder { return s.current }

// Breadcrumbs is root → … → current; empty at the root listing
func (s *Session) Breadcrumbs() []models.Folder { return s.crumbs }

// Folders is the listed child folders
func (s *Session) Folders() []models.Folder { return s.folders }

// Files is the listed files
func (s *Session) Files() []models.File { return s.files }

// CanEdit reports whether the open folder is editable
func (s *Session) CanEdit() bool { return s.canEdit }

// Provisioning is true when the principal's personal root does not exist yet
func (s *Session) Provisioning() bool { return s.provisioning }

// Degraded returns the read failure behind an empty listing, nil when the
// listing is live. Retry reloads.
func (s *Session) Degraded() error { return s.degraded }

// Selection is the selection over the current listing
func (s *Session) Selection() *Selection { return s.selection }

// Mode is the active interaction
func (s *Session) Mode() Mode { return s.mode }

// JumpToRoot clears the open folder and lists the roots
func (s *Session) JumpToRoot(ctx context.Context) error {
	s.reset(nil)
	listing, err := s.backend.ListRoots(ctx)
	if err != nil {
		return s.degrade(err, "list roots")
	}
	s.folders = listing.Folders
	s.provisioning = listing.Provisioning
	s.selection = NewSelection(s.listingItems())
	return nil
}

// Open makes folderID the current folder and lists its contents
func (s *Session) Open(ctx context.Context, folderID string) error {
	contents, err := s.backend.ListChildren(ctx, folderID)
	if err != nil {
		if fatal(err) {
			return err
		}
		s.reset(&models.Folder{ID: folderID})
		return s.degrade(err, "list children")
	}

	crumbs, err := s.backend.Breadcrumbs(ctx, folderID)
	if err != nil {
		if fatal(err) {
			return err
		}
		s.logger.Warn("breadcrumbs unavailable", "folder_id", folderID, "error", err)
		crumbs = []models.Folder{*contents.Folder}
	}

	s.reset(contents.Folder)
	s.crumbs = crumbs
	s.folders = contents.Folders
	s.files = contents.Files
	s.canEdit = contents.CanEdit
	s.selection = NewSelection(s.listingItems())
	return nil
}

// JumpToAncestor opens a folder from the current breadcrumb trail
func (s *Session) JumpToAncestor(ctx context.Context, folderID string) error {
	for _, c := range s.crumbs {
		if c.ID == folderID {
			return s.Open(ctx, folderID)
		}
	}
	return domain.NewNotFound("breadcrumb", folderID)
}

// Retry reloads the current listing
func (s *Session) Retry(ctx context.Context) error {
	if s.current == nil {
		return s.JumpToRoot(ctx)
	}
	return s.Open(ctx, s.current.ID)
}

// Select applies a click at index of the current listing
func (s *Session) Select(index int, mode ClickMode) error {
	return s.selection.Click(index, mode)
}

// Enter switches to mode. Only Idle may be left for another mode; use
// Finish to return to Idle.
func (s *Session) Enter(mode Mode) error {
	if err := mode.validate(); err != nil {
		return domain.NewValidation("%v", err)
	}
	if s.mode.Kind != ModeIdle && mode.Kind != ModeIdle {
		return fmt.Errorf("%w: %s", ErrModeBusy, s.mode.Kind)
	}
	s.mode = mode
	return nil
}

// Finish returns to Idle
func (s *Session) Finish() {
	s.mode = Idle()
}

// BeginDrag starts dragging item. The payload is the whole selection when
// item is selected, otherwise item alone; the selection is not changed.
func (s *Session) BeginDrag(item models.ItemRef) []models.ItemRef {
	if s.selection.Contains(item) {
		s.drag = s.selection.Selected()
	} else {
		s.drag = []models.ItemRef{item}
	}
	return append([]models.ItemRef(nil), s.drag...)
}

// Dragging returns the current drag payload, nil when idle
func (s *Session) Dragging() []models.ItemRef { return s.drag }

// CancelDrag abandons the gesture
func (s *Session) CancelDrag() { s.drag = nil }

// Drop ends the drag on targetID. A target that is in the payload or below a
// payload folder cancels the gesture with *domain.CycleError and nothing is
// moved. On success the current listing is reloaded.
func (s *Session) Drop(ctx context.Context, targetID string) (*domain.BatchResult, error) {
	payload := s.drag
	s.drag = nil
	if len(payload) == 0 {
		return nil, ErrNoDrag
	}

	folders, err := s.backend.AccessibleTree(ctx)
	if err != nil {
		return nil, err
	}
	t := tree.New(accessibleFolders(folders))
	if err := ValidateDrop(t, payload, targetID); err != nil {
		s.logger.Debug("drop rejected", "target", targetID, "error", err)
		return nil, err
	}

	result, err := s.backend.Move(ctx, payload, targetID)
	if result != nil {
		if rerr := s.Retry(ctx); rerr != nil {
			s.logger.Warn("reload after drop failed", "error", rerr)
		}
	}
	return result, err
}

// ValidateDrop checks a drop target against a payload: the target must be a
// known folder, not itself in the payload, and not below any payload folder
func ValidateDrop(t *tree.Tree, payload []models.ItemRef, targetID string) error {
	if !t.Has(targetID) {
		return domain.NewNotFound("folder", targetID)
	}
	for _, item := range payload {
		if item.Kind != models.ItemFolder {
			continue
		}
		if item.ID == targetID || t.IsDescendant(targetID, item.ID) {
			return &domain.CycleError{FolderID: item.ID, TargetID: targetID}
		}
	}
	return nil
}

func (s *Session) reset(current *models.Folder) {
	s.current = current
	s.crumbs = nil
	s.folders = []models.Folder{}
	s.files = []models.File{}
	s.canEdit = false
	s.provisioning = false
	s.degraded = nil
	s.selection = NewSelection(nil)
	s.drag = nil
}

// degrade keeps the emptied listing and records err for Retry
func (s *Session) degrade(err error, op string) error {
	if fatal(err) {
		return err
	}
	s.logger.Warn("listing degraded", "op", op, "error", err)
	s.degraded = err
	return nil
}

func (s *Session) listingItems() []models.ItemRef {
	items := make([]models.ItemRef, 0, len(s.folders)+len(s.files))
	for _, f := range s.folders {
		items = append(items, models.FolderRef(f.ID))
	}
	for _, f := range s.files {
		items = append(items, models.FileRef(f.ID))
	}
	return items
}

// fatal errors are surfaced instead of degrading the listing
func fatal(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrForbidden) ||
		errors.Is(err, domain.ErrUnauthorized) ||
		errors.Is(err, domain.ErrCorruptTree)
}

func accessibleFolders(in []models.AccessibleFolder) []models.Folder {
	out := make([]models.Folder, len(in))
	for i, a := range in {
		out[i] = a.Folder
	}
	return out
}
