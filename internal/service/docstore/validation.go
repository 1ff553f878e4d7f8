package docstore

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"opsconsole/internal/config"
	"opsconsole/internal/domain"
	docstoreSvc "opsconsole/internal/domain/services/docstore"
	"opsconsole/internal/tree"
)

var noSlash = regexp.MustCompile(`^[^/]+$`)

// sluggable rejects names that normalize to an empty path segment
var sluggable = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if tree.Slug(s) == "" {
		return errors.New("must contain at least one visible character")
	}
	return nil
})

// validationError converts an ozzo error into the domain type
func validationError(err error) error {
	if err == nil {
		return nil
	}
	return &domain.ValidationError{Message: err.Error()}
}

// normalizeName trims surrounding whitespace from a user-supplied name
func normalizeName(name string) string {
	return strings.TrimSpace(name)
}

func validateFolderName(name string) error {
	return validationError(validation.Validate(name,
		validation.Required.Error("folder name is required"),
		validation.RuneLength(1, config.MaxFolderNameLength),
		validation.Match(noSlash).Error("folder name cannot contain slashes"),
		sluggable,
	))
}

func validateFileName(name string) error {
	return validationError(validation.Validate(name,
		validation.Required.Error("file name is required"),
		validation.RuneLength(1, config.MaxFileNameLength),
		validation.Match(noSlash).Error("file name cannot contain slashes"),
	))
}

func validateCreateFolderRequest(req *docstoreSvc.CreateFolderRequest) error {
	return validationError(validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.RuneLength(1, config.MaxFolderNameLength),
			validation.Match(noSlash).Error("folder name cannot contain slashes"),
			sluggable,
		),
		validation.Field(&req.Color, validation.NilOrNotEmpty, validation.Length(0, 32)),
		validation.Field(&req.Icon, validation.NilOrNotEmpty, validation.Length(0, 64)),
	))
}

func validateUpdateFolderRequest(req *docstoreSvc.UpdateFolderRequest) error {
	return validationError(validation.Errors{
		"color":      validation.Validate(req.Color.Value, validation.Length(0, 32)),
		"icon":       validation.Validate(req.Icon.Value, validation.Length(0, 64)),
		"sort_order": validation.Validate(req.SortOrder, validation.Min(0)),
	}.Filter())
}

func validateBatch(n int) error {
	if n == 0 {
		return domain.NewValidation("at least one item is required")
	}
	if n > config.MaxBatchItems {
		return domain.NewValidation("at most %d items per request, got %d", config.MaxBatchItems, n)
	}
	return nil
}

func validateSearchQuery(query string) error {
	return validationError(validation.Validate(query,
		validation.Required.Error("search query is required"),
		validation.RuneLength(1, config.MaxSearchQueryLength),
	))
}

func validateGrantRequest(req *docstoreSvc.GrantRequest) error {
	return validationError(validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required, is.UUID),
		validation.Field(&req.FolderID, is.UUID),
	))
}
