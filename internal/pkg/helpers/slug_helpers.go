package helpers

import (
	gosluglib "github.com/gosimple/slug"

	"github.com/mellynhq/mellyn/internal/pkg/apperrors"
)

// ReservedSlug collides with the /create route segment of the original UI and
// stays reserved so exported identifiers remain portable.
const ReservedSlug = "create"

// Slugify derives a URL-safe slug from a title or name.
func Slugify(value string) string {
	return gosluglib.Make(value)
}

// ValidateSlug checks that a submitted slug is URL-safe and not reserved.
func ValidateSlug(value string) error {
	if value == "" {
		return apperrors.NewValidationError("slug", "slug cannot be empty")
	}
	if value == ReservedSlug {
		return apperrors.NewValidationError("slug", "the slug cannot be 'create'")
	}
	if !gosluglib.IsSlug(value) {
		return apperrors.NewValidationError("slug", "slug may only contain lowercase letters, numbers and hyphens")
	}
	return nil
}
