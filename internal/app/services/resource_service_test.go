package services

import (
	"context"
	"errors"
	"testing"

	"github.com/mellynhq/mellyn/internal/app/models/dto"
	"github.com/mellynhq/mellyn/internal/pkg/apperrors"
)

// The service carries no repositories here; a write attempt would panic, so
// these cases also prove rejection happens before anything is stored.
func TestCreateResourceRejectsDisallowedDescriptionHTML(t *testing.T) {
	svc := &resourceServiceImpl{}

	cases := []struct {
		name        string
		description string
	}{
		{"script tag", `<script>alert(1)</script>`},
		{"disallowed attribute", `<p class="fancy">archive</p>`},
		{"disallowed protocol", `<a href="http://example.edu">archive</a>`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateResource(context.Background(), &dto.CreateResourceRequest{
				Name:        "Journal Archive",
				Description: tc.description,
			})
			if !errors.Is(err, apperrors.ErrInvalidHTML) {
				t.Fatalf("CreateResource() = %v, want ErrInvalidHTML", err)
			}

			var custom *apperrors.CustomError
			if !errors.As(err, &custom) {
				t.Fatalf("CreateResource() = %v, want CustomError", err)
			}
			if custom.Field != "description" {
				t.Errorf("Field = %q, want description", custom.Field)
			}
		})
	}
}
