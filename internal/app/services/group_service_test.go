package services

import (
	"context"
	"errors"
	"testing"

	"github.com/mellynhq/mellyn/internal/app/models/dto"
	"github.com/mellynhq/mellyn/internal/pkg/apperrors"
)

func TestCreateGroupRejectsDisallowedDescriptionHTML(t *testing.T) {
	svc := &groupServiceImpl{}

	_, err := svc.CreateGroup(context.Background(), &dto.CreateGroupRequest{
		Name:        "Vendor Liaisons",
		Description: `<img src="x" onerror="alert(1)">`,
	})
	if !errors.Is(err, apperrors.ErrInvalidHTML) {
		t.Fatalf("CreateGroup() = %v, want ErrInvalidHTML", err)
	}

	var custom *apperrors.CustomError
	if !errors.As(err, &custom) {
		t.Fatalf("CreateGroup() = %v, want CustomError", err)
	}
	if custom.Field != "description" {
		t.Errorf("Field = %q, want description", custom.Field)
	}
}

func TestCreateGroupAllowsPlainDescription(t *testing.T) {
	svc := &groupServiceImpl{}

	// A clean description passes validation and continues to the write,
	// which panics on the nil repository; recover distinguishes that from a
	// validation rejection.
	defer func() { _ = recover() }()
	_, err := svc.CreateGroup(context.Background(), &dto.CreateGroupRequest{
		Name:        "Vendor Liaisons",
		Description: `<p>Handles <em>vendor</em> agreements</p>`,
	})
	if err != nil {
		t.Fatalf("CreateGroup() rejected allowed content: %v", err)
	}
}
