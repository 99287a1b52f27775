package services

import (
	"context"
	"fmt"

	"github.com/mellynhq/mellyn/internal/app/models/dto"
	"github.com/mellynhq/mellyn/internal/app/repositories"
	"github.com/mellynhq/mellyn/internal/pkg/apperrors"
	"github.com/mellynhq/mellyn/internal/pkg/helpers"
)

// LicenseCodeService defines the interface for license code operations
type LicenseCodeService interface {
	AddCodes(ctx context.Context, resourceSlug, codesText string) (int, error)
	GetCodes(ctx context.Context, resourceSlug string) (*dto.LicenseCodeList, error)
	DeleteCode(ctx context.Context, resourceSlug string, codeID int64) error
}

// licenseCodeServiceImpl implements the LicenseCodeService interface
type licenseCodeServiceImpl struct {
	licenseCodeRepo *repositories.LicenseCodeRepository
	resourceRepo    *repositories.ResourceRepository
}

// NewLicenseCodeService creates a new license code service instance
func NewLicenseCodeService(licenseCodeRepo *repositories.LicenseCodeRepository, resourceRepo *repositories.ResourceRepository) LicenseCodeService {
	return &licenseCodeServiceImpl{
		licenseCodeRepo: licenseCodeRepo,
		resourceRepo:    resourceRepo,
	}
}

// AddCodes bulk-adds newline-delimited codes to a resource, returning how
// many were added. The batch must be free of duplicates, both within itself
// and against the codes already stored.
func (s *licenseCodeServiceImpl) AddCodes(ctx context.Context, resourceSlug, codesText string) (int, error) {
	resource, err := s.resourceRepo.GetBySlug(ctx, resourceSlug)
	if err != nil {
		return 0, err
	}

	codes := helpers.SplitLines(codesText)
	if len(codes) == 0 {
		return 0, apperrors.NewValidationError("codes", "no codes submitted")
	}
	if duplicate, found := helpers.FirstDuplicate(codes); found {
		return 0, apperrors.NewValidationError("codes", fmt.Sprintf("duplicate code in submission: %s", duplicate))
	}

	if err := s.licenseCodeRepo.CreateBatch(ctx, resource.ID, codes); err != nil {
		return 0, err
	}
	return len(codes), nil
}

// GetCodes lists a resource's codes, unassigned first, with the unassigned
// pool count.
func (s *licenseCodeServiceImpl) GetCodes(ctx context.Context, resourceSlug string) (*dto.LicenseCodeList, error) {
	resource, err := s.resourceRepo.GetBySlug(ctx, resourceSlug)
	if err != nil {
		return nil, err
	}

	codes, err := s.licenseCodeRepo.GetAllByResource(ctx, resource.ID)
	if err != nil {
		return nil, err
	}
	remaining, err := s.licenseCodeRepo.CountUnassigned(ctx, resource.ID)
	if err != nil {
		return nil, err
	}

	return &dto.LicenseCodeList{Codes: codes, Remaining: remaining}, nil
}

// DeleteCode removes an unassigned code from a resource
func (s *licenseCodeServiceImpl) DeleteCode(ctx context.Context, resourceSlug string, codeID int64) error {
	resource, err := s.resourceRepo.GetBySlug(ctx, resourceSlug)
	if err != nil {
		return err
	}
	return s.licenseCodeRepo.Delete(ctx, resource.ID, codeID)
}
