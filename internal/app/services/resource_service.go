package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mellynhq/mellyn/internal/app/models"
	"github.com/mellynhq/mellyn/internal/app/models/dto"
	"github.com/mellynhq/mellyn/internal/app/repositories"
	"github.com/mellynhq/mellyn/internal/pkg/apperrors"
	"github.com/mellynhq/mellyn/internal/pkg/helpers"
)

// ResourceService defines the interface for resource operations
type ResourceService interface {
	CreateResource(ctx context.Context, req *dto.CreateResourceRequest) (*models.Resource, error)
	GetResources(ctx context.Context) ([]*models.Resource, error)
	GetResourceDetail(ctx context.Context, slug string, viewerID int64, includeHidden bool) (*dto.ResourceDetail, error)
	UpdateResource(ctx context.Context, slug string, req *dto.UpdateResourceRequest) (*models.Resource, error)
	DeleteResource(ctx context.Context, slug string) error
}

// resourceServiceImpl implements the ResourceService interface
type resourceServiceImpl struct {
	resourceRepo  *repositories.ResourceRepository
	agreementRepo *repositories.AgreementRepository
	signatureRepo *repositories.SignatureRepository
}

// NewResourceService creates a new resource service instance
func NewResourceService(resourceRepo *repositories.ResourceRepository, agreementRepo *repositories.AgreementRepository, signatureRepo *repositories.SignatureRepository) ResourceService {
	return &resourceServiceImpl{
		resourceRepo:  resourceRepo,
		agreementRepo: agreementRepo,
		signatureRepo: signatureRepo,
	}
}

// CreateResource creates a resource, deriving the slug from the name when
// one is not given.
func (s *resourceServiceImpl) CreateResource(ctx context.Context, req *dto.CreateResourceRequest) (*models.Resource, error) {
	slug := req.Slug
	if slug == "" {
		slug = helpers.Slugify(req.Name)
	}
	if err := helpers.ValidateSlug(slug); err != nil {
		return nil, err
	}

	description, err := validateRichText("description", req.Description)
	if err != nil {
		return nil, err
	}

	threshold := models.DefaultLowCodesThreshold
	if req.LowCodesThreshold != nil {
		if *req.LowCodesThreshold < 0 {
			return nil, apperrors.NewValidationError("lowCodesThreshold", "threshold cannot be negative")
		}
		threshold = *req.LowCodesThreshold
	}

	resource := &models.Resource{
		Name:              req.Name,
		Slug:              slug,
		Description:       description,
		LowCodesThreshold: threshold,
		LowCodesEmail:     req.LowCodesEmail,
	}

	if _, err := s.resourceRepo.Create(ctx, resource); err != nil {
		return nil, err
	}
	return resource, nil
}

// GetResources retrieves all resources
func (s *resourceServiceImpl) GetResources(ctx context.Context) ([]*models.Resource, error) {
	resources, err := s.resourceRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving resources: %w", err)
	}
	return resources, nil
}

// GetResourceDetail retrieves a resource with its agreements as visible to
// the viewer. Hidden and out-of-window agreements only appear with
// includeHidden; each agreement carries the viewer's signature when present.
func (s *resourceServiceImpl) GetResourceDetail(ctx context.Context, slug string, viewerID int64, includeHidden bool) (*dto.ResourceDetail, error) {
	resource, err := s.resourceRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	agreements, err := s.agreementRepo.GetForResource(ctx, resource.ID, !includeHidden)
	if err != nil {
		return nil, fmt.Errorf("error retrieving agreements: %w", err)
	}

	detail := &dto.ResourceDetail{
		Resource:   *resource,
		Agreements: make([]dto.AgreementDetail, 0, len(agreements)),
	}
	for _, agreement := range agreements {
		item := dto.AgreementDetail{Agreement: *agreement}
		signature, err := s.signatureRepo.GetByAgreementAndSignatory(ctx, agreement.ID, viewerID)
		switch {
		case err == nil:
			item.AssociatedSignature = signature
		case errors.Is(err, apperrors.ErrSignatureNotFound):
			// Not signed yet.
		default:
			return nil, fmt.Errorf("error retrieving signature: %w", err)
		}
		detail.Agreements = append(detail.Agreements, item)
	}

	return detail, nil
}

// UpdateResource updates a resource's fields. The slug never changes.
func (s *resourceServiceImpl) UpdateResource(ctx context.Context, slug string, req *dto.UpdateResourceRequest) (*models.Resource, error) {
	resource, err := s.resourceRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	description, err := validateRichText("description", req.Description)
	if err != nil {
		return nil, err
	}

	resource.Name = req.Name
	resource.Description = description
	resource.LowCodesEmail = req.LowCodesEmail
	if req.LowCodesThreshold != nil {
		if *req.LowCodesThreshold < 0 {
			return nil, apperrors.NewValidationError("lowCodesThreshold", "threshold cannot be negative")
		}
		resource.LowCodesThreshold = *req.LowCodesThreshold
	}

	if err := s.resourceRepo.Update(ctx, resource); err != nil {
		return nil, err
	}
	return resource, nil
}

// DeleteResource removes a resource without agreements
func (s *resourceServiceImpl) DeleteResource(ctx context.Context, slug string) error {
	resource, err := s.resourceRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return s.resourceRepo.Delete(ctx, resource.ID)
}
