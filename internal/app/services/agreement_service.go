package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/mellynhq/mellyn/internal/app/models"
	"github.com/mellynhq/mellyn/internal/app/models/dto"
	"github.com/mellynhq/mellyn/internal/app/repositories"
	"github.com/mellynhq/mellyn/internal/pkg/apperrors"
	"github.com/mellynhq/mellyn/internal/pkg/helpers"
	"github.com/mellynhq/mellyn/internal/pkg/htmlpolicy"
)

// AgreementService defines the interface for agreement operations
type AgreementService interface {
	CreateAgreement(ctx context.Context, req *dto.CreateAgreementRequest) (*models.Agreement, error)
	GetAgreements(ctx context.Context, includeHidden bool) ([]*models.Agreement, error)
	GetAgreementDetail(ctx context.Context, slug string, viewerID int64, includeHidden bool) (*dto.AgreementDetail, error)
	UpdateAgreement(ctx context.Context, slug string, req *dto.UpdateAgreementRequest) (*models.Agreement, error)
	DeleteAgreement(ctx context.Context, slug string) error
}

// agreementServiceImpl implements the AgreementService interface
type agreementServiceImpl struct {
	agreementRepo *repositories.AgreementRepository
	resourceRepo  *repositories.ResourceRepository
	signatureRepo *repositories.SignatureRepository
}

// NewAgreementService creates a new agreement service instance
func NewAgreementService(agreementRepo *repositories.AgreementRepository, resourceRepo *repositories.ResourceRepository, signatureRepo *repositories.SignatureRepository) AgreementService {
	return &agreementServiceImpl{
		agreementRepo: agreementRepo,
		resourceRepo:  resourceRepo,
		signatureRepo: signatureRepo,
	}
}

// validateRichText checks user-authored HTML against the allow-list and
// returns the sanitized form. Agreement bodies and the description fields of
// resources and groups all pass through here.
func validateRichText(field, content string) (string, error) {
	if err := htmlpolicy.Validate(content); err != nil {
		return "", &apperrors.CustomError{
			Err:     apperrors.ErrInvalidHTML,
			Message: err.Error(),
			Field:   field,
		}
	}
	return htmlpolicy.Sanitize(content), nil
}

// validateRedirectURL requires an absolute https URL so patrons are never
// sent to an unencrypted destination after signing.
func validateRedirectURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return apperrors.NewValidationError("redirectUrl", "redirect URL must be an absolute https URL")
	}
	return nil
}

// resolveWindow applies the validity window defaults: start falls back to
// now, end to start plus DefaultValidityDays unless the window is left open.
func resolveWindow(start, end *time.Time, endOpen bool) (time.Time, *time.Time, error) {
	resolvedStart := time.Now()
	if start != nil {
		resolvedStart = *start
	}

	var resolvedEnd *time.Time
	switch {
	case end != nil:
		resolvedEnd = end
	case endOpen:
		resolvedEnd = nil
	default:
		e := resolvedStart.Add(models.DefaultValidityDays * 24 * time.Hour)
		resolvedEnd = &e
	}

	if resolvedEnd != nil && !resolvedEnd.After(resolvedStart) {
		return time.Time{}, nil, apperrors.NewValidationError("end", "end must be after start")
	}
	return resolvedStart, resolvedEnd, nil
}

// CreateAgreement creates an agreement for an existing resource
func (s *agreementServiceImpl) CreateAgreement(ctx context.Context, req *dto.CreateAgreementRequest) (*models.Agreement, error) {
	resource, err := s.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}

	slug := req.Slug
	if slug == "" {
		slug = helpers.Slugify(req.Title)
	}
	if err := helpers.ValidateSlug(slug); err != nil {
		return nil, err
	}

	body, err := validateRichText("body", req.Body)
	if err != nil {
		return nil, err
	}
	if err := validateRedirectURL(req.RedirectURL); err != nil {
		return nil, err
	}

	start, end, err := resolveWindow(req.Start, req.End, req.EndOpen)
	if err != nil {
		return nil, err
	}

	agreement := &models.Agreement{
		Title:        req.Title,
		Slug:         slug,
		ResourceID:   resource.ID,
		Start:        start,
		End:          end,
		Body:         body,
		RedirectURL:  req.RedirectURL,
		RedirectText: req.RedirectText,
		Hidden:       req.Hidden,
	}
	if _, err := s.agreementRepo.Create(ctx, agreement); err != nil {
		return nil, err
	}
	agreement.Resource = resource

	return agreement, nil
}

// GetAgreements retrieves agreements. Without includeHidden only currently
// valid, visible agreements are returned.
func (s *agreementServiceImpl) GetAgreements(ctx context.Context, includeHidden bool) ([]*models.Agreement, error) {
	agreements, err := s.agreementRepo.GetAll(ctx, !includeHidden)
	if err != nil {
		return nil, fmt.Errorf("error retrieving agreements: %w", err)
	}
	return agreements, nil
}

// GetAgreementDetail retrieves one agreement with the viewer's signature, if
// any. Hidden and out-of-window agreements read as absent without
// includeHidden.
func (s *agreementServiceImpl) GetAgreementDetail(ctx context.Context, slug string, viewerID int64, includeHidden bool) (*dto.AgreementDetail, error) {
	agreement, err := s.agreementRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !includeHidden && !agreement.Valid() {
		return nil, apperrors.ErrAgreementNotFound
	}

	detail := &dto.AgreementDetail{Agreement: *agreement}
	signature, err := s.signatureRepo.GetByAgreementAndSignatory(ctx, agreement.ID, viewerID)
	switch {
	case err == nil:
		detail.AssociatedSignature = signature
	case errors.Is(err, apperrors.ErrSignatureNotFound):
		// Not signed yet.
	default:
		return nil, fmt.Errorf("error retrieving signature: %w", err)
	}

	return detail, nil
}

// UpdateAgreement updates an agreement. The slug and creation time never
// change.
func (s *agreementServiceImpl) UpdateAgreement(ctx context.Context, slug string, req *dto.UpdateAgreementRequest) (*models.Agreement, error) {
	agreement, err := s.agreementRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if req.ResourceID != agreement.ResourceID {
		if _, err := s.resourceRepo.GetByID(ctx, req.ResourceID); err != nil {
			return nil, err
		}
	}

	body, err := validateRichText("body", req.Body)
	if err != nil {
		return nil, err
	}
	if err := validateRedirectURL(req.RedirectURL); err != nil {
		return nil, err
	}

	// Updates keep the stored window where the request is silent.
	start := agreement.Start
	if req.Start != nil {
		start = *req.Start
	}
	end := agreement.End
	switch {
	case req.End != nil:
		end = req.End
	case req.EndOpen:
		end = nil
	}
	if end != nil && !end.After(start) {
		return nil, apperrors.NewValidationError("end", "end must be after start")
	}

	agreement.Title = req.Title
	agreement.ResourceID = req.ResourceID
	agreement.Start = start
	agreement.End = end
	agreement.Body = body
	agreement.RedirectURL = req.RedirectURL
	agreement.RedirectText = req.RedirectText
	agreement.Hidden = req.Hidden
	if err := s.agreementRepo.Update(ctx, agreement); err != nil {
		return nil, err
	}

	return s.agreementRepo.GetBySlug(ctx, slug)
}

// DeleteAgreement removes an agreement and its signatures
func (s *agreementServiceImpl) DeleteAgreement(ctx context.Context, slug string) error {
	agreement, err := s.agreementRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return s.agreementRepo.Delete(ctx, agreement.ID)
}
