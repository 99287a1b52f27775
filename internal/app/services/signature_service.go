package services

import (
	"context"
	"fmt"

	"github.com/mellynhq/mellyn/internal/app/models"
	"github.com/mellynhq/mellyn/internal/app/models/dto"
	"github.com/mellynhq/mellyn/internal/app/repositories"
	"github.com/mellynhq/mellyn/internal/pkg/apperrors"
	"github.com/mellynhq/mellyn/internal/pkg/email"
	"github.com/mellynhq/mellyn/internal/pkg/helpers"
	"github.com/mellynhq/mellyn/internal/pkg/logger"
)

// SignatureService defines the interface for signing and signature reporting
type SignatureService interface {
	SignAgreement(ctx context.Context, agreementSlug string, userID int64, req *dto.SignAgreementRequest) (*models.Signature, error)
	GetSignatures(ctx context.Context, agreementSlug, query string, page, size int) ([]dto.SignatureRow, int64, error)
	GetAllSignatureRows(ctx context.Context, agreementSlug string) ([]dto.SignatureRow, error)
	GetSignatureStats(ctx context.Context, agreementSlug string) (*dto.SignatureStats, error)
}

// signatureServiceImpl implements the SignatureService interface
type signatureServiceImpl struct {
	signatureRepo *repositories.SignatureRepository
	agreementRepo *repositories.AgreementRepository
	userRepo      *repositories.UserRepository
	emailService  email.EmailService
}

// NewSignatureService creates a new signature service instance
func NewSignatureService(signatureRepo *repositories.SignatureRepository, agreementRepo *repositories.AgreementRepository, userRepo *repositories.UserRepository, emailService email.EmailService) SignatureService {
	return &signatureServiceImpl{
		signatureRepo: signatureRepo,
		agreementRepo: agreementRepo,
		userRepo:      userRepo,
		emailService:  emailService,
	}
}

// SignAgreement records the user's acceptance of an agreement, snapshotting
// their identity and claiming the oldest unassigned license code of the
// resource. A warning email goes out when the remaining pool falls to the
// resource's threshold and every ten codes below it.
func (s *signatureServiceImpl) SignAgreement(ctx context.Context, agreementSlug string, userID int64, req *dto.SignAgreementRequest) (*models.Signature, error) {
	agreement, err := s.agreementRepo.GetBySlug(ctx, agreementSlug)
	if err != nil {
		return nil, err
	}
	if !agreement.Valid() {
		return nil, apperrors.ErrAgreementNotSignable
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	signature := &models.Signature{
		AgreementID:  agreement.ID,
		SignatoryID:  user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		DepartmentID: req.DepartmentID,
	}

	remaining, err := s.signatureRepo.CreateWithCodeClaim(ctx, signature, agreement.ResourceID)
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("agreementID", agreement.ID).Int64("userID", user.ID).
		Bool("codeClaimed", signature.LicenseCode != nil).Msg("Agreement signed")

	s.maybeWarnLowCodes(agreement.Resource, remaining)

	return signature, nil
}

// maybeWarnLowCodes sends the low-codes warning when the remaining count is
// at or below the resource's threshold and sits on a multiple of ten, so the
// recipient gets a reminder every ten signings rather than every one.
func (s *signatureServiceImpl) maybeWarnLowCodes(resource *models.Resource, remaining int64) {
	if resource == nil || resource.LowCodesEmail == "" {
		return
	}
	if remaining > int64(resource.LowCodesThreshold) || remaining%10 != 0 {
		return
	}

	err := s.emailService.SendLowCodesWarning(resource.LowCodesEmail, resource.Name, remaining)
	if err != nil {
		logger.Error().Err(err).Str("resource", resource.Slug).
			Int64("remaining", remaining).Msg("Failed to send low codes warning")
	}
}

func signatureRow(signature *models.Signature) dto.SignatureRow {
	row := dto.SignatureRow{
		ID:        signature.ID,
		Username:  signature.Username,
		FirstName: signature.FirstName,
		LastName:  signature.LastName,
		Email:     signature.Email,
		SignedAt:  signature.SignedAt,
	}
	if signature.Department != nil {
		row.DepartmentName = signature.Department.Name
		if signature.Department.Faculty != nil {
			row.FacultyName = signature.Department.Faculty.Name
		}
	}
	if signature.LicenseCode != nil {
		row.LicenseCode = signature.LicenseCode.Code
	}
	return row
}

// GetSignatures retrieves one page of an agreement's signatures, filtered by
// the free-text query, together with the total match count.
func (s *signatureServiceImpl) GetSignatures(ctx context.Context, agreementSlug, query string, page, size int) ([]dto.SignatureRow, int64, error) {
	agreement, err := s.agreementRepo.GetBySlug(ctx, agreementSlug)
	if err != nil {
		return nil, 0, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	signatures, err := s.signatureRepo.SearchByAgreement(ctx, agreement.ID, query, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error retrieving signatures: %w", err)
	}

	total, err := s.signatureRepo.CountByAgreement(ctx, agreement.ID, query)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting signatures: %w", err)
	}

	rows := make([]dto.SignatureRow, 0, len(signatures))
	for _, signature := range signatures {
		rows = append(rows, signatureRow(signature))
	}
	return rows, total, nil
}

// GetAllSignatureRows retrieves every signature of an agreement for export,
// oldest first.
func (s *signatureServiceImpl) GetAllSignatureRows(ctx context.Context, agreementSlug string) ([]dto.SignatureRow, error) {
	agreement, err := s.agreementRepo.GetBySlug(ctx, agreementSlug)
	if err != nil {
		return nil, err
	}

	signatures, err := s.signatureRepo.GetAllByAgreement(ctx, agreement.ID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving signatures: %w", err)
	}

	rows := make([]dto.SignatureRow, 0, len(signatures))
	for _, signature := range signatures {
		rows = append(rows, signatureRow(signature))
	}
	return rows, nil
}

// GetSignatureStats reports signature counts per department and per faculty
func (s *signatureServiceImpl) GetSignatureStats(ctx context.Context, agreementSlug string) (*dto.SignatureStats, error) {
	agreement, err := s.agreementRepo.GetBySlug(ctx, agreementSlug)
	if err != nil {
		return nil, err
	}

	perDepartment, err := s.signatureRepo.CountPerDepartment(ctx, agreement.ID)
	if err != nil {
		return nil, fmt.Errorf("error aggregating per department: %w", err)
	}
	perFaculty, err := s.signatureRepo.CountPerFaculty(ctx, agreement.ID)
	if err != nil {
		return nil, fmt.Errorf("error aggregating per faculty: %w", err)
	}

	return &dto.SignatureStats{
		PerDepartment: perDepartment,
		PerFaculty:    perFaculty,
	}, nil
}
