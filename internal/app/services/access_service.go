package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/mellynhq/mellyn/internal/app/models"
	"github.com/mellynhq/mellyn/internal/app/repositories"
	"github.com/mellynhq/mellyn/internal/pkg/apperrors"
	"github.com/mellynhq/mellyn/internal/pkg/filestorage"
	"github.com/mellynhq/mellyn/internal/pkg/logger"
)

// AccessService gates protected file downloads behind a signature on a
// currently valid agreement, and reports download statistics.
type AccessService interface {
	AccessFile(ctx context.Context, resourceSlug, relPath string, userID int64, sessionKey string) (string, error)
	GetFileStats(ctx context.Context, resourceSlug string) ([]models.PathDownloadCount, error)
	UploadFile(ctx context.Context, resourceSlug string, fileHeader *multipart.FileHeader) (string, error)
	DeleteFile(ctx context.Context, resourceSlug, relPath string) error
}

// accessServiceImpl implements the AccessService interface
type accessServiceImpl struct {
	resourceRepo  *repositories.ResourceRepository
	agreementRepo *repositories.AgreementRepository
	signatureRepo *repositories.SignatureRepository
	eventRepo     *repositories.DownloadEventRepository
	storage       filestorage.FileStorage
}

// NewAccessService creates a new access service instance
func NewAccessService(resourceRepo *repositories.ResourceRepository, agreementRepo *repositories.AgreementRepository, signatureRepo *repositories.SignatureRepository, eventRepo *repositories.DownloadEventRepository, storage filestorage.FileStorage) AccessService {
	return &accessServiceImpl{
		resourceRepo:  resourceRepo,
		agreementRepo: agreementRepo,
		signatureRepo: signatureRepo,
		eventRepo:     eventRepo,
		storage:       storage,
	}
}

// AccessFile resolves a protected file for download. The user must hold a
// signature on at least one currently valid agreement of the resource. Each
// download is recorded for stats, with repeats from the same session inside
// the dedup window suppressed.
func (s *accessServiceImpl) AccessFile(ctx context.Context, resourceSlug, relPath string, userID int64, sessionKey string) (string, error) {
	resource, err := s.resourceRepo.GetBySlug(ctx, resourceSlug)
	if err != nil {
		return "", err
	}

	signed, err := s.hasValidSignature(ctx, resource.ID, userID)
	if err != nil {
		return "", err
	}
	if !signed {
		return "", apperrors.ErrSignatureRequired
	}

	path, err := s.storage.Resolve(resourceSlug, relPath)
	if err != nil {
		return "", err
	}

	if err := s.eventRepo.Record(ctx, resource.ID, relPath, sessionKey); err != nil {
		// Stats are best effort; the download still goes through.
		logger.Warn().Err(err).Str("resource", resourceSlug).Str("path", relPath).
			Msg("Failed to record download event")
	}

	return path, nil
}

func (s *accessServiceImpl) hasValidSignature(ctx context.Context, resourceID, userID int64) (bool, error) {
	agreements, err := s.agreementRepo.GetForResource(ctx, resourceID, true)
	if err != nil {
		return false, fmt.Errorf("error retrieving agreements: %w", err)
	}

	for _, agreement := range agreements {
		_, err := s.signatureRepo.GetByAgreementAndSignatory(ctx, agreement.ID, userID)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, apperrors.ErrSignatureNotFound) {
			return false, fmt.Errorf("error retrieving signature: %w", err)
		}
	}
	return false, nil
}

// GetFileStats aggregates a resource's downloads per path
func (s *accessServiceImpl) GetFileStats(ctx context.Context, resourceSlug string) ([]models.PathDownloadCount, error) {
	resource, err := s.resourceRepo.GetBySlug(ctx, resourceSlug)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.CountPerPath(ctx, resource.ID)
}

// UploadFile stores a file under a resource's protected directory, returning
// the relative path it is served from.
func (s *accessServiceImpl) UploadFile(ctx context.Context, resourceSlug string, fileHeader *multipart.FileHeader) (string, error) {
	if _, err := s.resourceRepo.GetBySlug(ctx, resourceSlug); err != nil {
		return "", err
	}
	return s.storage.SaveFile(fileHeader, resourceSlug)
}

// DeleteFile removes a file from a resource's protected directory
func (s *accessServiceImpl) DeleteFile(ctx context.Context, resourceSlug, relPath string) error {
	if _, err := s.resourceRepo.GetBySlug(ctx, resourceSlug); err != nil {
		return err
	}
	return s.storage.DeleteFile(resourceSlug, relPath)
}
