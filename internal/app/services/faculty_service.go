package services

import (
	"context"
	"fmt"

	"github.com/mellynhq/mellyn/internal/app/models"
	"github.com/mellynhq/mellyn/internal/app/models/dto"
	"github.com/mellynhq/mellyn/internal/app/repositories"
	"github.com/mellynhq/mellyn/internal/pkg/helpers"
)

// FacultyService defines the interface for faculty operations
type FacultyService interface {
	CreateFaculty(ctx context.Context, req *dto.CreateFacultyRequest) (*models.Faculty, error)
	GetFaculties(ctx context.Context) ([]*models.Faculty, error)
	GetFacultyBySlug(ctx context.Context, slug string) (*models.Faculty, error)
	UpdateFaculty(ctx context.Context, slug string, req *dto.UpdateFacultyRequest) (*models.Faculty, error)
	DeleteFaculty(ctx context.Context, slug string) error
}

// facultyServiceImpl implements the FacultyService interface
type facultyServiceImpl struct {
	facultyRepo *repositories.FacultyRepository
}

// NewFacultyService creates a new faculty service instance
func NewFacultyService(facultyRepo *repositories.FacultyRepository) FacultyService {
	return &facultyServiceImpl{
		facultyRepo: facultyRepo,
	}
}

// CreateFaculty creates a faculty, deriving the slug from the name when one
// is not given.
func (s *facultyServiceImpl) CreateFaculty(ctx context.Context, req *dto.CreateFacultyRequest) (*models.Faculty, error) {
	slug := req.Slug
	if slug == "" {
		slug = helpers.Slugify(req.Name)
	}
	if err := helpers.ValidateSlug(slug); err != nil {
		return nil, err
	}

	faculty := &models.Faculty{
		Name: req.Name,
		Slug: slug,
	}
	if _, err := s.facultyRepo.Create(ctx, faculty); err != nil {
		return nil, err
	}
	return faculty, nil
}

// GetFaculties retrieves all faculties
func (s *facultyServiceImpl) GetFaculties(ctx context.Context) ([]*models.Faculty, error) {
	faculties, err := s.facultyRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving faculties: %w", err)
	}
	return faculties, nil
}

// GetFacultyBySlug retrieves one faculty
func (s *facultyServiceImpl) GetFacultyBySlug(ctx context.Context, slug string) (*models.Faculty, error) {
	return s.facultyRepo.GetBySlug(ctx, slug)
}

// UpdateFaculty renames a faculty. The slug never changes.
func (s *facultyServiceImpl) UpdateFaculty(ctx context.Context, slug string, req *dto.UpdateFacultyRequest) (*models.Faculty, error) {
	faculty, err := s.facultyRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	faculty.Name = req.Name
	if err := s.facultyRepo.Update(ctx, faculty); err != nil {
		return nil, err
	}
	return faculty, nil
}

// DeleteFaculty removes a faculty and its departments, provided none of the
// departments has signatures.
func (s *facultyServiceImpl) DeleteFaculty(ctx context.Context, slug string) error {
	faculty, err := s.facultyRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return s.facultyRepo.Delete(ctx, faculty.ID)
}
