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

// DepartmentService defines the interface for department operations
type DepartmentService interface {
	CreateDepartment(ctx context.Context, req *dto.CreateDepartmentRequest) (*models.Department, error)
	GetDepartments(ctx context.Context, facultySlug string) ([]*models.Department, error)
	GetDepartmentBySlug(ctx context.Context, slug string) (*models.Department, error)
	UpdateDepartment(ctx context.Context, slug string, req *dto.UpdateDepartmentRequest) (*models.Department, error)
	DeleteDepartment(ctx context.Context, slug string) error
}

// departmentServiceImpl implements the DepartmentService interface
type departmentServiceImpl struct {
	departmentRepo *repositories.DepartmentRepository
	facultyRepo    *repositories.FacultyRepository
}

// NewDepartmentService creates a new department service instance
func NewDepartmentService(departmentRepo *repositories.DepartmentRepository, facultyRepo *repositories.FacultyRepository) DepartmentService {
	return &departmentServiceImpl{
		departmentRepo: departmentRepo,
		facultyRepo:    facultyRepo,
	}
}

// CreateDepartment creates a department under an existing faculty
func (s *departmentServiceImpl) CreateDepartment(ctx context.Context, req *dto.CreateDepartmentRequest) (*models.Department, error) {
	if _, err := s.facultyRepo.GetByID(ctx, req.FacultyID); err != nil {
		if errors.Is(err, apperrors.ErrFacultyNotFound) {
			return nil, apperrors.ErrFacultyNotFound
		}
		return nil, fmt.Errorf("error checking faculty: %w", err)
	}

	slug := req.Slug
	if slug == "" {
		slug = helpers.Slugify(req.Name)
	}
	if err := helpers.ValidateSlug(slug); err != nil {
		return nil, err
	}

	department := &models.Department{
		Name:      req.Name,
		Slug:      slug,
		FacultyID: req.FacultyID,
	}
	if _, err := s.departmentRepo.Create(ctx, department); err != nil {
		return nil, err
	}

	return s.departmentRepo.GetBySlug(ctx, slug)
}

// GetDepartments retrieves departments, optionally restricted to one faculty
func (s *departmentServiceImpl) GetDepartments(ctx context.Context, facultySlug string) ([]*models.Department, error) {
	var facultyID int64
	if facultySlug != "" {
		faculty, err := s.facultyRepo.GetBySlug(ctx, facultySlug)
		if err != nil {
			return nil, err
		}
		facultyID = faculty.ID
	}

	departments, err := s.departmentRepo.GetAll(ctx, facultyID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving departments: %w", err)
	}
	return departments, nil
}

// GetDepartmentBySlug retrieves one department with its faculty
func (s *departmentServiceImpl) GetDepartmentBySlug(ctx context.Context, slug string) (*models.Department, error) {
	return s.departmentRepo.GetBySlug(ctx, slug)
}

// UpdateDepartment renames a department or moves it to another faculty. The
// slug never changes.
func (s *departmentServiceImpl) UpdateDepartment(ctx context.Context, slug string, req *dto.UpdateDepartmentRequest) (*models.Department, error) {
	department, err := s.departmentRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if req.FacultyID != department.FacultyID {
		if _, err := s.facultyRepo.GetByID(ctx, req.FacultyID); err != nil {
			return nil, err
		}
	}

	department.Name = req.Name
	department.FacultyID = req.FacultyID
	if err := s.departmentRepo.Update(ctx, department); err != nil {
		return nil, err
	}

	return s.departmentRepo.GetBySlug(ctx, slug)
}

// DeleteDepartment removes a department without signatures
func (s *departmentServiceImpl) DeleteDepartment(ctx context.Context, slug string) error {
	department, err := s.departmentRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return s.departmentRepo.Delete(ctx, department.ID)
}
