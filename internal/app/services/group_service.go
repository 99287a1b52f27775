package services

import (
	"context"
	"fmt"

	"github.com/mellynhq/mellyn/internal/app/models"
	"github.com/mellynhq/mellyn/internal/app/models/dto"
	"github.com/mellynhq/mellyn/internal/app/repositories"
	"github.com/mellynhq/mellyn/internal/pkg/apperrors"
	"github.com/mellynhq/mellyn/internal/pkg/helpers"
)

// GroupService defines the interface for permission group administration
type GroupService interface {
	CreateGroup(ctx context.Context, req *dto.CreateGroupRequest) (*models.PermissionGroup, error)
	GetGroups(ctx context.Context) ([]*models.PermissionGroup, error)
	GetGroupBySlug(ctx context.Context, slug string) (*models.PermissionGroup, error)
	UpdateGroup(ctx context.Context, slug string, req *dto.UpdateGroupRequest) (*models.PermissionGroup, error)
	UpdateGroupPermissions(ctx context.Context, slug string, permissions []string) (*models.PermissionGroup, error)
	DeleteGroup(ctx context.Context, slug string) error
}

// groupServiceImpl implements the GroupService interface
type groupServiceImpl struct {
	groupRepo *repositories.GroupRepository
}

// NewGroupService creates a new group service instance
func NewGroupService(groupRepo *repositories.GroupRepository) GroupService {
	return &groupServiceImpl{
		groupRepo: groupRepo,
	}
}

// CreateGroup creates a permission group, deriving the slug from the name
// when one is not given.
func (s *groupServiceImpl) CreateGroup(ctx context.Context, req *dto.CreateGroupRequest) (*models.PermissionGroup, error) {
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

	group := &models.PermissionGroup{
		Name:        req.Name,
		Slug:        slug,
		Description: description,
		Permissions: []string{},
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// GetGroups retrieves all permission groups
func (s *groupServiceImpl) GetGroups(ctx context.Context) ([]*models.PermissionGroup, error) {
	return s.groupRepo.GetAll(ctx)
}

// GetGroupBySlug retrieves one permission group with its grants
func (s *groupServiceImpl) GetGroupBySlug(ctx context.Context, slug string) (*models.PermissionGroup, error) {
	return s.groupRepo.GetBySlug(ctx, slug)
}

// UpdateGroup renames a group or changes its description. The slug never
// changes.
func (s *groupServiceImpl) UpdateGroup(ctx context.Context, slug string, req *dto.UpdateGroupRequest) (*models.PermissionGroup, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	description, err := validateRichText("description", req.Description)
	if err != nil {
		return nil, err
	}

	group.Name = req.Name
	group.Description = description
	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// UpdateGroupPermissions replaces a group's grants. Every codename must be a
// known permission.
func (s *groupServiceImpl) UpdateGroupPermissions(ctx context.Context, slug string, permissions []string) (*models.PermissionGroup, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	for _, codename := range permissions {
		if !models.IsKnownPermission(codename) {
			return nil, &apperrors.CustomError{
				Err:     apperrors.ErrUnknownPermission,
				Message: fmt.Sprintf("unknown permission codename: %s", codename),
				Field:   "permissions",
			}
		}
	}

	if err := s.groupRepo.SetPermissions(ctx, group.ID, permissions); err != nil {
		return nil, err
	}

	group.Permissions = permissions
	return group, nil
}

// DeleteGroup removes a permission group
func (s *groupServiceImpl) DeleteGroup(ctx context.Context, slug string) error {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return s.groupRepo.Delete(ctx, group.ID)
}
