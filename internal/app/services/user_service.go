package services

import (
	"context"
	"fmt"

	"github.com/mellynhq/mellyn/internal/app/models"
	"github.com/mellynhq/mellyn/internal/app/models/dto"
	"github.com/mellynhq/mellyn/internal/app/repositories"
	"github.com/mellynhq/mellyn/internal/pkg/auth"
	"github.com/mellynhq/mellyn/internal/pkg/logger"
)

// UserService defines the interface for account administration
type UserService interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error)
	GetUsers(ctx context.Context, query string) ([]*models.User, error)
	GetUser(ctx context.Context, username string) (*dto.UserProfile, error)
	UpdateUser(ctx context.Context, username string, req *dto.UpdateUserRequest) (*dto.UserProfile, error)
}

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	userRepo  *repositories.UserRepository
	tokenRepo *repositories.TokenRepository
}

// NewUserService creates a new user service instance
func NewUserService(userRepo *repositories.UserRepository, tokenRepo *repositories.TokenRepository) UserService {
	return &userServiceImpl{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
	}
}

// CreateUser creates an account
func (s *userServiceImpl) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsStaff:   req.IsStaff,
		IsActive:  true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info().Int64("userID", user.ID).Str("username", user.Username).Msg("User created")
	return user, nil
}

// GetUsers lists accounts, optionally filtered by a free-text query
func (s *userServiceImpl) GetUsers(ctx context.Context, query string) ([]*models.User, error) {
	return s.userRepo.GetAll(ctx, query)
}

// GetUser retrieves one account with its groups and permissions
func (s *userServiceImpl) GetUser(ctx context.Context, username string) (*dto.UserProfile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, user)
}

// UpdateUser updates an account's fields and replaces its group memberships
// when the request carries any. Deactivating an account revokes its refresh
// tokens.
func (s *userServiceImpl) UpdateUser(ctx context.Context, username string, req *dto.UpdateUserRequest) (*dto.UserProfile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	user.Email = req.Email
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	deactivated := false
	if req.IsActive != nil {
		deactivated = user.IsActive && !*req.IsActive
		user.IsActive = *req.IsActive
	}
	if req.IsStaff != nil {
		user.IsStaff = *req.IsStaff
	}
	if req.IsSuperuser != nil {
		user.IsSuperuser = *req.IsSuperuser
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if req.Groups != nil {
		if err := s.userRepo.SetGroups(ctx, user.ID, req.Groups); err != nil {
			return nil, err
		}
	}

	if deactivated {
		if err := s.tokenRepo.RevokeAllUserTokens(ctx, user.ID); err != nil {
			logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to revoke tokens on deactivation")
		}
	}

	return s.profile(ctx, user)
}

func (s *userServiceImpl) profile(ctx context.Context, user *models.User) (*dto.UserProfile, error) {
	groups, err := s.userRepo.GetGroupSlugs(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	var permissions []string
	if user.IsSuperuser {
		permissions = models.AllPermissions
	} else {
		permissions, err = s.userRepo.GetPermissions(ctx, user.ID)
		if err != nil {
			return nil, err
		}
	}

	return &dto.UserProfile{
		User:        *user,
		Groups:      groups,
		Permissions: permissions,
	}, nil
}
