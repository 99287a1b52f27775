package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mellynhq/mellyn/internal/app/models/dto"
	"github.com/mellynhq/mellyn/internal/app/services"
	"github.com/mellynhq/mellyn/internal/middleware"
	"github.com/mellynhq/mellyn/internal/pkg/apperrors"
)

// UserController handles account administration
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// CreateUser creates an account
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateUserRequest true "User"
// @Success 201 {object} dto.APIResponse{data=models.User} "User created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Staff required"
// @Failure 409 {object} dto.ErrorResponse "Username already exists"
// @Router /users [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req dto.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid user data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	user, err := c.userService.CreateUser(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      user,
		Timestamp: time.Now(),
	})
}

// GetUsers lists accounts
// @Summary List users
// @Description Lists accounts, optionally filtered by a free-text query over username, names and email
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search query"
// @Success 200 {object} dto.APIResponse{data=[]models.User} "Users retrieved"
// @Failure 403 {object} dto.ErrorResponse "Staff required"
// @Router /users [get]
func (c *UserController) GetUsers(ctx *gin.Context) {
	users, err := c.userService.GetUsers(ctx, ctx.Query("q"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      users,
		Timestamp: time.Now(),
	})
}

// GetUser retrieves one account
// @Summary Get user details
// @Description Retrieves an account with its groups and permissions
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} dto.APIResponse{data=dto.UserProfile} "User retrieved"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{username} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	profile, err := c.userService.GetUser(ctx, ctx.Param("username"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      profile,
		Timestamp: time.Now(),
	})
}

// UpdateUser updates an account
// @Summary Update a user
// @Description Updates an account's fields and replaces its group memberships when groups are given. Deactivation revokes refresh tokens.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Param request body dto.UpdateUserRequest true "User"
// @Success 200 {object} dto.APIResponse{data=dto.UserProfile} "User updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Superuser status change by a non-superuser"
// @Failure 404 {object} dto.ErrorResponse "User or group not found"
// @Router /users/{username} [put]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	var req dto.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid user data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if req.IsSuperuser != nil && !ctx.GetBool(middleware.ContextIsSuperuser) {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return
	}

	profile, err := c.userService.UpdateUser(ctx, ctx.Param("username"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      profile,
		Timestamp: time.Now(),
	})
}
