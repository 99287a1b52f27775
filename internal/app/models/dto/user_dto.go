package dto

import "github.com/mellynhq/mellyn/internal/app/models"

// UserProfile is a user plus their group memberships and effective
// permissions.
type UserProfile struct {
	models.User
	Groups      []string `json:"groups"`
	Permissions []string `json:"permissions"`
}
