package users

import "github.com/goosetap/goosetap/go/internal/models"

// CreateUserRequest represents the data needed to create a new user
type CreateUserRequest struct {
	Username string          `json:"username" validate:"required"`
	Role     models.UserRole `json:"role"`
}
