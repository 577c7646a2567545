package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/goosetap/goosetap/go/internal/models"
	"github.com/rs/zerolog/log"
)

// UsersRepository defines what the app layer needs from the repository
type UsersRepository interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// App handles users business logic
type App struct {
	repo UsersRepository
}

// NewApp creates a new users App
func NewApp(repo UsersRepository) *App {
	return &App{
		repo: repo,
	}
}

// CreateUser creates a new user with validation
func (a *App) CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	if err := a.validateCreateUserRequest(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Check if user with same username already exists
	existingUser, err := a.repo.GetUserByUsername(ctx, req.Username)
	if err == nil && existingUser != nil {
		return nil, fmt.Errorf("user with username %s already exists", req.Username)
	}

	user, err := a.repo.CreateUser(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().
		Str("user_id", user.ID.String()).
		Str("username", user.Username).
		Str("role", string(user.Role)).
		Msg("created user")
	return user, nil
}

// GetUser retrieves a user by ID
func (a *App) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return a.repo.GetUser(ctx, id)
}

// GetUserByUsername retrieves a user by username
func (a *App) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return a.repo.GetUserByUsername(ctx, username)
}

func (a *App) validateCreateUserRequest(req CreateUserRequest) error {
	if strings.TrimSpace(req.Username) == "" {
		return fmt.Errorf("username is required")
	}
	switch req.Role {
	case models.RoleAdmin, models.RolePlayer, models.RoleObserver:
		return nil
	case "":
		return fmt.Errorf("role is required")
	default:
		return fmt.Errorf("unknown role: %s", req.Role)
	}
}
