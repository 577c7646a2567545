package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/goosetap/goosetap/go/internal/apperr"
	"github.com/goosetap/goosetap/go/internal/models"
	"github.com/goosetap/goosetap/go/internal/users/db"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	CreateUser(ctx context.Context, arg db.CreateUserParams) (db.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (db.User, error)
	GetUserByUsername(ctx context.Context, username string) (db.User, error)
}

// Repository implements user data access operations
type Repository struct {
	queries Querier
}

// NewRepository creates a new users repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// CreateUser creates a new user
func (r *Repository) CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	user, err := r.queries.CreateUser(ctx, db.CreateUserParams{
		ID:       uuid.New(),
		Username: req.Username,
		Role:     string(req.Role),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return r.dbUserToModel(user), nil
}

// GetUser retrieves a user by ID
func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := r.queries.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return r.dbUserToModel(user), nil
}

// GetUserByUsername retrieves a user by username
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := r.queries.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return r.dbUserToModel(user), nil
}

// dbUserToModel converts a database user to domain model
func (r *Repository) dbUserToModel(dbUser db.User) *models.User {
	return &models.User{
		ID:        dbUser.ID,
		Username:  dbUser.Username,
		Role:      models.UserRole(dbUser.Role),
		CreatedAt: dbUser.CreatedAt,
	}
}
