package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/goosetap/goosetap/go/internal/apperr"
	"github.com/goosetap/goosetap/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsersRepo struct {
	byID   map[uuid.UUID]*models.User
	byName map[string]*models.User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{
		byID:   make(map[uuid.UUID]*models.User),
		byName: make(map[string]*models.User),
	}
}

func (f *fakeUsersRepo) CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	user := &models.User{
		ID:       uuid.New(),
		Username: req.Username,
		Role:     req.Role,
	}
	f.byID[user.ID] = user
	f.byName[user.Username] = user
	return user, nil
}

func (f *fakeUsersRepo) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return user, nil
}

func (f *fakeUsersRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, ok := f.byName[username]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return user, nil
}

func TestCreateUser(t *testing.T) {
	app := NewApp(newFakeUsersRepo())

	user, err := app.CreateUser(context.Background(), CreateUserRequest{
		Username: "goose",
		Role:     models.RolePlayer,
	})
	require.NoError(t, err)
	assert.Equal(t, "goose", user.Username)
	assert.Equal(t, models.RolePlayer, user.Role)
}

func TestCreateUserValidation(t *testing.T) {
	app := NewApp(newFakeUsersRepo())

	_, err := app.CreateUser(context.Background(), CreateUserRequest{Username: "  ", Role: models.RolePlayer})
	assert.Error(t, err)

	_, err = app.CreateUser(context.Background(), CreateUserRequest{Username: "goose"})
	assert.Error(t, err)

	_, err = app.CreateUser(context.Background(), CreateUserRequest{Username: "goose", Role: "wizard"})
	assert.Error(t, err)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	app := NewApp(newFakeUsersRepo())

	_, err := app.CreateUser(context.Background(), CreateUserRequest{Username: "goose", Role: models.RolePlayer})
	require.NoError(t, err)

	_, err = app.CreateUser(context.Background(), CreateUserRequest{Username: "goose", Role: models.RoleObserver})
	assert.Error(t, err)
}

func TestRolePermissions(t *testing.T) {
	adminUser := models.User{Role: models.RoleAdmin}
	playerUser := models.User{Role: models.RolePlayer}
	observerUser := models.User{Role: models.RoleObserver}

	assert.True(t, adminUser.CanCreateRounds())
	assert.False(t, playerUser.CanCreateRounds())
	assert.False(t, observerUser.CanCreateRounds())

	assert.False(t, adminUser.IsExemptFromScoring())
	assert.False(t, playerUser.IsExemptFromScoring())
	assert.True(t, observerUser.IsExemptFromScoring())
}
