package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaheen-amjed/shodix-api/pkg/db/dbtest"
	"github.com/shaheen-amjed/shodix-api/pkg/db/models"
	pkgerrors "github.com/shaheen-amjed/shodix-api/pkg/errors"
)

type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	repo := NewRepository(dbtest.New(t).DB())
	svc, err := NewService(ServiceParams{Repo: repo, Hasher: stubHasher{}})
	require.NoError(t, err)
	return svc, repo
}

func seedUser(t *testing.T, repo *Repository, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "x", FullLocation: "Algiers"}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{Hasher: stubHasher{}})
	require.Error(t, err)
	_, err = NewService(ServiceParams{Repo: NewRepository(nil)})
	require.Error(t, err)
}

func TestGetUser(t *testing.T) {
	svc, repo := newTestService(t)
	user := seedUser(t, repo, "amina")

	got, err := svc.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "amina", got.Username)
	assert.Equal(t, "Algiers", got.FullLocation)

	_, err = svc.Get(context.Background(), uuid.New())
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestUpdateUser(t *testing.T) {
	svc, repo := newTestService(t)
	user := seedUser(t, repo, "amina")
	seedUser(t, repo, "karim")
	ctx := context.Background()

	name := "amina_b"
	loc := "Oran"
	pass := "new-secret"
	got, err := svc.Update(ctx, user.ID, UpdateRequest{Username: &name, FullLocation: &loc, Password: &pass})
	require.NoError(t, err)
	assert.Equal(t, "amina_b", got.Username)
	assert.Equal(t, "Oran", got.FullLocation)

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hashed:new-secret", stored.PasswordHash)

	taken := "karim"
	_, err = svc.Update(ctx, user.ID, UpdateRequest{Username: &taken})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeConflict))

	bad := "bad name"
	_, err = svc.Update(ctx, user.ID, UpdateRequest{Username: &bad})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestUpdateKeepsOwnName(t *testing.T) {
	svc, repo := newTestService(t)
	user := seedUser(t, repo, "amina")

	same := "amina"
	got, err := svc.Update(context.Background(), user.ID, UpdateRequest{Username: &same})
	require.NoError(t, err)
	assert.Equal(t, "amina", got.Username)
}

func TestUpdateBlankPasswordLeavesHash(t *testing.T) {
	svc, repo := newTestService(t)
	user := seedUser(t, repo, "amina")
	ctx := context.Background()

	blank := ""
	_, err := svc.Update(ctx, user.ID, UpdateRequest{Password: &blank})
	require.NoError(t, err)

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "x", stored.PasswordHash)
}
