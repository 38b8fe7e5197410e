package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cribhub/internal/model"
)

func newUser(username string) *model.User {
	return &model.User{
		Username:     username,
		PasswordHash: "hash-" + username,
		Gender:       model.GenderOthers,
		AvatarLink:   "https://example.com/" + username + ".png",
	}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	alice := newUser("alice")
	require.NoError(t, repo.Create(ctx, alice))
	assert.NotEmpty(t, alice.ID)

	byID, err := repo.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
	assert.Equal(t, "hash-alice", byID.PasswordHash)
	assert.Equal(t, model.StringList{}, byID.CribIDs)

	byName, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindByUsername(ctx, "bob")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("alice")))
	err := repo.Create(ctx, newUser("alice"))
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestUserRepository_Update(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	alice := newUser("alice")
	require.NoError(t, repo.Create(ctx, alice))
	require.NoError(t, repo.Create(ctx, newUser("bob")))

	gender := model.GenderFemale
	hash := "new-hash"
	updated, err := repo.Update(ctx, alice.ID, model.UserPatch{Gender: &gender, PasswordHash: &hash})
	require.NoError(t, err)
	assert.Equal(t, model.GenderFemale, updated.Gender)
	assert.Equal(t, "new-hash", updated.PasswordHash)
	assert.Equal(t, "alice", updated.Username)

	taken := "bob"
	_, err = repo.Update(ctx, alice.ID, model.UserPatch{Username: &taken})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	_, err = repo.Update(ctx, "missing", model.UserPatch{Gender: &gender})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_Delete(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	alice := newUser("alice")
	require.NoError(t, repo.Create(ctx, alice))

	require.NoError(t, repo.Delete(ctx, alice.ID))
	assert.ErrorIs(t, repo.Delete(ctx, alice.ID), ErrNotFound)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestUserRepository_FindProfiles(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	alice := newUser("alice")
	bob := newUser("bob")
	require.NoError(t, repo.Create(ctx, alice))
	require.NoError(t, repo.Create(ctx, bob))

	profiles, err := repo.FindProfiles(ctx, []string{alice.ID, "dangling", bob.ID})
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	byID := map[string]model.UserProfile{}
	for _, p := range profiles {
		byID[p.ID] = p
	}
	assert.Equal(t, "alice", byID[alice.ID].Username)
	assert.Equal(t, "https://example.com/bob.png", byID[bob.ID].AvatarLink)

	empty, err := repo.FindProfiles(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
