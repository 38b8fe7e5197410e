package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cribhub/internal/model"
)

func createCrib(t *testing.T, repo CribRepository, name, key, creator string) *model.Crib {
	t.Helper()
	crib := &model.Crib{Name: name, Key: key, MemberIDs: []string{creator}}
	require.NoError(t, repo.Create(context.Background(), crib))
	return crib
}

func TestCribRepository_CreateAndFind(t *testing.T) {
	repo := NewCribRepository(setupTestDB(t))
	ctx := context.Background()

	crib := createCrib(t, repo, "Alphas", "k1", "u1")
	assert.NotEmpty(t, crib.ID)

	found, err := repo.FindByID(ctx, crib.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alphas", found.Name)
	assert.Equal(t, "k1", found.Key)
	assert.Equal(t, []string{"u1"}, found.MemberIDs)
	assert.Empty(t, found.Messages)
	assert.NotNil(t, found.Messages)

	byName, err := repo.FindByName(ctx, "Alphas")
	require.NoError(t, err)
	assert.Equal(t, crib.ID, byName.ID)

	byInvite, err := repo.FindByNameAndKey(ctx, "Alphas", "k1")
	require.NoError(t, err)
	assert.Equal(t, crib.ID, byInvite.ID)

	_, err = repo.FindByNameAndKey(ctx, "Alphas", "wrong")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCribRepository_DuplicateName(t *testing.T) {
	repo := NewCribRepository(setupTestDB(t))

	createCrib(t, repo, "Alphas", "k1", "u1")
	err := repo.Create(context.Background(), &model.Crib{Name: "Alphas", Key: "k2", MemberIDs: []string{"u2"}})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestCribRepository_MembershipScenario(t *testing.T) {
	repo := NewCribRepository(setupTestDB(t))
	ctx := context.Background()

	crib := createCrib(t, repo, "Alphas", "k1", "u1")

	members, err := repo.AddMembers(ctx, crib.ID, []string{"u1", "u2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, members)

	members, err = repo.RemoveMember(ctx, crib.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, members)
}

func TestCribRepository_AddMembersIsIdempotentUnion(t *testing.T) {
	repo := NewCribRepository(setupTestDB(t))
	ctx := context.Background()

	crib := createCrib(t, repo, "Alphas", "k1", "u1")

	batches := [][]string{{"u2", "u2", "u3"}, {"u1", "u3"}, {"u4", "u2"}}
	var members []string
	var err error
	for _, batch := range batches {
		members, err = repo.AddMembers(ctx, crib.ID, batch)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"u1", "u2", "u3", "u4"}, members)

	_, err = repo.AddMembers(ctx, "missing", []string{"u1"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCribRepository_RemoveMemberTwice(t *testing.T) {
	repo := NewCribRepository(setupTestDB(t))
	ctx := context.Background()

	crib := createCrib(t, repo, "Alphas", "k1", "u1")
	_, err := repo.AddMembers(ctx, crib.ID, []string{"u2"})
	require.NoError(t, err)

	first, err := repo.RemoveMember(ctx, crib.ID, "u2")
	require.NoError(t, err)
	second, err := repo.RemoveMember(ctx, crib.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"u1"}, second)

	_, err = repo.RemoveMember(ctx, "missing", "u2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCribRepository_AppendMessageKeepsOrder(t *testing.T) {
	repo := NewCribRepository(setupTestDB(t))
	ctx := context.Background()

	crib := createCrib(t, repo, "Alphas", "k1", "u1")
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	var messages []model.Message
	var err error
	for i, body := range []string{"first", "second", "third"} {
		messages, err = repo.AppendMessage(ctx, crib.ID, model.Message{
			AuthorID: "u1",
			Body:     body,
			SentAt:   base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
		require.Len(t, messages, i+1)
	}
	assert.Equal(t, "first", messages[0].Body)
	assert.Equal(t, "second", messages[1].Body)
	assert.Equal(t, "third", messages[2].Body)

	// non-members may post
	messages, err = repo.AppendMessage(ctx, crib.ID, model.Message{AuthorID: "stranger", Body: "hi", SentAt: base})
	require.NoError(t, err)
	assert.Equal(t, "stranger", messages[3].AuthorID)
	assert.Equal(t, "first", messages[0].Body)

	_, err = repo.AppendMessage(ctx, "missing", model.Message{AuthorID: "u1", Body: "x", SentAt: base})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCribRepository_ListAndListByMember(t *testing.T) {
	repo := NewCribRepository(setupTestDB(t))
	ctx := context.Background()

	alphas := createCrib(t, repo, "Alphas", "k1", "u1")
	betas := createCrib(t, repo, "Betas", "k2", "u2")
	_, err := repo.AddMembers(ctx, betas.ID, []string{"u1"})
	require.NoError(t, err)
	createCrib(t, repo, "Gammas", "k3", "u3")

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := repo.ListByMember(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	names := []string{mine[0].Name, mine[1].Name}
	assert.ElementsMatch(t, []string{"Alphas", "Betas"}, names)
	for _, c := range mine {
		assert.Contains(t, c.MemberIDs, "u1")
	}

	none, err := repo.ListByMember(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
	_ = alphas
}

func TestCribRepository_Update(t *testing.T) {
	repo := NewCribRepository(setupTestDB(t))
	ctx := context.Background()

	crib := createCrib(t, repo, "Alphas", "k1", "u1")
	createCrib(t, repo, "Betas", "k2", "u2")

	newKey := "k9"
	updated, err := repo.Update(ctx, crib.ID, model.CribPatch{Key: &newKey})
	require.NoError(t, err)
	assert.Equal(t, "Alphas", updated.Name)
	assert.Equal(t, "k9", updated.Key)
	assert.Equal(t, []string{"u1"}, updated.MemberIDs)

	taken := "Betas"
	_, err = repo.Update(ctx, crib.ID, model.CribPatch{Name: &taken})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	_, err = repo.Update(ctx, "missing", model.CribPatch{Key: &newKey})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCribRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCribRepository(db)
	ctx := context.Background()

	crib := createCrib(t, repo, "Alphas", "k1", "u1")
	_, err := repo.AppendMessage(ctx, crib.ID, model.Message{AuthorID: "u1", Body: "hello", SentAt: time.Now()})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, crib.ID))
	assert.ErrorIs(t, repo.Delete(ctx, crib.ID), ErrNotFound)

	var members, messages int64
	require.NoError(t, db.Model(&model.CribMember{}).Where("crib_id = ?", crib.ID).Count(&members).Error)
	require.NoError(t, db.Model(&model.Message{}).Where("crib_id = ?", crib.ID).Count(&messages).Error)
	assert.Zero(t, members)
	assert.Zero(t, messages)
}
