//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"cribhub/internal/db"
	"cribhub/internal/model"
	"cribhub/internal/repository"
)

func startMongo(t *testing.T) *mongo.Database {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate mongo: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017/tcp")
	require.NoError(t, err)

	client, database, err := db.NewMongo(ctx, fmt.Sprintf("mongodb://%s:%s", host, port.Port()), "cribhub_test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	require.NoError(t, db.MigrateMongo(ctx, database, true))
	return database
}

func TestMongoRepositories(t *testing.T) {
	database := startMongo(t)
	ctx := context.Background()
	users := repository.NewMongoUserRepository(database)
	cribs := repository.NewMongoCribRepository(database)

	t.Run("users", func(t *testing.T) {
		alice := &model.User{Username: "alice", PasswordHash: "h", Gender: model.GenderFemale, AvatarLink: "a.png"}
		require.NoError(t, users.Create(ctx, alice))
		assert.ErrorIs(t, users.Create(ctx, &model.User{Username: "alice", PasswordHash: "h", Gender: model.GenderMale}), repository.ErrDuplicateKey)

		found, err := users.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, found.ID)
		assert.Equal(t, "h", found.PasswordHash)

		gender := model.GenderOthers
		updated, err := users.Update(ctx, alice.ID, model.UserPatch{Gender: &gender})
		require.NoError(t, err)
		assert.Equal(t, model.GenderOthers, updated.Gender)

		profiles, err := users.FindProfiles(ctx, []string{alice.ID, "ghost"})
		require.NoError(t, err)
		require.Len(t, profiles, 1)
		assert.Equal(t, "a.png", profiles[0].AvatarLink)

		require.NoError(t, users.Delete(ctx, alice.ID))
		assert.ErrorIs(t, users.Delete(ctx, alice.ID), repository.ErrNotFound)
		_, err = users.FindByID(ctx, alice.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("cribs", func(t *testing.T) {
		crib := &model.Crib{Name: "Alphas", Key: "k1", MemberIDs: []string{"u1"}}
		require.NoError(t, cribs.Create(ctx, crib))
		assert.ErrorIs(t, cribs.Create(ctx, &model.Crib{Name: "Alphas", Key: "k2"}), repository.ErrDuplicateKey)

		members, err := cribs.AddMembers(ctx, crib.ID, []string{"u1", "u2", "u2"})
		require.NoError(t, err)
		assert.Equal(t, []string{"u1", "u2"}, members)

		members, err = cribs.RemoveMember(ctx, crib.ID, "u1")
		require.NoError(t, err)
		assert.Equal(t, []string{"u2"}, members)
		members, err = cribs.RemoveMember(ctx, crib.ID, "u1")
		require.NoError(t, err)
		assert.Equal(t, []string{"u2"}, members)

		for i, body := range []string{"one", "two", "three"} {
			messages, err := cribs.AppendMessage(ctx, crib.ID, model.Message{AuthorID: "u2", Body: body, SentAt: time.Now().UTC()})
			require.NoError(t, err)
			require.Len(t, messages, i+1)
			assert.Equal(t, "one", messages[0].Body)
		}

		byInvite, err := cribs.FindByNameAndKey(ctx, "Alphas", "k1")
		require.NoError(t, err)
		assert.Equal(t, crib.ID, byInvite.ID)
		_, err = cribs.FindByNameAndKey(ctx, "Alphas", "wrong")
		assert.ErrorIs(t, err, repository.ErrNotFound)

		mine, err := cribs.ListByMember(ctx, "u2")
		require.NoError(t, err)
		assert.Len(t, mine, 1)

		require.NoError(t, cribs.Delete(ctx, crib.ID))
		_, err = cribs.AddMembers(ctx, crib.ID, []string{"u3"})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}
