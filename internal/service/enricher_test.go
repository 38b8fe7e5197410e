package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cribhub/internal/model"
)

func TestEnricher_IsPure(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindProfiles", mock.Anything, []string{"u1", "u2"}).Return([]model.UserProfile{
		{ID: "u1", Username: "alice", AvatarLink: "https://example.com/a.png"},
	}, nil)

	sentAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	crib := model.Crib{
		ID:        "c1",
		MemberIDs: []string{"u1"},
		Messages: []model.Message{
			{AuthorID: "u1", Body: "hi", SentAt: sentAt},
			{AuthorID: "u2", Body: "yo", SentAt: sentAt},
			{AuthorID: "u1", Body: "bye", SentAt: sentAt},
		},
	}
	original := append([]model.Message(nil), crib.Messages...)

	e := NewEnricher(users)
	first, err := e.Crib(context.Background(), crib)
	require.NoError(t, err)
	second, err := e.Crib(context.Background(), crib)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, original, crib.Messages)
	assert.Equal(t, []string{"alice", UnknownUsername, "alice"}, []string{
		first.Messages[0].Username, first.Messages[1].Username, first.Messages[2].Username,
	})
	assert.Equal(t, "bye", first.Messages[2].Body)
}

func TestEnricher_Members_EmptyListNoLookup(t *testing.T) {
	users := new(MockUserRepository)

	members, err := NewEnricher(users).Members(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, members)
	assert.NotNil(t, members)
	users.AssertNotCalled(t, "FindProfiles", mock.Anything, mock.Anything)
}
