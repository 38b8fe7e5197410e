package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cribhub/internal/model"
	"cribhub/internal/storage"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindProfiles(ctx context.Context, ids []string) ([]model.UserProfile, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserProfile), args.Error(1)
}

// MockCribRepository is a mock implementation of CribRepository.
type MockCribRepository struct {
	mock.Mock
}

func (m *MockCribRepository) Create(ctx context.Context, crib *model.Crib) error {
	args := m.Called(ctx, crib)
	return args.Error(0)
}

func (m *MockCribRepository) FindByID(ctx context.Context, id string) (*model.Crib, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Crib), args.Error(1)
}

func (m *MockCribRepository) FindByName(ctx context.Context, name string) (*model.Crib, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Crib), args.Error(1)
}

func (m *MockCribRepository) FindByNameAndKey(ctx context.Context, name, key string) (*model.Crib, error) {
	args := m.Called(ctx, name, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Crib), args.Error(1)
}

func (m *MockCribRepository) List(ctx context.Context) ([]model.Crib, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Crib), args.Error(1)
}

func (m *MockCribRepository) ListByMember(ctx context.Context, userID string) ([]model.Crib, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Crib), args.Error(1)
}

func (m *MockCribRepository) Update(ctx context.Context, id string, patch model.CribPatch) (*model.Crib, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Crib), args.Error(1)
}

func (m *MockCribRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCribRepository) AddMembers(ctx context.Context, id string, userIDs []string) ([]string, error) {
	args := m.Called(ctx, id, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCribRepository) RemoveMember(ctx context.Context, id string, userID string) ([]string, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCribRepository) AppendMessage(ctx context.Context, id string, msg model.Message) ([]model.Message, error) {
	args := m.Called(ctx, id, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Message), args.Error(1)
}

// MockAvatarPublisher is a mock implementation of AvatarPublisher.
type MockAvatarPublisher struct {
	mock.Mock
}

func (m *MockAvatarPublisher) Publish(ctx context.Context, up storage.Upload) (string, error) {
	args := m.Called(ctx, up)
	return args.String(0), args.Error(1)
}

// memoryCache is an in-process UserCache.
type memoryCache struct {
	users map[string]model.User
}

func newMemoryCache() *memoryCache {
	return &memoryCache{users: map[string]model.User{}}
}

func (c *memoryCache) GetUser(_ context.Context, id string) *model.User {
	u, ok := c.users[id]
	if !ok {
		return nil
	}
	return &u
}

func (c *memoryCache) SetUser(_ context.Context, user model.User) {
	c.users[user.ID] = user
}

func (c *memoryCache) InvalidateUser(_ context.Context, id string) {
	delete(c.users, id)
}
