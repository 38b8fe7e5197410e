package service

import (
	"context"

	"cribhub/internal/model"
	"cribhub/internal/storage"
)

// UserCache holds sanitized user profiles. Implementations must treat outages as misses.
type UserCache interface {
	GetUser(ctx context.Context, id string) *model.User
	SetUser(ctx context.Context, user model.User)
	InvalidateUser(ctx context.Context, id string)
}

// AvatarPublisher uploads a profile picture and returns its public URL.
type AvatarPublisher interface {
	Publish(ctx context.Context, up storage.Upload) (string, error)
}

type noopCache struct{}

func (noopCache) GetUser(context.Context, string) *model.User { return nil }
func (noopCache) SetUser(context.Context, model.User)         {}
func (noopCache) InvalidateUser(context.Context, string)      {}
