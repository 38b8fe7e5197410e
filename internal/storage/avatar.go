package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// AvatarPublisher writes profile pictures under a fixed prefix and makes them world readable.
type AvatarPublisher struct {
	provider Provider
	prefix   string
	now      func() time.Time
}

// NewAvatarPublisher creates a publisher storing objects as <prefix><unix millis>-<filename>.
func NewAvatarPublisher(provider Provider, prefix string) *AvatarPublisher {
	return &AvatarPublisher{provider: provider, prefix: prefix, now: time.Now}
}

// Publish stores up and returns its public URL.
func (a *AvatarPublisher) Publish(ctx context.Context, up Upload) (string, error) {
	key := a.objectKey(up.Filename)
	contentType := up.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := a.provider.Put(ctx, key, up.Body, up.Size, contentType); err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	if err := a.provider.MakePublic(ctx, key); err != nil {
		return "", fmt.Errorf("publish %s: %w", key, err)
	}
	return a.provider.URL(key), nil
}

func (a *AvatarPublisher) objectKey(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "avatar"
	}
	return fmt.Sprintf("%s%d-%s", a.prefix, a.now().UnixMilli(), name)
}
