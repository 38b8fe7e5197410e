package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	putErr    error
	publicErr error

	keys        []string
	bodies      [][]byte
	contentType string
	published   []string
}

func (f *fakeProvider) Put(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.keys = append(f.keys, key)
	f.bodies = append(f.bodies, data)
	f.contentType = contentType
	return nil
}

func (f *fakeProvider) MakePublic(_ context.Context, key string) error {
	if f.publicErr != nil {
		return f.publicErr
	}
	f.published = append(f.published, key)
	return nil
}

func (f *fakeProvider) URL(key string) string {
	return "https://cdn.example.com/" + key
}

func fixedPublisher(p Provider) *AvatarPublisher {
	pub := NewAvatarPublisher(p, "avatars/")
	pub.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return pub
}

func TestAvatarPublisher_Publish(t *testing.T) {
	provider := &fakeProvider{}
	pub := fixedPublisher(provider)

	url, err := pub.Publish(context.Background(), Upload{
		Filename:    "me.png",
		ContentType: "image/png",
		Size:        3,
		Body:        bytes.NewReader([]byte("png")),
	})
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/avatars/1700000000000-me.png", url)
	assert.Equal(t, []string{"avatars/1700000000000-me.png"}, provider.keys)
	assert.Equal(t, []string{"avatars/1700000000000-me.png"}, provider.published)
	assert.Equal(t, "image/png", provider.contentType)
	assert.Equal(t, []byte("png"), provider.bodies[0])
}

func TestAvatarPublisher_Failures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name     string
		provider *fakeProvider
	}{
		{name: "put fails", provider: &fakeProvider{putErr: boom}},
		{name: "publish fails", provider: &fakeProvider{publicErr: boom}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, err := fixedPublisher(tt.provider).Publish(context.Background(), Upload{
				Filename: "me.png",
				Body:     bytes.NewReader(nil),
			})
			assert.ErrorIs(t, err, boom)
			assert.Empty(t, url)
		})
	}
}

func TestAvatarPublisher_ObjectKey(t *testing.T) {
	pub := fixedPublisher(&fakeProvider{})

	assert.Equal(t, "avatars/1700000000000-me.png", pub.objectKey("../../me.png"))
	assert.Equal(t, "avatars/1700000000000-me.png", pub.objectKey(`C:\pics\me.png`))
	assert.Equal(t, "avatars/1700000000000-avatar", pub.objectKey(""))
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "explicit base",
			opts: Options{PublicBaseURL: "https://cdn.example.com/", Bucket: "b"},
			want: "https://cdn.example.com/avatars/x.png",
		},
		{
			name: "bare endpoint",
			opts: Options{Endpoint: "localhost:9000", Bucket: "b"},
			want: "http://localhost:9000/b/avatars/x.png",
		},
		{
			name: "tls endpoint",
			opts: Options{Endpoint: "s3.example.com", UseSSL: true, Bucket: "b"},
			want: "https://s3.example.com/b/avatars/x.png",
		},
		{
			name: "endpoint with scheme",
			opts: Options{Endpoint: "https://s3.example.com/", Bucket: "b"},
			want: "https://s3.example.com/b/avatars/x.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, publicURL(tt.opts, "avatars/x.png"))
		})
	}
}

func TestReadOnlyPolicy(t *testing.T) {
	policy := readOnlyPolicy("avatars-bucket", "avatars/")
	assert.Contains(t, policy, `"arn:aws:s3:::avatars-bucket/avatars/*"`)
	assert.Contains(t, policy, `"s3:GetObject"`)
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New(context.Background(), Options{Driver: "ftp"})
	assert.Error(t, err)
}
