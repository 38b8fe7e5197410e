package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"cribhub/internal/auth"
	apperrors "cribhub/internal/errors"
	"cribhub/internal/model"
	"cribhub/internal/repository"
	"cribhub/internal/storage"
)

// RegisterInput carries the fields of a new account. Avatar is optional.
type RegisterInput struct {
	Username string
	Password string
	Gender   model.Gender
	Avatar   *storage.Upload
}

// UpdateUserInput carries a partial profile update. Nil fields are left untouched.
type UpdateUserInput struct {
	Username *string
	Password *string
	Gender   *model.Gender
	Avatar   *storage.Upload
}

// UserService is the user directory. Every user it returns is sanitized.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*model.User, error)
	Delete(ctx context.Context, id string) error
}

type userService struct {
	users         repository.UserRepository
	hasher        auth.Hasher
	avatars       AvatarPublisher
	cache         UserCache
	defaultAvatar string
	log           *zap.Logger
}

// NewUserService creates a new user directory service. cache may be nil.
func NewUserService(
	users repository.UserRepository,
	hasher auth.Hasher,
	avatars AvatarPublisher,
	cache UserCache,
	defaultAvatar string,
	log *zap.Logger,
) UserService {
	if cache == nil {
		cache = noopCache{}
	}
	return &userService{
		users:         users,
		hasher:        hasher,
		avatars:       avatars,
		cache:         cache,
		defaultAvatar: defaultAvatar,
		log:           log,
	}
}

// Register creates an account with a hashed credential. The avatar, when given, is uploaded
// before anything is persisted.
func (s *userService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if !in.Gender.Valid() {
		return nil, apperrors.ErrInvalidGender
	}

	// Check if username already exists
	if err := s.ensureUsernameFree(ctx, in.Username); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	avatarLink := s.defaultAvatar
	if in.Avatar != nil {
		if avatarLink, err = s.publishAvatar(ctx, *in.Avatar); err != nil {
			return nil, err
		}
	}

	user := &model.User{
		Username:     in.Username,
		PasswordHash: hash,
		Gender:       in.Gender,
		AvatarLink:   avatarLink,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperrors.ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("user registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// Authenticate checks a credential without establishing any session.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := s.hasher.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrMismatch) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, fmt.Errorf("verify password: %w", err)
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	if cached := s.cache.GetUser(ctx, id); cached != nil {
		return cached, nil
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	sanitized := user.Sanitized()
	s.cache.SetUser(ctx, sanitized)
	return &sanitized, nil
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	sanitized := make([]model.User, 0, len(users))
	for _, u := range users {
		sanitized = append(sanitized, u.Sanitized())
	}
	return sanitized, nil
}

// Update applies a partial profile update. A new password is re-hashed and a new avatar is
// uploaded before the record is written.
func (s *userService) Update(ctx context.Context, id string, in UpdateUserInput) (*model.User, error) {
	current, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	var patch model.UserPatch
	if in.Gender != nil {
		if !in.Gender.Valid() {
			return nil, apperrors.ErrInvalidGender
		}
		patch.Gender = in.Gender
	}
	if in.Username != nil && *in.Username != current.Username {
		if err := s.ensureUsernameFree(ctx, *in.Username); err != nil {
			return nil, err
		}
		patch.Username = in.Username
	}
	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		patch.PasswordHash = &hash
	}
	if in.Avatar != nil {
		link, err := s.publishAvatar(ctx, *in.Avatar)
		if err != nil {
			return nil, err
		}
		patch.AvatarLink = &link
	}

	updated, err := s.users.Update(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, apperrors.ErrUsernameTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.cache.InvalidateUser(ctx, id)

	s.log.Info("user updated", zap.String("user_id", id))
	sanitized := updated.Sanitized()
	return &sanitized, nil
}

// Delete hard-deletes the user. Crib memberships and message authorship are left as they are.
func (s *userService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	s.cache.InvalidateUser(ctx, id)

	s.log.Info("user deleted", zap.String("user_id", id))
	return nil
}

func (s *userService) ensureUsernameFree(ctx context.Context, username string) error {
	existing, err := s.users.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return apperrors.ErrUsernameTaken
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("check username: %w", err)
	}
	return nil
}

func (s *userService) publishAvatar(ctx context.Context, up storage.Upload) (string, error) {
	if s.avatars == nil {
		return "", apperrors.ErrAvatarUpload
	}
	link, err := s.avatars.Publish(ctx, up)
	if err != nil {
		s.log.Error("avatar upload failed", zap.String("filename", up.Filename), zap.Error(err))
		return "", apperrors.ErrAvatarUpload
	}
	return link, nil
}
