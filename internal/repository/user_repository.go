package repository

import (
	"context"

	"gorm.io/gorm"

	"cribhub/internal/model"
)

// UserRepository defines user directory persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error)
	Delete(ctx context.Context, id string) error
	// FindProfiles returns the display projection of every id that resolves. Ids that do not
	// resolve are silently absent from the result.
	FindProfiles(ctx context.Context, ids []string) ([]model.UserProfile, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return translateError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, translateError(err)
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	var updated model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&updated).Error; err != nil {
			return err
		}
		if patch.Empty() {
			return nil
		}

		updates := map[string]interface{}{}
		if patch.Username != nil {
			updates["username"] = *patch.Username
		}
		if patch.PasswordHash != nil {
			updates["password_hash"] = *patch.PasswordHash
		}
		if patch.Gender != nil {
			updates["gender"] = string(*patch.Gender)
		}
		if patch.AvatarLink != nil {
			updates["avatar_link"] = *patch.AvatarLink
		}
		if err := tx.Model(&updated).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&updated).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	return &updated, nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) FindProfiles(ctx context.Context, ids []string) ([]model.UserProfile, error) {
	profiles := []model.UserProfile{}
	if len(ids) == 0 {
		return profiles, nil
	}
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Select("id", "username", "avatar_link").
		Where("id IN ?", ids).
		Find(&profiles).Error
	if err != nil {
		return nil, translateError(err)
	}
	return profiles, nil
}
