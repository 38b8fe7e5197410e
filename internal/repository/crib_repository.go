package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cribhub/internal/model"
)

// CribRepository defines crib persistence operations. Every mutating method is a single
// atomic write against one crib.
type CribRepository interface {
	// Create persists the crib together with its initial member list.
	Create(ctx context.Context, crib *model.Crib) error
	FindByID(ctx context.Context, id string) (*model.Crib, error)
	FindByName(ctx context.Context, name string) (*model.Crib, error)
	FindByNameAndKey(ctx context.Context, name, key string) (*model.Crib, error)
	List(ctx context.Context) ([]model.Crib, error)
	ListByMember(ctx context.Context, userID string) ([]model.Crib, error)
	Update(ctx context.Context, id string, patch model.CribPatch) (*model.Crib, error)
	Delete(ctx context.Context, id string) error
	// AddMembers unions userIDs into the member list and returns the resulting list.
	AddMembers(ctx context.Context, id string, userIDs []string) ([]string, error)
	// RemoveMember drops userID from the member list. Absent ids are not an error.
	RemoveMember(ctx context.Context, id string, userID string) ([]string, error)
	// AppendMessage appends msg to the message log and returns the full log.
	AppendMessage(ctx context.Context, id string, msg model.Message) ([]model.Message, error)
}

type cribRepository struct {
	db *gorm.DB
}

// NewCribRepository builds a GORM-backed repository. Members and messages live in their own
// tables keyed by crib id and ordered by insertion sequence.
func NewCribRepository(db *gorm.DB) CribRepository {
	return &cribRepository{db: db}
}

func (r *cribRepository) Create(ctx context.Context, crib *model.Crib) error {
	crib.EnsureDefaults()
	crib.MemberIDs = model.DistinctIDs(crib.MemberIDs)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(crib).Error; err != nil {
			return err
		}
		for _, userID := range crib.MemberIDs {
			if err := tx.Create(&model.CribMember{CribID: crib.ID, UserID: userID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return translateError(err)
}

func (r *cribRepository) FindByID(ctx context.Context, id string) (*model.Crib, error) {
	return r.findOne(r.db.WithContext(ctx), "id = ?", id)
}

func (r *cribRepository) FindByName(ctx context.Context, name string) (*model.Crib, error) {
	return r.findOne(r.db.WithContext(ctx), "name = ?", name)
}

func (r *cribRepository) FindByNameAndKey(ctx context.Context, name, key string) (*model.Crib, error) {
	return r.findOne(r.db.WithContext(ctx), "name = ? AND invite_key = ?", name, key)
}

func (r *cribRepository) List(ctx context.Context) ([]model.Crib, error) {
	db := r.db.WithContext(ctx)
	var cribs []model.Crib
	if err := db.Order("created_at ASC").Find(&cribs).Error; err != nil {
		return nil, translateError(err)
	}
	if err := hydrate(db, cribs); err != nil {
		return nil, translateError(err)
	}
	return cribs, nil
}

func (r *cribRepository) ListByMember(ctx context.Context, userID string) ([]model.Crib, error) {
	db := r.db.WithContext(ctx)
	memberOf := db.Model(&model.CribMember{}).Select("crib_id").Where("user_id = ?", userID)

	var cribs []model.Crib
	if err := db.Where("id IN (?)", memberOf).Order("created_at ASC").Find(&cribs).Error; err != nil {
		return nil, translateError(err)
	}
	if err := hydrate(db, cribs); err != nil {
		return nil, translateError(err)
	}
	return cribs, nil
}

func (r *cribRepository) Update(ctx context.Context, id string, patch model.CribPatch) (*model.Crib, error) {
	var updated *model.Crib
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCrib(tx, id); err != nil {
			return err
		}
		if !patch.Empty() {
			updates := map[string]interface{}{"updated_at": time.Now()}
			if patch.Name != nil {
				updates["name"] = *patch.Name
			}
			if patch.Key != nil {
				updates["invite_key"] = *patch.Key
			}
			if err := tx.Model(&model.Crib{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}
		var err error
		updated, err = r.findOne(tx, "id = ?", id)
		return err
	})
	if err != nil {
		return nil, translateError(err)
	}
	return updated, nil
}

func (r *cribRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCrib(tx, id); err != nil {
			return err
		}
		if err := tx.Where("crib_id = ?", id).Delete(&model.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("crib_id = ?", id).Delete(&model.CribMember{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Crib{}).Error
	})
	return translateError(err)
}

func (r *cribRepository) AddMembers(ctx context.Context, id string, userIDs []string) ([]string, error) {
	var members []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCrib(tx, id); err != nil {
			return err
		}
		existing, err := memberIDs(tx, id)
		if err != nil {
			return err
		}
		for _, userID := range model.DistinctIDs(userIDs) {
			if model.ContainsID(existing, userID) {
				continue
			}
			row := &model.CribMember{CribID: id, UserID: userID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
				return err
			}
		}
		if err := touch(tx, id); err != nil {
			return err
		}
		members, err = memberIDs(tx, id)
		return err
	})
	if err != nil {
		return nil, translateError(err)
	}
	return members, nil
}

func (r *cribRepository) RemoveMember(ctx context.Context, id string, userID string) ([]string, error) {
	var members []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCrib(tx, id); err != nil {
			return err
		}
		if err := tx.Where("crib_id = ? AND user_id = ?", id, userID).Delete(&model.CribMember{}).Error; err != nil {
			return err
		}
		if err := touch(tx, id); err != nil {
			return err
		}
		var err error
		members, err = memberIDs(tx, id)
		return err
	})
	if err != nil {
		return nil, translateError(err)
	}
	return members, nil
}

func (r *cribRepository) AppendMessage(ctx context.Context, id string, msg model.Message) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCrib(tx, id); err != nil {
			return err
		}
		msg.Seq = 0
		msg.CribID = id
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		if err := touch(tx, id); err != nil {
			return err
		}
		return tx.Where("crib_id = ?", id).Order("seq ASC").Find(&messages).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	return messages, nil
}

func (r *cribRepository) findOne(db *gorm.DB, query string, args ...interface{}) (*model.Crib, error) {
	var crib model.Crib
	if err := db.Where(query, args...).First(&crib).Error; err != nil {
		return nil, translateError(err)
	}
	cribs := []model.Crib{crib}
	if err := hydrate(db, cribs); err != nil {
		return nil, translateError(err)
	}
	return &cribs[0], nil
}

// hydrate loads member lists and message logs for cribs with one query each.
func hydrate(db *gorm.DB, cribs []model.Crib) error {
	if len(cribs) == 0 {
		return nil
	}
	ids := make([]string, len(cribs))
	for i := range cribs {
		ids[i] = cribs[i].ID
	}

	var members []model.CribMember
	if err := db.Where("crib_id IN ?", ids).Order("seq ASC").Find(&members).Error; err != nil {
		return err
	}
	var messages []model.Message
	if err := db.Where("crib_id IN ?", ids).Order("seq ASC").Find(&messages).Error; err != nil {
		return err
	}

	memberIndex := make(map[string][]string, len(cribs))
	for _, m := range members {
		memberIndex[m.CribID] = append(memberIndex[m.CribID], m.UserID)
	}
	messageIndex := make(map[string][]model.Message, len(cribs))
	for _, m := range messages {
		messageIndex[m.CribID] = append(messageIndex[m.CribID], m)
	}

	for i := range cribs {
		cribs[i].MemberIDs = memberIndex[cribs[i].ID]
		cribs[i].Messages = messageIndex[cribs[i].ID]
		cribs[i].EnsureDefaults()
	}
	return nil
}

func ensureCrib(tx *gorm.DB, id string) error {
	var count int64
	if err := tx.Model(&model.Crib{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func memberIDs(tx *gorm.DB, id string) ([]string, error) {
	ids := []string{}
	err := tx.Model(&model.CribMember{}).Where("crib_id = ?", id).Order("seq ASC").Pluck("user_id", &ids).Error
	return ids, err
}

func touch(tx *gorm.DB, id string) error {
	return tx.Model(&model.Crib{}).Where("id = ?", id).Update("updated_at", time.Now()).Error
}
