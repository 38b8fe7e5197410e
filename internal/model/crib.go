package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Crib is a named group space with a shared invite key, a member list and an
// append-only message log.
type Crib struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null;uniqueIndex"`
	Key       string    `json:"key" gorm:"column:invite_key;size:255;not null"`
	MemberIDs []string  `json:"memberIds" gorm:"-"`
	Messages  []Message `json:"messages" gorm:"foreignKey:CribID"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate sets the id before inserting the record.
func (c *Crib) BeforeCreate(tx *gorm.DB) error {
	c.EnsureDefaults()
	return nil
}

// EnsureDefaults fills system-assigned fields that the store does not generate itself.
func (c *Crib) EnsureDefaults() {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.MemberIDs == nil {
		c.MemberIDs = []string{}
	}
	if c.Messages == nil {
		c.Messages = []Message{}
	}
}

// HasMember reports whether userID is in the member list.
func (c *Crib) HasMember(userID string) bool {
	return ContainsID(c.MemberIDs, userID)
}

// CribMember is one row of a crib's member list. Seq keeps insertion order.
type CribMember struct {
	Seq    uint   `gorm:"primaryKey;autoIncrement"`
	CribID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_crib_member"`
	UserID string `gorm:"size:255;not null;uniqueIndex:idx_crib_member;index"`
}

// CribPatch carries the fields of a partial crib update. Nil fields are left untouched.
type CribPatch struct {
	Name *string `json:"name"`
	Key  *string `json:"key"`
}

// Empty reports whether the patch changes nothing.
func (p CribPatch) Empty() bool {
	return p.Name == nil && p.Key == nil
}
