package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gender is the self-declared gender of a user.
type Gender string

const (
	GenderMale    Gender = "Male"
	GenderFemale  Gender = "Female"
	GenderLGBTQIA Gender = "LGBTQIA++"
	GenderOthers  Gender = "Others"
)

// Valid reports whether g is one of the supported values.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderLGBTQIA, GenderOthers:
		return true
	}
	return false
}

// User is a registered account in the user directory.
type User struct {
	ID           string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	Username     string     `json:"username" gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Gender       Gender     `json:"gender" gorm:"size:16;not null"`
	AvatarLink   string     `json:"avatarLink" gorm:"size:1024;not null"`
	CribIDs      StringList `json:"cribIds" gorm:"type:text"`
	// InteractionIDs is carried for schema compatibility only.
	InteractionIDs StringList `json:"interactionIds" gorm:"type:text"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// BeforeCreate sets the id and the empty list defaults before inserting the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.ensureDefaults()
	return nil
}

// EnsureDefaults fills system-assigned fields that the store does not generate itself.
func (u *User) EnsureDefaults() {
	u.ensureDefaults()
}

func (u *User) ensureDefaults() {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CribIDs == nil {
		u.CribIDs = StringList{}
	}
	if u.InteractionIDs == nil {
		u.InteractionIDs = StringList{}
	}
}

// Sanitized returns a copy of the user with the credential hash stripped.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

// UserPatch carries the fields of a partial user update. Nil fields are left untouched.
type UserPatch struct {
	Username     *string
	PasswordHash *string
	Gender       *Gender
	AvatarLink   *string
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Username == nil && p.PasswordHash == nil && p.Gender == nil && p.AvatarLink == nil
}

// UserProfile is the display projection of a user used for enrichment.
type UserProfile struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	AvatarLink string `json:"avatarLink"`
}
