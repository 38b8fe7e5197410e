package model

import "time"

// Message is one entry of a crib's message log. It has no identity of its own outside the crib.
type Message struct {
	Seq      uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	CribID   string    `json:"-" gorm:"type:varchar(36);not null;index"`
	AuthorID string    `json:"userId" gorm:"size:255;not null"`
	Body     string    `json:"message" gorm:"type:text;not null"`
	SentAt   time.Time `json:"dateTime" gorm:"not null"`
}

// EnrichedMessage is a message decorated with its author's display data at read time.
// AvatarLink is nil when the author no longer resolves.
type EnrichedMessage struct {
	AuthorID   string    `json:"userId"`
	Body       string    `json:"message"`
	SentAt     time.Time `json:"dateTime"`
	Username   string    `json:"username"`
	AvatarLink *string   `json:"avatarLink"`
}

// CribView is a crib as returned by the read paths, with enriched messages.
type CribView struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Key       string            `json:"key"`
	MemberIDs []string          `json:"memberIds"`
	Messages  []EnrichedMessage `json:"messages"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Member is an entry of a crib's member listing.
type Member struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}
