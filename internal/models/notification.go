package models

import "time"

// Notification verbs emitted by the application. Verb is free text at
// the schema level; these are the values Ripple itself writes.
const (
	VerbLiked     = "liked"
	VerbFollowed  = "followed"
	VerbCommented = "commented"
)

// Notification is an append-only event record created as a side effect
// of another user's action. It is never created directly by a client
// request, and a user never receives one for actions on their own
// content.
type Notification struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RecipientID  uint      `gorm:"not null;index" json:"recipient_id"`
	ActorID      uint      `gorm:"not null" json:"actor_id"`
	Verb         string    `gorm:"size:255;not null" json:"verb"`
	TargetPostID *uint     `gorm:"index" json:"target_post_id,omitempty"`
	Read         bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt    time.Time `json:"created_at"`

	// Relationships
	Recipient  User  `gorm:"foreignKey:RecipientID" json:"-"`
	Actor      User  `gorm:"foreignKey:ActorID" json:"actor"`
	TargetPost *Post `gorm:"foreignKey:TargetPostID" json:"target_post,omitempty"`
}
