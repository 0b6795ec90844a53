package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxPostTextLen is the maximum post length in Unicode code points.
const MaxPostTextLen = 280

// Post represents a post in the GopherTalk feed. A post with a non-nil
// ReplyToID is a direct reply to another post; replies form a tree.
type Post struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Text      string `gorm:"type:varchar(280);not null" json:"text"`
	ReplyToID *uint  `gorm:"index" json:"reply_to_id,omitempty"`
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	User      User   `gorm:"foreignKey:UserID" json:"user"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// ViewsCount is not persisted; computed at query time
	ViewsCount int `gorm:"->" json:"views_count"`
	// UserLiked indicates whether the requesting user liked this post (computed)
	UserLiked bool           `gorm:"->" json:"user_liked"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// State reports the record's lifecycle state.
func (p *Post) State() LifecycleState {
	if p.DeletedAt.Valid {
		return LifecycleState{Deleted: true, DeletedAt: p.DeletedAt.Time}
	}
	return LifecycleState{}
}

// LifecycleState is an explicit view over the soft-delete timestamp so
// callers can branch on Active/Deleted without poking at nullability.
type LifecycleState struct {
	Deleted   bool
	DeletedAt time.Time
}
