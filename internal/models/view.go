package models

import "time"

// View records that a user has seen a post. Rows are append-only: re-viewing
// is idempotent and there is no un-view operation.
type View struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_views_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_views_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	Post Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post"`
}
