// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// UserStatus marks an account as enabled or disabled.
type UserStatus uint8

const (
	UserStatusDisabled UserStatus = 0
	UserStatusEnabled  UserStatus = 1
)

// User represents a registered account.
// The user_name uniqueness constraint is partial: it only applies to live
// rows, so a soft-deleted name may be registered again.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserName     string         `gorm:"not null;index:idx_users_user_name,unique,where:deleted_at IS NULL" json:"user_name"`
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Status       UserStatus     `gorm:"not null;default:1" json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Posts        []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// State reports the record's lifecycle state.
func (u *User) State() LifecycleState {
	if u.DeletedAt.Valid {
		return LifecycleState{Deleted: true, DeletedAt: u.DeletedAt.Time}
	}
	return LifecycleState{}
}
