package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a forum member. Records are created and updated only by the
// identity-provider sync webhook; this service never registers users itself.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	PublicID   string    `gorm:"uniqueIndex;size:36;not null" json:"id"`
	ExternalID string    `gorm:"uniqueIndex;size:255;not null" json:"-"`
	Name       string    `gorm:"size:64;not null" json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Posts      []Post    `gorm:"foreignKey:AuthorID" json:"-"`
	Comments   []Comment `gorm:"foreignKey:AuthorID" json:"-"`
}

// BeforeCreate assigns the opaque public handle and timestamps.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.PublicID == "" {
		u.PublicID = uuid.NewString()
	}
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate refreshes the UpdatedAt timestamp.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
