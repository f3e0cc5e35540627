package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a reply to a post. ParentID is nil for top-level comments and set
// for replies; nesting stops at one level. A reply always carries the same
// PostID as its parent (enforced at creation, not by the schema).
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	PublicID  string    `gorm:"uniqueIndex;size:36;not null" json:"id"`
	PostID    uint      `gorm:"index;not null" json:"-"`
	AuthorID  uint      `gorm:"index;not null" json:"-"`
	ParentID  *uint     `gorm:"index" json:"-"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"-"`
	Post      Post      `gorm:"foreignKey:PostID" json:"-"`
	Parent    *Comment  `gorm:"foreignKey:ParentID" json:"-"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.PublicID == "" {
		c.PublicID = uuid.NewString()
	}
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	return nil
}

func (c *Comment) BeforeUpdate(tx *gorm.DB) error {
	c.UpdatedAt = time.Now()
	return nil
}
