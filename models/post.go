package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post types. Notices are pinned announcements, everything else is general.
const (
	PostTypeNotice  = "notice"
	PostTypeGeneral = "general"
)

// ValidPostType reports whether t is one of the known post type tags.
func ValidPostType(t string) bool {
	return t == PostTypeNotice || t == PostTypeGeneral
}

// Post represents a forum post. Content is sanitized HTML. Mutation is
// restricted to the author; Views is a best-effort monotonic counter.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	PublicID  string    `gorm:"uniqueIndex;size:36;not null" json:"id"`
	AuthorID  uint      `gorm:"index;not null" json:"-"`
	SubjectID uint      `gorm:"index;not null" json:"-"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Type      string    `gorm:"size:16;index;not null;default:'general'" json:"type"`
	Views     int64     `gorm:"not null;default:0" json:"views"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"-"`
	Subject   Subject   `gorm:"foreignKey:SubjectID" json:"-"`
	Comments  []Comment `gorm:"foreignKey:PostID" json:"-"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.PublicID == "" {
		p.PublicID = uuid.NewString()
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return nil
}

func (p *Post) BeforeUpdate(tx *gorm.DB) error {
	p.UpdatedAt = time.Now()
	return nil
}
