package models

import (
	"time"

	"gorm.io/gorm"
)

// Like target kinds.
const (
	LikeKindPost    = "post"
	LikeKindComment = "comment"
)

// ValidLikeKind reports whether k names a likeable target kind.
func ValidLikeKind(k string) bool {
	return k == LikeKindPost || k == LikeKindComment
}

// Like is a per-user marker on exactly one of a post or a comment, identified
// by Kind. The composite unique indexes make at-most-one-like-per-target a
// storage-level guarantee, so a racing toggle resolves to a duplicate-key
// conflict instead of a second row.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post;uniqueIndex:idx_like_user_comment;index" json:"user_id"`
	PostID    *uint     `gorm:"uniqueIndex:idx_like_user_post;index" json:"post_id,omitempty"`
	CommentID *uint     `gorm:"uniqueIndex:idx_like_user_comment;index" json:"comment_id,omitempty"`
	Kind      string    `gorm:"size:16;index;not null" json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	return nil
}
