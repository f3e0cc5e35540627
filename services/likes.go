package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/marulab/maruboard/models"
)

// LikeService toggles and reads per-user like markers on posts and comments.
type LikeService struct {
	db *gorm.DB
}

// NewLikeService creates a new LikeService instance.
func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{db: db}
}

func postLikeCount(db *gorm.DB, postID uint) (int64, error) {
	var n int64
	err := db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}

func commentLikeCount(db *gorm.DB, commentID uint) (int64, error) {
	var n int64
	err := db.Model(&models.Like{}).Where("comment_id = ?", commentID).Count(&n).Error
	return n, err
}

func userLikedPost(db *gorm.DB, userID, postID uint) (bool, error) {
	var n int64
	err := db.Model(&models.Like{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&n).Error
	return n > 0, err
}

func userLikedComment(db *gorm.DB, userID, commentID uint) (bool, error) {
	var n int64
	err := db.Model(&models.Like{}).Where("user_id = ? AND comment_id = ?", userID, commentID).Count(&n).Error
	return n > 0, err
}

// resolveTarget maps a (publicID, kind) pair to the internal id of the liked
// entity.
func resolveTarget(db *gorm.DB, targetID, kind string) (uint, error) {
	switch kind {
	case models.LikeKindPost:
		var post models.Post
		if err := db.Select("id").Where("public_id = ?", targetID).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrNotFound
			}
			return 0, fmt.Errorf("lookup post: %w", err)
		}
		return post.ID, nil
	case models.LikeKindComment:
		var comment models.Comment
		if err := db.Select("id").Where("public_id = ?", targetID).First(&comment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrNotFound
			}
			return 0, fmt.Errorf("lookup comment: %w", err)
		}
		return comment.ID, nil
	default:
		return 0, fmt.Errorf("unknown like kind %q: %w", kind, ErrInvalidArgument)
	}
}

// Toggle adds or removes the actor's like on the target. Removing is just the
// deletion of the existing row; adding relies on the unique index, so a
// concurrent duplicate insert is treated as the toggle having already won.
// Callers observe the effect by re-querying Count or IsLiked.
func (s *LikeService) Toggle(actorSubject, targetID, kind string) error {
	actor, err := requireActor(s.db, actorSubject)
	if err != nil {
		return err
	}
	id, err := resolveTarget(s.db, targetID, kind)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		q := tx.Where("user_id = ?", actor.ID)
		like := models.Like{UserID: actor.ID, Kind: kind}
		if kind == models.LikeKindPost {
			q = q.Where("post_id = ?", id)
			like.PostID = &id
		} else {
			q = q.Where("comment_id = ?", id)
			like.CommentID = &id
		}

		res := q.Delete(&models.Like{})
		if res.Error != nil {
			return fmt.Errorf("remove like: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			return nil
		}

		if err := tx.Create(&like).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost the race against another toggle; the like exists.
				return nil
			}
			return fmt.Errorf("create like: %w", err)
		}
		return nil
	})
}

// Count returns the number of likes on the target.
func (s *LikeService) Count(targetID, kind string) (int64, error) {
	id, err := resolveTarget(s.db, targetID, kind)
	if err != nil {
		return 0, err
	}
	if kind == models.LikeKindPost {
		return postLikeCount(s.db, id)
	}
	return commentLikeCount(s.db, id)
}

// IsLiked reports whether the viewer has liked the target. Anonymous and
// unknown viewers are never "liked".
func (s *LikeService) IsLiked(viewerSubject, targetID, kind string) (bool, error) {
	id, err := resolveTarget(s.db, targetID, kind)
	if err != nil {
		return false, err
	}
	viewer := resolveViewer(s.db, viewerSubject)
	if viewer == nil {
		return false, nil
	}
	if kind == models.LikeKindPost {
		return userLikedPost(s.db, viewer.ID, id)
	}
	return userLikedComment(s.db, viewer.ID, id)
}

// LikedUsers returns display info for everyone who liked the target.
func (s *LikeService) LikedUsers(targetID, kind string) ([]AuthorInfo, error) {
	id, err := resolveTarget(s.db, targetID, kind)
	if err != nil {
		return nil, err
	}
	col := "post_id"
	if kind == models.LikeKindComment {
		col = "comment_id"
	}
	var likes []models.Like
	if err := s.db.Where(col+" = ?", id).Order("created_at ASC, id ASC").Find(&likes).Error; err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	users := make([]AuthorInfo, 0, len(likes))
	for _, like := range likes {
		var user models.User
		if err := s.db.First(&user, like.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("like %d references missing user %d: %w", like.ID, like.UserID, ErrDataIntegrity)
			}
			return nil, fmt.Errorf("lookup liker: %w", err)
		}
		users = append(users, AuthorInfo{ID: user.PublicID, Name: user.Name})
	}
	return users, nil
}

// LikedPosts returns the posts the viewer has liked, enriched like a listing
// row.
func (s *LikeService) LikedPosts(viewerSubject string) ([]PostSummary, error) {
	actor, err := requireActor(s.db, viewerSubject)
	if err != nil {
		return nil, err
	}
	var likes []models.Like
	if err := s.db.Where("user_id = ? AND kind = ?", actor.ID, models.LikeKindPost).
		Order("created_at DESC, id DESC").Find(&likes).Error; err != nil {
		return nil, fmt.Errorf("list post likes: %w", err)
	}
	summaries := make([]PostSummary, 0, len(likes))
	for _, like := range likes {
		if like.PostID == nil {
			return nil, fmt.Errorf("post like %d has no post reference: %w", like.ID, ErrDataIntegrity)
		}
		var post models.Post
		if err := s.db.First(&post, *like.PostID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("like %d references missing post %d: %w", like.ID, *like.PostID, ErrDataIntegrity)
			}
			return nil, fmt.Errorf("lookup liked post: %w", err)
		}
		summary, err := summarizePost(s.db, &post, actor)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

// LikedComments returns the comments the viewer has liked, each with its
// post title attached.
func (s *LikeService) LikedComments(viewerSubject string) ([]AuthoredComment, error) {
	actor, err := requireActor(s.db, viewerSubject)
	if err != nil {
		return nil, err
	}
	var likes []models.Like
	if err := s.db.Where("user_id = ? AND kind = ?", actor.ID, models.LikeKindComment).
		Order("created_at DESC, id DESC").Find(&likes).Error; err != nil {
		return nil, fmt.Errorf("list comment likes: %w", err)
	}
	out := make([]AuthoredComment, 0, len(likes))
	for _, like := range likes {
		if like.CommentID == nil {
			return nil, fmt.Errorf("comment like %d has no comment reference: %w", like.ID, ErrDataIntegrity)
		}
		var comment models.Comment
		if err := s.db.First(&comment, *like.CommentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("like %d references missing comment %d: %w", like.ID, *like.CommentID, ErrDataIntegrity)
			}
			return nil, fmt.Errorf("lookup liked comment: %w", err)
		}
		var post models.Post
		if err := s.db.First(&post, comment.PostID).Error; err != nil {
			return nil, fmt.Errorf("comment %d references missing post %d: %w", comment.ID, comment.PostID, ErrDataIntegrity)
		}
		out = append(out, AuthoredComment{
			ID:        comment.PublicID,
			Content:   comment.Content,
			CreatedAt: comment.CreatedAt,
			Post:      PostRef{ID: post.PublicID, Title: post.Title},
		})
	}
	return out, nil
}
