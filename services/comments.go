package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/marulab/maruboard/models"
)

// CommentService owns the two-level comment tree and the author-guarded
// comment mutations.
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a new CommentService instance.
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

func commentAuthor(db *gorm.DB, comment *models.Comment) (*models.User, error) {
	var author models.User
	if err := db.First(&author, comment.AuthorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("comment %s references missing author %d: %w", comment.PublicID, comment.AuthorID, ErrDataIntegrity)
		}
		return nil, fmt.Errorf("lookup comment author: %w", err)
	}
	return &author, nil
}

func commentView(db *gorm.DB, comment *models.Comment, viewer *models.User) (*CommentView, error) {
	author, err := commentAuthor(db, comment)
	if err != nil {
		return nil, err
	}
	likeCount, err := commentLikeCount(db, comment.ID)
	if err != nil {
		return nil, fmt.Errorf("count comment likes: %w", err)
	}
	isLiked := false
	if viewer != nil {
		isLiked, err = userLikedComment(db, viewer.ID, comment.ID)
		if err != nil {
			return nil, fmt.Errorf("check comment like state: %w", err)
		}
	}
	return &CommentView{
		ID:        comment.PublicID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
		Author:    AuthorInfo{ID: author.PublicID, Name: author.Name},
		LikeCount: likeCount,
		IsLiked:   isLiked,
	}, nil
}

// commentTree assembles the two-level tree for a post: top-level comments in
// chronological order, each with its replies in chronological order.
// Insertion order (the id column) breaks creation-time ties. The second
// return value is the nested total: top-level comments plus replies.
func commentTree(db *gorm.DB, postID uint, viewer *models.User) ([]CommentView, int64, error) {
	var topLevel []models.Comment
	if err := db.Where("post_id = ? AND parent_id IS NULL", postID).
		Order("created_at ASC, id ASC").Find(&topLevel).Error; err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}

	tree := make([]CommentView, 0, len(topLevel))
	var total int64
	for i := range topLevel {
		node, err := commentView(db, &topLevel[i], viewer)
		if err != nil {
			return nil, 0, err
		}
		total++

		var replies []models.Comment
		if err := db.Where("parent_id = ?", topLevel[i].ID).
			Order("created_at ASC, id ASC").Find(&replies).Error; err != nil {
			return nil, 0, fmt.Errorf("list replies: %w", err)
		}
		for j := range replies {
			reply, err := commentView(db, &replies[j], viewer)
			if err != nil {
				return nil, 0, err
			}
			node.Replies = append(node.Replies, *reply)
			total++
		}
		tree = append(tree, *node)
	}
	return tree, total, nil
}

// ListByPost returns the two-level comment tree of a post.
func (s *CommentService) ListByPost(postID, viewerSubject string) ([]CommentView, error) {
	var post models.Post
	if err := s.db.Select("id").Where("public_id = ?", postID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup post: %w", err)
	}
	viewer := resolveViewer(s.db, viewerSubject)
	tree, _, err := commentTree(s.db, post.ID, viewer)
	return tree, err
}

// Get returns a single comment with its author attached, or ErrNotFound.
func (s *CommentService) Get(publicID, viewerSubject string) (*CommentView, error) {
	var comment models.Comment
	if err := s.db.Where("public_id = ?", publicID).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup comment: %w", err)
	}
	viewer := resolveViewer(s.db, viewerSubject)
	return commentView(s.db, &comment, viewer)
}

// ListByAuthor returns a user's comments, newest first, each with its post
// title attached.
func (s *CommentService) ListByAuthor(authorID string) ([]AuthoredComment, error) {
	var author models.User
	if err := s.db.Select("id").Where("public_id = ?", authorID).First(&author).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []AuthoredComment{}, nil
		}
		return nil, fmt.Errorf("lookup author: %w", err)
	}
	var comments []models.Comment
	if err := s.db.Where("author_id = ?", author.ID).
		Order("created_at DESC, id DESC").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	out := make([]AuthoredComment, 0, len(comments))
	for i := range comments {
		var post models.Post
		if err := s.db.First(&post, comments[i].PostID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("comment %s references missing post %d: %w", comments[i].PublicID, comments[i].PostID, ErrDataIntegrity)
			}
			return nil, fmt.Errorf("lookup post: %w", err)
		}
		out = append(out, AuthoredComment{
			ID:        comments[i].PublicID,
			Content:   comments[i].Content,
			CreatedAt: comments[i].CreatedAt,
			Post:      PostRef{ID: post.PublicID, Title: post.Title},
		})
	}
	return out, nil
}

// Create inserts a comment or a reply and returns its public id. A reply
// inherits its parent's post; a request naming a different post is rejected,
// as is a reply to a reply.
func (s *CommentService) Create(actorSubject, postID, content, parentID string) (string, error) {
	actor, err := requireActor(s.db, actorSubject)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("content cannot be empty: %w", ErrInvalidArgument)
	}

	var post models.Post
	if err := s.db.Select("id").Where("public_id = ?", postID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("lookup post: %w", err)
	}

	comment := models.Comment{
		PostID:   post.ID,
		AuthorID: actor.ID,
		Content:  content,
	}
	if parentID != "" {
		var parent models.Comment
		if err := s.db.Where("public_id = ?", parentID).First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", ErrNotFound
			}
			return "", fmt.Errorf("lookup parent comment: %w", err)
		}
		if parent.ParentID != nil {
			return "", fmt.Errorf("replies cannot be nested further: %w", ErrInvalidArgument)
		}
		if parent.PostID != post.ID {
			return "", fmt.Errorf("parent comment belongs to a different post: %w", ErrInvalidArgument)
		}
		comment.ParentID = &parent.ID
	}

	if err := s.db.Create(&comment).Error; err != nil {
		return "", fmt.Errorf("create comment: %w", err)
	}
	return comment.PublicID, nil
}

// Update replaces the content of the actor's own comment.
func (s *CommentService) Update(actorSubject, publicID, content string) error {
	actor, err := requireActor(s.db, actorSubject)
	if err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content cannot be empty: %w", ErrInvalidArgument)
	}
	var comment models.Comment
	if err := s.db.Where("public_id = ?", publicID).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("lookup comment: %w", err)
	}
	if comment.AuthorID != actor.ID {
		return ErrForbidden
	}
	comment.Content = content
	if err := s.db.Save(&comment).Error; err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

// Delete removes the actor's own comment with cascade: its direct replies,
// likes on the comment and on the replies, then the comment itself.
func (s *CommentService) Delete(actorSubject, publicID string) error {
	actor, err := requireActor(s.db, actorSubject)
	if err != nil {
		return err
	}
	var comment models.Comment
	if err := s.db.Where("public_id = ?", publicID).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("lookup comment: %w", err)
	}
	if comment.AuthorID != actor.ID {
		return ErrForbidden
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var replyIDs []uint
		if err := tx.Model(&models.Comment{}).Where("parent_id = ?", comment.ID).Pluck("id", &replyIDs).Error; err != nil {
			return fmt.Errorf("collect replies: %w", err)
		}
		victims := append(replyIDs, comment.ID)
		if err := tx.Where("comment_id IN ?", victims).Delete(&models.Like{}).Error; err != nil {
			return fmt.Errorf("delete comment likes: %w", err)
		}
		if err := tx.Where("id IN ?", victims).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		return nil
	})
}
