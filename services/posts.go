package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/marulab/maruboard/models"
)

// PostService owns post listings, the post detail aggregation, and the
// author-guarded post mutations.
type PostService struct {
	db *gorm.DB
}

// NewPostService creates a new PostService instance.
func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

// PostFilter selects posts for a listing. When several fields are set at
// once, precedence is subject, then type, then keyword.
type PostFilter struct {
	Subject      string // subject public id
	Type         string // "notice" | "general"
	Keyword      string
	KeywordField string // "title" | "content" | "" for both
}

// PostInput carries the fields of a new post.
type PostInput struct {
	Title     string
	Content   string
	SubjectID string // subject public id
	Type      string
}

// PostPatch carries a partial update; nil fields are left untouched.
type PostPatch struct {
	Title     *string
	Content   *string
	SubjectID *string
	Type      *string
}

// summarizePost reshapes a post row into a listing summary. Author and
// subject must resolve; their absence is corrupted state, not an empty field.
func summarizePost(db *gorm.DB, post *models.Post, viewer *models.User) (*PostSummary, error) {
	var author models.User
	if err := db.First(&author, post.AuthorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post %s references missing author %d: %w", post.PublicID, post.AuthorID, ErrDataIntegrity)
		}
		return nil, fmt.Errorf("lookup author: %w", err)
	}
	var subject models.Subject
	if err := db.First(&subject, post.SubjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post %s references missing subject %d: %w", post.PublicID, post.SubjectID, ErrDataIntegrity)
		}
		return nil, fmt.Errorf("lookup subject: %w", err)
	}

	likeCount, err := postLikeCount(db, post.ID)
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	isLiked := false
	if viewer != nil {
		isLiked, err = userLikedPost(db, viewer.ID, post.ID)
		if err != nil {
			return nil, fmt.Errorf("check like state: %w", err)
		}
	}
	var commentCount int64
	if err := db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount).Error; err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	return &PostSummary{
		ID:           post.PublicID,
		Title:        post.Title,
		Content:      post.Content,
		Type:         post.Type,
		Views:        post.Views,
		CreatedAt:    post.CreatedAt,
		UpdatedAt:    post.UpdatedAt,
		Author:       AuthorInfo{ID: author.PublicID, Name: author.Name},
		Subject:      SubjectInfo{ID: subject.PublicID, Name: subject.Name},
		LikeCount:    likeCount,
		IsLiked:      isLiked,
		CommentCount: commentCount,
	}, nil
}

// filteredQuery applies the filter with subject > type > keyword precedence.
// An unknown subject filter matches nothing; filtering is a pure read.
func (s *PostService) filteredQuery(filter PostFilter) (*gorm.DB, error) {
	q := s.db.Model(&models.Post{})
	switch {
	case filter.Subject != "":
		var subject models.Subject
		if err := s.db.Select("id").Where("public_id = ?", filter.Subject).First(&subject).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return q.Where("1 = 0"), nil
			}
			return nil, fmt.Errorf("lookup subject: %w", err)
		}
		return q.Where("subject_id = ?", subject.ID), nil
	case filter.Type != "":
		if !models.ValidPostType(filter.Type) {
			return nil, fmt.Errorf("unknown post type %q: %w", filter.Type, ErrInvalidArgument)
		}
		return q.Where("type = ?", filter.Type), nil
	case filter.Keyword != "":
		pattern := "%" + filter.Keyword + "%"
		switch filter.KeywordField {
		case "title":
			return q.Where("title LIKE ?", pattern), nil
		case "content":
			return q.Where("content LIKE ?", pattern), nil
		case "":
			return q.Where("title LIKE ? OR content LIKE ?", pattern, pattern), nil
		default:
			return nil, fmt.Errorf("unknown keyword field %q: %w", filter.KeywordField, ErrInvalidArgument)
		}
	}
	return q, nil
}

// List returns one cursor page of the filtered posts, newest first. The total
// is recomputed by a full count of the filtered set on every page request.
func (s *PostService) List(filter PostFilter, page PageOpts, viewerSubject string) (*PostPage, error) {
	q, err := s.filteredQuery(filter)
	if err != nil {
		return nil, err
	}
	return s.pageOf(q, page, viewerSubject)
}

// ListByAuthor returns one cursor page of a user's posts, newest first. An
// unknown author yields an empty page.
func (s *PostService) ListByAuthor(authorID string, page PageOpts, viewerSubject string) (*PostPage, error) {
	var author models.User
	if err := s.db.Select("id").Where("public_id = ?", authorID).First(&author).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &PostPage{Items: []PostSummary{}, IsDone: true}, nil
		}
		return nil, fmt.Errorf("lookup author: %w", err)
	}
	q := s.db.Model(&models.Post{}).Where("author_id = ?", author.ID)
	return s.pageOf(q, page, viewerSubject)
}

func (s *PostService) pageOf(q *gorm.DB, page PageOpts, viewerSubject string) (*PostPage, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	if page.Cursor != "" {
		cur, err := decodeCursor(page.Cursor)
		if err != nil {
			return nil, err
		}
		q = q.Where("created_at < ? OR (created_at = ? AND id < ?)", cur.LastCreated, cur.LastCreated, cur.LastID)
	}

	count := page.count()
	var posts []models.Post
	if err := q.Order("created_at DESC, id DESC").Limit(count + 1).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	isDone := len(posts) <= count
	if !isDone {
		posts = posts[:count]
	}

	viewer := resolveViewer(s.db, viewerSubject)
	items := make([]PostSummary, 0, len(posts))
	for i := range posts {
		summary, err := summarizePost(s.db, &posts[i], viewer)
		if err != nil {
			return nil, err
		}
		items = append(items, *summary)
	}

	result := &PostPage{Items: items, Total: total, IsDone: isDone}
	if !isDone && len(posts) > 0 {
		last := posts[len(posts)-1]
		result.NextCursor = encodeCursor(postCursor{LastCreated: last.CreatedAt, LastID: last.ID})
	}
	return result, nil
}

// Get returns the post with its two-level comment tree, or ErrNotFound. A
// missing post is a valid empty state; a post whose author or subject is gone
// is ErrDataIntegrity.
func (s *PostService) Get(publicID, viewerSubject string) (*PostDetail, error) {
	var post models.Post
	if err := s.db.Where("public_id = ?", publicID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup post: %w", err)
	}

	viewer := resolveViewer(s.db, viewerSubject)
	summary, err := summarizePost(s.db, &post, viewer)
	if err != nil {
		return nil, err
	}

	comments, total, err := commentTree(s.db, post.ID, viewer)
	if err != nil {
		return nil, err
	}
	// Detail reports the nested total: top-level comments plus their replies.
	summary.CommentCount = total

	return &PostDetail{PostSummary: *summary, Comments: comments}, nil
}

// Create inserts a post authored by the actor and returns its public id.
func (s *PostService) Create(actorSubject string, in PostInput) (string, error) {
	actor, err := requireActor(s.db, actorSubject)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(in.Title) == "" {
		return "", fmt.Errorf("title cannot be empty: %w", ErrInvalidArgument)
	}
	if !models.ValidPostType(in.Type) {
		return "", fmt.Errorf("unknown post type %q: %w", in.Type, ErrInvalidArgument)
	}
	var subject models.Subject
	if err := s.db.Where("public_id = ?", in.SubjectID).First(&subject).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("lookup subject: %w", err)
	}

	post := models.Post{
		AuthorID:  actor.ID,
		SubjectID: subject.ID,
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		Type:      in.Type,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return "", fmt.Errorf("create post: %w", err)
	}
	return post.PublicID, nil
}

// Update patches the given fields of the actor's own post.
func (s *PostService) Update(actorSubject, publicID string, patch PostPatch) error {
	actor, err := requireActor(s.db, actorSubject)
	if err != nil {
		return err
	}
	var post models.Post
	if err := s.db.Where("public_id = ?", publicID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("lookup post: %w", err)
	}
	if post.AuthorID != actor.ID {
		return ErrForbidden
	}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return fmt.Errorf("title cannot be empty: %w", ErrInvalidArgument)
		}
		post.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Content != nil {
		post.Content = *patch.Content
	}
	if patch.Type != nil {
		if !models.ValidPostType(*patch.Type) {
			return fmt.Errorf("unknown post type %q: %w", *patch.Type, ErrInvalidArgument)
		}
		post.Type = *patch.Type
	}
	if patch.SubjectID != nil {
		var subject models.Subject
		if err := s.db.Where("public_id = ?", *patch.SubjectID).First(&subject).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("lookup subject: %w", err)
		}
		post.SubjectID = subject.ID
	}

	if err := s.db.Save(&post).Error; err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes the actor's own post with full cascade: likes on the post,
// its comments, likes on those comments, then the post itself.
func (s *PostService) Delete(actorSubject, publicID string) error {
	actor, err := requireActor(s.db, actorSubject)
	if err != nil {
		return err
	}
	var post models.Post
	if err := s.db.Where("public_id = ?", publicID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("lookup post: %w", err)
	}
	if post.AuthorID != actor.ID {
		return ErrForbidden
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).Where("post_id = ?", post.ID).Pluck("id", &commentIDs).Error; err != nil {
			return fmt.Errorf("collect comments: %w", err)
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return fmt.Errorf("delete post likes: %w", err)
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&models.Like{}).Error; err != nil {
				return fmt.Errorf("delete comment likes: %w", err)
			}
			if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
				return fmt.Errorf("delete comments: %w", err)
			}
		}
		if err := tx.Delete(&post).Error; err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		return nil
	})
}

// IncrementViews bumps the view counter with a single UPDATE expression.
// Best-effort by contract; no auth required.
func (s *PostService) IncrementViews(publicID string) error {
	res := s.db.Model(&models.Post{}).Where("public_id = ?", publicID).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return fmt.Errorf("increment views: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
