package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/marulab/maruboard/middleware"
	"github.com/marulab/maruboard/services"
	"github.com/marulab/maruboard/utils"
)

// PostController exposes post listings, detail aggregation and the
// author-guarded post mutations.
type PostController struct {
	posts *services.PostService
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{posts: services.NewPostService(db)}
}

// cachedResponse wraps a payload in the standard envelope for caching.
type cachedResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// List returns one cursor page of posts. Filters: ?subject=, ?type=,
// ?keyword= (+ optional ?field=title|content), applied in that precedence.
func (p *PostController) List(ctx *gin.Context) {
	filter := services.PostFilter{
		Subject:      strings.TrimSpace(ctx.Query("subject")),
		Type:         strings.TrimSpace(ctx.Query("type")),
		Keyword:      strings.TrimSpace(ctx.Query("keyword")),
		KeywordField: strings.TrimSpace(ctx.Query("field")),
	}
	page := pageOpts(ctx)
	viewer := middleware.Subject(ctx)

	// Only anonymous, non-keyword pages are cached; keyword queries would
	// explode the key space and authenticated responses carry viewer state.
	cacheable := viewer == "" && filter.Keyword == ""
	cacheKey := fmt.Sprintf("cache:posts:list:subject=%s:type=%s:count=%d:cursor=%s",
		filter.Subject, filter.Type, page.Count, page.Cursor)
	if cacheable {
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	result, err := p.posts.List(filter, page, viewer)
	if err != nil {
		handleServiceError(ctx, err, 50021)
		return
	}

	if cacheable {
		utils.CacheSetJSON(cacheKey, cachedResponse{Code: 0, Message: "success", Data: result}, time.Hour)
	}
	utils.Success(ctx, result)
}

// ListByAuthor returns one cursor page of a user's posts.
func (p *PostController) ListByAuthor(ctx *gin.Context) {
	result, err := p.posts.ListByAuthor(ctx.Param("id"), pageOpts(ctx), middleware.Subject(ctx))
	if err != nil {
		handleServiceError(ctx, err, 50022)
		return
	}
	utils.Success(ctx, result)
}

// Get returns a post with its comment tree. A missing post is 404, not an
// internal error.
func (p *PostController) Get(ctx *gin.Context) {
	postID := ctx.Param("id")
	viewer := middleware.Subject(ctx)

	cacheKey := "cache:post:detail:" + postID
	if viewer == "" {
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	detail, err := p.posts.Get(postID, viewer)
	if err != nil {
		handleServiceError(ctx, err, 50023)
		return
	}

	if viewer == "" {
		utils.CacheSetJSON(cacheKey, cachedResponse{Code: 0, Message: "success", Data: detail}, time.Hour)
	}
	utils.Success(ctx, detail)
}

// Create inserts a new post authored by the caller.
func (p *PostController) Create(ctx *gin.Context) {
	var req struct {
		Title     string `json:"title" binding:"required,min=1"`
		Content   string `json:"content" binding:"required"`
		SubjectID string `json:"subject_id" binding:"required"`
		Type      string `json:"type" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	id, err := p.posts.Create(middleware.Subject(ctx), services.PostInput{
		Title:     utils.Sanitize(req.Title),
		Content:   utils.Sanitize(req.Content),
		SubjectID: req.SubjectID,
		Type:      req.Type,
	})
	if err != nil {
		handleServiceError(ctx, err, 50024)
		return
	}

	utils.InvalidateByPrefix("cache:posts:list:")
	utils.Success(ctx, gin.H{"id": id})
}

// Update patches the caller's own post.
func (p *PostController) Update(ctx *gin.Context) {
	var req struct {
		Title     *string `json:"title"`
		Content   *string `json:"content"`
		SubjectID *string `json:"subject_id"`
		Type      *string `json:"type"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid request payload")
		return
	}

	patch := services.PostPatch{SubjectID: req.SubjectID, Type: req.Type}
	if req.Title != nil {
		clean := utils.Sanitize(*req.Title)
		patch.Title = &clean
	}
	if req.Content != nil {
		clean := utils.Sanitize(*req.Content)
		patch.Content = &clean
	}

	postID := ctx.Param("id")
	if err := p.posts.Update(middleware.Subject(ctx), postID, patch); err != nil {
		handleServiceError(ctx, err, 50025)
		return
	}

	utils.InvalidateByPrefix("cache:posts:list:")
	utils.InvalidateByPrefix("cache:post:detail:" + postID)
	utils.Success(ctx, gin.H{"message": "post updated"})
}

// Delete removes the caller's own post with full cascade.
func (p *PostController) Delete(ctx *gin.Context) {
	postID := ctx.Param("id")
	if err := p.posts.Delete(middleware.Subject(ctx), postID); err != nil {
		handleServiceError(ctx, err, 50026)
		return
	}

	utils.InvalidateByPrefix("cache:posts:list:")
	utils.InvalidateByPrefix("cache:post:detail:" + postID)
	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// IncrementViews bumps the view counter. No auth; best-effort by contract.
func (p *PostController) IncrementViews(ctx *gin.Context) {
	postID := ctx.Param("id")
	if err := p.posts.IncrementViews(postID); err != nil {
		handleServiceError(ctx, err, 50027)
		return
	}
	utils.InvalidateByPrefix("cache:post:detail:" + postID)
	utils.Success(ctx, gin.H{"message": "views incremented"})
}
