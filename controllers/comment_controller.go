package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/marulab/maruboard/middleware"
	"github.com/marulab/maruboard/services"
	"github.com/marulab/maruboard/utils"
)

// CommentController exposes the comment tree and the author-guarded comment
// mutations.
type CommentController struct {
	comments *services.CommentService
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{comments: services.NewCommentService(db)}
}

// ListByPost returns the two-level comment tree of a post.
func (c *CommentController) ListByPost(ctx *gin.Context) {
	tree, err := c.comments.ListByPost(ctx.Param("id"), middleware.Subject(ctx))
	if err != nil {
		handleServiceError(ctx, err, 50040)
		return
	}
	utils.Success(ctx, gin.H{"comments": tree})
}

// ListByAuthor returns a user's comments with post titles attached.
func (c *CommentController) ListByAuthor(ctx *gin.Context) {
	comments, err := c.comments.ListByAuthor(ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err, 50041)
		return
	}
	utils.Success(ctx, gin.H{"comments": comments})
}

// Create inserts a comment, or a reply when parent_id is set.
func (c *CommentController) Create(ctx *gin.Context) {
	var req struct {
		Content  string `json:"content" binding:"required"`
		ParentID string `json:"parent_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	postID := ctx.Param("id")
	id, err := c.comments.Create(middleware.Subject(ctx), postID, utils.Sanitize(req.Content), req.ParentID)
	if err != nil {
		handleServiceError(ctx, err, 50042)
		return
	}

	utils.InvalidateByPrefix("cache:post:detail:" + postID)
	utils.Success(ctx, gin.H{"id": id})
}

// Update replaces the content of the caller's own comment.
func (c *CommentController) Update(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "invalid request payload")
		return
	}

	if err := c.comments.Update(middleware.Subject(ctx), ctx.Param("id"), utils.Sanitize(req.Content)); err != nil {
		handleServiceError(ctx, err, 50043)
		return
	}
	utils.InvalidateByPrefix("cache:post:detail:")
	utils.Success(ctx, gin.H{"message": "comment updated"})
}

// Delete removes the caller's own comment, cascading to its replies and
// their likes.
func (c *CommentController) Delete(ctx *gin.Context) {
	if err := c.comments.Delete(middleware.Subject(ctx), ctx.Param("id")); err != nil {
		handleServiceError(ctx, err, 50044)
		return
	}
	utils.InvalidateByPrefix("cache:post:detail:")
	utils.Success(ctx, gin.H{"message": "comment deleted"})
}
