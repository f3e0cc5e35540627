package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/marulab/maruboard/middleware"
	"github.com/marulab/maruboard/models"
	"github.com/marulab/maruboard/services"
	"github.com/marulab/maruboard/utils"
)

// LikeController exposes the like toggle and the like read endpoints.
type LikeController struct {
	likes *services.LikeService
}

// NewLikeController creates a new LikeController instance.
func NewLikeController(db *gorm.DB) *LikeController {
	return &LikeController{likes: services.NewLikeService(db)}
}

// Toggle flips the caller's like on a post or comment.
func (c *LikeController) Toggle(ctx *gin.Context) {
	var req struct {
		TargetID string `json:"target_id" binding:"required"`
		Kind     string `json:"kind" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}

	if err := c.likes.Toggle(middleware.Subject(ctx), req.TargetID, req.Kind); err != nil {
		handleServiceError(ctx, err, 50050)
		return
	}

	// Like counts ride on the cached list/detail payloads.
	utils.InvalidateByPrefix("cache:posts:list:")
	utils.InvalidateByPrefix("cache:post:detail:")
	utils.Success(ctx, gin.H{"message": "toggled"})
}

// Count returns the like total of a post or comment.
func (c *LikeController) Count(ctx *gin.Context) {
	count, err := c.likes.Count(ctx.Query("target"), ctx.Query("kind"))
	if err != nil {
		handleServiceError(ctx, err, 50051)
		return
	}
	utils.Success(ctx, gin.H{"count": count})
}

// State reports whether the caller has liked the target. Anonymous callers
// always read false.
func (c *LikeController) State(ctx *gin.Context) {
	liked, err := c.likes.IsLiked(middleware.Subject(ctx), ctx.Query("target"), ctx.Query("kind"))
	if err != nil {
		handleServiceError(ctx, err, 50052)
		return
	}
	utils.Success(ctx, gin.H{"liked": liked})
}

// PostLikers lists the users who liked a post.
func (c *LikeController) PostLikers(ctx *gin.Context) {
	users, err := c.likes.LikedUsers(ctx.Param("id"), models.LikeKindPost)
	if err != nil {
		handleServiceError(ctx, err, 50053)
		return
	}
	utils.Success(ctx, gin.H{"users": users})
}

// MyLikedPosts lists the posts the caller has liked, newest like first.
func (c *LikeController) MyLikedPosts(ctx *gin.Context) {
	posts, err := c.likes.LikedPosts(middleware.Subject(ctx))
	if err != nil {
		handleServiceError(ctx, err, 50054)
		return
	}
	utils.Success(ctx, gin.H{"posts": posts})
}

// MyLikedComments lists the comments the caller has liked.
func (c *LikeController) MyLikedComments(ctx *gin.Context) {
	comments, err := c.likes.LikedComments(middleware.Subject(ctx))
	if err != nil {
		handleServiceError(ctx, err, 50055)
		return
	}
	utils.Success(ctx, gin.H{"comments": comments})
}
