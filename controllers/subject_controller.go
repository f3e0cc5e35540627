package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/marulab/maruboard/services"
	"github.com/marulab/maruboard/utils"
)

// SubjectController exposes the public subject listing and the
// admin-key-guarded subject administration.
type SubjectController struct {
	subjects *services.SubjectService
}

// NewSubjectController creates a new SubjectController instance.
func NewSubjectController(db *gorm.DB) *SubjectController {
	return &SubjectController{subjects: services.NewSubjectService(db)}
}

// List returns all subjects.
func (c *SubjectController) List(ctx *gin.Context) {
	subjects, err := c.subjects.List()
	if err != nil {
		handleServiceError(ctx, err, 50060)
		return
	}
	utils.Success(ctx, gin.H{"subjects": subjects})
}

// Create adds a subject.
func (c *SubjectController) Create(ctx *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid request payload")
		return
	}

	id, err := c.subjects.Create(req.Name, req.Description)
	if err != nil {
		handleServiceError(ctx, err, 50061)
		return
	}
	utils.InvalidateByPrefix("cache:posts:list:")
	utils.Success(ctx, gin.H{"id": id})
}

// Update renames a subject or changes its description.
func (c *SubjectController) Update(ctx *gin.Context) {
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40061, "invalid request payload")
		return
	}

	if err := c.subjects.Update(ctx.Param("id"), req.Name, req.Description); err != nil {
		handleServiceError(ctx, err, 50062)
		return
	}
	utils.InvalidateByPrefix("cache:posts:list:")
	utils.InvalidateByPrefix("cache:post:detail:")
	utils.Success(ctx, gin.H{"message": "subject updated"})
}

// Remove deletes a subject that no posts reference.
func (c *SubjectController) Remove(ctx *gin.Context) {
	if err := c.subjects.Remove(ctx.Param("id")); err != nil {
		handleServiceError(ctx, err, 50063)
		return
	}
	utils.Success(ctx, gin.H{"message": "subject removed"})
}
