package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/marulab/maruboard/middleware"
	"github.com/marulab/maruboard/services"
	"github.com/marulab/maruboard/utils"
)

// UserController exposes the caller's profile, the identity-provider sync
// webhook and administrative user removal.
type UserController struct {
	users *services.UserService
}

// NewUserController creates a new UserController instance.
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{users: services.NewUserService(db)}
}

// Me returns the caller's profile. A verified subject without a user record
// reads back registered=false so the client can trigger a sync.
func (c *UserController) Me(ctx *gin.Context) {
	subject := middleware.Subject(ctx)
	if subject == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40170, "authentication required")
		return
	}

	user := c.users.ResolveViewer(subject)
	if user == nil {
		utils.Success(ctx, gin.H{"registered": false})
		return
	}
	utils.Success(ctx, gin.H{
		"registered": true,
		"id":         user.PublicID,
		"name":       user.Name,
		"created_at": user.CreatedAt,
	})
}

// Webhook applies user lifecycle events pushed by the identity provider.
func (c *UserController) Webhook(ctx *gin.Context) {
	var req struct {
		Type string `json:"type" binding:"required"`
		Data struct {
			ExternalID string `json:"external_id" binding:"required"`
			Name       string `json:"name"`
		} `json:"data" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid webhook payload")
		return
	}

	switch req.Type {
	case "user.created", "user.updated":
		user, err := c.users.SyncFromIdentity(req.Data.ExternalID, req.Data.Name)
		if err != nil {
			handleServiceError(ctx, err, 50070)
			return
		}
		utils.Success(ctx, gin.H{"id": user.PublicID})
	case "user.deleted":
		if err := c.users.RemoveByExternalID(req.Data.ExternalID); err != nil {
			handleServiceError(ctx, err, 50071)
			return
		}
		utils.Success(ctx, gin.H{"message": "user removed"})
	default:
		utils.Error(ctx, http.StatusBadRequest, 40071, "unknown event type")
	}
}

// AdminRemove deletes a user by identity-provider subject. Admin only.
func (c *UserController) AdminRemove(ctx *gin.Context) {
	if err := c.users.RemoveByExternalID(ctx.Param("externalId")); err != nil {
		handleServiceError(ctx, err, 50072)
		return
	}
	utils.Success(ctx, gin.H{"message": "user removed"})
}
