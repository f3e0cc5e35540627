package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/marulab/maruboard/config"
	"github.com/marulab/maruboard/controllers"
	"github.com/marulab/maruboard/middleware"
	"github.com/marulab/maruboard/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, verifier utils.Verifier) *gin.Engine {
	// Load config and set Gin mode from configuration
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(ginzap.Ginzap(gl, time.RFC3339, true))
		r.Use(ginzap.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Admin-Key", "X-Webhook-Secret"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	postController := controllers.NewPostController(db)
	commentController := controllers.NewCommentController(db)
	likeController := controllers.NewLikeController(db)
	subjectController := controllers.NewSubjectController(db)
	userController := controllers.NewUserController(db)

	api := r.Group("/api/v1")

	// Public and viewer-aware reads. The optional identity only personalizes
	// the like state on listings.
	api.GET("/subjects", subjectController.List)
	api.GET("/posts", middleware.OptionalAuth(verifier), postController.List)
	api.GET("/posts/:id", middleware.OptionalAuth(verifier), postController.Get)
	api.GET("/posts/:id/comments", middleware.OptionalAuth(verifier), commentController.ListByPost)
	api.GET("/posts/:id/likers", likeController.PostLikers)
	api.POST("/posts/:id/views", postController.IncrementViews)
	api.GET("/users/:id/posts", postController.ListByAuthor)
	api.GET("/users/:id/comments", commentController.ListByAuthor)
	api.GET("/likes/count", likeController.Count)
	api.GET("/likes/state", middleware.OptionalAuth(verifier), likeController.State)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(verifier), middleware.RateLimitMiddleware())
	protected.GET("/me", userController.Me)
	protected.GET("/me/likes/posts", likeController.MyLikedPosts)
	protected.GET("/me/likes/comments", likeController.MyLikedComments)
	protected.POST("/posts", postController.Create)
	protected.PATCH("/posts/:id", postController.Update)
	protected.DELETE("/posts/:id", postController.Delete)
	protected.POST("/posts/:id/comments", commentController.Create)
	protected.PATCH("/comments/:id", commentController.Update)
	protected.DELETE("/comments/:id", commentController.Delete)
	protected.POST("/likes/toggle", likeController.Toggle)

	admin := api.Group("")
	admin.Use(middleware.AdminRequired())
	admin.POST("/subjects", subjectController.Create)
	admin.PATCH("/subjects/:id", subjectController.Update)
	admin.DELETE("/subjects/:id", subjectController.Remove)
	admin.DELETE("/admin/users/:externalId", userController.AdminRemove)

	api.POST("/identity/webhook", middleware.WebhookSecretRequired(), userController.Webhook)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
