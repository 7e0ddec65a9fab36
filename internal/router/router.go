package router

import (
	"modqueue/internal/config"
	"modqueue/internal/handler"
	"modqueue/internal/mailer"
	"modqueue/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and the API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB, m mailer.Service) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret
	jwtIssuer := cfg.JWT.Issuer

	authHandler := handler.NewAuthHandler(db, jwtSecret, jwtIssuer, m)
	postHandler := handler.NewPostHandler(db)
	userHandler := handler.NewUserHandler(db, m)
	exportHandler := handler.NewExportHandler(db)

	// public: login and the invitation credential-setup path
	api.POST("/login", authHandler.Login)
	api.POST("/set-password", authHandler.SetPassword)

	// authenticated
	protected := api.Group("")
	protected.Use(middleware.Auth(jwtSecret, jwtIssuer, db))

	protected.POST("/me/password", authHandler.SetMyPassword)
	protected.POST("/logout", authHandler.Logout)
	protected.POST("/posts", postHandler.CreatePost)
	protected.GET("/posts/my-posts", postHandler.MyPosts)

	// admin-only
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireAdmin())

	admin.POST("/users", userHandler.CreateUser)
	admin.GET("/users", userHandler.ListUsers)
	admin.PATCH("/users/:id/deactivate", userHandler.DeactivateUser)

	admin.GET("/posts", postHandler.AllPosts)
	admin.PATCH("/posts/:id/approve", postHandler.ApprovePost)
	admin.PATCH("/posts/:id/reject", postHandler.RejectPost)

	admin.GET("/posts/export/csv", exportHandler.ExportCSV)
	admin.GET("/posts/export/xlsx", exportHandler.ExportXLSX)

	return r
}
