// Package router wires services, handlers and middleware into the HTTP API.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"haushaltsbuch/internal/auth"
	_ "haushaltsbuch/internal/docs" // Import swagger docs
	"haushaltsbuch/internal/handlers"
	"haushaltsbuch/internal/metrics"
	"haushaltsbuch/internal/middleware"
	"haushaltsbuch/internal/services"
	"haushaltsbuch/internal/store"
)

// Deps holds what the router needs to build the application stack.
type Deps struct {
	Repo        *store.Repository
	Hasher      *auth.PasswordHasher
	Tokens      *auth.TokenManager
	Metrics     *metrics.Metrics
	StaticDir   string
	CORSOrigins []string
}

// New builds the gin engine with every route registered.
func New(d Deps) *gin.Engine {
	// Initialize services
	userService := services.NewUserService(d.Repo, d.Hasher)
	lineService := services.NewLineService(d.Repo)
	categoryService := services.NewCategoryService(d.Repo)
	reportService := services.NewReportService(d.Repo)
	auditService := services.NewAuditService()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, d.Tokens)
	lineHandler := handlers.NewLineHandler(lineService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	reportHandler := handlers.NewReportHandler(reportService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(d.CORSOrigins))
	if d.Metrics != nil {
		router.Use(d.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Static frontend
	if d.StaticDir != "" {
		router.Static("/static", d.StaticDir)
	}
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusTemporaryRedirect, "/static/index.html")
	})

	// Public auth routes
	authGroup := router.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// Protected routes
	protected := router.Group("/")
	protected.Use(middleware.AuthMiddleware(d.Tokens, userService))

	protected.GET("/me", authHandler.Me)

	api := protected.Group("/api")

	lines := api.Group("/lines")
	lines.GET("", lineHandler.ListLines)
	lines.POST("", lineHandler.CreateLine)
	lines.GET("/:id", lineHandler.GetLine)
	lines.PUT("/:id", lineHandler.UpdateLine)
	lines.DELETE("/:id", lineHandler.DeleteLine)
	lines.POST("/:id/subitems", lineHandler.AddSubitem)
	lines.DELETE("/:id/subitems/:sub_id", lineHandler.DeleteSubitem)

	categories := api.Group("/categories")
	categories.GET("", categoryHandler.GetUserCategories)
	categories.POST("/rename", categoryHandler.RenameCategory)
	categories.DELETE("/:name", categoryHandler.DeleteCategory)

	api.GET("/summary", reportHandler.GetSummary)
	api.GET("/groups", reportHandler.GetGroups)

	return router
}
