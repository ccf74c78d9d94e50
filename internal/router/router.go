package router

import (
	"net/http"
	"time"

	"github.com/closetly/wardrobe-backend/config"
	"github.com/closetly/wardrobe-backend/internal/app/controller"
	"github.com/closetly/wardrobe-backend/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Router struct {
	itemController   *controller.ItemController
	uploadController *controller.UploadController
	tagController    *controller.TagController
	config           *config.Config
}

func NewRouter(
	itemController *controller.ItemController,
	uploadController *controller.UploadController,
	tagController *controller.TagController,
	cfg *config.Config,
) *Router {
	return &Router{
		itemController:   itemController,
		uploadController: uploadController,
		tagController:    tagController,
		config:           cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "hello"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "wardrobe API is running",
		})
	})

	if r.config.Storage.Driver == config.StorageLocal {
		uploads := router.Group(r.config.Storage.LocalBaseURL, noSniff)
		uploads.Static("", r.config.Storage.LocalDir)
	}

	items := router.Group("/items")
	{
		items.GET("", r.itemController.ListItems)
		items.GET("/export", r.itemController.ExportItems)
		items.GET("/:id", r.itemController.GetItem)
		items.POST("", r.itemController.CreateItem)
		items.DELETE("/:id", r.itemController.DeleteItem)
	}

	upload := router.Group("/upload")
	{
		upload.POST("", r.uploadController.UploadImage)
		upload.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
	}

	router.GET("/tags", r.tagController.GetVocabulary)

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			cfg.AllowOriginFunc = func(string) bool { return true }
			return cors.New(cfg)
		}
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return false }
		return cors.New(cfg)
	}
	cfg.AllowOrigins = allowedOrigins
	return cors.New(cfg)
}

// noSniff keeps browsers from rendering stored objects as anything but their served type.
func noSniff(c *gin.Context) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.Next()
}
