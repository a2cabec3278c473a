package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/bookreview/internal/config"
	"github.com/EgehanKilicarslan/bookreview/internal/handler"
	"github.com/EgehanKilicarslan/bookreview/internal/metrics"
	"github.com/EgehanKilicarslan/bookreview/internal/middleware"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Auth   *handler.AuthHandler
	Book   *handler.BookHandler
	Review *handler.ReviewHandler
}

func SetupRouter(
	cfg *config.Config,
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	appMetrics *metrics.Metrics,
) *gin.Engine {
	r := gin.Default()
	r.SetTrustedProxies(nil)
	r.Use(middleware.RequestMetrics(appMetrics))

	r.GET("/metrics", gin.WrapH(appMetrics.Handler()))

	prefix := r.Group(cfg.APIPrefix())

	// Public routes
	prefix.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := prefix.Group("/auth")
	{
		authGroup.POST("/signup", handlers.Auth.Signup)
		authGroup.POST("/login", handlers.Auth.Login)
	}

	requireAuth := authMiddleware.RequireAuth()

	bookGroup := prefix.Group("/book")
	{
		bookGroup.POST("/add-book", requireAuth, handlers.Book.AddBook)
		bookGroup.GET("/get-books", handlers.Book.ListBooks)
		bookGroup.GET("/get-book/:id", handlers.Book.GetBook)
		bookGroup.GET("/search", handlers.Book.SearchBooks)
	}

	// Protected review routes
	reviewGroup := prefix.Group("/review")
	reviewGroup.Use(requireAuth)
	{
		reviewGroup.POST("/books/:id/add-reviews", handlers.Review.AddReview)
		reviewGroup.PUT("/update-review/:id", handlers.Review.UpdateReview)
		reviewGroup.DELETE("/delete-review/:id", handlers.Review.DeleteReview)
	}

	return r
}
