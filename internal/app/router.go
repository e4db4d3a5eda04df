// Package app assembles the HTTP surface of the game server.
package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "ratrace/internal/docs" // Import swagger docs
	"ratrace/internal/handlers"
	"ratrace/internal/middleware"
	"ratrace/internal/services"
)

// Options holds the router's security and maintenance settings.
type Options struct {
	JWTSecret   []byte
	AdminAPIKey string
	Retention   time.Duration
}

// NewRouter wires services, handlers and middleware into a Gin engine.
func NewRouter(db *gorm.DB, runner *services.GameRunner, opts Options) *gin.Engine {
	// Initialize services
	gameService := services.NewGameService(runner)
	turnService := services.NewTurnService(runner)
	portfolioService := services.NewPortfolioService(runner)
	historyService := services.NewHistoryService(db)
	adminService := services.NewAdminService(db)

	// Initialize handlers
	gameHandler := handlers.NewGameHandler(gameService)
	turnHandler := handlers.NewTurnHandler(turnService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	historyHandler := handlers.NewHistoryHandler(historyService)
	adminHandler := handlers.NewAdminHandler(adminService, opts.Retention)
	professionHandler := handlers.NewProfessionHandler(runner.Engine().Catalog())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Idempotency-Key, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Admin routes
	admin := v1.Group("/admin")
	admin.Use(middleware.AdminAuthMiddleware(opts.AdminAPIKey))
	admin.POST("/games/purge", adminHandler.PurgeCompleted)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(opts.JWTSecret))

	protected.GET("/professions", professionHandler.ListProfessions)

	games := protected.Group("/games")
	games.POST("", gameHandler.CreateGame)
	games.GET("", gameHandler.ListGames)
	games.GET("/:id", gameHandler.GetGame)
	games.DELETE("/:id", gameHandler.DeleteGame)
	games.POST("/:id/end", gameHandler.EndGame)
	games.GET("/:id/statement", gameHandler.GetStatement)

	games.POST("/:id/roll", turnHandler.RollDice)
	games.POST("/:id/draw", turnHandler.DrawCard)
	games.POST("/:id/charity", turnHandler.ResolveCharity)
	games.POST("/:id/end-turn", turnHandler.EndTurn)

	games.POST("/:id/purchase", portfolioHandler.Purchase)
	games.POST("/:id/pass", portfolioHandler.PassCard)
	games.POST("/:id/sell", portfolioHandler.Sell)
	games.POST("/:id/doodads", portfolioHandler.BuyDoodad)
	games.POST("/:id/doodads/pass", portfolioHandler.PassDoodad)
	games.POST("/:id/loans", portfolioHandler.TakeLoan)
	games.POST("/:id/loans/:loanId/payoff", portfolioHandler.PayOffLoan)

	games.GET("/:id/events", historyHandler.ListEvents)
	games.GET("/:id/snapshots", historyHandler.ListSnapshots)

	return router
}
