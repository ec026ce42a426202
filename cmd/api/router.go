package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ecowaste-backend/internal/shared/middleware"
	"ecowaste-backend/pkg/container"
)

// setupRouter builds the gin engine with all route groups
func setupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())

	// Health check - verifies the process and its dependencies
	router.GET("/health", func(ctx *gin.Context) {
		status := http.StatusOK
		dbStatus := "up"
		cacheStatus := "up"

		if err := c.DB.Ping(ctx.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			dbStatus = "down"
		}
		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			cacheStatus = "down"
		}

		ctx.JSON(status, gin.H{
			"status":   http.StatusText(status),
			"app":      c.Config.App.Name,
			"version":  c.Config.App.Version,
			"database": dbStatus,
			"cache":    cacheStatus,
		})
	})

	v1 := router.Group("/api/v1")

	auth := middleware.AuthMiddleware(c.JWTManager, c.UserRepo)
	employee := middleware.EmployeeMiddleware()

	setupAuthRoutes(v1, c, auth)
	setupUserRoutes(v1, c, auth)
	setupDustbinRoutes(v1, c, auth, employee)
	setupReportRoutes(v1, c, auth, employee)
	setupIncidentRoutes(v1, c, auth, employee)
	setupRewardsRoutes(v1, c, auth, employee)

	return router
}

func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", c.UserHandler.Register)
		authGroup.POST("/login", c.UserHandler.Login)
		authGroup.POST("/logout", auth, c.UserHandler.Logout)
	}
}

func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	users := v1.Group("/users", auth)
	{
		users.GET("/me", c.UserHandler.GetProfile)
		users.GET("/me/settings", c.UserHandler.GetSettings)
		users.PUT("/me/settings", c.UserHandler.UpdateSettings)
	}
}

func setupDustbinRoutes(v1 *gin.RouterGroup, c *container.Container, auth, employee gin.HandlerFunc) {
	dustbins := v1.Group("/dustbins", auth)
	{
		dustbins.GET("", c.DustbinHandler.List)
		dustbins.GET("/:id", c.DustbinHandler.GetByID)

		// Employee-only mutations
		dustbins.POST("", employee, c.DustbinHandler.Create)
		dustbins.PATCH("/:id", employee, c.DustbinHandler.Update)
	}
}

func setupReportRoutes(v1 *gin.RouterGroup, c *container.Container, auth, employee gin.HandlerFunc) {
	reports := v1.Group("/reports", auth)
	{
		reports.POST("", c.ReportHandler.Create)
		reports.GET("", c.ReportHandler.List)
		reports.GET("/:id", c.ReportHandler.GetByID)

		// Verification is the employee-only write path
		reports.PATCH("/:id/verify", employee, c.ReportHandler.Verify)
	}
}

func setupIncidentRoutes(v1 *gin.RouterGroup, c *container.Container, auth, employee gin.HandlerFunc) {
	incidents := v1.Group("/incidents", auth)
	{
		incidents.POST("", c.IncidentHandler.Create)
		incidents.GET("", c.IncidentHandler.List)
		incidents.GET("/:id", c.IncidentHandler.GetByID)

		incidents.PATCH("/:id/status", employee, c.IncidentHandler.UpdateStatus)
		incidents.POST("/:id/reward", employee, c.IncidentHandler.Award)
	}
}

func setupRewardsRoutes(v1 *gin.RouterGroup, c *container.Container, auth, employee gin.HandlerFunc) {
	rewards := v1.Group("/rewards", auth)
	{
		rewards.GET("/summary", c.RewardsHandler.GetSummary)
		rewards.POST("/withdraw", c.RewardsHandler.Withdraw)
		rewards.GET("/withdrawals", c.RewardsHandler.ListWithdrawals)

		rewards.GET("/withdrawals/export", employee, c.RewardsHandler.ExportWithdrawals)
	}
}
