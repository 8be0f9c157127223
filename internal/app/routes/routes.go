package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arjun/loanflow/internal/app/controllers"
	"github.com/arjun/loanflow/internal/middleware"
	"github.com/arjun/loanflow/internal/pkg/metrics"
)

// SetupRouter configures all application routes. Paths mirror the public
// API contract: applicant intake under /user, reviewer operations under
// /banker behind JWT auth.
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	applicationController *controllers.ApplicationController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", metrics.Handler())

	auth := router.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	user := router.Group("/user")
	{
		user.POST("/apply", applicationController.Apply)
	}

	banker := router.Group("/banker")
	banker.Use(authMiddleware.JWTAuth())
	{
		banker.GET("/applications", applicationController.ListApplications)
		banker.GET("/applications/:id", applicationController.GetApplication)
		banker.POST("/applications/:id/verify", applicationController.VerifyApplication)
		banker.POST("/applications/:id/analyze", applicationController.AnalyzeApplication)
		banker.POST("/applications/:id/decision", applicationController.DecideApplication)
	}
}
