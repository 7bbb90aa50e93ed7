package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yoonsu/baedalgo-backend/config"
	"github.com/yoonsu/baedalgo-backend/internal/app/controller"
	"github.com/yoonsu/baedalgo-backend/internal/middleware"
)

type Router struct {
	authController         *controller.AuthController
	userController         *controller.UserController
	restaurantController   *controller.RestaurantController
	verificationController *controller.VerificationController
	uploadController       *controller.UploadController
	eventsController       *controller.EventsController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	userController *controller.UserController,
	restaurantController *controller.RestaurantController,
	verificationController *controller.VerificationController,
	uploadController *controller.UploadController,
	eventsController *controller.EventsController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		userController:         userController,
		restaurantController:   restaurantController,
		verificationController: verificationController,
		uploadController:       uploadController,
		eventsController:       eventsController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "BAEDALGO API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.Refresh)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
		}

		users := v1.Group("/users", r.authMiddleware.Authenticate())
		{
			users.GET("/me", r.userController.GetMe)
			users.PUT("/me", r.userController.UpdateMe)
			users.PUT("/me/password", r.userController.ChangePassword)
			users.DELETE("/me", r.userController.DeleteMe)
		}

		restaurants := v1.Group("/restaurants")
		{
			restaurants.GET("", r.restaurantController.ListRestaurants)
			restaurants.GET("/mine",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("operator", "admin"),
				r.restaurantController.GetMyRestaurants,
			)
			restaurants.GET("/:id", r.restaurantController.GetRestaurant)
			restaurants.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("operator", "admin"),
				r.restaurantController.CreateRestaurant,
			)
			restaurants.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("operator", "admin"),
				r.restaurantController.UpdateRestaurant,
			)
			restaurants.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("operator", "admin"),
				r.restaurantController.DeleteRestaurant,
			)
			restaurants.PATCH("/:id/status",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("operator", "admin"),
				r.restaurantController.ChangeStatus,
			)

			restaurants.GET("/:id/documents",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("operator", "admin"),
				r.verificationController.GetDocuments,
			)
			restaurants.POST("/:id/documents",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("operator", "admin"),
				r.verificationController.SubmitDocument,
			)
		}

		admin := v1.Group("/admin",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole("admin"),
		)
		{
			admin.GET("/verifications", r.verificationController.ListQueue)
			admin.GET("/verifications/pending-count", r.verificationController.PendingCount)
			admin.GET("/verifications/events", r.eventsController.Subscribe)
			admin.PATCH("/restaurants/:id/verification", r.verificationController.DecideRestaurant)
			admin.PATCH("/documents/:id/verification", r.verificationController.DecideDocument)
		}

		uploads := v1.Group("/uploads", r.authMiddleware.Authenticate())
		{
			uploads.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
