package routes

import (
	"food-marketplace-api/handlers"
	"food-marketplace-api/middleware"
	"food-marketplace-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// Every request gets a resolved (possibly anonymous) principal.
	r.Use(middleware.Authenticate())

	api := r.Group("/api")

	// ── Public routes ──────────────────────────────────────────────
	api.POST("/auth/register", handlers.Register)
	api.POST("/auth/login", handlers.Login)

	api.GET("/restaurants", handlers.ListRestaurants)
	api.GET("/menuitems", handlers.ListMenuItems)
	api.GET("/menuitems/:id", handlers.GetMenuItem)
	api.GET("/reviews", handlers.ListReviews)

	// ── Authenticated routes ───────────────────────────────────────
	authed := api.Group("")
	authed.Use(middleware.RequireAuth())
	{
		authed.POST("/auth/logout", handlers.Logout)
		authed.GET("/auth/me", handlers.GetCurrentUser)
		authed.GET("/profile", handlers.GetProfile)
		authed.PUT("/profile", handlers.UpdateProfile)

		// Ownership and role checks happen in the handlers via policy.
		authed.POST("/restaurants", handlers.CreateRestaurant)
		authed.PUT("/restaurants/:id", handlers.UpdateRestaurant)
		authed.DELETE("/restaurants/:id", handlers.DeleteRestaurant)

		authed.POST("/menuitems", handlers.CreateMenuItem)
		authed.PUT("/menuitems/:id", handlers.UpdateMenuItem)
		authed.DELETE("/menuitems/:id", handlers.DeleteMenuItem)

		authed.GET("/orders/:id", handlers.GetOrder)
		authed.PATCH("/orders/:id/status", handlers.UpdateOrderStatus)
		authed.PUT("/orders/:id/status", handlers.UpdateOrderStatus)

		authed.POST("/reviews", handlers.CreateReview)
		authed.PUT("/reviews/:id", handlers.UpdateReview)
		authed.DELETE("/reviews/:id", handlers.DeleteReview)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := api.Group("")
	customer.Use(middleware.RequireRole(models.RoleCustomer))
	{
		customer.POST("/orders", handlers.CreateOrder)
		customer.GET("/orders", handlers.GetMyOrders)
	}

	// ── Partner routes ─────────────────────────────────────────────
	partner := api.Group("")
	partner.Use(middleware.RequireRole(models.RolePartner))
	{
		partner.GET("/restaurants/manage", handlers.GetMyRestaurants)
		partner.GET("/restaurants/orders", handlers.GetRestaurantOrders)
	}

	// Registered after the static /restaurants/* routes so gin keeps both.
	api.GET("/restaurants/:id", handlers.GetRestaurant)
}
