package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sudo-init-do/localmart/internal/admin"
	"github.com/sudo-init-do/localmart/internal/alerts"
	"github.com/sudo-init-do/localmart/internal/auth"
	"github.com/sudo-init-do/localmart/internal/cart"
	"github.com/sudo-init-do/localmart/internal/db"
	"github.com/sudo-init-do/localmart/internal/listings"
	"github.com/sudo-init-do/localmart/internal/messaging"
	appmw "github.com/sudo-init-do/localmart/internal/middleware"
	"github.com/sudo-init-do/localmart/internal/orders"
	"github.com/sudo-init-do/localmart/internal/requests"
	"github.com/sudo-init-do/localmart/internal/reviews"
	"github.com/sudo-init-do/localmart/internal/services"
)

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func main() {
	_ = godotenv.Load()

	// Init subsystems
	db.Init()
	alerts.Init()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Validator = &requestValidator{validate: validator.New()}

	// Health
	e.GET("/health", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	api := e.Group("/api")

	// Public auth routes
	api.POST("/auth/register", auth.Register)
	api.POST("/auth/login", auth.Login)

	// Public discovery
	api.GET("/listings", listings.Search)
	api.GET("/listings/:id", listings.Get)
	api.GET("/services", services.Search)
	api.GET("/services/:id", services.Get)
	api.GET("/users/:id/reviews", reviews.ListForUser)

	// Authenticated group
	g := api.Group("")
	g.Use(appmw.JWTMiddleware)

	g.GET("/auth/me", auth.Profile)
	g.GET("/users/:id", auth.GetUser)

	g.POST("/listings", listings.Create)
	g.PUT("/listings/:id", listings.Update)
	g.DELETE("/listings/:id", listings.Delete)

	g.POST("/services", services.Create)
	g.PUT("/services/:id", services.Update)
	g.DELETE("/services/:id", services.Delete)

	g.GET("/cart", cart.View)
	g.POST("/cart", cart.Add)
	g.PUT("/cart/:listingId", cart.UpdateQuantity)
	g.DELETE("/cart/:listingId", cart.Remove)
	g.DELETE("/cart", cart.Clear)

	g.POST("/orders/checkout", orders.Checkout)
	g.GET("/orders", orders.List)
	g.GET("/orders/selling", orders.SellerView)
	g.GET("/orders/:id", orders.Get)
	g.PUT("/orders/:id/status", orders.UpdateStatus)

	g.POST("/reviews", reviews.Create)
	g.PUT("/reviews/:id", reviews.Update)
	g.DELETE("/reviews/:id", reviews.Delete)

	g.GET("/requests", requests.List)
	g.POST("/requests", requests.Create)
	g.PUT("/requests/:id/status", requests.UpdateStatus)

	g.GET("/messages", messaging.Recent)
	g.GET("/messages/conversations", messaging.Conversations)
	g.GET("/messages/:userId", messaging.Thread)
	g.POST("/messages", messaging.Send)
	g.PUT("/messages/:userId/read", messaging.MarkRead)
	g.GET("/ws", messaging.Serve)

	g.GET("/notifications", alerts.ListNotifications)
	g.PUT("/notifications/:id/read", alerts.MarkNotificationRead)

	// Admin routes
	adminGroup := api.Group("/admin")
	adminGroup.Use(appmw.JWTMiddleware)
	adminGroup.Use(appmw.AdminGuard)
	adminGroup.GET("/stats", admin.Stats)
	adminGroup.GET("/users", admin.ListUsers)
	adminGroup.GET("/listings", admin.ListListings)
	adminGroup.PUT("/listings/:id/status", admin.ModerateListing)
	adminGroup.DELETE("/listings/:id", admin.DeleteListing)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("API server listening on :%s", port)
	if err := e.Start(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
