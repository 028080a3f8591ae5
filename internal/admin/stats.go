package admin

import (
	"context"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/localmart/internal/db"
)

// Stats returns headline counts for the admin dashboard
func Stats(c echo.Context) error {
	ctx := context.Background()

	var totalUsers, totalListings, totalServices, activeListings, totalOrders int
	err := db.Conn.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM listings),
			(SELECT COUNT(*) FROM services),
			(SELECT COUNT(*) FROM listings WHERE status = 'active'),
			(SELECT COUNT(*) FROM orders)
	`).Scan(&totalUsers, &totalListings, &totalServices, &activeListings, &totalOrders)
	if err != nil {
		log.Printf("admin stats failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"total_users":     totalUsers,
		"total_listings":  totalListings,
		"total_services":  totalServices,
		"active_listings": activeListings,
		"total_orders":    totalOrders,
	})
}
