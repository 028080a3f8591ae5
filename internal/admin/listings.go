package admin

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/localmart/internal/db"
)

// ListListings returns all listings for moderation, any status, paginated
func ListListings(c echo.Context) error {
	limit, offset := pageParams(c)

	query := `
		SELECT l.id, l.title, l.price, l.category, l.status, l.created_at, u.id, u.name, u.email
		FROM listings l JOIN users u ON l.user_id = u.id
	`
	var args []any
	if status := c.QueryParam("status"); status != "" {
		query += ` WHERE l.status = $1`
		args = append(args, status)
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY l.created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := db.Conn.Query(context.Background(), query, args...)
	if err != nil {
		log.Printf("admin listing list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	defer rows.Close()

	type row struct {
		ID         string    `json:"id"`
		Title      string    `json:"title"`
		Price      float64   `json:"price"`
		Category   string    `json:"category"`
		Status     string    `json:"status"`
		CreatedAt  time.Time `json:"created_at"`
		OwnerID    string    `json:"owner_id"`
		OwnerName  string    `json:"owner_name"`
		OwnerEmail string    `json:"owner_email"`
	}

	listings := []row{}
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.ID, &r.Title, &r.Price, &r.Category, &r.Status, &r.CreatedAt,
			&r.OwnerID, &r.OwnerName, &r.OwnerEmail); err != nil {
			log.Printf("admin listing scan failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
		}
		listings = append(listings, r)
	}

	return c.JSON(http.StatusOK, echo.Map{"listings": listings})
}

// ModerateListing approves or rejects a listing
func ModerateListing(c echo.Context) error {
	listingID := c.Param("id")

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || (req.Status != "active" && req.Status != "rejected") {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Status must be active or rejected"})
	}

	tag, err := db.Conn.Exec(context.Background(), `
		UPDATE listings SET status = $1 WHERE id = $2
	`, req.Status, listingID)
	if err != nil {
		log.Printf("admin listing moderation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Listing not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Listing " + req.Status})
}

// DeleteListing removes a listing outright
func DeleteListing(c echo.Context) error {
	listingID := c.Param("id")

	tag, err := db.Conn.Exec(context.Background(), `DELETE FROM listings WHERE id = $1`, listingID)
	if err != nil {
		log.Printf("admin listing delete failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Listing not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Listing deleted"})
}
