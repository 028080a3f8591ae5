package listings

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/localmart/internal/db"
	"github.com/sudo-init-do/localmart/internal/geo"
	appmw "github.com/sudo-init-do/localmart/internal/middleware"
)

// Search returns active listings near a point, newest first, capped at 50.
// Without coordinates it degrades to a plain category-filtered list.
func Search(c echo.Context) error {
	point, radiusMeters, hasGeo, err := geo.ParseQuery(
		c.QueryParam("lat"), c.QueryParam("lng"), c.QueryParam("radius"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid coordinates"})
	}
	category := c.QueryParam("category")

	query := `SELECT l.id, l.user_id, l.title, l.description, l.price, l.category,
	                 l.images, l.lat, l.lng, l.status, l.created_at, u.name, u.rating
	          FROM listings l JOIN users u ON l.user_id = u.id`
	where := []string{"l.status = 'active'"}
	var args []any

	if hasGeo {
		args = append(args, point.Lat, point.Lng, radiusMeters)
		where = append(where, geo.Haversine("l", 1, 2, 3))
	}
	if category != "" && category != "all" {
		args = append(args, category)
		where = append(where, fmt.Sprintf("l.category = $%d", len(args)))
	}

	query += " WHERE " + strings.Join(where, " AND ") + " ORDER BY l.created_at DESC LIMIT 50"

	rows, err := db.Conn.Query(context.Background(), query, args...)
	if err != nil {
		log.Printf("listing search failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	defer rows.Close()

	results := []Listing{}
	for rows.Next() {
		var l Listing
		owner := &Owner{}
		if err := rows.Scan(&l.ID, &l.UserID, &l.Title, &l.Description, &l.Price, &l.Category,
			&l.Images, &l.Latitude, &l.Longitude, &l.Status, &l.CreatedAt,
			&owner.Name, &owner.Rating); err != nil {
			log.Printf("listing scan failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
		}
		owner.ID = l.UserID
		l.Owner = owner
		results = append(results, l)
	}

	return c.JSON(http.StatusOK, results)
}

// Get returns a single listing with its owner projected as name/rating/email
func Get(c echo.Context) error {
	listingID := c.Param("id")

	var l Listing
	owner := &Owner{}
	err := db.Conn.QueryRow(context.Background(), `
		SELECT l.id, l.user_id, l.title, l.description, l.price, l.category,
		       l.images, l.lat, l.lng, l.status, l.created_at, u.name, u.rating, u.email
		FROM listings l JOIN users u ON l.user_id = u.id
		WHERE l.id = $1
	`, listingID).Scan(&l.ID, &l.UserID, &l.Title, &l.Description, &l.Price, &l.Category,
		&l.Images, &l.Latitude, &l.Longitude, &l.Status, &l.CreatedAt,
		&owner.Name, &owner.Rating, &owner.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Listing not found"})
		}
		log.Printf("listing fetch failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	owner.ID = l.UserID
	l.Owner = owner

	return c.JSON(http.StatusOK, l)
}

// Create inserts a new active listing owned by the caller
func Create(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}

	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Price       float64  `json:"price"`
		Category    string   `json:"category"`
		Images      []string `json:"images"`
		Latitude    float64  `json:"latitude"`
		Longitude   float64  `json:"longitude"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request"})
	}
	if req.Title == "" || req.Description == "" || req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Title, description and a non-negative price are required"})
	}
	if !validCategories[req.Category] {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid category"})
	}
	if req.Images == nil {
		req.Images = []string{}
	}

	listingID := uuid.New().String()
	_, err := db.Conn.Exec(context.Background(), `
		INSERT INTO listings (id, user_id, title, description, price, category, images, lat, lng, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'active')
	`, listingID, ident.ID, req.Title, req.Description, req.Price, req.Category,
		req.Images, req.Latitude, req.Longitude)
	if err != nil {
		log.Printf("listing insert failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id":      listingID,
		"message": "Listing created successfully",
	})
}

// Update lets the owner change fields; empty/zero values leave columns untouched
func Update(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	listingID := c.Param("id")

	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Price       float64  `json:"price"`
		Category    string   `json:"category"`
		Status      string   `json:"status"`
		Images      []string `json:"images"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request"})
	}
	if req.Category != "" && !validCategories[req.Category] {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid category"})
	}
	if req.Status != "" && req.Status != "active" && req.Status != "sold" &&
		req.Status != "pending" && req.Status != "rejected" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid status"})
	}

	ctx := context.Background()

	var ownerID string
	err := db.Conn.QueryRow(ctx, `SELECT user_id FROM listings WHERE id = $1`, listingID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Listing not found"})
		}
		log.Printf("listing lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if ownerID != ident.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Not authorized to edit this listing"})
	}

	_, err = db.Conn.Exec(ctx, `
		UPDATE listings SET
			title = COALESCE(NULLIF($1, ''), title),
			description = COALESCE(NULLIF($2, ''), description),
			price = CASE WHEN $3 > 0 THEN $3 ELSE price END,
			category = COALESCE(NULLIF($4, ''), category),
			status = COALESCE(NULLIF($5, ''), status),
			images = CASE WHEN $6::text[] IS NULL THEN images ELSE $6 END
		WHERE id = $7
	`, req.Title, req.Description, req.Price, req.Category, req.Status, req.Images, listingID)
	if err != nil {
		log.Printf("listing update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Listing updated successfully"})
}

// Delete removes a listing; allowed for the owner or an admin
func Delete(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	listingID := c.Param("id")

	ctx := context.Background()

	var ownerID string
	err := db.Conn.QueryRow(ctx, `SELECT user_id FROM listings WHERE id = $1`, listingID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Listing not found"})
		}
		log.Printf("listing lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if ownerID != ident.ID && ident.Role != "admin" {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Not authorized to delete this listing"})
	}

	_, err = db.Conn.Exec(ctx, `DELETE FROM listings WHERE id = $1`, listingID)
	if err != nil {
		log.Printf("listing delete failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Listing deleted successfully"})
}
