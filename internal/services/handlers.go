package services

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

// Search returns active services near a point, newest first, capped at 50
func Search(c echo.Context) error {
	point, radiusMeters, hasGeo, err := geo.ParseQuery(
		c.QueryParam("lat"), c.QueryParam("lng"), c.QueryParam("radius"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid coordinates"})
	}
	category := c.QueryParam("category")

	query := `SELECT s.id, s.user_id, s.title, s.description, s.category, s.availability,
	                 s.lat, s.lng, s.status, s.created_at, u.name, u.rating
	          FROM services s JOIN users u ON s.user_id = u.id`
	where := []string{"s.status = 'active'"}
	var args []any

	if hasGeo {
		args = append(args, point.Lat, point.Lng, radiusMeters)
		where = append(where, geo.Haversine("s", 1, 2, 3))
	}
	if category != "" && category != "all" {
		args = append(args, category)
		where = append(where, fmt.Sprintf("s.category = $%d", len(args)))
	}

	query += " WHERE " + strings.Join(where, " AND ") + " ORDER BY s.created_at DESC LIMIT 50"

	rows, err := db.Conn.Query(context.Background(), query, args...)
	if err != nil {
		log.Printf("service search failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	defer rows.Close()

	results := []Service{}
	for rows.Next() {
		var s Service
		owner := &Owner{}
		if err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.Description, &s.Category, &s.Availability,
			&s.Latitude, &s.Longitude, &s.Status, &s.CreatedAt,
			&owner.Name, &owner.Rating); err != nil {
			log.Printf("service scan failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
		}
		owner.ID = s.UserID
		s.Owner = owner
		results = append(results, s)
	}

	return c.JSON(http.StatusOK, results)
}

// Get returns a single service with owner name/rating/email
func Get(c echo.Context) error {
	serviceID := c.Param("id")

	var s Service
	owner := &Owner{}
	err := db.Conn.QueryRow(context.Background(), `
		SELECT s.id, s.user_id, s.title, s.description, s.category, s.availability,
		       s.lat, s.lng, s.status, s.created_at, u.name, u.rating, u.email
		FROM services s JOIN users u ON s.user_id = u.id
		WHERE s.id = $1
	`, serviceID).Scan(&s.ID, &s.UserID, &s.Title, &s.Description, &s.Category, &s.Availability,
		&s.Latitude, &s.Longitude, &s.Status, &s.CreatedAt,
		&owner.Name, &owner.Rating, &owner.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Service not found"})
		}
		log.Printf("service fetch failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	owner.ID = s.UserID
	s.Owner = owner

	return c.JSON(http.StatusOK, s)
}

// Create inserts a new active service owned by the caller
func Create(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}

	var req struct {
		Title        string  `json:"title"`
		Description  string  `json:"description"`
		Category     string  `json:"category"`
		Availability string  `json:"availability"`
		Latitude     float64 `json:"latitude"`
		Longitude    float64 `json:"longitude"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request"})
	}
	if req.Title == "" || req.Description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Title and description are required"})
	}
	if !validCategories[req.Category] {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid category"})
	}

	serviceID := uuid.New().String()
	_, err := db.Conn.Exec(context.Background(), `
		INSERT INTO services (id, user_id, title, description, category, availability, lat, lng, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'active')
	`, serviceID, ident.ID, req.Title, req.Description, req.Category, req.Availability,
		req.Latitude, req.Longitude)
	if err != nil {
		log.Printf("service insert failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id":      serviceID,
		"message": "Service created successfully",
	})
}

// Update lets the owner change fields; empty values leave columns untouched
func Update(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	serviceID := c.Param("id")

	var req struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		Category     string `json:"category"`
		Availability string `json:"availability"`
		Status       string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request"})
	}
	if req.Category != "" && !validCategories[req.Category] {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid category"})
	}
	if req.Status != "" && req.Status != "active" && req.Status != "paused" && req.Status != "rejected" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid status"})
	}

	ctx := context.Background()

	var ownerID string
	err := db.Conn.QueryRow(ctx, `SELECT user_id FROM services WHERE id = $1`, serviceID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Service not found"})
		}
		log.Printf("service lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if ownerID != ident.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Not authorized to edit this service"})
	}

	_, err = db.Conn.Exec(ctx, `
		UPDATE services SET
			title = COALESCE(NULLIF($1, ''), title),
			description = COALESCE(NULLIF($2, ''), description),
			category = COALESCE(NULLIF($3, ''), category),
			availability = COALESCE(NULLIF($4, ''), availability),
			status = COALESCE(NULLIF($5, ''), status)
		WHERE id = $6
	`, req.Title, req.Description, req.Category, req.Availability, req.Status, serviceID)
	if err != nil {
		log.Printf("service update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Service updated successfully"})
}

// Delete removes a service; allowed for the owner or an admin
func Delete(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	serviceID := c.Param("id")

	ctx := context.Background()

	var ownerID string
	err := db.Conn.QueryRow(ctx, `SELECT user_id FROM services WHERE id = $1`, serviceID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Service not found"})
		}
		log.Printf("service lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if ownerID != ident.ID && ident.Role != "admin" {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Not authorized to delete this service"})
	}

	_, err = db.Conn.Exec(ctx, `DELETE FROM services WHERE id = $1`, serviceID)
	if err != nil {
		log.Printf("service delete failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Service deleted successfully"})
}
