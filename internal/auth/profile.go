package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/localmart/internal/db"
	appmw "github.com/sudo-init-do/localmart/internal/middleware"
)

// Profile returns the currently authenticated user's record
func Profile(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}

	var (
		id, name, email, role string
		rating, lat, lng      float64
	)
	err := db.Conn.QueryRow(context.Background(),
		`SELECT id, name, email, role, rating, lat, lng FROM users WHERE id = $1`, ident.ID).
		Scan(&id, &name, &email, &role, &rating, &lat, &lng)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":     id,
		"name":   name,
		"email":  email,
		"role":   role,
		"rating": rating,
		"location": echo.Map{
			"latitude":  lat,
			"longitude": lng,
		},
	})
}

// GetUser returns the name/email/rating projection used by the messaging UI
func GetUser(c echo.Context) error {
	if _, ok := appmw.CurrentUser(c); !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	userID := c.Param("id")

	var (
		name, email string
		rating      float64
	)
	err := db.Conn.QueryRow(context.Background(),
		`SELECT name, email, rating FROM users WHERE id = $1`, userID).
		Scan(&name, &email, &rating)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":     userID,
		"name":   name,
		"email":  email,
		"rating": rating,
	})
}
