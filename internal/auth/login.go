package auth

import (
	"context"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/sudo-init-do/localmart/internal/db"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ===== Login =====
func Login(c echo.Context) error {
	req := new(LoginRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email and password are required"})
	}

	ctx := context.Background()

	var (
		userID   string
		name     string
		password string
		role     string
		rating   float64
	)
	err := db.Conn.QueryRow(ctx, `
        SELECT id, name, password, role, rating FROM users WHERE email = $1
    `, req.Email).Scan(&userID, &name, &password, &role, &rating)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
	}

	signed, err := issueToken(userID, role)
	if err != nil {
		log.Printf("token generation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	resp := TokenResponse{Token: signed}
	resp.User.ID = userID
	resp.User.Name = name
	resp.User.Email = req.Email
	resp.User.Role = role
	resp.User.Rating = rating
	return c.JSON(http.StatusOK, resp)
}
