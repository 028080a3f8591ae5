package auth

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/sudo-init-do/localmart/internal/alerts"
	"github.com/sudo-init-do/localmart/internal/db"
)

type RegisterRequest struct {
	Name      string  `json:"name" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=6"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type TokenResponse struct {
	Token string `json:"token"`
	User  struct {
		ID     string  `json:"id"`
		Name   string  `json:"name"`
		Email  string  `json:"email"`
		Role   string  `json:"role"`
		Rating float64 `json:"rating"`
	} `json:"user"`
}

// ===== Register =====
func Register(c echo.Context) error {
	req := new(RegisterRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Name, email and password are required"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("bcrypt hash failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	ctx := context.Background()

	// Default role is always "user"
	userID := uuid.New().String()
	_, err = db.Conn.Exec(ctx, `
		INSERT INTO users (id, name, email, password, role, rating, lat, lng)
		VALUES ($1, $2, $3, $4, 'user', 0, $5, $6)
	`, userID, req.Name, req.Email, string(hashed), req.Latitude, req.Longitude)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email already registered"})
	}

	signed, err := issueToken(userID, "user")
	if err != nil {
		log.Printf("token generation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	// Welcome mail is best-effort
	_ = alerts.EnqueueWelcomeEmail(userID, req.Email, req.Name)

	resp := TokenResponse{Token: signed}
	resp.User.ID = userID
	resp.User.Name = req.Name
	resp.User.Email = req.Email
	resp.User.Role = "user"
	resp.User.Rating = 0
	return c.JSON(http.StatusCreated, resp)
}

// issueToken signs an HS256 JWT carrying the user id and role
func issueToken(userID, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
