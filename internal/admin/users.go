package admin

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/localmart/internal/db"
)

func pageParams(c echo.Context) (limit, offset int) {
	limit = 20
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	page := 1
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		page = v
	}
	return limit, (page - 1) * limit
}

// ListUsers returns a paginated user roster without password hashes
func ListUsers(c echo.Context) error {
	limit, offset := pageParams(c)

	rows, err := db.Conn.Query(context.Background(), `
		SELECT id, name, email, role, rating, created_at
		FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		log.Printf("admin user list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	defer rows.Close()

	type user struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		Role      string    `json:"role"`
		Rating    float64   `json:"rating"`
		CreatedAt time.Time `json:"created_at"`
	}

	users := []user{}
	for rows.Next() {
		var u user
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Rating, &u.CreatedAt); err != nil {
			log.Printf("admin user scan failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
		}
		users = append(users, u)
	}

	return c.JSON(http.StatusOK, echo.Map{"users": users})
}
