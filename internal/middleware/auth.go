package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Identity is the verified caller attached to every authenticated request.
// Handlers read it through CurrentUser and pass it on explicitly; nothing
// downstream touches the token again.
type Identity struct {
	ID   string
	Role string
}

const identityKey = "identity"

// JWTMiddleware verifies the bearer token and attaches the caller's Identity
func JWTMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ident, err := parseBearer(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid or missing token"})
		}
		c.Set(identityKey, ident)
		return next(c)
	}
}

// CurrentUser returns the Identity set by JWTMiddleware
func CurrentUser(c echo.Context) (Identity, bool) {
	ident, ok := c.Get(identityKey).(Identity)
	if !ok || ident.ID == "" {
		return Identity{}, false
	}
	return ident, true
}

func parseBearer(header string) (Identity, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return Identity{}, errors.New("missing bearer token")
	}
	tokenStr := header[len(prefix):]

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return Identity{}, errors.New("invalid or expired token")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Identity{}, errors.New("invalid token claims")
	}
	role, _ := claims["role"].(string)
	return Identity{ID: userID, Role: role}, nil
}
