package alerts

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/localmart/internal/db"
	appmw "github.com/sudo-init-do/localmart/internal/middleware"
)

// ListNotifications returns the caller's notifications, newest first
func ListNotifications(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}

	rows, err := db.Conn.Query(context.Background(), `
		SELECT id::text, type, title, COALESCE(body, ''), COALESCE(reference::text, ''), created_at, read_at
		FROM notifications WHERE user_id = $1 ORDER BY created_at DESC
	`, ident.ID)
	if err != nil {
		log.Printf("notification list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	defer rows.Close()

	items := []map[string]any{}
	for rows.Next() {
		var id, ntype, title, body, reference string
		var createdAt time.Time
		var readAt *time.Time
		if err := rows.Scan(&id, &ntype, &title, &body, &reference, &createdAt, &readAt); err != nil {
			log.Printf("notification scan failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
		}
		item := map[string]any{
			"id":         id,
			"type":       ntype,
			"title":      title,
			"body":       body,
			"reference":  reference,
			"created_at": createdAt.UTC().Format(time.RFC3339),
		}
		if readAt != nil {
			item["read_at"] = readAt.UTC().Format(time.RFC3339)
		} else {
			item["read_at"] = nil
		}
		items = append(items, item)
	}

	return c.JSON(http.StatusOK, echo.Map{"notifications": items})
}

// MarkNotificationRead marks one notification as read
func MarkNotificationRead(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	nid := c.Param("id")

	res, err := db.Conn.Exec(context.Background(), `
		UPDATE notifications SET read_at = NOW()
		WHERE id = $1 AND user_id = $2 AND read_at IS NULL
	`, nid, ident.ID)
	if err != nil {
		log.Printf("notification update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if res.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Notification not found or already read"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "ok"})
}

// CreateNotification inserts an in-app notification row
func CreateNotification(userID, ntype, title, body string, reference *string) error {
	_, err := db.Conn.Exec(context.Background(), `
		INSERT INTO notifications (user_id, type, title, body, reference)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, ntype, title, body, reference)
	return err
}
