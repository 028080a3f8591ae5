package messaging

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/localmart/internal/alerts"
	"github.com/sudo-init-do/localmart/internal/db"
	appmw "github.com/sudo-init-do/localmart/internal/middleware"
)

// Message is one direct message between two users
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Text       string    `json:"text"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

// Conversation is the caller's view of one counterpart thread
type Conversation struct {
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	LastMessage string    `json:"last_message"`
	LastAt      time.Time `json:"last_at"`
	Unread      int       `json:"unread"`
}

// oldestFirst flips a newest-first page into chronological order
func oldestFirst(msgs []Message) []Message {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs
}

// Recent returns the caller's latest 100 messages across every thread,
// oldest first.
func Recent(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}

	rows, err := db.Conn.Query(context.Background(), `
		SELECT id, sender_id, receiver_id, text, read, created_at
		FROM messages
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC
		LIMIT 100
	`, ident.ID)
	if err != nil {
		log.Printf("recent messages fetch failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	defer rows.Close()

	results := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Text, &m.Read, &m.CreatedAt); err != nil {
			log.Printf("message scan failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
		}
		results = append(results, m)
	}

	return c.JSON(http.StatusOK, oldestFirst(results))
}

// Thread returns up to 100 messages between the caller and one counterpart,
// oldest first.
func Thread(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	otherID := c.Param("userId")

	rows, err := db.Conn.Query(context.Background(), `
		SELECT id, sender_id, receiver_id, text, read, created_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC
		LIMIT 100
	`, ident.ID, otherID)
	if err != nil {
		log.Printf("thread fetch failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	defer rows.Close()

	results := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Text, &m.Read, &m.CreatedAt); err != nil {
			log.Printf("message scan failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
		}
		results = append(results, m)
	}

	return c.JSON(http.StatusOK, results)
}

// Conversations summarizes the caller's threads: one row per counterpart
// with the latest message and the count still unread by the caller.
func Conversations(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}

	rows, err := db.Conn.Query(context.Background(), `
		WITH latest AS (
			SELECT DISTINCT ON (other_id) other_id, text, created_at
			FROM (
				SELECT CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END AS other_id,
				       text, created_at
				FROM messages
				WHERE sender_id = $1 OR receiver_id = $1
			) t
			ORDER BY other_id, created_at DESC
		)
		SELECT latest.other_id, u.name, u.email, latest.text, latest.created_at,
		       (SELECT COUNT(*) FROM messages m
		        WHERE m.sender_id = latest.other_id AND m.receiver_id = $1 AND m.read = FALSE)
		FROM latest
		JOIN users u ON u.id = latest.other_id
		ORDER BY latest.created_at DESC
	`, ident.ID)
	if err != nil {
		log.Printf("conversation fetch failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	defer rows.Close()

	results := []Conversation{}
	for rows.Next() {
		var conv Conversation
		if err := rows.Scan(&conv.UserID, &conv.Name, &conv.Email,
			&conv.LastMessage, &conv.LastAt, &conv.Unread); err != nil {
			log.Printf("conversation scan failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
		}
		results = append(results, conv)
	}

	return c.JSON(http.StatusOK, results)
}

// Send stores a message, pushes it to the receiver's live sockets and
// queues an email nudge. Messaging yourself is rejected.
func Send(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}

	var req struct {
		ReceiverID string `json:"receiver_id"`
		Text       string `json:"text"`
	}
	if err := c.Bind(&req); err != nil || req.ReceiverID == "" || req.Text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "receiver_id and text are required"})
	}
	if req.ReceiverID == ident.ID {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "You cannot message yourself"})
	}

	ctx := context.Background()

	var exists bool
	if err := db.Conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`,
		req.ReceiverID).Scan(&exists); err != nil {
		log.Printf("receiver check failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
	}

	m := Message{
		ID:         uuid.New().String(),
		SenderID:   ident.ID,
		ReceiverID: req.ReceiverID,
		Text:       req.Text,
		CreatedAt:  time.Now().UTC(),
	}
	_, err := db.Conn.Exec(ctx, `
		INSERT INTO messages (id, sender_id, receiver_id, text, read, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)
	`, m.ID, m.SenderID, m.ReceiverID, m.Text, m.CreatedAt)
	if err != nil {
		log.Printf("message insert failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	liveHub.push(req.ReceiverID, m)
	_ = alerts.EnqueueMessageReceived(req.ReceiverID, ident.ID)

	return c.JSON(http.StatusCreated, m)
}

// MarkRead flags every message from one sender to the caller as read.
// Only the receiver can do this; re-marking is a no-op.
func MarkRead(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	senderID := c.Param("userId")

	_, err := db.Conn.Exec(context.Background(), `
		UPDATE messages SET read = TRUE
		WHERE sender_id = $1 AND receiver_id = $2 AND read = FALSE
	`, senderID, ident.ID)
	if err != nil {
		log.Printf("mark read failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Messages marked as read"})
}
