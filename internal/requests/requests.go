package requests

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/localmart/internal/alerts"
	"github.com/sudo-init-do/localmart/internal/db"
	appmw "github.com/sudo-init-do/localmart/internal/middleware"
)

// Target kinds a request can point at
const (
	TargetListing = "listing"
	TargetService = "service"
)

// Request is a negotiation opened by a buyer against one listing or service
type Request struct {
	ID          string    `json:"id"`
	BuyerID     string    `json:"buyer_id"`
	BuyerName   string    `json:"buyer_name,omitempty"`
	SellerID    string    `json:"seller_id"`
	SellerName  string    `json:"seller_name,omitempty"`
	TargetType  string    `json:"target_type"`
	TargetID    string    `json:"target_id"`
	TargetTitle string    `json:"target_title,omitempty"`
	OfferPrice  float64   `json:"offer_price"`
	Message     string    `json:"message"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ValidTarget reports whether the tagged target pair is well formed
func ValidTarget(targetType, targetID string) bool {
	return (targetType == TargetListing || targetType == TargetService) && targetID != ""
}

var requestStatuses = map[string][]string{
	"pending":   {"accepted", "rejected"},
	"accepted":  {"completed"},
	"rejected":  {},
	"completed": {},
}

// CanAdvance reports whether a request may move between the two statuses
func CanAdvance(from, to string) bool {
	for _, next := range requestStatuses[from] {
		if next == to {
			return true
		}
	}
	return false
}

// resolveTarget finds the owner and title behind a target reference
func resolveTarget(ctx context.Context, targetType, targetID string) (ownerID, title string, err error) {
	table := "listings"
	if targetType == TargetService {
		table = "services"
	}
	err = db.Conn.QueryRow(ctx,
		`SELECT user_id, title FROM `+table+` WHERE id = $1`, targetID).Scan(&ownerID, &title)
	return ownerID, title, err
}

// List returns the caller's requests. ?role=sent narrows to requests they
// opened, ?role=received to requests against their items; default is both.
func List(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}

	query := `
		SELECT r.id, r.buyer_id, b.name, r.seller_id, s.name,
		       r.target_type, r.target_id,
		       COALESCE(l.title, sv.title, ''),
		       r.offer_price, r.message, r.status, r.created_at
		FROM requests r
		JOIN users b ON r.buyer_id = b.id
		JOIN users s ON r.seller_id = s.id
		LEFT JOIN listings l ON r.target_type = 'listing' AND r.target_id = l.id
		LEFT JOIN services sv ON r.target_type = 'service' AND r.target_id = sv.id
	`
	switch c.QueryParam("role") {
	case "sent":
		query += ` WHERE r.buyer_id = $1`
	case "received":
		query += ` WHERE r.seller_id = $1`
	default:
		query += ` WHERE r.buyer_id = $1 OR r.seller_id = $1`
	}
	query += ` ORDER BY r.created_at DESC`

	rows, err := db.Conn.Query(context.Background(), query, ident.ID)
	if err != nil {
		log.Printf("request list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	defer rows.Close()

	results := []Request{}
	for rows.Next() {
		var r Request
		if err := rows.Scan(&r.ID, &r.BuyerID, &r.BuyerName, &r.SellerID, &r.SellerName,
			&r.TargetType, &r.TargetID, &r.TargetTitle,
			&r.OfferPrice, &r.Message, &r.Status, &r.CreatedAt); err != nil {
			log.Printf("request scan failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
		}
		results = append(results, r)
	}

	return c.JSON(http.StatusOK, results)
}

// Create opens a request against a listing or service. Only one open
// request per buyer/target pair may exist at a time.
func Create(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}

	var req struct {
		TargetType string  `json:"target_type"`
		TargetID   string  `json:"target_id"`
		OfferPrice float64 `json:"offer_price"`
		Message    string  `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request"})
	}
	if !ValidTarget(req.TargetType, req.TargetID) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "target_type must be listing or service"})
	}
	if req.OfferPrice < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Offer price cannot be negative"})
	}

	ctx := context.Background()

	sellerID, title, err := resolveTarget(ctx, req.TargetType, req.TargetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Target not found"})
		}
		log.Printf("request target lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if sellerID == ident.ID {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "You cannot send a request to yourself"})
	}

	requestID := uuid.New().String()
	_, err = db.Conn.Exec(ctx, `
		INSERT INTO requests (id, buyer_id, seller_id, target_type, target_id, offer_price, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending')
	`, requestID, ident.ID, sellerID, req.TargetType, req.TargetID, req.OfferPrice, req.Message)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "You already have an open request for this item"})
		}
		log.Printf("request insert failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	_ = alerts.EnqueueRequestReceived(sellerID, requestID, title)

	return c.JSON(http.StatusCreated, echo.Map{"id": requestID, "message": "Request sent"})
}

// UpdateStatus lets the seller move a request along its lifecycle
func UpdateStatus(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	requestID := c.Param("id")

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request"})
	}
	if _, known := requestStatuses[req.Status]; !known {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid status"})
	}

	ctx := context.Background()

	var buyerID, sellerID, current string
	err := db.Conn.QueryRow(ctx, `
		SELECT buyer_id, seller_id, status FROM requests WHERE id = $1
	`, requestID).Scan(&buyerID, &sellerID, &current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Request not found"})
		}
		log.Printf("request lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if sellerID != ident.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Only the seller can update this request"})
	}
	if !CanAdvance(current, req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "Cannot change request from " + current + " to " + req.Status,
		})
	}

	_, err = db.Conn.Exec(ctx, `UPDATE requests SET status = $1 WHERE id = $2`, req.Status, requestID)
	if err != nil {
		log.Printf("request status update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	_ = alerts.EnqueueRequestUpdated(buyerID, requestID, req.Status)

	return c.JSON(http.StatusOK, echo.Map{"message": "Request updated", "status": req.Status})
}
