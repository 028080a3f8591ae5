package orders

import (
	"context"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/localmart/internal/alerts"
	"github.com/sudo-init-do/localmart/internal/db"
	appmw "github.com/sudo-init-do/localmart/internal/middleware"
)

// cartLine is one cart entry left-joined against its listing. The listing
// columns are nil when it has been deleted out from under the cart.
type cartLine struct {
	ListingID string
	Quantity  int
	Title     *string
	Price     *float64
	SellerID  *string
	Status    *string
}

// snapshotLines turns joined cart rows into immutable order items and a
// running total. unavailable names the first entry whose listing is gone
// or no longer active; a deleted listing reports as "Unknown".
func snapshotLines(lines []cartLine) (items []OrderItem, total float64, unavailable string) {
	for _, ln := range lines {
		if ln.Title == nil || ln.Status == nil {
			return nil, 0, "Unknown"
		}
		if *ln.Status != "active" {
			return nil, 0, *ln.Title
		}
		it := OrderItem{
			ListingID: ln.ListingID,
			Title:     *ln.Title,
			Price:     *ln.Price,
			Quantity:  ln.Quantity,
			SellerID:  *ln.SellerID,
		}
		total += it.Price * float64(it.Quantity)
		items = append(items, it)
	}
	return items, total, ""
}

// Checkout turns the caller's cart into an order. Validation happens up
// front; the order insert, cart wipe and listing status flips then commit
// in one transaction so a failure leaves the cart intact.
func Checkout(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}

	var req struct {
		Shipping ShippingAddress `json:"shipping"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request"})
	}
	if field := MissingAddressField(req.Shipping); field != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Missing shipping field: " + field})
	}

	ctx := context.Background()

	rows, err := db.Conn.Query(ctx, `
		SELECT ci.listing_id, ci.quantity, l.title, l.price, l.user_id, l.status
		FROM cart_items ci LEFT JOIN listings l ON ci.listing_id = l.id
		WHERE ci.user_id = $1
		ORDER BY ci.added_at
	`, ident.ID)
	if err != nil {
		log.Printf("checkout cart fetch failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	var lines []cartLine
	for rows.Next() {
		var ln cartLine
		if err := rows.Scan(&ln.ListingID, &ln.Quantity, &ln.Title, &ln.Price,
			&ln.SellerID, &ln.Status); err != nil {
			rows.Close()
			log.Printf("checkout cart scan failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
		}
		lines = append(lines, ln)
	}
	rows.Close()

	if len(lines) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Cart is empty"})
	}

	items, total, unavailable := snapshotLines(lines)
	if unavailable != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "Item no longer available: " + unavailable,
		})
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		log.Printf("checkout tx begin failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	defer tx.Rollback(ctx)

	orderID := uuid.New().String()
	if _, err := tx.Exec(ctx, `
		INSERT INTO orders (id, buyer_id, total_amount,
			ship_full_name, ship_address, ship_city, ship_state, ship_pincode, ship_phone,
			status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'pending')
	`, orderID, ident.ID, total,
		req.Shipping.FullName, req.Shipping.Address, req.Shipping.City,
		req.Shipping.State, req.Shipping.Pincode, req.Shipping.Phone); err != nil {
		log.Printf("checkout order insert failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	for _, it := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, listing_id, title, price, quantity, seller_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, uuid.New().String(), orderID, it.ListingID, it.Title, it.Price, it.Quantity, it.SellerID); err != nil {
			log.Printf("checkout item insert failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
		}
		if _, err := tx.Exec(ctx, `
			UPDATE listings SET status = 'sold' WHERE id = $1
		`, it.ListingID); err != nil {
			log.Printf("checkout listing update failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM carts WHERE user_id = $1`, ident.ID); err != nil {
		log.Printf("checkout cart wipe failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("checkout tx commit failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	for _, it := range items {
		_ = alerts.EnqueueOrderPlaced(it.SellerID, orderID, it.Title)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id":      orderID,
		"total":   total,
		"status":  StatusPending,
		"message": "Order placed successfully",
	})
}
