package cart

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/localmart/internal/db"
	appmw "github.com/sudo-init-do/localmart/internal/middleware"
)

// View returns the caller's cart. Entries whose listing has since been
// deleted are dropped from the response; entries whose listing merely went
// inactive stay visible so checkout can name them.
func View(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}

	rows, err := db.Conn.Query(context.Background(), `
		SELECT ci.listing_id, l.title, l.price, ci.quantity, l.images, l.user_id, l.status
		FROM cart_items ci JOIN listings l ON ci.listing_id = l.id
		WHERE ci.user_id = $1
		ORDER BY ci.added_at
	`, ident.ID)
	if err != nil {
		log.Printf("cart fetch failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ListingID, &it.Title, &it.Price, &it.Quantity,
			&it.Images, &it.SellerID, &it.Status); err != nil {
			log.Printf("cart scan failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
		}
		items = append(items, it)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"items": items,
		"total": Total(items),
	})
}

// Add puts a listing in the caller's cart, merging quantities on repeat adds
func Add(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}

	var req struct {
		ListingID string `json:"listing_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil || req.ListingID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "listing_id is required"})
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	ctx := context.Background()

	var sellerID, status string
	found := true
	err := db.Conn.QueryRow(ctx, `SELECT user_id, status FROM listings WHERE id = $1`,
		req.ListingID).Scan(&sellerID, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		found = false
	} else if err != nil {
		log.Printf("cart listing lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if msg := addRejection(found, status, sellerID, ident.ID); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": msg})
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		log.Printf("cart tx begin failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO carts (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING
	`, ident.ID); err != nil {
		log.Printf("cart upsert failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO cart_items (user_id, listing_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, listing_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`, ident.ID, req.ListingID, req.Quantity); err != nil {
		log.Printf("cart item upsert failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if err := tx.Commit(ctx); err != nil {
		log.Printf("cart tx commit failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Added to cart"})
}

// UpdateQuantity sets the quantity of an existing cart line
func UpdateQuantity(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	listingID := c.Param("listingId")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil || req.Quantity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Quantity must be at least 1"})
	}

	tag, err := db.Conn.Exec(context.Background(), `
		UPDATE cart_items SET quantity = $1 WHERE user_id = $2 AND listing_id = $3
	`, req.Quantity, ident.ID, listingID)
	if err != nil {
		log.Printf("cart quantity update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Item not in cart"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Cart updated"})
}

// Remove deletes one line from the cart; removing an absent line is a no-op
func Remove(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	listingID := c.Param("listingId")

	_, err := db.Conn.Exec(context.Background(), `
		DELETE FROM cart_items WHERE user_id = $1 AND listing_id = $2
	`, ident.ID, listingID)
	if err != nil {
		log.Printf("cart remove failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Removed from cart"})
}

// Clear empties the caller's cart; clearing an empty cart is a no-op
func Clear(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}

	_, err := db.Conn.Exec(context.Background(), `DELETE FROM carts WHERE user_id = $1`, ident.ID)
	if err != nil {
		log.Printf("cart clear failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Cart cleared"})
}
