package orders

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/localmart/internal/alerts"
	"github.com/sudo-init-do/localmart/internal/db"
	appmw "github.com/sudo-init-do/localmart/internal/middleware"
)

func scanOrder(row pgx.Row, o *Order) error {
	return row.Scan(&o.ID, &o.BuyerID, &o.TotalAmount,
		&o.Shipping.FullName, &o.Shipping.Address, &o.Shipping.City,
		&o.Shipping.State, &o.Shipping.Pincode, &o.Shipping.Phone,
		&o.Status, &o.CreatedAt, &o.UpdatedAt)
}

func loadItems(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := db.Conn.Query(ctx, `
		SELECT id, listing_id, title, price, quantity, seller_id
		FROM order_items WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []OrderItem{}
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.ListingID, &it.Title, &it.Price,
			&it.Quantity, &it.SellerID); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// List returns the caller's orders as buyer, newest first, items included
func List(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}

	ctx := context.Background()
	rows, err := db.Conn.Query(ctx, `
		SELECT id, buyer_id, total_amount,
		       ship_full_name, ship_address, ship_city, ship_state, ship_pincode, ship_phone,
		       status, created_at, updated_at
		FROM orders WHERE buyer_id = $1 ORDER BY created_at DESC
	`, ident.ID)
	if err != nil {
		log.Printf("order list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	results := []Order{}
	for rows.Next() {
		var o Order
		if err := scanOrder(rows, &o); err != nil {
			rows.Close()
			log.Printf("order scan failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
		}
		results = append(results, o)
	}
	rows.Close()

	for i := range results {
		items, err := loadItems(ctx, results[i].ID)
		if err != nil {
			log.Printf("order items fetch failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
		}
		results[i].Items = items
	}

	return c.JSON(http.StatusOK, results)
}

// SellerView lists orders containing the caller's items. Each order is
// narrowed to that seller's lines with a subtotal over those lines only;
// orders with none of the caller's items never appear.
func SellerView(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}

	ctx := context.Background()
	rows, err := db.Conn.Query(ctx, `
		SELECT DISTINCT o.id, o.buyer_id, o.total_amount,
		       o.ship_full_name, o.ship_address, o.ship_city, o.ship_state, o.ship_pincode, o.ship_phone,
		       o.status, o.created_at, o.updated_at
		FROM orders o JOIN order_items oi ON oi.order_id = o.id
		WHERE oi.seller_id = $1
		ORDER BY o.created_at DESC
	`, ident.ID)
	if err != nil {
		log.Printf("seller order list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	orders := []Order{}
	for rows.Next() {
		var o Order
		if err := scanOrder(rows, &o); err != nil {
			rows.Close()
			log.Printf("seller order scan failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
		}
		orders = append(orders, o)
	}
	rows.Close()

	type sellerOrder struct {
		Order
		Subtotal float64 `json:"subtotal"`
	}

	results := []sellerOrder{}
	for _, o := range orders {
		items, err := loadItems(ctx, o.ID)
		if err != nil {
			log.Printf("seller order items fetch failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
		}
		mine, subtotal := SellerSlice(items, ident.ID)
		if len(mine) == 0 {
			continue
		}
		o.Items = mine
		results = append(results, sellerOrder{Order: o, Subtotal: subtotal})
	}

	return c.JSON(http.StatusOK, results)
}

// Get returns a single order to its buyer, one of its sellers, or an admin
func Get(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	orderID := c.Param("id")

	ctx := context.Background()
	var o Order
	err := scanOrder(db.Conn.QueryRow(ctx, `
		SELECT id, buyer_id, total_amount,
		       ship_full_name, ship_address, ship_city, ship_state, ship_pincode, ship_phone,
		       status, created_at, updated_at
		FROM orders WHERE id = $1
	`, orderID), &o)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Order not found"})
		}
		log.Printf("order fetch failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	items, err := loadItems(ctx, o.ID)
	if err != nil {
		log.Printf("order items fetch failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	isSeller := false
	for _, it := range items {
		if it.SellerID == ident.ID {
			isSeller = true
			break
		}
	}
	if !canViewOrder(ident.ID, ident.Role, o.BuyerID, isSeller) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Not authorized to view this order"})
	}
	o.Items = items

	return c.JSON(http.StatusOK, o)
}

// UpdateStatus advances an order along the lifecycle. Only a seller with
// items in the order or an admin may change it; every legal transition,
// cancellation included, is open to them.
func UpdateStatus(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	orderID := c.Param("id")

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || !ValidStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid status"})
	}

	ctx := context.Background()

	var buyerID, current string
	err := db.Conn.QueryRow(ctx, `SELECT buyer_id, status FROM orders WHERE id = $1`,
		orderID).Scan(&buyerID, &current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Order not found"})
		}
		log.Printf("order lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	isSeller := false
	err = db.Conn.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM order_items WHERE order_id = $1 AND seller_id = $2)
	`, orderID, ident.ID).Scan(&isSeller)
	if err != nil {
		log.Printf("order seller check failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	if !CanUpdateStatus(ident.Role, isSeller) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Not authorized to update this order"})
	}

	if !CanTransition(current, req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "Cannot change order from " + current + " to " + req.Status,
		})
	}

	_, err = db.Conn.Exec(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2
	`, req.Status, orderID)
	if err != nil {
		log.Printf("order status update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	_ = alerts.EnqueueOrderStatusChanged(buyerID, orderID, req.Status)

	return c.JSON(http.StatusOK, echo.Map{"message": "Order updated", "status": req.Status})
}
