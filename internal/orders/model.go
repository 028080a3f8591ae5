package orders

import "time"

// ShippingAddress is captured at checkout and frozen on the order
type ShippingAddress struct {
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
	Phone    string `json:"phone"`
}

// OrderItem is a price/title snapshot of a listing at checkout time
type OrderItem struct {
	ID        string  `json:"id"`
	ListingID string  `json:"listing_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	SellerID  string  `json:"seller_id"`
}

// Order is a completed checkout owned by the buyer
type Order struct {
	ID          string          `json:"id"`
	BuyerID     string          `json:"buyer_id"`
	TotalAmount float64         `json:"total_amount"`
	Shipping    ShippingAddress `json:"shipping"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Items       []OrderItem     `json:"items"`
}

// MissingAddressField returns the name of the first empty required field,
// checked in a fixed order, or "" when the address is complete.
func MissingAddressField(a ShippingAddress) string {
	checks := []struct {
		name  string
		value string
	}{
		{"fullName", a.FullName},
		{"address", a.Address},
		{"city", a.City},
		{"state", a.State},
		{"pincode", a.Pincode},
		{"phone", a.Phone},
	}
	for _, ch := range checks {
		if ch.value == "" {
			return ch.name
		}
	}
	return ""
}

// SellerSlice narrows an order's items to those sold by sellerID and
// recomputes the subtotal over that slice alone.
func SellerSlice(items []OrderItem, sellerID string) ([]OrderItem, float64) {
	var mine []OrderItem
	var subtotal float64
	for _, it := range items {
		if it.SellerID == sellerID {
			mine = append(mine, it)
			subtotal += it.Price * float64(it.Quantity)
		}
	}
	return mine, subtotal
}
