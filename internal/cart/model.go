package cart

// Item is one line of the caller's cart, joined against the live listing
type Item struct {
	ListingID string   `json:"listing_id"`
	Title     string   `json:"title"`
	Price     float64  `json:"price"`
	Quantity  int      `json:"quantity"`
	Images    []string `json:"images"`
	SellerID  string   `json:"seller_id"`
	Status    string   `json:"status"`
}

// addRejection returns the client error for an add attempt, or "" when
// the listing may go in the cart. A missing listing reads the same as an
// inactive one.
func addRejection(found bool, status, sellerID, buyerID string) string {
	if !found || status != "active" {
		return "Listing is not available"
	}
	if sellerID == buyerID {
		return "You cannot add your own listing to the cart"
	}
	return ""
}

// Total sums price*quantity over the items
func Total(items []Item) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}
