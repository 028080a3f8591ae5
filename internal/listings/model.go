package listings

import "time"

// Owner is the fixed projection of the listing owner returned by search
// and detail responses.
type Owner struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
	Email  string  `json:"email,omitempty"`
}

// Listing is a single item offered for sale by a user
type Listing struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Images      []string  `json:"images"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	Owner       *Owner    `json:"owner,omitempty"`
}

var validCategories = map[string]bool{
	"electronics": true, "furniture": true, "clothing": true,
	"books": true, "sports": true, "other": true,
}
