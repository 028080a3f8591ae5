package services

import "time"

// Owner is the fixed projection of the service owner in responses
type Owner struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
	Email  string  `json:"email,omitempty"`
}

// Service is a recurring offering advertised by a user; pricing happens
// through negotiation requests, so there is no price field.
type Service struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Availability string    `json:"availability"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	Owner        *Owner    `json:"owner,omitempty"`
}

var validCategories = map[string]bool{
	"tutoring": true, "repair": true, "cleaning": true,
	"delivery": true, "beauty": true, "other": true,
}
