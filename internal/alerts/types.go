package alerts

import "time"

// Task type constants
const (
	TaskWelcomeEmail   = "email:welcome"
	TaskOrderPlaced    = "email:order_placed"
	TaskOrderStatus    = "email:order_status"
	TaskRequestNew     = "email:request_new"
	TaskRequestUpdated = "email:request_updated"
	TaskMessageNew     = "email:message_new"
)

// Common envelope for email-like notifications
type EmailEnvelope struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Welcome email payload
type WelcomeEmailPayload struct {
	UserID   string        `json:"user_id"`
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}

// Order placed payload (sent to each seller with items in the order)
type OrderPlacedPayload struct {
	SellerID string    `json:"seller_id"`
	OrderID  string    `json:"order_id"`
	Title    string    `json:"title"`
	SentAt   time.Time `json:"sent_at"`
}

// Order status payload (sent to the buyer when an order advances)
type OrderStatusPayload struct {
	BuyerID string    `json:"buyer_id"`
	OrderID string    `json:"order_id"`
	Status  string    `json:"status"`
	SentAt  time.Time `json:"sent_at"`
}

// Request received payload (sent to the seller)
type RequestReceivedPayload struct {
	SellerID  string    `json:"seller_id"`
	RequestID string    `json:"request_id"`
	Title     string    `json:"title"`
	SentAt    time.Time `json:"sent_at"`
}

// Request updated payload (sent to the buyer)
type RequestUpdatedPayload struct {
	BuyerID   string    `json:"buyer_id"`
	RequestID string    `json:"request_id"`
	Status    string    `json:"status"`
	SentAt    time.Time `json:"sent_at"`
}

// Message new payload (sent to the recipient on new message)
type MessageNewPayload struct {
	Recipient string    `json:"recipient"`
	SenderID  string    `json:"sender_id"`
	SentAt    time.Time `json:"sent_at"`
}
