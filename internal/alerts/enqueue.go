package alerts

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hibiken/asynq"
)

// ensureClient returns a usable client instance
func ensureClient() *asynq.Client {
	if client == nil {
		Init()
	}
	return client
}

// EnqueueWelcomeEmail schedules a welcome email to the user
func EnqueueWelcomeEmail(userID, email, name string) error {
	base := os.Getenv("APP_URL")
	if base == "" {
		base = "http://localhost:3000"
	}
	base = strings.TrimRight(base, "/")

	env := EmailEnvelope{
		To:      email,
		Subject: fmt.Sprintf("Welcome to LocalMart, %s!", name),
		Body:    fmt.Sprintf("Hi %s, thanks for joining LocalMart.\n\nOpen LocalMart: %s", name, base),
	}
	payload := WelcomeEmailPayload{UserID: userID, Name: name, Email: email, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskWelcomeEmail, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueueOrderPlaced notifies a seller that one of their items was ordered
func EnqueueOrderPlaced(sellerID, orderID, title string) error {
	payload := OrderPlacedPayload{SellerID: sellerID, OrderID: orderID, Title: title, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskOrderPlaced, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueueOrderStatusChanged notifies the buyer that their order advanced
func EnqueueOrderStatusChanged(buyerID, orderID, status string) error {
	payload := OrderStatusPayload{BuyerID: buyerID, OrderID: orderID, Status: status, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskOrderStatus, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueueRequestReceived notifies a seller of a new negotiation request
func EnqueueRequestReceived(sellerID, requestID, title string) error {
	payload := RequestReceivedPayload{SellerID: sellerID, RequestID: requestID, Title: title, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskRequestNew, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueueRequestUpdated notifies the buyer that the seller answered
func EnqueueRequestUpdated(buyerID, requestID, status string) error {
	payload := RequestUpdatedPayload{BuyerID: buyerID, RequestID: requestID, Status: status, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskRequestUpdated, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueueMessageReceived nudges a user about a new direct message
func EnqueueMessageReceived(recipientID, senderID string) error {
	payload := MessageNewPayload{Recipient: recipientID, SenderID: senderID, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskMessageNew, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}
