package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/hibiken/asynq"

	"github.com/sudo-init-do/localmart/internal/db"
)

var (
	client *asynq.Client
	server *asynq.Server
)

// Init starts the Asynq server and initializes a shared client.
func Init() {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		if host := os.Getenv("REDIS_HOST"); host != "" {
			port := os.Getenv("REDIS_PORT")
			if port == "" {
				port = "6379"
			}
			redisAddr = host + ":" + port
		} else {
			redisAddr = "127.0.0.1:6379"
		}
	}

	opts := asynq.RedisClientOpt{Addr: redisAddr}
	client = asynq.NewClient(opts)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWelcomeEmail, handleWelcomeEmail)
	mux.HandleFunc(TaskOrderPlaced, handleOrderPlaced)
	mux.HandleFunc(TaskOrderStatus, handleOrderStatus)
	mux.HandleFunc(TaskRequestNew, handleRequestReceived)
	mux.HandleFunc(TaskRequestUpdated, handleRequestUpdated)
	mux.HandleFunc(TaskMessageNew, handleMessageNew)

	server = asynq.NewServer(opts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"emails": 10,
		},
	})
	go func() {
		if err := server.Run(mux); err != nil {
			log.Printf("Asynq server stopped: %v", err)
		}
	}()

	log.Printf("Asynq initialized (addr=%s)", redisAddr)
}

// Close releases client and stops server.
func Close() {
	if client != nil {
		_ = client.Close()
	}
	if server != nil {
		server.Shutdown()
	}
}

// lookupEmail resolves a user's address for outbound mail
func lookupEmail(ctx context.Context, userID string) (email, name string, err error) {
	err = db.Conn.QueryRow(ctx, `SELECT email, name FROM users WHERE id = $1`, userID).Scan(&email, &name)
	return email, name, err
}

func handleWelcomeEmail(_ context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Email, p.Envelope.Subject, p.Envelope.Body); err != nil {
		log.Printf("[notify][ERROR] WelcomeEmail send failed: %v", err)
		return err
	}
	log.Printf("[notify] WelcomeEmail sent -> to=%s user=%s", p.Email, p.UserID)
	return nil
}

func handleOrderPlaced(ctx context.Context, t *asynq.Task) error {
	var p OrderPlacedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	_ = CreateNotification(p.SellerID, "order_placed", "New order",
		fmt.Sprintf("Your item %q was just ordered.", p.Title), &p.OrderID)

	email, name, err := lookupEmail(ctx, p.SellerID)
	if err != nil {
		return err
	}
	body := fmt.Sprintf("Hi %s,\n\nYour item %q was ordered (order %s). Confirm it from your dashboard.", name, p.Title, p.OrderID)
	if err := SendEmail(email, "You made a sale!", body); err != nil {
		log.Printf("[notify][ERROR] OrderPlaced send failed: %v", err)
		return err
	}
	log.Printf("[notify] OrderPlaced sent -> order=%s seller=%s", p.OrderID, p.SellerID)
	return nil
}

func handleOrderStatus(ctx context.Context, t *asynq.Task) error {
	var p OrderStatusPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	_ = CreateNotification(p.BuyerID, "order_status", "Order update",
		fmt.Sprintf("Your order is now %s.", p.Status), &p.OrderID)

	email, name, err := lookupEmail(ctx, p.BuyerID)
	if err != nil {
		return err
	}
	body := fmt.Sprintf("Hi %s,\n\nOrder %s is now %s.", name, p.OrderID, p.Status)
	if err := SendEmail(email, "Order "+p.Status, body); err != nil {
		log.Printf("[notify][ERROR] OrderStatus send failed: %v", err)
		return err
	}
	log.Printf("[notify] OrderStatus sent -> order=%s status=%s", p.OrderID, p.Status)
	return nil
}

func handleRequestReceived(ctx context.Context, t *asynq.Task) error {
	var p RequestReceivedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	_ = CreateNotification(p.SellerID, "request_new", "New request",
		fmt.Sprintf("You received a request about %q.", p.Title), &p.RequestID)

	email, name, err := lookupEmail(ctx, p.SellerID)
	if err != nil {
		return err
	}
	body := fmt.Sprintf("Hi %s,\n\nSomeone sent you a request about %q. Respond from your dashboard.", name, p.Title)
	if err := SendEmail(email, "New request on LocalMart", body); err != nil {
		log.Printf("[notify][ERROR] RequestReceived send failed: %v", err)
		return err
	}
	log.Printf("[notify] RequestReceived sent -> request=%s seller=%s", p.RequestID, p.SellerID)
	return nil
}

func handleRequestUpdated(ctx context.Context, t *asynq.Task) error {
	var p RequestUpdatedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	_ = CreateNotification(p.BuyerID, "request_updated", "Request update",
		fmt.Sprintf("Your request was %s.", p.Status), &p.RequestID)

	email, name, err := lookupEmail(ctx, p.BuyerID)
	if err != nil {
		return err
	}
	body := fmt.Sprintf("Hi %s,\n\nYour request %s was %s.", name, p.RequestID, p.Status)
	if err := SendEmail(email, "Request "+p.Status, body); err != nil {
		log.Printf("[notify][ERROR] RequestUpdated send failed: %v", err)
		return err
	}
	log.Printf("[notify] RequestUpdated sent -> request=%s status=%s", p.RequestID, p.Status)
	return nil
}

func handleMessageNew(ctx context.Context, t *asynq.Task) error {
	var p MessageNewPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	_, senderName, err := lookupEmail(ctx, p.SenderID)
	if err != nil {
		return err
	}
	_ = CreateNotification(p.Recipient, "message_new", "New message",
		fmt.Sprintf("%s sent you a message.", senderName), nil)

	email, name, err := lookupEmail(ctx, p.Recipient)
	if err != nil {
		return err
	}
	body := fmt.Sprintf("Hi %s,\n\n%s sent you a message on LocalMart. Log in to reply.", name, senderName)
	if err := SendEmail(email, "New message from "+senderName, body); err != nil {
		log.Printf("[notify][ERROR] MessageNew send failed: %v", err)
		return err
	}
	log.Printf("[notify] MessageNew sent -> to=%s from=%s", p.Recipient, p.SenderID)
	return nil
}
