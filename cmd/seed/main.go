package main

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/sudo-init-do/localmart/internal/db"
)

type seedUser struct {
	name     string
	email    string
	password string
	role     string
	lat      float64
	lng      float64
}

var users = []seedUser{
	{"Admin", "admin@example.com", "Admin@123", "admin", 28.7041, 77.1025},
	{"John Smith", "john@example.com", "password123", "user", 19.0760, 72.8777},
	{"Priya Sharma", "priya@example.com", "password123", "user", 28.7041, 77.1025},
}

func main() {
	_ = godotenv.Load()
	db.Init()
	ctx := context.Background()

	ids := map[string]string{}
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash failed: %v", err)
		}
		id := uuid.New().String()
		_, err = db.Conn.Exec(ctx, `
			INSERT INTO users (id, name, email, password, role, lat, lng)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (email) DO NOTHING
		`, id, u.name, u.email, string(hash), u.role, u.lat, u.lng)
		if err != nil {
			log.Fatalf("user seed failed: %v", err)
		}
		if err := db.Conn.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, u.email).Scan(&id); err != nil {
			log.Fatalf("user lookup failed: %v", err)
		}
		ids[u.email] = id
	}

	listings := []struct {
		owner, title, description, category string
		price, lat, lng                     float64
	}{
		{"john@example.com", "Wooden study desk", "Solid sheesham desk, lightly used.", "furniture", 3500, 19.0760, 72.8777},
		{"john@example.com", "Cricket kit", "Full kit with bat, pads and gloves.", "sports", 2200, 19.0760, 72.8777},
		{"priya@example.com", "Physics textbooks", "Class 12 set, good condition.", "books", 600, 28.7041, 77.1025},
	}
	for _, l := range listings {
		_, err := db.Conn.Exec(ctx, `
			INSERT INTO listings (id, user_id, title, description, price, category, images, lat, lng, status)
			VALUES ($1, $2, $3, $4, $5, $6, '{}', $7, $8, 'active')
		`, uuid.New().String(), ids[l.owner], l.title, l.description, l.price, l.category, l.lat, l.lng)
		if err != nil {
			log.Fatalf("listing seed failed: %v", err)
		}
	}

	services := []struct {
		owner, title, description, category, availability string
		lat, lng                                          float64
	}{
		{"priya@example.com", "Math tutoring", "Classes 8-12, weekday evenings.", "tutoring", "Mon-Fri 5-8pm", 28.7041, 77.1025},
		{"john@example.com", "Bike repair", "Doorstep servicing and repairs.", "repair", "Weekends", 19.0760, 72.8777},
	}
	for _, s := range services {
		_, err := db.Conn.Exec(ctx, `
			INSERT INTO services (id, user_id, title, description, category, availability, lat, lng, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'active')
		`, uuid.New().String(), ids[s.owner], s.title, s.description, s.category, s.availability, s.lat, s.lng)
		if err != nil {
			log.Fatalf("service seed failed: %v", err)
		}
	}

	log.Printf("seeded %d users, %d listings, %d services", len(users), len(listings), len(services))
}
