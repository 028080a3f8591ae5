package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/sudo-init-do/localmart/internal/db"
)

func main() {
	email := flag.String("email", "", "email of the user to promote to admin")
	flag.Parse()
	if *email == "" {
		log.Fatal("usage: promote_admin -email user@example.com")
	}

	_ = godotenv.Load()
	db.Init()

	tag, err := db.Conn.Exec(context.Background(),
		`UPDATE users SET role = 'admin' WHERE email = $1`, *email)
	if err != nil {
		log.Fatalf("promotion failed: %v", err)
	}
	if tag.RowsAffected() == 0 {
		log.Fatalf("no user with email %s", *email)
	}
	log.Printf("%s is now an admin", *email)
}
