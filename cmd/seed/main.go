// Command seed populates the database with demo data.
package main

import (
	"flag"
	"log"

	"bookswap/internal/config"
	"bookswap/internal/database"
	"bookswap/internal/seed"
)

func main() {
	opts := seed.DefaultOptions()
	flag.IntVar(&opts.Users, "users", opts.Users, "Number of users to create")
	flag.IntVar(&opts.BooksPerUser, "books", opts.BooksPerUser, "Number of books per user")
	flag.IntVar(&opts.Trades, "trades", opts.Trades, "Number of pending trades to create")
	flag.StringVar(&opts.Password, "password", opts.Password, "Password for all demo accounts")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("All demo accounts use the password: %s", opts.Password)
}
