// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"bookswap/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options controls the amount of demo data generated.
type Options struct {
	Users        int
	BooksPerUser int
	Trades       int
	Password     string
}

// DefaultOptions returns a small but representative data set.
func DefaultOptions() Options {
	return Options{
		Users:        8,
		BooksPerUser: 4,
		Trades:       5,
		Password:     "bookswap1demo",
	}
}

// Run populates the database with demo users, books, and pending trades.
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user := &models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    fmt.Sprintf("%d_%s", i, gofakeit.Email()),
			Password: string(hash),
			Location: gofakeit.City(),
		}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		users = append(users, user)

		for j := 0; j < opts.BooksPerUser; j++ {
			book := &models.Book{
				OwnerID:     user.ID,
				Title:       gofakeit.BookTitle(),
				Description: gofakeit.Sentence(12),
			}
			if err := db.Create(book).Error; err != nil {
				return fmt.Errorf("seed book: %w", err)
			}
		}
	}

	created := 0
	for attempt := 0; created < opts.Trades && attempt < opts.Trades*10; attempt++ {
		proposer := users[r.Intn(len(users))]
		counterparty := users[r.Intn(len(users))]
		if proposer.ID == counterparty.ID {
			continue
		}

		give, err := randomUntradedBook(db, proposer.ID)
		if err != nil {
			continue
		}
		take, err := randomUntradedBook(db, counterparty.ID)
		if err != nil {
			continue
		}

		trade := &models.Trade{
			State: models.TradeStateRequested,
			Books: []models.TradeBook{
				{BookID: give.ID, Direction: models.DirectionTo, OwnerID: proposer.ID},
				{BookID: take.ID, Direction: models.DirectionFrom, OwnerID: counterparty.ID},
			},
		}
		links := trade.Books
		trade.Books = nil
		if err := db.Create(trade).Error; err != nil {
			return fmt.Errorf("seed trade: %w", err)
		}
		for i := range links {
			links[i].TradeID = trade.ID
		}
		if err := db.Create(&links).Error; err != nil {
			return fmt.Errorf("seed trade links: %w", err)
		}
		created++
	}

	log.Printf("seeded %d users, %d books, %d pending trades",
		len(users), len(users)*opts.BooksPerUser, created)
	return nil
}

// randomUntradedBook picks one of the owner's books not referenced by any
// pending trade, keeping the seeded data consistent with the one-active-trade
// per-book invariant.
func randomUntradedBook(db *gorm.DB, ownerID uint) (*models.Book, error) {
	var book models.Book
	err := db.
		Where("owner_id = ?", ownerID).
		Where("id NOT IN (?)", db.Model(&models.TradeBook{}).
			Select("book_id").
			Joins("JOIN trades ON trades.id = trades_books.trade_id").
			Where("trades.state = ?", models.TradeStateRequested)).
		Order("random()").
		First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}
