package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"bookswap/internal/config"
	"bookswap/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Book{},
		&models.Trade{},
		&models.TradeBook{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}

func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	cfg := &config.Config{
		Env:       "test",
		Port:      "0",
		JWTSecret: "test_secret",
	}
	return NewServerWithDeps(cfg, db, nil, nil), db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "$2a$10$notarealhashnotarealhashnotarealhashnotarealhash12345",
		Location: "Testville",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func createTestBook(t *testing.T, db *gorm.DB, ownerID uint, title string) models.Book {
	t.Helper()
	book := models.Book{
		OwnerID:     ownerID,
		Title:       title,
		Description: "A book about " + title,
	}
	if err := db.Create(&book).Error; err != nil {
		t.Fatalf("create book %s: %v", title, err)
	}
	return book
}

// createTestTrade inserts a pending trade with its link rows directly,
// bypassing the service layer.
func createTestTrade(t *testing.T, db *gorm.DB, links []models.TradeBook) models.Trade {
	t.Helper()
	trade := models.Trade{State: models.TradeStateRequested}
	if err := db.Create(&trade).Error; err != nil {
		t.Fatalf("create trade: %v", err)
	}
	for i := range links {
		links[i].TradeID = trade.ID
	}
	if err := db.Create(&links).Error; err != nil {
		t.Fatalf("create trade links: %v", err)
	}
	trade.Books = links
	return trade
}

func tradeState(t *testing.T, db *gorm.DB, tradeID uint) models.TradeState {
	t.Helper()
	var trade models.Trade
	if err := db.First(&trade, tradeID).Error; err != nil {
		t.Fatalf("load trade %d: %v", tradeID, err)
	}
	return trade.State
}

func bookOwner(t *testing.T, db *gorm.DB, bookID uint) uint {
	t.Helper()
	var book models.Book
	if err := db.First(&book, bookID).Error; err != nil {
		t.Fatalf("load book %d: %v", bookID, err)
	}
	return book.OwnerID
}

func decodeBody(t *testing.T, body io.Reader, dst any) {
	t.Helper()
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(data)
}

func acceptPath(tradeID uint) string {
	return fmt.Sprintf("/api/requests/%d/accept", tradeID)
}
