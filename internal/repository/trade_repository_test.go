package repository

import (
	"context"
	"errors"
	"testing"

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

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com", Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedBook(t *testing.T, db *gorm.DB, ownerID uint, title string) models.Book {
	t.Helper()
	book := models.Book{OwnerID: ownerID, Title: title, Description: "d"}
	if err := db.Create(&book).Error; err != nil {
		t.Fatalf("seed book: %v", err)
	}
	return book
}

func TestTradeRepositoryCreateLinksRows(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewTradeRepository(db)

	ann := seedUser(t, db, "ann")
	bob := seedUser(t, db, "bob")
	a1 := seedBook(t, db, ann.ID, "Dune")
	b1 := seedBook(t, db, bob.ID, "Ubik")

	trade := &models.Trade{
		State: models.TradeStateRequested,
		Books: []models.TradeBook{
			{BookID: a1.ID, Direction: models.DirectionTo, OwnerID: ann.ID},
			{BookID: b1.ID, Direction: models.DirectionFrom, OwnerID: bob.ID},
		},
	}
	if err := repo.Create(context.Background(), trade); err != nil {
		t.Fatalf("create: %v", err)
	}
	if trade.ID == 0 {
		t.Fatal("expected trade id to be populated")
	}

	var links []models.TradeBook
	if err := db.Where("trade_id = ?", trade.ID).Find(&links).Error; err != nil {
		t.Fatalf("load links: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("expected 2 link rows, got %d", len(links))
	}
}

func TestTradeRepositoryAcceptRollsBackOnMalformedLinks(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewTradeRepository(db)

	ann := seedUser(t, db, "ann")
	a1 := seedBook(t, db, ann.ID, "Dune")

	// A trade missing its from-side cannot compute the ownership swap. The
	// state transition already performed inside the transaction must be
	// rolled back with it.
	trade := models.Trade{State: models.TradeStateRequested}
	if err := db.Create(&trade).Error; err != nil {
		t.Fatalf("create trade: %v", err)
	}
	link := models.TradeBook{TradeID: trade.ID, BookID: a1.ID, Direction: models.DirectionTo, OwnerID: ann.ID}
	if err := db.Create(&link).Error; err != nil {
		t.Fatalf("create link: %v", err)
	}

	err := repo.Accept(context.Background(), trade.ID)
	if err == nil {
		t.Fatal("expected accept to fail")
	}

	var after models.Trade
	if err := db.First(&after, trade.ID).Error; err != nil {
		t.Fatalf("reload trade: %v", err)
	}
	if after.State != models.TradeStateRequested {
		t.Errorf("state = %s after rollback, want requested", after.State)
	}
	if owner := bookOwnerID(t, db, a1.ID); owner != ann.ID {
		t.Errorf("book owner = %d after rollback, want %d", owner, ann.ID)
	}
}

func TestTradeRepositoryAcceptGuardAgainstDoubleSettle(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewTradeRepository(db)

	ann := seedUser(t, db, "ann")
	bob := seedUser(t, db, "bob")
	a1 := seedBook(t, db, ann.ID, "Dune")
	b1 := seedBook(t, db, bob.ID, "Ubik")

	trade := &models.Trade{
		State: models.TradeStateRequested,
		Books: []models.TradeBook{
			{BookID: a1.ID, Direction: models.DirectionTo, OwnerID: ann.ID},
			{BookID: b1.ID, Direction: models.DirectionFrom, OwnerID: bob.ID},
		},
	}
	if err := repo.Create(context.Background(), trade); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Accept(context.Background(), trade.ID); err != nil {
		t.Fatalf("first accept: %v", err)
	}

	err := repo.Accept(context.Background(), trade.ID)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "INVALID_STATE" {
		t.Fatalf("second accept: expected INVALID_STATE, got %#v", err)
	}
	// The swap from the first accept must stand.
	if bookOwnerID(t, db, a1.ID) != bob.ID || bookOwnerID(t, db, b1.ID) != ann.ID {
		t.Error("double settle disturbed ownership")
	}
}

func TestBookRepositoryDeleteCascadeGuard(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	books := NewBookRepository(db)
	trades := NewTradeRepository(db)

	ann := seedUser(t, db, "ann")
	bob := seedUser(t, db, "bob")
	a1 := seedBook(t, db, ann.ID, "Dune")
	b1 := seedBook(t, db, bob.ID, "Ubik")

	trade := &models.Trade{
		State: models.TradeStateRequested,
		Books: []models.TradeBook{
			{BookID: a1.ID, Direction: models.DirectionTo, OwnerID: ann.ID},
			{BookID: b1.ID, Direction: models.DirectionFrom, OwnerID: bob.ID},
		},
	}
	if err := trades.Create(context.Background(), trade); err != nil {
		t.Fatalf("create trade: %v", err)
	}

	err := books.DeleteCascade(context.Background(), a1.ID)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "CONFLICT" {
		t.Fatalf("expected CONFLICT while trade pending, got %#v", err)
	}

	if err := trades.Accept(context.Background(), trade.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if err := books.DeleteCascade(context.Background(), a1.ID); err != nil {
		t.Fatalf("delete after settle: %v", err)
	}
	if err := books.DeleteCascade(context.Background(), b1.ID); err != nil {
		t.Fatalf("delete last book: %v", err)
	}

	// Trade lost all its links and was purged along with them.
	var count int64
	db.Model(&models.Trade{}).Count(&count)
	if count != 0 {
		t.Errorf("expected trade purged, got %d rows", count)
	}
}

func bookOwnerID(t *testing.T, db *gorm.DB, bookID uint) uint {
	t.Helper()
	var book models.Book
	if err := db.First(&book, bookID).Error; err != nil {
		t.Fatalf("load book %d: %v", bookID, err)
	}
	return book.OwnerID
}
