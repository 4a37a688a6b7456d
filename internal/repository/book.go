// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"bookswap/internal/models"

	"gorm.io/gorm"
)

// BookRepository defines the interface for book data operations
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id uint) (*models.Book, error)
	ListAll(ctx context.Context) ([]models.BookListing, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Book, error)
	ListOthers(ctx context.Context, ownerID uint) ([]models.BookListing, error)
	OwnerIDs(ctx context.Context, bookIDs []uint) ([]uint, error)
	DeleteCascade(ctx context.Context, bookID uint) error
}

// bookRepository implements BookRepository
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *bookRepository) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Book", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &book, nil
}

func (r *bookRepository) ListAll(ctx context.Context) ([]models.BookListing, error) {
	var listings []models.BookListing
	if err := r.db.WithContext(ctx).
		Table("books").
		Select("books.id, books.owner_id, books.title, books.description, books.created_at, users.username, users.location").
		Joins("JOIN users ON users.id = books.owner_id").
		Order("books.created_at DESC").
		Scan(&listings).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return listings, nil
}

func (r *bookRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Book, error) {
	var books []models.Book
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&books).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return books, nil
}

func (r *bookRepository) ListOthers(ctx context.Context, ownerID uint) ([]models.BookListing, error) {
	var listings []models.BookListing
	if err := r.db.WithContext(ctx).
		Table("books").
		Select("books.id, books.owner_id, books.title, books.description, books.created_at, users.username").
		Joins("JOIN users ON users.id = books.owner_id").
		Where("books.owner_id != ?", ownerID).
		Order("books.created_at DESC").
		Scan(&listings).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return listings, nil
}

func (r *bookRepository) OwnerIDs(ctx context.Context, bookIDs []uint) ([]uint, error) {
	var ownerIDs []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id IN ?", bookIDs).
		Pluck("owner_id", &ownerIDs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ownerIDs, nil
}

// DeleteCascade removes a book and cleans up trades that referenced it.
// Deletion is refused while any requested-state trade references the book;
// the book's links on terminal trades are removed, and trades left with no
// links at all are purged.
func (r *bookRepository) DeleteCascade(ctx context.Context, bookID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pending int64
		if err := tx.Model(&models.TradeBook{}).
			Joins("JOIN trades ON trades.id = trades_books.trade_id").
			Where("trades_books.book_id = ? AND trades.state = ?", bookID, models.TradeStateRequested).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return models.NewConflictError("You cannot delete this book as it is requested in a trade")
		}

		// Trades that referenced this book may end up with no links left.
		var tradeIDs []uint
		if err := tx.Model(&models.TradeBook{}).
			Where("book_id = ?", bookID).
			Pluck("trade_id", &tradeIDs).Error; err != nil {
			return err
		}

		if err := tx.Where("book_id = ?", bookID).Delete(&models.TradeBook{}).Error; err != nil {
			return err
		}

		if len(tradeIDs) > 0 {
			var orphaned []uint
			if err := tx.Model(&models.Trade{}).
				Where("id IN ?", tradeIDs).
				Where("NOT EXISTS (SELECT 1 FROM trades_books WHERE trades_books.trade_id = trades.id)").
				Pluck("id", &orphaned).Error; err != nil {
				return err
			}
			if len(orphaned) > 0 {
				if err := tx.Where("id IN ?", orphaned).Delete(&models.Trade{}).Error; err != nil {
					return err
				}
			}
		}

		result := tx.Delete(&models.Book{}, bookID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("Book", bookID)
		}
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return models.NewInternalError(err)
	}
	return nil
}
