// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"bookswap/internal/models"

	"gorm.io/gorm"
)

// TradeRepository defines the interface for trade data operations
type TradeRepository interface {
	Create(ctx context.Context, trade *models.Trade) error
	GetByID(ctx context.Context, id uint) (*models.Trade, error)
	ListRows(ctx context.Context, state models.TradeState) ([]models.TradeRow, error)
	Accept(ctx context.Context, tradeID uint) error
}

// tradeRepository implements TradeRepository
type tradeRepository struct {
	db *gorm.DB
}

// NewTradeRepository creates a new trade repository
func NewTradeRepository(db *gorm.DB) TradeRepository {
	return &tradeRepository{db: db}
}

// Create persists the trade and its book links in one transaction.
// Callers are responsible for validating ownership and sides beforehand.
func (r *tradeRepository) Create(ctx context.Context, trade *models.Trade) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		links := trade.Books
		trade.Books = nil
		if err := tx.Create(trade).Error; err != nil {
			return err
		}
		for i := range links {
			links[i].TradeID = trade.ID
		}
		if err := tx.Create(&links).Error; err != nil {
			return err
		}
		trade.Books = links
		return nil
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *tradeRepository) GetByID(ctx context.Context, id uint) (*models.Trade, error) {
	var trade models.Trade
	if err := r.db.WithContext(ctx).Preload("Books").First(&trade, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Trade", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &trade, nil
}

// ListRows returns the flat trade listing join for all trades in the given
// state, ordered so rows of one trade stay adjacent. The service folds these
// rows into two-sided aggregates.
func (r *tradeRepository) ListRows(ctx context.Context, state models.TradeState) ([]models.TradeRow, error) {
	var rows []models.TradeRow
	if err := r.db.WithContext(ctx).
		Table("trades").
		Select("trades.id AS trade_id, books.id AS book_id, books.title, books.description, trades_books.direction, trades_books.owner_id, users.username").
		Joins("JOIN trades_books ON trades_books.trade_id = trades.id").
		Joins("JOIN books ON books.id = trades_books.book_id").
		Joins("JOIN users ON users.id = trades_books.owner_id").
		Where("trades.state = ?", state).
		Order("trades.id ASC, trades_books.direction DESC").
		Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return rows, nil
}

// Accept settles a trade: transition to accepted, cancel every other pending
// trade sharing a book with it, and swap book ownership between the two
// recorded owners. All steps run in one transaction; any failure rolls the
// whole operation back. The `state = requested` predicate on the first UPDATE
// is the optimistic guard against concurrent acceptance.
func (r *tradeRepository) Accept(ctx context.Context, tradeID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Trade{}).
			Where("id = ? AND state = ?", tradeID, models.TradeStateRequested).
			Update("state", models.TradeStateAccepted)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.NewInvalidStateError("Trade is not in requested state")
		}

		var links []models.TradeBook
		if err := tx.Where("trade_id = ?", tradeID).Find(&links).Error; err != nil {
			return err
		}

		bookIDs := make([]uint, 0, len(links))
		for _, link := range links {
			bookIDs = append(bookIDs, link.BookID)
		}

		// Conflict resolution: the accepted trade wins unconditionally over
		// every other pending trade referencing any of its books.
		if err := tx.Model(&models.Trade{}).
			Where("state = ? AND id != ?", models.TradeStateRequested, tradeID).
			Where("id IN (?)", tx.Model(&models.TradeBook{}).
				Select("trade_id").
				Where("book_id IN ?", bookIDs)).
			Update("state", models.TradeStateCancelled).Error; err != nil {
			return err
		}

		toOwnerID, fromOwnerID, err := models.OwnersByDirection(links)
		if err != nil {
			return err
		}

		// Full swap: books the proposer gave move to the counterparty,
		// requested books move to the proposer.
		for _, link := range links {
			newOwnerID := toOwnerID
			if link.Direction == models.DirectionTo {
				newOwnerID = fromOwnerID
			}
			if err := tx.Model(&models.Book{}).
				Where("id = ?", link.BookID).
				Update("owner_id", newOwnerID).Error; err != nil {
				return err
			}
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
