// Package service contains the application's business logic, sitting between
// HTTP handlers and repositories.
package service

import (
	"context"

	"bookswap/internal/models"
	"bookswap/internal/repository"
)

// TradeService provides trade lifecycle business logic: proposal creation,
// acceptance with conflict resolution, and trade listings.
type TradeService struct {
	tradeRepo repository.TradeRepository
	bookRepo  repository.BookRepository
	userRepo  repository.UserRepository
}

// NewTradeService returns a new TradeService.
func NewTradeService(tradeRepo repository.TradeRepository, bookRepo repository.BookRepository, userRepo repository.UserRepository) *TradeService {
	return &TradeService{
		tradeRepo: tradeRepo,
		bookRepo:  bookRepo,
		userRepo:  userRepo,
	}
}

// Propose creates a trade proposal: the user offers booksGiven in exchange
// for booksTaken, all of which must belong to one other user. Proposing never
// moves books; ownership changes only on acceptance.
func (s *TradeService) Propose(ctx context.Context, userID uint, booksGiven []uint, booksTaken []models.TakenBook) (*models.Trade, error) {
	if len(booksGiven) == 0 || len(booksTaken) == 0 {
		return nil, models.NewValidationError("Both sides of a trade must contain at least one book")
	}

	givenOwners, err := s.bookRepo.OwnerIDs(ctx, booksGiven)
	if err != nil {
		return nil, err
	}
	if len(givenOwners) != len(booksGiven) {
		return nil, models.NewValidationError("One or more offered books do not exist")
	}
	for _, ownerID := range givenOwners {
		if ownerID != userID {
			return nil, models.NewUnauthorizedError("You are not the owner of the book(s) you want to trade")
		}
	}

	counterpartyID := booksTaken[0].OwnerID
	for _, taken := range booksTaken {
		if taken.OwnerID != counterpartyID {
			return nil, models.NewInvalidRequestError("Books requested to be taken have to belong to same owner")
		}
	}
	if counterpartyID == userID {
		return nil, models.NewInvalidRequestError("You cannot request a trade with yourself")
	}

	// The counterparty ownership claim comes from the client; verify it
	// against live book rows so every from-link records the true owner.
	takenIDs := make([]uint, 0, len(booksTaken))
	for _, taken := range booksTaken {
		takenIDs = append(takenIDs, taken.ID)
	}
	takenOwners, err := s.bookRepo.OwnerIDs(ctx, takenIDs)
	if err != nil {
		return nil, err
	}
	if len(takenOwners) != len(takenIDs) {
		return nil, models.NewValidationError("One or more requested books do not exist")
	}
	for _, ownerID := range takenOwners {
		if ownerID != counterpartyID {
			return nil, models.NewInvalidRequestError("Books requested to be taken have to belong to same owner")
		}
	}

	trade := &models.Trade{State: models.TradeStateRequested}
	for _, bookID := range booksGiven {
		trade.Books = append(trade.Books, models.TradeBook{
			BookID:    bookID,
			Direction: models.DirectionTo,
			OwnerID:   userID,
		})
	}
	for _, taken := range booksTaken {
		trade.Books = append(trade.Books, models.TradeBook{
			BookID:    taken.ID,
			Direction: models.DirectionFrom,
			OwnerID:   counterpartyID,
		})
	}

	if err := s.tradeRepo.Create(ctx, trade); err != nil {
		return nil, err
	}
	return trade, nil
}

// Accept settles a pending trade on behalf of the accepting user. Only the
// recorded counterparty (the owner of the requested books) may accept.
func (s *TradeService) Accept(ctx context.Context, userID, tradeID uint) error {
	trade, err := s.tradeRepo.GetByID(ctx, tradeID)
	if err != nil {
		return err
	}
	if trade.State != models.TradeStateRequested {
		return models.NewInvalidStateError("Trade is not in requested state")
	}

	_, fromOwnerID, err := models.OwnersByDirection(trade.Books)
	if err != nil {
		return models.NewInternalError(err)
	}
	if fromOwnerID != userID {
		return models.NewUnauthorizedError("Only the owner of the requested books can accept this trade")
	}

	return s.tradeRepo.Accept(ctx, tradeID)
}

// ListRequests returns all pending trade proposals as two-sided aggregates.
func (s *TradeService) ListRequests(ctx context.Context) ([]models.TradeSummary, error) {
	rows, err := s.tradeRepo.ListRows(ctx, models.TradeStateRequested)
	if err != nil {
		return nil, err
	}
	return FoldTradeRows(rows), nil
}

// ListSettled returns all accepted trades as two-sided aggregates.
func (s *TradeService) ListSettled(ctx context.Context) ([]models.TradeSummary, error) {
	rows, err := s.tradeRepo.ListRows(ctx, models.TradeStateAccepted)
	if err != nil {
		return nil, err
	}
	return FoldTradeRows(rows), nil
}

// TradeCandidates holds the books a user can offer and the books they can
// request when composing a proposal.
type TradeCandidates struct {
	UserBooks  []models.Book        `json:"userBooks"`
	OtherBooks []models.BookListing `json:"otherBooks"`
}

// Candidates returns the proposal-composer inputs for the given user.
func (s *TradeService) Candidates(ctx context.Context, userID uint) (*TradeCandidates, error) {
	userBooks, err := s.bookRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	otherBooks, err := s.bookRepo.ListOthers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &TradeCandidates{UserBooks: userBooks, OtherBooks: otherBooks}, nil
}

// IncomingRequests returns pending trades in which the user is the
// counterparty, i.e. proposals awaiting their acceptance.
func (s *TradeService) IncomingRequests(ctx context.Context, userID uint) ([]models.TradeSummary, error) {
	rows, err := s.tradeRepo.ListRows(ctx, models.TradeStateRequested)
	if err != nil {
		return nil, err
	}

	incoming := make([]models.TradeSummary, 0)
	for _, summary := range FoldTradeRows(rows) {
		if summary.From != nil && summary.From.OwnerID == userID {
			incoming = append(incoming, summary)
		}
	}
	return incoming, nil
}

// FoldTradeRows folds an ordered sequence of flat listing rows into one
// aggregate per trade with a "to" and a "from" side. The first row of a
// trade establishes the record; later rows either populate the missing side
// or append to an existing side's book list. The fold is a deterministic
// single pass independent of the storage engine.
func FoldTradeRows(rows []models.TradeRow) []models.TradeSummary {
	result := make([]models.TradeSummary, 0)
	index := make(map[uint]int)

	for _, row := range rows {
		book := models.TradeSideBook{
			BookID:      row.BookID,
			Title:       row.Title,
			Description: row.Description,
		}

		i, seen := index[row.TradeID]
		if !seen {
			index[row.TradeID] = len(result)
			summary := models.TradeSummary{TradeID: row.TradeID}
			setSide(&summary, row, book)
			result = append(result, summary)
			continue
		}

		side := sideFor(&result[i], row.Direction)
		if *side == nil {
			setSide(&result[i], row, book)
		} else {
			(*side).Books = append((*side).Books, book)
		}
	}

	return result
}

func sideFor(summary *models.TradeSummary, direction models.TradeDirection) **models.TradeSide {
	if direction == models.DirectionTo {
		return &summary.To
	}
	return &summary.From
}

func setSide(summary *models.TradeSummary, row models.TradeRow, book models.TradeSideBook) {
	side := &models.TradeSide{
		Username: row.Username,
		OwnerID:  row.OwnerID,
		Books:    []models.TradeSideBook{book},
	}
	if row.Direction == models.DirectionTo {
		summary.To = side
	} else {
		summary.From = side
	}
}
