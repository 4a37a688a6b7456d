package service

import (
	"context"

	"bookswap/internal/models"
	"bookswap/internal/repository"
)

// UserService provides user directory and profile business logic.
type UserService struct {
	userRepo repository.UserRepository
	bookRepo repository.BookRepository
	trades   *TradeService
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, bookRepo repository.BookRepository, trades *TradeService) *UserService {
	return &UserService{userRepo: userRepo, bookRepo: bookRepo, trades: trades}
}

// List returns the public user directory.
func (s *UserService) List(ctx context.Context) ([]models.PublicUser, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	public := make([]models.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	return public, nil
}

// Profile holds a user's own view: identity, owned books, and pending trade
// proposals awaiting their acceptance.
type Profile struct {
	User     models.PublicUser     `json:"user"`
	Books    []models.Book         `json:"books"`
	Requests []models.TradeSummary `json:"requests"`
}

// Me assembles the profile for the given user.
func (s *UserService) Me(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	books, err := s.bookRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	requests, err := s.trades.IncomingRequests(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		User:     user.Public(),
		Books:    books,
		Requests: requests,
	}, nil
}
