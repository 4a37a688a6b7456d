package service

import (
	"context"

	"bookswap/internal/models"
	"bookswap/internal/repository"
)

// BookService provides book catalog business logic.
type BookService struct {
	bookRepo repository.BookRepository
}

// NewBookService returns a new BookService.
func NewBookService(bookRepo repository.BookRepository) *BookService {
	return &BookService{bookRepo: bookRepo}
}

// List returns all books with their owners' public identity.
func (s *BookService) List(ctx context.Context) ([]models.BookListing, error) {
	return s.bookRepo.ListAll(ctx)
}

// Create lists a new book owned by the given user.
func (s *BookService) Create(ctx context.Context, userID uint, title, description string) (*models.Book, error) {
	if title == "" {
		return nil, models.NewValidationError("Book title must be provided")
	}
	if description == "" {
		return nil, models.NewValidationError("Book description must be provided")
	}

	book := &models.Book{
		OwnerID:     userID,
		Title:       title,
		Description: description,
	}
	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// Delete removes a book owned by the requesting user. Deletion is refused
// while a pending trade references the book.
func (s *BookService) Delete(ctx context.Context, userID, bookID uint) error {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return err
	}
	if book.OwnerID != userID {
		return models.NewUnauthorizedError("You cannot delete this book as you are not its owner")
	}

	return s.bookRepo.DeleteCascade(ctx, bookID)
}
