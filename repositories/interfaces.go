package repositories

import (
	"context"
	"errors"

	"github.com/baresto/baresto-api/models"
	"github.com/baresto/baresto-api/services/catalog"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no document matches an id
var ErrNotFound = errors.New("document not found")

// FoodRepository handles menu item documents
type FoodRepository interface {
	// Count returns the number of stored items
	Count(ctx context.Context) (int64, error)

	// List returns one page of items matching the query, ordered by its sort
	// or by insertion order when it has none
	List(ctx context.Context, q *catalog.ListQuery) ([]*models.Document, error)

	// GetByID retrieves an item, or ErrNotFound
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)

	// Insert stores a new item
	Insert(ctx context.Context, doc *models.Document) error

	// FindByOwner returns items whose email equals owner; an empty owner
	// matches every item
	FindByOwner(ctx context.Context, owner string) ([]*models.Document, error)
}

// OrderRepository handles placed order documents
type OrderRepository interface {
	// Insert stores a new order
	Insert(ctx context.Context, doc *models.Document) error

	// FindByOwner returns orders whose email equals owner; an empty owner
	// matches every order
	FindByOwner(ctx context.Context, owner string) ([]*models.Document, error)

	// Delete removes an order and reports how many documents were deleted
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

// Repositories aggregates all repositories
type Repositories struct {
	Foods  FoodRepository
	Orders OrderRepository
}
