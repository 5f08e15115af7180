package postgres

import (
	"context"

	"github.com/baresto/baresto-api/models"
	"github.com/baresto/baresto-api/repositories"
	"github.com/baresto/baresto-api/services/catalog"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FoodRepository implements the repositories.FoodRepository interface
type FoodRepository struct {
	docs *documentTable
}

// NewFoodRepository creates a new food repository
func NewFoodRepository(db *DB, logger *zap.Logger) repositories.FoodRepository {
	return &FoodRepository{
		docs: &documentTable{db: db, collection: models.CollectionFoods, logger: logger},
	}
}

// Count returns the number of stored items
func (r *FoodRepository) Count(ctx context.Context) (int64, error) {
	return r.docs.count(ctx)
}

// List returns one page of items
func (r *FoodRepository) List(ctx context.Context, q *catalog.ListQuery) ([]*models.Document, error) {
	return r.docs.list(ctx, q)
}

// GetByID retrieves an item by id
func (r *FoodRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	return r.docs.getByID(ctx, id)
}

// Insert stores a new item
func (r *FoodRepository) Insert(ctx context.Context, doc *models.Document) error {
	return r.docs.insert(ctx, doc)
}

// FindByOwner returns items submitted by owner
func (r *FoodRepository) FindByOwner(ctx context.Context, owner string) ([]*models.Document, error) {
	return r.docs.findByOwner(ctx, owner)
}
