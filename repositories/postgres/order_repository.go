package postgres

import (
	"context"

	"github.com/baresto/baresto-api/models"
	"github.com/baresto/baresto-api/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderRepository implements the repositories.OrderRepository interface
type OrderRepository struct {
	docs *documentTable
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *DB, logger *zap.Logger) repositories.OrderRepository {
	return &OrderRepository{
		docs: &documentTable{db: db, collection: models.CollectionOrders, logger: logger},
	}
}

// Insert stores a new order
func (r *OrderRepository) Insert(ctx context.Context, doc *models.Document) error {
	return r.docs.insert(ctx, doc)
}

// FindByOwner returns orders placed by owner
func (r *OrderRepository) FindByOwner(ctx context.Context, owner string) ([]*models.Document, error) {
	return r.docs.findByOwner(ctx, owner)
}

// Delete removes an order by id
func (r *OrderRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	return r.docs.delete(ctx, id)
}
