package handlers

import (
	"net/http"

	"github.com/baresto/baresto-api/middleware"
	"github.com/baresto/baresto-api/models"
	"github.com/baresto/baresto-api/repositories"
	"github.com/baresto/baresto-api/services"
	"github.com/baresto/baresto-api/utils"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	orders repositories.OrderRepository
	owners OwnerResolver
	logger *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders repositories.OrderRepository, owners OwnerResolver, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		owners: owners,
		logger: logger,
	}
}

// HandlePlace handles POST /api/v1/userorders
func (h *OrderHandler) HandlePlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	doc, err := decodeDocument(r)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := h.orders.Insert(ctx, doc); err != nil {
		HandleServiceError(w, services.ErrDatabaseError.WithCause(err), h.logger)
		return
	}

	h.logger.Info("order placed",
		zap.String("request_id", middleware.GetRequestIDFromContext(ctx)),
		zap.String("id", doc.ID.String()),
		zap.String("email", doc.Email()))

	_ = utils.WriteJSON(w, http.StatusOK, models.InsertResult{Acknowledged: true, InsertedID: doc.ID})
}

// HandleUserOrders handles GET /api/v1/usersorderitems. Requires RequireAuth.
func (h *OrderHandler) HandleUserOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	owner, err := h.owners.Resolve(ctx, r.URL.Query().Get("email"))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	docs, err := h.orders.FindByOwner(ctx, owner)
	if err != nil {
		HandleServiceError(w, services.ErrDatabaseError.WithCause(err), h.logger)
		return
	}

	_ = writeDocuments(w, docs)
}

// HandleCancel handles DELETE /api/v1/cancelorders/{id}.
// A missing order reports deletedCount 0.
func (h *OrderHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseDocumentID(chi.URLParam(r, "id"))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	deleted, err := h.orders.Delete(ctx, id)
	if err != nil {
		HandleServiceError(w, services.ErrDatabaseError.WithCause(err), h.logger)
		return
	}

	h.logger.Info("order cancelled",
		zap.String("request_id", middleware.GetRequestIDFromContext(ctx)),
		zap.String("id", id.String()),
		zap.Int64("deleted", deleted))

	_ = utils.WriteJSON(w, http.StatusOK, models.DeleteResult{Acknowledged: true, DeletedCount: deleted})
}
