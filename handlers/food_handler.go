package handlers

import (
	"errors"
	"net/http"

	"github.com/baresto/baresto-api/config"
	"github.com/baresto/baresto-api/middleware"
	"github.com/baresto/baresto-api/models"
	"github.com/baresto/baresto-api/repositories"
	"github.com/baresto/baresto-api/services"
	"github.com/baresto/baresto-api/services/catalog"
	"github.com/baresto/baresto-api/utils"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// FoodHandler handles menu item endpoints
type FoodHandler struct {
	foods   repositories.FoodRepository
	owners  OwnerResolver
	catalog config.CatalogConfig
	logger  *zap.Logger
}

// NewFoodHandler creates a new FoodHandler
func NewFoodHandler(foods repositories.FoodRepository, owners OwnerResolver, catalogCfg config.CatalogConfig, logger *zap.Logger) *FoodHandler {
	return &FoodHandler{
		foods:   foods,
		owners:  owners,
		catalog: catalogCfg,
		logger:  logger,
	}
}

// HandleCount handles GET /api/v1/foodsCount
func (h *FoodHandler) HandleCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	count, err := h.foods.Count(ctx)
	if err != nil {
		HandleServiceError(w, services.ErrDatabaseError.WithCause(err), h.logger)
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, models.CountResult{Count: count})
}

// HandleList handles GET /api/v1/allfoods
func (h *FoodHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	q, err := catalog.ParseListQuery(r.URL.Query(), h.catalog.DefaultLimit, h.catalog.MaxLimit)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if q.Empty() {
		_ = writeDocuments(w, nil)
		return
	}

	h.logger.Debug("listing foods",
		zap.String("request_id", requestID),
		zap.String("category", q.Category),
		zap.Int("page", q.Page),
		zap.Int("limit", q.Limit))

	docs, err := h.foods.List(ctx, q)
	if err != nil {
		HandleServiceError(w, services.ErrDatabaseError.WithCause(err), h.logger)
		return
	}

	_ = writeDocuments(w, docs)
}

// HandleGet handles GET /api/v1/allfoods/{foodId}
func (h *FoodHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseDocumentID(chi.URLParam(r, "foodId"))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	doc, err := h.foods.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			HandleServiceError(w, services.ErrFoodNotFound, h.logger)
			return
		}
		HandleServiceError(w, services.ErrDatabaseError.WithCause(err), h.logger)
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, doc)
}

// HandleAdd handles POST /api/v1/additem
func (h *FoodHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	doc, err := decodeDocument(r)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := h.foods.Insert(ctx, doc); err != nil {
		HandleServiceError(w, services.ErrDatabaseError.WithCause(err), h.logger)
		return
	}

	h.logger.Info("food added",
		zap.String("request_id", middleware.GetRequestIDFromContext(ctx)),
		zap.String("id", doc.ID.String()),
		zap.String("email", doc.Email()))

	_ = utils.WriteJSON(w, http.StatusOK, models.InsertResult{Acknowledged: true, InsertedID: doc.ID})
}

// HandleUserItems handles GET /api/v1/useritem. Requires RequireAuth.
func (h *FoodHandler) HandleUserItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	owner, err := h.owners.Resolve(ctx, r.URL.Query().Get("email"))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	docs, err := h.foods.FindByOwner(ctx, owner)
	if err != nil {
		HandleServiceError(w, services.ErrDatabaseError.WithCause(err), h.logger)
		return
	}

	_ = writeDocuments(w, docs)
}
