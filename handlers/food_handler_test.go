package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/baresto/baresto-api/config"
	"github.com/baresto/baresto-api/middleware"
	"github.com/baresto/baresto-api/models"
	"github.com/baresto/baresto-api/repositories"
	"github.com/baresto/baresto-api/services/catalog"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testCatalog = config.CatalogConfig{DefaultLimit: 10, MaxLimit: 100}

func newFoodHandler(foods *MockFoodRepository) *FoodHandler {
	logger := zap.NewNop()
	return NewFoodHandler(foods, middleware.NewOwnershipGuard(false, logger), testCatalog, logger)
}

func authedRequest(method, target, email string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := middleware.WithClaims(req.Context(), &middleware.Claims{
		Email:   email,
		Payload: map[string]interface{}{"email": email},
	})
	return req.WithContext(ctx)
}

func decodeArray(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}

func TestFoodHandler_HandleCount(t *testing.T) {
	t.Run("returns count", func(t *testing.T) {
		foods := new(MockFoodRepository)
		foods.On("Count", mock.Anything).Return(int64(7), nil)

		w := httptest.NewRecorder()
		newFoodHandler(foods).HandleCount(w, httptest.NewRequest(http.MethodGet, "/api/v1/foodsCount", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"count":7}`, w.Body.String())
		foods.AssertExpectations(t)
	})

	t.Run("store failure is 500", func(t *testing.T) {
		foods := new(MockFoodRepository)
		foods.On("Count", mock.Anything).Return(int64(0), errors.New("connection refused"))

		w := httptest.NewRecorder()
		newFoodHandler(foods).HandleCount(w, httptest.NewRequest(http.MethodGet, "/api/v1/foodsCount", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestFoodHandler_HandleList(t *testing.T) {
	t.Run("passes parsed query to store", func(t *testing.T) {
		foods := new(MockFoodRepository)
		doc := &models.Document{ID: uuid.New(), Fields: map[string]interface{}{"name": "Latte", "category": "drinks"}}

		foods.On("List", mock.Anything, mock.MatchedBy(func(q *catalog.ListQuery) bool {
			return q.Category == "drinks" &&
				q.Page == 2 && q.Limit == 10 && q.Skip() == 20 &&
				q.Sort != nil && q.Sort.Field == "price" && q.Sort.Direction == catalog.SortAscending
		})).Return([]*models.Document{doc}, nil)

		req := httptest.NewRequest(http.MethodGet,
			"/api/v1/allfoods?category=drinks&page=2&limit=10&sortField=price&sortOrder=asc", nil)
		w := httptest.NewRecorder()
		newFoodHandler(foods).HandleList(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		items := decodeArray(t, w)
		require.Len(t, items, 1)
		assert.Equal(t, doc.ID.String(), items[0]["_id"])
		assert.Equal(t, "Latte", items[0]["name"])
		foods.AssertExpectations(t)
	})

	t.Run("zero limit returns empty list without store access", func(t *testing.T) {
		foods := new(MockFoodRepository)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/allfoods?page=0&limit=0", nil)
		w := httptest.NewRecorder()
		newFoodHandler(foods).HandleList(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
		foods.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("non-numeric page is 400", func(t *testing.T) {
		foods := new(MockFoodRepository)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/allfoods?page=abc&limit=10", nil)
		w := httptest.NewRecorder()
		newFoodHandler(foods).HandleList(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "page")
		foods.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("bad sort order is 400", func(t *testing.T) {
		foods := new(MockFoodRepository)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/allfoods?sortField=price&sortOrder=up", nil)
		w := httptest.NewRecorder()
		newFoodHandler(foods).HandleList(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("empty result is an empty array", func(t *testing.T) {
		foods := new(MockFoodRepository)
		foods.On("List", mock.Anything, mock.Anything).Return([]*models.Document{}, nil)

		w := httptest.NewRecorder()
		newFoodHandler(foods).HandleList(w, httptest.NewRequest(http.MethodGet, "/api/v1/allfoods", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("store failure is 500", func(t *testing.T) {
		foods := new(MockFoodRepository)
		foods.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

		w := httptest.NewRecorder()
		newFoodHandler(foods).HandleList(w, httptest.NewRequest(http.MethodGet, "/api/v1/allfoods", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestFoodHandler_HandleGet(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		foods := new(MockFoodRepository)
		id := uuid.New()
		foods.On("GetByID", mock.Anything, id).
			Return(&models.Document{ID: id, Fields: map[string]interface{}{"name": "Bagel"}}, nil)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/allfoods/"+id.String(), nil), "foodId", id.String())
		w := httptest.NewRecorder()
		newFoodHandler(foods).HandleGet(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"_id":"`+id.String()+`","name":"Bagel"}`, w.Body.String())
	})

	t.Run("missing is 404", func(t *testing.T) {
		foods := new(MockFoodRepository)
		id := uuid.New()
		foods.On("GetByID", mock.Anything, id).Return(nil, repositories.ErrNotFound)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "foodId", id.String())
		w := httptest.NewRecorder()
		newFoodHandler(foods).HandleGet(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id is 400", func(t *testing.T) {
		foods := new(MockFoodRepository)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "foodId", "not-an-id")
		w := httptest.NewRecorder()
		newFoodHandler(foods).HandleGet(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		foods.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestFoodHandler_HandleAdd(t *testing.T) {
	t.Run("inserts and acknowledges", func(t *testing.T) {
		foods := new(MockFoodRepository)
		var stored *models.Document
		foods.On("Insert", mock.Anything, mock.AnythingOfType("*models.Document")).
			Run(func(args mock.Arguments) { stored = args.Get(1).(*models.Document) }).
			Return(nil)

		body := `{"name":"Croissant","category":"bakery","email":"chef@x.com","price":3}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/additem", strings.NewReader(body))
		w := httptest.NewRecorder()
		newFoodHandler(foods).HandleAdd(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, stored)
		assert.Equal(t, "Croissant", stored.Fields["name"])
		assert.JSONEq(t, `{"acknowledged":true,"insertedId":"`+stored.ID.String()+`"}`, w.Body.String())
	})

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"array body", `[1,2]`},
		{"malformed json", `{"name":`},
		{"invalid email", `{"name":"x","email":"nope"}`},
		{"non-string email", `{"name":"x","email":5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name+" is 400", func(t *testing.T) {
			foods := new(MockFoodRepository)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/additem", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			newFoodHandler(foods).HandleAdd(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			foods.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		})
	}

	t.Run("store failure is 500", func(t *testing.T) {
		foods := new(MockFoodRepository)
		foods.On("Insert", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/additem", strings.NewReader(`{"name":"x"}`))
		w := httptest.NewRecorder()
		newFoodHandler(foods).HandleAdd(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestFoodHandler_HandleUserItems(t *testing.T) {
	t.Run("own email filters by owner", func(t *testing.T) {
		foods := new(MockFoodRepository)
		foods.On("FindByOwner", mock.Anything, "a@x.com").Return([]*models.Document{
			{ID: uuid.New(), Fields: map[string]interface{}{"email": "a@x.com"}},
		}, nil)

		w := httptest.NewRecorder()
		newFoodHandler(foods).HandleUserItems(w, authedRequest(http.MethodGet, "/api/v1/useritem?email=a@x.com", "a@x.com"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeArray(t, w), 1)
		foods.AssertExpectations(t)
	})

	t.Run("other email is 403 without store access", func(t *testing.T) {
		foods := new(MockFoodRepository)

		w := httptest.NewRecorder()
		newFoodHandler(foods).HandleUserItems(w, authedRequest(http.MethodGet, "/api/v1/useritem?email=b@x.com", "a@x.com"))

		assert.Equal(t, http.StatusForbidden, w.Code)
		foods.AssertNotCalled(t, "FindByOwner", mock.Anything, mock.Anything)
	})

	t.Run("absent email lists everything", func(t *testing.T) {
		foods := new(MockFoodRepository)
		foods.On("FindByOwner", mock.Anything, "").Return([]*models.Document{}, nil)

		w := httptest.NewRecorder()
		newFoodHandler(foods).HandleUserItems(w, authedRequest(http.MethodGet, "/api/v1/useritem", "a@x.com"))

		assert.Equal(t, http.StatusOK, w.Code)
		foods.AssertExpectations(t)
	})

	t.Run("no claims is 401", func(t *testing.T) {
		foods := new(MockFoodRepository)

		w := httptest.NewRecorder()
		newFoodHandler(foods).HandleUserItems(w, httptest.NewRequest(http.MethodGet, "/api/v1/useritem?email=a@x.com", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("strict guard scopes absent email to caller", func(t *testing.T) {
		foods := new(MockFoodRepository)
		foods.On("FindByOwner", mock.Anything, "a@x.com").Return([]*models.Document{}, nil)

		logger := zap.NewNop()
		h := NewFoodHandler(foods, middleware.NewOwnershipGuard(true, logger), testCatalog, logger)

		w := httptest.NewRecorder()
		h.HandleUserItems(w, authedRequest(http.MethodGet, "/api/v1/useritem", "a@x.com"))

		assert.Equal(t, http.StatusOK, w.Code)
		foods.AssertExpectations(t)
	})
}

// ensure context-carrying requests reach the store with the same context values
func TestFoodHandler_PropagatesContext(t *testing.T) {
	type key struct{}
	foods := new(MockFoodRepository)
	foods.On("Count", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Value(key{}) == "v"
	})).Return(int64(1), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/foodsCount", nil)
	req = req.WithContext(context.WithValue(req.Context(), key{}, "v"))
	w := httptest.NewRecorder()
	newFoodHandler(foods).HandleCount(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	foods.AssertExpectations(t)
}
