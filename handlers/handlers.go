package handlers

import (
	"net/http"

	"github.com/baresto/baresto-api/middleware"
	"github.com/baresto/baresto-api/utils"
)

// CurrentUserResponse is the response body for GET /api/v1/me
type CurrentUserResponse struct {
	Email     string                 `json:"email"`
	Claims    map[string]interface{} `json:"claims"`
	IssuedAt  int64                  `json:"iat"`
	ExpiresAt int64                  `json:"exp"`
}

// GetCurrentUserHandler echoes the verified token claims
func GetCurrentUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.GetClaimsFromContext(r.Context())
		if claims == nil {
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}
		payload := claims.Payload
		if payload == nil {
			payload = map[string]interface{}{}
		}
		_ = utils.WriteOK(w, CurrentUserResponse{
			Email:     claims.Email,
			Claims:    payload,
			IssuedAt:  claims.IssuedAt.Unix(),
			ExpiresAt: claims.ExpiresAt.Unix(),
		})
	}
}

// NotFoundHandler answers unknown routes with a JSON 404
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "Route not found")
	}
}

// MethodNotAllowedHandler answers known routes hit with the wrong verb
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteJSON(w, http.StatusMethodNotAllowed, utils.ErrorResponse{
			Error:   "method_not_allowed",
			Message: "Method not allowed",
		})
	}
}
