package handlers

import (
	"net/http"

	"github.com/baresto/baresto-api/auth"
	"github.com/baresto/baresto-api/utils"
)

// AuthDeps provides auth handler for route wiring
type AuthDeps interface {
	AuthHandler() *auth.Handler
}

// AccessTokenHandler returns an http.HandlerFunc for POST /api/v1/auth/access-token
func AccessTokenHandler(deps AuthDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h := deps.AuthHandler(); h != nil {
			h.HandleAccessToken(w, r)
			return
		}
		_ = utils.WriteInternalServerError(w, "Authentication not configured")
	}
}

// LogoutHandler returns an http.HandlerFunc for POST /api/v1/logout.
// Clearing the cookie needs no secret, so it succeeds without an auth handler.
func LogoutHandler(deps AuthDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h := deps.AuthHandler(); h != nil {
			h.HandleLogout(w, r)
			return
		}
		http.SetCookie(w, auth.ExpiredCookie(auth.CookieConfig{Secure: true}))
		_ = utils.WriteJSON(w, http.StatusOK, auth.SuccessResponse{Success: true})
	}
}
