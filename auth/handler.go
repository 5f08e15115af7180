package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/baresto/baresto-api/utils"
	"go.uber.org/zap"
)

// TokenCookieName is the cookie carrying the identity token
const TokenCookieName = "token"

// maxLoginBodyBytes bounds the access-token request body
const maxLoginBodyBytes = 64 << 10

// TokenIssuer issues signed identity tokens for a payload
type TokenIssuer interface {
	Issue(payload map[string]interface{}) (string, error)
	TTL() time.Duration
}

// CookieConfig controls the attributes of the identity cookie
type CookieConfig struct {
	Secure bool
}

// AccessTokenRequest is the validated part of the login payload
type AccessTokenRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SuccessResponse is the body of login and logout responses
type SuccessResponse struct {
	Success bool `json:"success"`
}

// Handler issues and clears the identity cookie
type Handler struct {
	issuer TokenIssuer
	cookie CookieConfig
	logger *zap.Logger
}

// NewHandler creates a new auth handler
func NewHandler(issuer TokenIssuer, cookie CookieConfig, logger *zap.Logger) *Handler {
	return &Handler{
		issuer: issuer,
		cookie: cookie,
		logger: logger,
	}
}

// HandleAccessToken signs the JSON body and stores the token in an httpOnly cookie
func (h *Handler) HandleAccessToken(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(r)
	if err != nil {
		h.logger.Debug("invalid access token body", zap.Error(err))
		_ = utils.WriteBadRequest(w, "Request body must be a JSON object", nil)
		return
	}

	email, _ := payload["email"].(string)
	if err := utils.ValidateStruct(AccessTokenRequest{Email: email}); err != nil {
		details := make(map[string]interface{})
		for k, v := range utils.GetValidationFields(err) {
			details[k] = v
		}
		_ = utils.WriteBadRequest(w, "Validation failed", details)
		return
	}

	token, err := h.issuer.Issue(payload)
	if err != nil {
		if errors.Is(err, ErrReservedClaim) {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}
		h.logger.Error("failed to issue token", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to issue token")
		return
	}

	http.SetCookie(w, tokenCookie(h.cookie, token, int(h.issuer.TTL().Seconds())))

	h.logger.Info("access token issued", zap.String("email", email))
	_ = utils.WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// HandleLogout expires the identity cookie. It always succeeds.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if payload, err := decodePayload(r); err == nil {
		if email, ok := payload["email"].(string); ok {
			h.logger.Info("logging out", zap.String("email", email))
		}
	}

	http.SetCookie(w, ExpiredCookie(h.cookie))
	_ = utils.WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// ExpiredCookie returns a token cookie that makes the browser drop its copy
func ExpiredCookie(cfg CookieConfig) *http.Cookie {
	return tokenCookie(cfg, "", -1)
}

// tokenCookie builds the identity cookie. Browsers drop SameSite=None cookies
// that are not Secure, so insecure deployments fall back to Lax.
func tokenCookie(cfg CookieConfig, value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteNoneMode
	if !cfg.Secure {
		sameSite = http.SameSiteLaxMode
	}
	return &http.Cookie{
		Name:     TokenCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: sameSite,
	}
}

func decodePayload(r *http.Request) (map[string]interface{}, error) {
	if r.Body == nil {
		return nil, io.EOF
	}
	var payload map[string]interface{}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxLoginBodyBytes)).Decode(&payload); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, errors.New("payload must be an object")
	}
	return payload, nil
}
