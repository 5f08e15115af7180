package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long an issued token stays valid
const DefaultTokenTTL = time.Hour

var (
	// ErrInvalidToken is returned for any token that fails verification
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when the token has expired. It matches ErrInvalidToken.
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrInvalidToken)

	// ErrReservedClaim is returned when a payload tries to set exp or iat itself
	ErrReservedClaim = errors.New("payload contains reserved claim")

	// ErrEmptySecret is returned when the service has no signing secret
	ErrEmptySecret = errors.New("signing secret is empty")
)

// reservedClaims are owned by the token service and stripped from verified payloads
var reservedClaims = []string{"exp", "iat"}

// Claims represents a verified token: the issued payload plus its validity window
type Claims struct {
	Email     string
	Payload   map[string]interface{}
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies HS256 signed identity tokens
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a token service. A non-positive ttl falls back to DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the time source used for issuing and expiry checks
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// TTL returns the lifetime of issued tokens
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs payload and embeds an expiration of now + TTL
func (s *TokenService) Issue(payload map[string]interface{}) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrEmptySecret
	}

	claims := jwt.MapClaims{}
	for k, v := range payload {
		for _, reserved := range reservedClaims {
			if k == reserved {
				return "", fmt.Errorf("%w: %s", ErrReservedClaim, k)
			}
		}
		claims[k] = v
	}

	now := s.now()
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(s.ttl))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the signed payload.
// Every failure matches ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	if len(s.secret) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, ErrEmptySecret)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	exp, err := mapClaims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidToken
	}

	parsed := &Claims{
		Payload:   make(map[string]interface{}, len(mapClaims)),
		ExpiresAt: exp.Time,
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		parsed.IssuedAt = iat.Time
	}

	for k, v := range mapClaims {
		parsed.Payload[k] = v
	}
	for _, reserved := range reservedClaims {
		delete(parsed.Payload, reserved)
	}

	if email, ok := parsed.Payload["email"].(string); ok {
		parsed.Email = email
	}

	return parsed, nil
}
