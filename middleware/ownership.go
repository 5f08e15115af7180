package middleware

import (
	"context"

	"github.com/baresto/baresto-api/services"
	"go.uber.org/zap"
)

// OwnershipGuard checks that an owner filter supplied by the caller names
// the caller's own identity.
type OwnershipGuard struct {
	requireFilter bool
	logger        *zap.Logger
}

// NewOwnershipGuard creates a guard. With requireFilter set, a missing
// filter is scoped to the caller instead of matching every document.
func NewOwnershipGuard(requireFilter bool, logger *zap.Logger) *OwnershipGuard {
	return &OwnershipGuard{
		requireFilter: requireFilter,
		logger:        logger,
	}
}

// Resolve returns the owner email to filter by, or "" for no owner constraint.
// A non-nil error is terminal: callers must respond with it and skip the store.
func (g *OwnershipGuard) Resolve(ctx context.Context, requested string) (string, error) {
	claims := GetClaimsFromContext(ctx)
	if claims == nil {
		return "", services.ErrUnauthorized
	}

	if requested == "" {
		if !g.requireFilter {
			return "", nil
		}
		if claims.Email == "" {
			return "", services.ErrOwnerMismatch
		}
		return claims.Email, nil
	}

	if requested != claims.Email {
		g.logger.Warn("owner filter does not match token",
			zap.String("request_id", GetRequestIDFromContext(ctx)),
			zap.String("requested", requested),
			zap.String("token_email", claims.Email))
		return "", services.ErrOwnerMismatch
	}

	return requested, nil
}
