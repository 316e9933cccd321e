// Package middleware composes the operator guard for sentinel and corrector
// maintenance routes.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	jwttoken "triad/internal/jwt_token"
	"triad/pkg/platform/audit"
	"triad/pkg/platform/audit/publishers/security"
	authmw "triad/pkg/platform/middleware/auth"
	"triad/pkg/requestcontext"
)

// Operator returns a middleware chain that requires a valid operator token.
// Rejections are emitted as operator_auth_failed security events when
// auditPub is set.
func Operator(validator authmw.JWTValidator, logger *slog.Logger, auditPub *security.Publisher) func(http.Handler) http.Handler {
	hook := func(ctx context.Context, reason string) {
		if auditPub == nil {
			return
		}
		auditPub.Emit(ctx, audit.SecurityEvent{
			Subject:   requestcontext.Operator(ctx),
			Action:    string(audit.EventOperatorAuthFailed),
			Reason:    reason,
			IP:        requestcontext.ClientIP(ctx),
			RequestID: requestcontext.RequestID(ctx),
			ActorID:   requestcontext.Operator(ctx),
			Severity:  audit.EventOperatorAuthFailed.Severity(),
		})
	}
	requireAuth := authmw.RequireAuth(validator, logger, hook)
	requireRole := authmw.RequireRole(jwttoken.RoleOperator, logger, hook)
	return func(next http.Handler) http.Handler {
		return requireAuth(requireRole(next))
	}
}
