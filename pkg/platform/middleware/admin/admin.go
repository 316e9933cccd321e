package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	dErrors "triad/pkg/domain-errors"
	"triad/pkg/platform/httputil"
	"triad/pkg/requestcontext"
)

// HeaderAdminToken carries the shared maintenance secret.
const HeaderAdminToken = "X-Admin-Token"

// RequireAdminToken guards maintenance routes with a shared secret compared
// in constant time. An empty expectedToken disables the routes entirely.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	want := []byte(expectedToken)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reason := check(want, r.Header.Get(HeaderAdminToken))
			if reason == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			logger.WarnContext(ctx, "admin request rejected",
				"reason", reason,
				"path", r.URL.Path,
				"request_id", requestcontext.RequestID(ctx),
				"client_ip", requestcontext.ClientIP(ctx),
			)
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin token required"))
		})
	}
}

func check(want []byte, got string) string {
	switch {
	case len(want) == 0:
		return "admin_disabled"
	case got == "":
		return "missing_token"
	case subtle.ConstantTimeCompare([]byte(got), want) != 1:
		return "token_mismatch"
	}
	return ""
}
