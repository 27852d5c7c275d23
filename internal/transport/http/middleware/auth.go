package middleware

import (
	"net/http"
	"strings"

	"github.com/jobdesk/auth-service/internal/application/auth"
	"github.com/jobdesk/auth-service/internal/domain"
)

type TokenVerifier interface {
	Verify(token string) (auth.TokenClaims, error)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

// Auth verifies the session token from the Authorization header and injects
// the caller's user ID into the request context.
//
// The header value is the raw token; a conventional "Bearer " prefix is
// tolerated and stripped. Verification status is NOT re-checked here: holding
// a live session token is proof enough, since login already gates on it.
func Auth(verifier TokenVerifier, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				writeErr(w, r, domain.ErrTokenMissing())
				return
			}

			if rest, ok := strings.CutPrefix(raw, "Bearer "); ok {
				raw = strings.TrimSpace(rest)
			}
			if raw == "" {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			claims, err := verifier.Verify(raw)
			if err != nil {
				writeErr(w, r, err)
				return
			}

			if strings.TrimSpace(claims.UserID) == "" {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			ctx := WithUser(r.Context(), claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
