package httpx

import (
	"context"
	"net/http"

	"github.com/apiantsiak/go-catalog-import/internal/auth"
)

type principalKey struct{}

// BasicAuth guards a route group with the token authorizer: missing or
// malformed token -> 401, explicit deny -> 403.
func BasicAuth(a *auth.Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision, err := a.Authorize(r.Header.Get("Authorization"))
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "missing or malformed authorization token")
				return
			}
			if !decision.Allowed {
				writeMessage(w, http.StatusForbidden, "forbidden")
				return
			}
			ctx := context.WithValue(r.Context(), principalKey{}, decision.Principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Principal returns the authorized user set by BasicAuth, or "".
func Principal(ctx context.Context) string {
	p, _ := ctx.Value(principalKey{}).(string)
	return p
}
