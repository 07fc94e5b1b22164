package auth

import (
	"net/http"

	"github.com/commune-social/commune/internal/platform/httpx"
	"github.com/commune-social/commune/internal/shared"
)

// HeaderToken is the request header carrying the bearer token.
const HeaderToken = "x-auth-token"

// RequireAuth gates protected routes behind a valid bearer token. On success
// the resolved account id is attached to the request context; otherwise the
// request terminates here with a 401.
func RequireAuth(tokens *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(HeaderToken)
			if token == "" {
				httpx.Message(w, http.StatusUnauthorized, "No token, authorization denied")
				return
			}
			accountID, err := tokens.Verify(token)
			if err != nil {
				httpx.Message(w, http.StatusUnauthorized, "Token is not valid")
				return
			}
			ctx := shared.ContextWithAccountID(r.Context(), accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
