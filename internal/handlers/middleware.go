package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/userhub/services/internal/token"
)

// Identity returns middleware that extracts and validates a bearer
// token, attaching the resulting identity to the request context.
//
// A missing, malformed or invalid token does not abort the request: it
// proceeds anonymous and each handler decides whether anonymous access
// is allowed. This mirrors the long-standing observed behavior of the
// system; handlers must not assume the middleware has rejected anyone.
func Identity(issuer *token.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := issuer.Validate(tokenString)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return "", errors.New("invalid authorization")
	}
	return tokenString, nil
}
