package middleware

import (
	"net/http"
	"strings"

	"sitework/internal/auth"
	"sitework/internal/domain/models"
	"sitework/internal/httputil"
)

// publicPaths are served without a bearer token.
var publicPaths = map[string]bool{
	"/health": true,
}

// Auth decodes the Authorization bearer token on every request and attaches
// the caller's identity to the context. Missing or invalid tokens get 401
// with the fixed "Authentication required" message.
func Auth(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			r = httputil.WithAuth(r, models.AuthContext{
				UserID:    claims.Subject,
				Email:     claims.Email,
				Role:      claims.Role,
				CompanyID: claims.CompanyID,
			})
			next.ServeHTTP(w, r)
		})
	}
}
