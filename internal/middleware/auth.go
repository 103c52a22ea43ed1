package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Aakash768/imf-gadget-api/internal/api/httpx"
	"github.com/Aakash768/imf-gadget-api/internal/auth"
	"github.com/Aakash768/imf-gadget-api/internal/metrics"
	"github.com/Aakash768/imf-gadget-api/internal/models"
	repo "github.com/Aakash768/imf-gadget-api/internal/repository"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "accessToken"

// ExtractToken pulls the session token from the request: cookie first, then
// Authorization: Bearer. Empty string when neither is present.
func ExtractToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	ah := r.Header.Get("Authorization")
	if len(ah) > 7 && strings.EqualFold(ah[:7], "bearer ") {
		return strings.TrimSpace(ah[7:])
	}
	return ""
}

type AuthMiddleware struct {
	TM    *auth.TokenManager
	Users repo.Users
}

func NewAuthMiddleware(tm *auth.TokenManager, users repo.Users) *AuthMiddleware {
	return &AuthMiddleware{TM: tm, Users: users}
}

// Auth verifies the token and re-fetches the user it refers to. A token for a
// user that no longer exists gets the same rejection as an invalid token; the
// distinction is not leaked. Store failures during the lookup are logged and
// collapse to a 500, never a 401.
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ExtractToken(r)
		if token == "" {
			metrics.AuthFailuresTotal.WithLabelValues("unauthenticated").Inc()
			httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized request")
			return
		}

		claims, err := m.TM.Verify(token)
		if err != nil {
			metrics.AuthFailuresTotal.WithLabelValues("unauthenticated").Inc()
			httpx.WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		u, err := m.Users.GetByID(r.Context(), claims.UserID)
		if errors.Is(err, repo.ErrNotFound) {
			metrics.AuthFailuresTotal.WithLabelValues("unauthenticated").Inc()
			httpx.WriteError(w, http.StatusUnauthorized, "Invalid access token")
			return
		}
		if err != nil {
			slog.Error("auth user lookup", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}

		ctx := WithUser(r.Context(), UserCtx{UserID: u.ID, Username: u.Username, Role: u.Role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole authorizes the already-authenticated user against a closed role
// set. Always mounted after Auth.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	allowed := map[models.Role]struct{}{}
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := FromCtx(r.Context())
			if !ok {
				metrics.AuthFailuresTotal.WithLabelValues("unauthenticated").Inc()
				httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized request")
				return
			}
			if _, ok := allowed[u.Role]; !ok {
				metrics.AuthFailuresTotal.WithLabelValues("forbidden").Inc()
				httpx.WriteError(w, http.StatusForbidden, "Forbidden: You do not have the required permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
