package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/memoirapp/mediakit/internal/common"
	"github.com/memoirapp/mediakit/internal/server/auth"
)

type contextKey string

const userIDKey contextKey = "userID"

// userID returns the authenticated user's ID placed by authMiddleware.
func userID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// authMiddleware validates the bearer token and stashes the user ID in the
// request context.
func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthHeaderName)
		if !strings.HasPrefix(header, common.BearerPrefix) {
			fail(w, http.StatusUnauthorized, CodeUnauthorized, "missing bearer token")
			return
		}

		token := strings.TrimPrefix(header, common.BearerPrefix)
		id, err := auth.GetUserIDFromToken(token, []byte(h.cfg.SecretKey))
		if err != nil {
			fail(w, http.StatusUnauthorized, CodeUnauthorized, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, id)))
	})
}
