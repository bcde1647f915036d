package handlers

import (
	"net/http"

	"github.com/vidshelf/backend/internal/auth"
	"github.com/vidshelf/backend/internal/logging"
)

// RequireAuth rejects requests without a valid bearer token before they reach
// next. On success the authenticated user id is stored on the request context.
func RequireAuth(authenticator Authenticator, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := authenticator.Authenticate(r.Header.Get("Authorization"))
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		ctx = auth.WithUserID(ctx, userID)
		ctx = logging.WithLogger(ctx, logging.FromContext(ctx).With("user_id", userID))
		next(w, r.WithContext(ctx))
	}
}

func userIDFrom(r *http.Request) string {
	userID, _ := auth.UserIDFromContext(r.Context())
	return userID
}
