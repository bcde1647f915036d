package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vidshelf/backend/internal/auth"
	"github.com/vidshelf/backend/internal/logging"
	"github.com/vidshelf/backend/internal/service"
)

type messageResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
		logging.FromContext(ctx).Warn("request returned client error", "status", status, "response", payload)
	}
}

func respondMessage(ctx context.Context, w http.ResponseWriter, status int, message string) {
	respondJSON(ctx, w, status, messageResponse{Message: message})
}

// writeError maps service and auth errors onto HTTP responses. Details of
// server-side failures are logged and never sent to the client.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		validationErr *service.ValidationError
		notFoundErr   *service.NotFoundError
		partialErr    *service.PartialFailureError
	)

	switch {
	case errors.As(err, &validationErr):
		respondJSON(ctx, w, http.StatusUnprocessableEntity, messageResponse{
			Message: "Validation failed.",
			Data:    validationErr.Fields,
		})
	case errors.Is(err, auth.ErrMissingCredential), errors.Is(err, auth.ErrInvalidCredential):
		logging.FromContext(ctx).Warn("request not authenticated", slog.Any("error", err))
		respondMessage(ctx, w, http.StatusUnauthorized, "Not authenticated.")
	case errors.Is(err, service.ErrInvalidLogin):
		respondMessage(ctx, w, http.StatusUnauthorized, "Invalid email or password.")
	case errors.As(err, &notFoundErr):
		respondMessage(ctx, w, http.StatusNotFound, notFoundErr.Error()+".")
	case errors.Is(err, service.ErrForbidden):
		respondMessage(ctx, w, http.StatusForbidden, "Not authorized!")
	case errors.As(err, &partialErr):
		logging.FromContext(ctx).Error("request partially applied", slog.String("op", partialErr.Op), slog.Any("error", err))
		respondMessage(ctx, w, http.StatusInternalServerError, partialErr.Op+" was only partially applied.")
	case errors.Is(err, context.Canceled):
		logging.FromContext(ctx).Warn("request cancelled", slog.Any("error", err))
		respondMessage(ctx, w, http.StatusServiceUnavailable, "Request cancelled.")
	default:
		logging.FromContext(ctx).Error("request failed", slog.Any("error", err))
		respondMessage(ctx, w, http.StatusInternalServerError, "Internal server error.")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

const maxJSONBodyBytes = 1 << 20
