package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingCredential indicates the request carried no Authorization value.
	ErrMissingCredential = errors.New("not authenticated")
	// ErrInvalidCredential indicates a credential was supplied but rejected.
	ErrInvalidCredential = errors.New("invalid credential")
)

// TokenValidator verifies session tokens.
type TokenValidator interface {
	Validate(token string) (Claims, error)
}

// Gate resolves the caller identity from an Authorization header value.
type Gate struct {
	tokens TokenValidator
}

// NewGate constructs a Gate backed by the provided validator.
func NewGate(tokens TokenValidator) *Gate {
	if tokens == nil {
		panic("auth: token validator must not be nil")
	}
	return &Gate{tokens: tokens}
}

// Authenticate returns the user id carried by a "Bearer <token>" header value.
// It never looks up the user record.
func (g *Gate) Authenticate(rawHeader string) (string, error) {
	rawHeader = strings.TrimSpace(rawHeader)
	if rawHeader == "" {
		return "", ErrMissingCredential
	}

	scheme, token, ok := strings.Cut(rawHeader, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", fmt.Errorf("%w: expected bearer token", ErrInvalidCredential)
	}

	claims, err := g.tokens.Validate(token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}

	return claims.UserID, nil
}

type ctxKey string

const userIDKey ctxKey = "userID"

// WithUserID stores the authenticated user id on the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}
