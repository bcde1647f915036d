package handlers

import (
	"net/http"

	"github.com/vidshelf/backend/internal/logging"
	"github.com/vidshelf/backend/internal/models"
	"github.com/vidshelf/backend/internal/service"
)

// AuthHandler implements account and favorites endpoints.
type AuthHandler struct {
	Accounts  AccountService
	Favorites FavoritesService
	Limiter   RateLimiter
	// TrustProxy honours client address headers set by a reverse proxy.
	TrustProxy bool
}

type signUpResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

type toggleFavoriteRequest struct {
	VideoID models.FlexibleID `json:"videoId"`
}

type favoritesResponse struct {
	Message   string   `json:"message"`
	Favorites []string `json:"favorites"`
}

// SignUp handles POST /auth/signup.
func (h AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "signup", h.TrustProxy) {
		logger.Warn("signup rate limited", "ip", clientIP(r, h.TrustProxy))
		respondMessage(ctx, w, http.StatusTooManyRequests, "Too many requests.")
		return
	}

	var req service.SignUpInput
	if err := decodeJSON(w, r, &req); err != nil {
		logger.Warn("invalid signup payload", "error", err)
		respondMessage(ctx, w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.Accounts.SignUp(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, signUpResponse{Message: "User created", UserID: user.ID})
}

// Login handles POST /auth/login.
func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "login", h.TrustProxy) {
		logger.Warn("login rate limited", "ip", clientIP(r, h.TrustProxy))
		respondMessage(ctx, w, http.StatusTooManyRequests, "Too many requests.")
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logger.Warn("invalid login payload", "error", err)
		respondMessage(ctx, w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	result, err := h.Accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, loginResponse{
		Token:  result.Token.Value,
		UserID: result.UserID,
		Name:   result.Name,
	})
}

// ToggleFavorite handles PUT /auth/favorites. The caller must be authenticated.
func (h AuthHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req toggleFavoriteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logging.FromContext(ctx).Warn("invalid favorites payload", "error", err)
		respondMessage(ctx, w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	favorites, err := h.Favorites.Toggle(ctx, userIDFrom(r), req.VideoID.String())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, favoritesResponse{Message: "Favorites updated", Favorites: favorites})
}
