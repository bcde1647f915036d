package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Accounts    AccountService
	Favorites   FavoritesService
	Videos      VideoService
	Auth        Authenticator
	Images      ImageStore
	Database    Pinger
	AuthLimiter RateLimiter
	// TrustProxy lets rate limiting key on X-Forwarded-For and X-Real-IP.
	TrustProxy bool
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{Database: deps.Database}
	accounts := AuthHandler{Accounts: deps.Accounts, Favorites: deps.Favorites, Limiter: deps.AuthLimiter, TrustProxy: deps.TrustProxy}
	videos := VideoHandler{Videos: deps.Videos}
	images := ImageHandler{Store: deps.Images}

	mux.HandleFunc("GET /healthz", health.Handle)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /auth/signup", accounts.SignUp)
	mux.HandleFunc("POST /auth/login", accounts.Login)
	mux.HandleFunc("PUT /auth/favorites", RequireAuth(deps.Auth, accounts.ToggleFavorite))

	mux.HandleFunc("GET /videos", videos.List)
	mux.HandleFunc("GET /videos/{videoId}", videos.Get)
	mux.HandleFunc("GET /videos/user/{userId}", videos.ListByUser)
	mux.HandleFunc("POST /videos", RequireAuth(deps.Auth, videos.Create))
	mux.HandleFunc("DELETE /videos/{videoId}", RequireAuth(deps.Auth, videos.Delete))

	mux.HandleFunc("POST /images", RequireAuth(deps.Auth, images.Upload))
}
