package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidshelf/backend/internal/config"
	"github.com/vidshelf/backend/internal/repositories"
)

type fakePool struct {
	pingErr error
}

func (fakePool) Acquire(context.Context) (*pgxpool.Conn, error) {
	return nil, errors.New("not implemented")
}

func (p fakePool) Ping(context.Context) error { return p.pingErr }

func (fakePool) Close() {}

func testConfig() config.Config {
	return config.Config{
		TokenSecret:    "0123456789abcdef0123456789abcdef",
		TokenTTL:       time.Hour,
		BcryptCost:     4,
		AllowedOrigins: "*",
		AuthRateLimit:  20,
	}
}

func TestBuildDependencies(t *testing.T) {
	cfg := testConfig()
	cfg.ObjectStore = config.ObjectStoreConfig{Bucket: "test-bucket", Endpoint: "http://localhost:9000", Region: "us-east-1"}

	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	deps, err := buildDependencies(context.Background(), fakePool{}, cfg)
	require.NoError(t, err)

	assert.NotNil(t, deps.Accounts)
	assert.NotNil(t, deps.Favorites)
	assert.NotNil(t, deps.Videos)
	assert.NotNil(t, deps.Auth)
	assert.NotNil(t, deps.Database)
	assert.NotNil(t, deps.AuthLimiter)
	assert.NotNil(t, deps.Images)
}

func TestBuildDependenciesWithoutObjectStore(t *testing.T) {
	deps, err := buildDependencies(context.Background(), fakePool{}, testConfig())
	require.NoError(t, err)

	assert.Nil(t, deps.Images)
}

func TestHandlerStack(t *testing.T) {
	cfg := testConfig()
	deps, err := wireServices(context.Background(),
		repositories.NewInMemoryUserRepository(),
		repositories.NewInMemoryVideoRepository(),
		fakePool{},
		cfg,
	)
	require.NoError(t, err)
	handler := newHandler(slog.New(slog.DiscardHandler), cfg, deps)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/videos", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/videos", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.JSONEq(t, `{"message":"Videos fetched","videos":[],"totalItems":0}`, rec.Body.String())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "vidshelf_http_requests_total"))
}

func TestRunRejectsUnknownCommands(t *testing.T) {
	assert.Error(t, Run(context.Background(), nil))
	assert.ErrorContains(t, Run(context.Background(), []string{"explode"}), `unknown command "explode"`)
}
