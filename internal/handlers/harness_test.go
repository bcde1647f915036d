package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vidshelf/backend/internal/auth"
	"github.com/vidshelf/backend/internal/repositories"
	"github.com/vidshelf/backend/internal/service"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type testEnv struct {
	handler http.Handler
	users   *repositories.InMemoryUserRepository
	videos  *repositories.InMemoryVideoRepository
	images  *imageStoreStub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := repositories.NewInMemoryUserRepository()
	videos := repositories.NewInMemoryVideoRepository()
	tokens := auth.NewTokenIssuer(testSecret, time.Hour)
	validator := service.NewValidator()
	images := &imageStoreStub{}

	mux := http.NewServeMux()
	RegisterRoutes(mux, Dependencies{
		Accounts:  service.NewAccountService(users, auth.NewPasswordHasher(4), tokens, validator),
		Favorites: service.NewFavoritesService(users),
		Videos:    service.NewVideoService(videos, users, validator),
		Auth:      auth.NewGate(tokens),
		Images:    images,
	})

	return &testEnv{handler: mux, users: users, videos: videos, images: images}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(encoded)
		}
		reader = bytes.NewBufferString(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// register signs up and logs in, returning the user id and token.
func (e *testEnv) register(t *testing.T, email, name string) (string, string) {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"email": email, "password": "password1", "name": name,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": "password1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp loginResponse
	decodeBody(t, rec, &resp)
	return resp.UserID, resp.Token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(dst))
}

type imageStoreStub struct {
	mu    sync.Mutex
	names []string
	data  [][]byte
	err   error
}

func (s *imageStoreStub) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = append(s.names, name)
	s.data = append(s.data, content)
	return "https://cdn.test/" + name, nil
}
