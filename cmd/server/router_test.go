package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logspool/logspool/internal/config"
	"github.com/logspool/logspool/internal/sched"
	"github.com/logspool/logspool/internal/service/auth"
	"github.com/logspool/logspool/internal/sink"
	"github.com/logspool/logspool/internal/spool"
)

func testApplication(t *testing.T) *application {
	t.Helper()

	logger := slog.Default()
	worker := sched.New(sched.Config{QueueCapacity: 16}, logger)
	t.Cleanup(func() {
		_ = worker.Stop(context.Background())
	})

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            "thisisasecretkeythatis32charslong!!",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	hash, err := auth.HashAPIKey("test-key")
	require.NoError(t, err)
	verifier, err := auth.NewBcryptVerifier(hash)
	require.NoError(t, err)

	sp := spool.New(worker, nil, sink.NewConsole(testSinkWriter{t}), spool.Config{
		FlushThreshold: 10,
		MaxBuffered:    20,
	}, logger)

	return &application{
		config: &config.Config{
			Server: config.ServerConfig{Port: 0, LogLevel: "info"},
			Auth:   config.AuthConfig{TokenLifetimeMinutes: 60},
		},
		logger:     logger,
		worker:     worker,
		spool:      sp,
		jwtService: jwtService,
		apiKeys:    verifier,
	}
}

type testSinkWriter struct {
	t *testing.T
}

func (w testSinkWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func TestRouterHealthz(t *testing.T) {
	app := testApplication(t)
	router := app.setupRouter()

	req := httptest.NewRequest("GET", "/healthz", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "OK", recorder.Body.String())
}

func TestRouterProtectedRoutesRequireAuth(t *testing.T) {
	app := testApplication(t)
	router := app.setupRouter()

	for _, route := range []struct {
		method string
		path   string
	}{
		{"POST", "/api/logs"},
		{"POST", "/api/spool/flush"},
		{"POST", "/api/spool/dump"},
		{"GET", "/api/spool/stats"},
	} {
		req := httptest.NewRequest(route.method, route.path, nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code,
			"%s %s should require auth", route.method, route.path)
	}
}

func TestRouterHistoryHiddenWithoutStore(t *testing.T) {
	app := testApplication(t)
	router := app.setupRouter()

	req := httptest.NewRequest("GET", "/api/logs/recent", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	// No database configured, so the history route is not registered.
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
