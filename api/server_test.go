package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/regalflowers/storefront-BE/internal/backend"
	"github.com/regalflowers/storefront-BE/internal/checkout"
	"github.com/regalflowers/storefront-BE/internal/session"
	"github.com/regalflowers/storefront-BE/internal/util"
	"github.com/stretchr/testify/require"
)

const testSessionID = "sess_test"

// newTestServer wires a full server against miniredis and a fake commerce
// backend, so handler tests exercise the real middleware and session store.
func newTestServer(t *testing.T, backendHandler http.HandlerFunc) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	backendSrv := httptest.NewServer(backendHandler)
	t.Cleanup(backendSrv.Close)

	config := &util.Config{
		AllowedOrigins:       []string{"http://localhost:3000"},
		TokenSecretKey:       "0123456789abcdef0123456789abcdef",
		SessionTokenDuration: time.Minute,
		PaystackPublicKey:    "pk_test_xxx",
		PaystackSecretKey:    "sk_test_xxx",
	}

	server, err := NewServer(config, session.NewStore(redisClient), backend.NewClient(backendSrv.URL, 5*time.Second))
	require.NoError(t, err)
	return server
}

// seedSession initializes the test session's state and returns a bearer token
// for it.
func seedSession(t *testing.T, server *Server, mutate func(state *checkout.State)) string {
	t.Helper()
	ctx := context.Background()

	state, err := server.sessionStore.GetState(ctx, testSessionID)
	require.NoError(t, err)
	if mutate != nil {
		mutate(state)
	}
	require.NoError(t, server.sessionStore.SaveState(ctx, testSessionID, state))

	tokenString, _, err := server.tokenMaker.CreateToken(testSessionID, time.Minute)
	require.NoError(t, err)
	return tokenString
}

func loadTestState(t *testing.T, server *Server) *checkout.State {
	t.Helper()
	state, err := server.sessionStore.GetState(context.Background(), testSessionID)
	require.NoError(t, err)
	return state
}

func doJSON(t *testing.T, server *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	server.router.ServeHTTP(recorder, req)
	return recorder
}
