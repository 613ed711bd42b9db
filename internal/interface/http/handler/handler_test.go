package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/barter-backend/internal/domain/valueobject"
	"github.com/ignatzorin/barter-backend/internal/logger"
	"github.com/ignatzorin/barter-backend/internal/ws"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Discard()
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

type tokenAuth map[string]uuid.UUID

func (a tokenAuth) Authenticate(token string) (uuid.UUID, valueobject.Role, error) {
	id, ok := a[token]
	if !ok {
		return uuid.Nil, "", errors.New("unknown token")
	}
	return id, valueobject.RoleFreelancer, nil
}

func TestHealth(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		state  string
	}{
		{"database up", nil, http.StatusOK, "healthy"},
		{"database down", errors.New("connection refused"), http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", NewHealthHandler(stubPinger{err: tc.err}).Health)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tc.status, w.Code)
			var body HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.state, body.Status)
			assert.Equal(t, tc.state, body.Checks["database"])
		})
	}
}

func TestWebSocketDeliversBidEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := ws.NewHub()
	go hub.Run(ctx)

	userID := uuid.New()
	r := gin.New()
	r.GET("/api/ws", NewWSHandler(hub, tokenAuth{"good": userID}, nil).Handle)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"?token=bad", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token=good", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Connected(userID) == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, hub.BroadcastToUser(userID, "bids.updated", map[string]string{"status": "accepted"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env ws.Envelope
	require.NoError(t, conn.ReadJSON(&env))
	assert.Equal(t, "bids.updated", env.Type)
	assert.JSONEq(t, `{"status":"accepted"}`, string(env.Data))

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Connected(userID) == 0 }, time.Second, 10*time.Millisecond)
}
