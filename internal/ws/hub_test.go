package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/barter-backend/internal/goroutine"
	"github.com/ignatzorin/barter-backend/internal/logger"
)

func init() {
	logger.Discard()
}

func newTestClient(hub *Hub, userID uuid.UUID) *Client {
	return &Client{hub: hub, userID: userID, send: make(chan []byte, 4)}
}

func receive(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case raw, ok := <-c.send:
		require.True(t, ok, "channel closed")
		var env Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		return env
	case <-time.After(time.Second):
		t.Fatal("no message")
		return Envelope{}
	}
}

func TestHubDeliversOnlyToAddressee(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub()
	go hub.Run(ctx)

	alice, bob := uuid.New(), uuid.New()
	aliceTab1 := newTestClient(hub, alice)
	aliceTab2 := newTestClient(hub, alice)
	bobClient := newTestClient(hub, bob)
	require.True(t, hub.Register(aliceTab1))
	require.True(t, hub.Register(aliceTab2))
	require.True(t, hub.Register(bobClient))

	require.NoError(t, hub.BroadcastToUser(alice, "bids.new", map[string]string{"bidId": "42"}))

	for _, c := range []*Client{aliceTab1, aliceTab2} {
		env := receive(t, c)
		assert.Equal(t, "bids.new", env.Type)
		assert.JSONEq(t, `{"bidId":"42"}`, string(env.Data))
	}
	assert.Len(t, bobClient.send, 0)
}

func TestHubUnregisterClosesSend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub()
	go hub.Run(ctx)

	userID := uuid.New()
	c := newTestClient(hub, userID)
	require.True(t, hub.Register(c))
	hub.Unregister(c)

	_, ok := <-c.send
	assert.False(t, ok)
	assert.Equal(t, 0, hub.Connected(userID))
}

func TestHubStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	stopped := make(chan struct{})
	goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
		hub.Run(ctx)
		close(stopped)
	})

	c := newTestClient(hub, uuid.New())
	require.True(t, hub.Register(c))
	cancel()
	<-stopped

	_, ok := <-c.send
	assert.False(t, ok)
	assert.False(t, hub.Register(newTestClient(hub, uuid.New())))
	hub.Unregister(c)
}

func TestBroadcastWithoutRunnerDoesNotBlock(t *testing.T) {
	hub := NewHub()
	for i := 0; i < cap(hub.broadcast)+10; i++ {
		require.NoError(t, hub.BroadcastToUser(uuid.New(), "bids.updated", nil))
	}
}

func TestBroadcastRejectsUnserializableData(t *testing.T) {
	hub := NewHub()
	assert.Error(t, hub.BroadcastToUser(uuid.New(), "bids.new", make(chan int)))
}
