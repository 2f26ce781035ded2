package handlers

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingConn struct {
	mu     sync.Mutex
	frames [][]byte
	fail   bool
}

func (c *recordingConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("closed")
	}
	c.frames = append(c.frames, data)
	return nil
}

func TestWSHubDeliversToTargetUser(t *testing.T) {
	hub := NewWSHub(nil, nil, zap.NewNop())
	alice, bob := uuid.New(), uuid.New()

	a1, a2, b := &recordingConn{}, &recordingConn{fail: true}, &recordingConn{}
	hub.register(alice, &wsClient{conn: a1})
	hub.register(alice, &wsClient{conn: a2})
	hub.register(bob, &wsClient{conn: b})
	require.Equal(t, 2, hub.Connections(alice))

	hub.dispatch(events.UserNotification(alice.String(), "application_status", "accepted", nil, time.Now()))

	require.Len(t, a1.frames, 1)
	assert.Empty(t, b.frames)
	var got events.Event
	require.NoError(t, json.Unmarshal(a1.frames[0], &got))
	assert.Equal(t, events.EventUserNotification, got.Type)
	assert.Equal(t, "accepted", got.Payload["message"])
}

func TestWSHubIgnoresUntargetedEvents(t *testing.T) {
	hub := NewWSHub(nil, nil, zap.NewNop())
	id := uuid.New()
	conn := &recordingConn{}
	hub.register(id, &wsClient{conn: conn})

	hub.dispatch(events.Event{Type: "x", Payload: map[string]any{}})
	assert.Empty(t, conn.frames)
}

func TestWSHubUnregister(t *testing.T) {
	hub := NewWSHub(nil, nil, zap.NewNop())
	id := uuid.New()
	c1, c2 := &wsClient{conn: &recordingConn{}}, &wsClient{conn: &recordingConn{}}
	hub.register(id, c1)
	hub.register(id, c2)

	hub.unregister(id, c1)
	assert.Equal(t, 1, hub.Connections(id))
	hub.unregister(id, c2)
	assert.Equal(t, 0, hub.Connections(id))

	hub.mu.RLock()
	_, ok := hub.clients[id]
	hub.mu.RUnlock()
	assert.False(t, ok)
}
