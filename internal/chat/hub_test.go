package chat

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockConn struct {
	userID   uuid.UUID
	username string
	mu       sync.Mutex
	received [][]byte
	sendErr  error
	closed   bool
}

func newMockConn(username string) *mockConn {
	return &mockConn{userID: uuid.New(), username: username}
}

func (m *mockConn) UserID() uuid.UUID { return m.userID }
func (m *mockConn) Username() string  { return m.username }

func (m *mockConn) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.received = append(m.received, data)
	return nil
}

func (m *mockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockConn) getReceived() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.received
}

func (m *mockConn) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func TestHub_BroadcastReachesAllMembers(t *testing.T) {
	registry := NewRegistry()
	hub := NewHub(registry)
	room := uuid.New()

	conns := []*mockConn{newMockConn("alice"), newMockConn("bob"), newMockConn("carol")}
	for _, c := range conns {
		registry.Add(room, c)
	}

	hub.Broadcast(room, ErrorEvent("test"))

	for _, c := range conns {
		require.Len(t, c.getReceived(), 1, "conn %s", c.username)
	}

	// Every recipient gets the identical bytes.
	assert.Equal(t, conns[0].getReceived()[0], conns[1].getReceived()[0])

	var event ServerEvent
	require.NoError(t, json.Unmarshal(conns[0].getReceived()[0], &event))
	assert.Equal(t, EventError, event.Type)
}

func TestHub_FailedConnectionIsRemoved(t *testing.T) {
	registry := NewRegistry()
	hub := NewHub(registry)
	room := uuid.New()

	healthy1 := newMockConn("alice")
	dead := newMockConn("bob")
	dead.sendErr = errors.New("broken pipe")
	healthy2 := newMockConn("carol")

	registry.Add(room, healthy1)
	registry.Add(room, dead)
	registry.Add(room, healthy2)

	hub.Broadcast(room, ErrorEvent("first"))

	// The failing connection is dropped; the other two still got the event.
	assert.Len(t, healthy1.getReceived(), 1)
	assert.Len(t, healthy2.getReceived(), 1)
	assert.Empty(t, dead.getReceived())
	assert.True(t, dead.isClosed())
	assert.Equal(t, 2, registry.Count(room))

	hub.Broadcast(room, ErrorEvent("second"))

	assert.Len(t, healthy1.getReceived(), 2)
	assert.Len(t, healthy2.getReceived(), 2)
	assert.Empty(t, dead.getReceived())
}

func TestHub_NoCrossRoomDelivery(t *testing.T) {
	registry := NewRegistry()
	hub := NewHub(registry)
	room1 := uuid.New()
	room2 := uuid.New()

	inRoom := newMockConn("alice")
	elsewhere := newMockConn("bob")
	registry.Add(room1, inRoom)
	registry.Add(room2, elsewhere)

	hub.Broadcast(room1, ErrorEvent("test"))

	assert.Len(t, inRoom.getReceived(), 1)
	assert.Empty(t, elsewhere.getReceived())
}

func TestHub_EmptyRoomIsNoop(t *testing.T) {
	registry := NewRegistry()
	hub := NewHub(registry)

	// Must not panic or create room state.
	room := uuid.New()
	hub.Broadcast(room, ErrorEvent("test"))
	assert.Equal(t, 0, registry.Count(room))
}
