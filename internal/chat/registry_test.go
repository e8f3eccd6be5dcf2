package chat

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_AddAndSnapshot(t *testing.T) {
	r := NewRegistry()
	room := uuid.New()
	c1 := newMockConn("alice")
	c2 := newMockConn("bob")

	r.Add(room, c1)
	r.Add(room, c2)

	snapshot := r.Snapshot(room)
	assert.Len(t, snapshot, 2)
	assert.Contains(t, snapshot, Conn(c1))
	assert.Contains(t, snapshot, Conn(c2))
}

func TestRegistry_AddIsSetSemantics(t *testing.T) {
	r := NewRegistry()
	room := uuid.New()
	c := newMockConn("alice")

	r.Add(room, c)
	r.Add(room, c)

	assert.Equal(t, 1, r.Count(room))
}

func TestRegistry_RemoveDropsEmptyRoom(t *testing.T) {
	r := NewRegistry()
	room := uuid.New()
	c := newMockConn("alice")

	r.Add(room, c)
	require.Equal(t, 1, r.Count(room))

	r.Remove(room, c)
	assert.Equal(t, 0, r.Count(room))
	assert.Empty(t, r.Snapshot(room))
}

func TestRegistry_RemoveAbsentIsNoop(t *testing.T) {
	r := NewRegistry()
	room := uuid.New()
	c := newMockConn("alice")

	r.Remove(room, c)

	r.Add(room, c)
	r.Remove(room, newMockConn("bob"))
	assert.Equal(t, 1, r.Count(room))
}

func TestRegistry_RoomsAreIndependent(t *testing.T) {
	r := NewRegistry()
	room1 := uuid.New()
	room2 := uuid.New()
	c := newMockConn("alice")

	r.Add(room1, c)
	assert.Equal(t, 1, r.Count(room1))
	assert.Equal(t, 0, r.Count(room2))
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	room := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := newMockConn("user")
			r.Add(room, c)
			for j := 0; j < 100; j++ {
				r.Snapshot(room)
			}
			r.Remove(room, c)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, r.Count(room))
}
