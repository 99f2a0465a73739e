package realtime

import (
	"errors"
	"sync"
)

// ErrNoFreeID is returned when CreateUnique exhausts its attempts.
var ErrNoFreeID = errors.New("realtime: no free room id")

// Room holds state and a broadcaster for one room.
type Room[T any] struct {
	ID    string
	State T
	hub   *Broadcaster
}

// Broadcaster returns the room's event hub.
func (r *Room[T]) Broadcaster() *Broadcaster {
	return r.hub
}

// RoomStore indexes rooms by id. Rooms are never overwritten once created.
type RoomStore[T any] struct {
	mu    sync.RWMutex
	rooms map[string]*Room[T]
}

// NewRoomStore creates an empty room store.
func NewRoomStore[T any]() *RoomStore[T] {
	return &RoomStore[T]{
		rooms: make(map[string]*Room[T]),
	}
}

// Create adds a room with the given id and state, and a new Broadcaster.
// It returns false and the existing room if id is taken.
func (s *RoomStore[T]) Create(id string, state T) (*Room[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[id]; ok {
		return r, false
	}
	r := &Room[T]{ID: id, State: state, hub: NewBroadcaster()}
	s.rooms[id] = r
	return r, true
}

// CreateUnique draws ids from next until a free one is found, then stores
// build(id) under it. It gives up after attempts collisions.
func (s *RoomStore[T]) CreateUnique(next func() string, attempts int, build func(id string) T) (*Room[T], error) {
	if attempts < 1 {
		attempts = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < attempts; i++ {
		id := next()
		if _, taken := s.rooms[id]; taken {
			continue
		}
		r := &Room[T]{ID: id, State: build(id), hub: NewBroadcaster()}
		s.rooms[id] = r
		return r, nil
	}
	return nil, ErrNoFreeID
}

// Get returns the room by ID if it exists.
func (s *RoomStore[T]) Get(id string) (*Room[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	return r, ok
}

// Len reports the number of rooms.
func (s *RoomStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// Publish notifies subscribers of the room's broadcaster. Unknown ids are ignored.
func (s *RoomStore[T]) Publish(id string, event Event) {
	if hub, ok := s.Broadcaster(id); ok {
		hub.Publish(event)
	}
}

// Broadcaster returns the broadcaster for an existing room.
func (s *RoomStore[T]) Broadcaster(id string) (*Broadcaster, bool) {
	r, ok := s.Get(id)
	if !ok {
		return nil, false
	}
	return r.hub, true
}
