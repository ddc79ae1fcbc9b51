package game

import (
	"sort"
	"sync"
)

// Store exposes game persistence for the service layer.
type Store interface {
	Put(game Game)
	Get(id string) (Game, bool)
	Delete(id string) (Game, bool)
	List() []Game
	Len() int
}

// MemoryStore implements Store with a mutex-guarded map that lives for the
// process lifetime.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Game
	order map[string]uint64
	seq   uint64
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied games.
func NewMemoryStore(items ...Game) *MemoryStore {
	s := &MemoryStore{
		items: make(map[string]Game, len(items)),
		order: make(map[string]uint64, len(items)),
	}
	for _, item := range items {
		s.Put(item)
	}
	return s
}

// Put inserts or overwrites a game by identifier.
func (s *MemoryStore) Put(game Game) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[game.ID]; !exists {
		s.seq++
		s.order[game.ID] = s.seq
	}
	s.items[game.ID] = game
}

// Get looks up a game by identifier.
func (s *MemoryStore) Get(id string) (Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.items[id]
	return game, ok
}

// Delete removes a game and returns it when it was present.
func (s *MemoryStore) Delete(id string) (Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.items[id]
	if !ok {
		return Game{}, false
	}
	delete(s.items, id)
	delete(s.order, id)
	return game, true
}

// List returns a snapshot of every stored game in insertion order.
func (s *MemoryStore) List() []Game {
	s.mu.RLock()
	defer s.mu.RUnlock()

	games := make([]Game, 0, len(s.items))
	for _, game := range s.items {
		games = append(games, game)
	}
	sort.Slice(games, func(i, j int) bool {
		return s.order[games[i].ID] < s.order[games[j].ID]
	})
	return games
}

// Len reports how many games are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
