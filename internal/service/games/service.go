package games

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/zhouzirui/crud-games/backend/internal/errs"
	"github.com/zhouzirui/crud-games/backend/internal/model/game"
	"github.com/zhouzirui/crud-games/backend/internal/service/events"
)

const maxIDAttempts = 3

var (
	// ErrGameNotFound is returned when deleting an unknown identifier.
	ErrGameNotFound = errs.NewNotFoundError(errs.MessageNotFound)

	errIDExhausted = errors.New("could not allocate a unique game id")
)

// Publisher receives change notifications after the store is updated.
type Publisher interface {
	Publish(ev events.Event)
}

// Service implements the create/list/delete use cases over a game.Store.
type Service struct {
	store     game.Store
	publisher Publisher
	newID     func() string
}

// NewService wires the service to its store. publisher may be nil.
func NewService(store game.Store, publisher Publisher) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		newID:     uuid.NewString,
	}
}

// List returns every stored game.
func (s *Service) List(_ context.Context) []game.Game {
	return s.store.List()
}

// Count reports the number of stored games.
func (s *Service) Count() int {
	return s.store.Len()
}

// Create assigns a fresh identifier to a validated draft and stores it.
func (s *Service) Create(_ context.Context, draft game.Draft) (game.Game, error) {
	id, err := s.allocateID()
	if err != nil {
		return game.Game{}, err
	}

	created := draft.WithID(id)
	s.store.Put(created)
	s.publish(events.TypeCreated, created)
	return created, nil
}

// Delete removes a game and returns the removed record.
func (s *Service) Delete(_ context.Context, id string) (game.Game, error) {
	if id == "" {
		return game.Game{}, ErrGameNotFound
	}

	deleted, ok := s.store.Delete(id)
	if !ok {
		return game.Game{}, ErrGameNotFound
	}
	s.publish(events.TypeDeleted, deleted)
	return deleted, nil
}

func (s *Service) allocateID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if id == "" {
			continue
		}
		if _, taken := s.store.Get(id); !taken {
			return id, nil
		}
	}
	return "", errIDExhausted
}

func (s *Service) publish(eventType string, g game.Game) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(events.NewEvent(eventType, g))
}
