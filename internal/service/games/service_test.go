package games

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/crud-games/backend/internal/errs"
	"github.com/zhouzirui/crud-games/backend/internal/model/game"
	"github.com/zhouzirui/crud-games/backend/internal/service/events"
)

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(ev events.Event) {
	p.events = append(p.events, ev)
}

var chessDraft = game.Draft{Name: "Chess", Image: "https://example.com/chess.png"}

func TestServiceCreateAssignsUUID(t *testing.T) {
	store := game.NewMemoryStore()
	pub := &recordingPublisher{}
	svc := NewService(store, pub)
	ctx := context.Background()

	first, err := svc.Create(ctx, chessDraft)
	require.NoError(t, err)
	second, err := svc.Create(ctx, chessDraft)
	require.NoError(t, err)

	_, err = uuid.Parse(first.ID)
	require.NoError(t, err, "id is not a uuid: %q", first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "Chess", first.Name)
	assert.Equal(t, []game.Game{first, second}, svc.List(ctx))

	require.Len(t, pub.events, 2)
	assert.Equal(t, events.TypeCreated, pub.events[0].Type)
	assert.Equal(t, first, pub.events[0].Game)
}

func TestServiceCreateRetriesTakenID(t *testing.T) {
	store := game.NewMemoryStore(game.Game{ID: "taken", Name: "Old", Image: "https://example.com/old.png"})
	svc := NewService(store, nil)

	ids := []string{"taken", "", "fresh"}
	svc.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	created, err := svc.Create(context.Background(), chessDraft)
	require.NoError(t, err)
	assert.Equal(t, "fresh", created.ID)

	old, _ := store.Get("taken")
	assert.Equal(t, "Old", old.Name, "existing game was overwritten")
}

func TestServiceCreateGivesUpOnCollisions(t *testing.T) {
	store := game.NewMemoryStore(game.Game{ID: "taken"})
	svc := NewService(store, nil)
	svc.newID = func() string { return "taken" }

	_, err := svc.Create(context.Background(), chessDraft)
	require.Error(t, err)
	assert.Equal(t, 500, errs.StatusOf(err))
	assert.Equal(t, 1, svc.Count())
}

func TestServiceDelete(t *testing.T) {
	store := game.NewMemoryStore()
	pub := &recordingPublisher{}
	svc := NewService(store, pub)
	ctx := context.Background()

	created, err := svc.Create(ctx, chessDraft)
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, deleted)
	assert.Empty(t, svc.List(ctx))

	require.Len(t, pub.events, 2)
	assert.Equal(t, events.TypeDeleted, pub.events[1].Type)
}

func TestServiceDeleteNotFound(t *testing.T) {
	store := game.NewMemoryStore(game.Game{ID: "keep", Name: "Go", Image: "https://example.com/go.png"})
	pub := &recordingPublisher{}
	svc := NewService(store, pub)

	for _, id := range []string{"", "missing"} {
		_, err := svc.Delete(context.Background(), id)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrNotFound))
		assert.Equal(t, errs.MessageNotFound, err.Error())
	}

	assert.Equal(t, 1, svc.Count(), "store changed by a failed delete")
	assert.Empty(t, pub.events)
}
