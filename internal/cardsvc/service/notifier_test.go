package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/direcciones/card-services/internal/cardsvc/models"
	"github.com/direcciones/card-services/internal/comm"
)

func TestSnapshotResolvesAddresses(t *testing.T) {
	ctx := context.Background()

	addr := models.Address{ID: primitive.NewObjectID(), Street: "Calle 12", City: "Montevideo"}
	cards := newFakeCardRepo()
	pub := &fakePublisher{}
	notifier := NewNotifier(cards, newFakeAddressRepo(addr), pub)

	card := &models.Card{
		Number:        7,
		Group:         "norte",
		Street:        []primitive.ObjectID{addr.ID},
		UsersAssigned: []models.AssignmentEntry{},
	}
	require.NoError(t, cards.Insert(ctx, card))

	views, err := notifier.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)

	assert.Equal(t, card.ID.Hex(), views[0].ID)
	assert.Equal(t, 7, views[0].Number)
	require.Len(t, views[0].Street, 1)
	assert.Equal(t, "Calle 12", views[0].Street[0].Street)
}

func TestBroadcastPublishesCurrentSnapshotOnce(t *testing.T) {
	ctx := context.Background()

	addr := models.Address{ID: primitive.NewObjectID(), Street: "Calle 12"}
	cards := newFakeCardRepo()
	pub := &fakePublisher{}
	notifier := NewNotifier(cards, newFakeAddressRepo(addr), pub)

	stale := &models.Card{Number: 1, Street: []primitive.ObjectID{addr.ID}}
	require.NoError(t, cards.Insert(ctx, stale))

	notifier.Broadcast(ctx)
	require.Equal(t, 1, pub.count())
	assert.Equal(t, comm.TopicCardUpdated, pub.topics[0])

	// delete the card: the next broadcast must not carry stale entries
	require.NoError(t, cards.Delete(ctx, stale.ID))
	notifier.Broadcast(ctx)
	require.Equal(t, 2, pub.count())

	var msg comm.CardBroadcast
	require.NoError(t, json.Unmarshal(pub.last(), &msg))
	assert.Equal(t, comm.TypeCardUpdated, msg.Type)
	assert.Empty(t, msg.Cards)
}

func TestBroadcastSwallowsPublishFailure(t *testing.T) {
	ctx := context.Background()

	cards := newFakeCardRepo()
	pub := &fakePublisher{err: errors.New("broker down")}
	notifier := NewNotifier(cards, newFakeAddressRepo(), pub)

	// must not panic or surface the error to the mutation path
	notifier.Broadcast(ctx)
	assert.Equal(t, 0, pub.count())
}
