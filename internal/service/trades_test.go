package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starfall-game/starfall-server/internal/game"
)

func seedTradeRoom(t *testing.T, repo *fakeRepo) (ada, bob *game.Player) {
	t.Helper()
	_, err := CreateRoom(repo, "Expedition", "ABC123", "ada@example.com", "Ada", "Engineer")
	require.NoError(t, err)
	_, err = JoinRoom(repo, "ABC123", "bob@example.com", "Bob", "Scout")
	require.NoError(t, err)

	_, a, err := PlayerInRoom(repo, "ABC123", "ada@example.com")
	require.NoError(t, err)
	_, b, err := PlayerInRoom(repo, "ABC123", "bob@example.com")
	require.NoError(t, err)
	return a, b
}

func TestTradeSwapMovesItemsAndLogs(t *testing.T) {
	repo := newFakeRepo()
	ada, bob := seedTradeRoom(t, repo)

	pistol := &game.InventoryItem{PlayerID: ada.ID, Name: "Pistol", Type: game.CardTypeItem}
	require.NoError(t, repo.AddItem(pistol))
	medkit := &game.InventoryItem{PlayerID: bob.ID, Name: "Medkit", Type: game.CardTypeItem}
	require.NoError(t, repo.AddItem(medkit))

	svc := NewTradeService(repo)
	sess, err := svc.Open("ABC123", "ada@example.com", "bob@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.SetOffer(sess.ID, "ada@example.com", &pistol.ID))
	require.NoError(t, svc.SetOffer(sess.ID, "bob@example.com", &medkit.ID))

	executed, _, err := svc.Confirm(sess.ID, "ada@example.com", true)
	require.NoError(t, err)
	assert.False(t, executed, "one confirmation must not execute the swap")

	executed, transfers, err := svc.Confirm(sess.ID, "bob@example.com", true)
	require.NoError(t, err)
	require.True(t, executed)
	assert.Len(t, transfers, 2)

	_, err = repo.GetItem(bob.ID, pistol.ID)
	assert.NoError(t, err, "pistol must now belong to bob")
	_, err = repo.GetItem(ada.ID, medkit.ID)
	assert.NoError(t, err, "medkit must now belong to ada")
	assert.Len(t, repo.logs, 2)

	_, err = svc.Get(sess.ID)
	assert.ErrorIs(t, err, ErrTradeNotFound)
}

func TestTradeOfferChangeResetsConfirmations(t *testing.T) {
	repo := newFakeRepo()
	ada, bob := seedTradeRoom(t, repo)

	pistol := &game.InventoryItem{PlayerID: ada.ID, Name: "Pistol", Type: game.CardTypeItem}
	require.NoError(t, repo.AddItem(pistol))
	medkit := &game.InventoryItem{PlayerID: bob.ID, Name: "Medkit", Type: game.CardTypeItem}
	require.NoError(t, repo.AddItem(medkit))

	svc := NewTradeService(repo)
	sess, err := svc.Open("ABC123", "ada@example.com", "bob@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.SetOffer(sess.ID, "ada@example.com", &pistol.ID))
	executed, _, err := svc.Confirm(sess.ID, "ada@example.com", true)
	require.NoError(t, err)
	require.False(t, executed)

	// bob's late offer wipes ada's confirmation, so his own confirm
	// cannot complete the trade on a state she never saw
	require.NoError(t, svc.SetOffer(sess.ID, "bob@example.com", &medkit.ID))
	executed, _, err = svc.Confirm(sess.ID, "bob@example.com", true)
	require.NoError(t, err)
	assert.False(t, executed)

	sess, err = svc.Get(sess.ID)
	require.NoError(t, err)
	assert.False(t, sess.Participants[0].IsConfirmed)
	assert.True(t, sess.Participants[1].IsConfirmed)
}

func TestTradeGiftWithEmptySide(t *testing.T) {
	repo := newFakeRepo()
	ada, bob := seedTradeRoom(t, repo)

	pistol := &game.InventoryItem{PlayerID: ada.ID, Name: "Pistol", Type: game.CardTypeItem}
	require.NoError(t, repo.AddItem(pistol))

	svc := NewTradeService(repo)
	sess, err := svc.Open("ABC123", "ada@example.com", "bob@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.SetOffer(sess.ID, "ada@example.com", &pistol.ID))
	_, _, err = svc.Confirm(sess.ID, "ada@example.com", true)
	require.NoError(t, err)
	executed, transfers, err := svc.Confirm(sess.ID, "bob@example.com", true)
	require.NoError(t, err)
	require.True(t, executed)
	assert.Len(t, transfers, 1)

	_, err = repo.GetItem(bob.ID, pistol.ID)
	assert.NoError(t, err)
}

func TestTradeCancelDropsSession(t *testing.T) {
	repo := newFakeRepo()
	seedTradeRoom(t, repo)

	svc := NewTradeService(repo)
	sess, err := svc.Open("ABC123", "ada@example.com", "bob@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(sess.ID, "bob@example.com"))
	_, err = svc.Get(sess.ID)
	assert.ErrorIs(t, err, ErrTradeNotFound)
}

func TestTradeOpenValidatesParticipants(t *testing.T) {
	repo := newFakeRepo()
	seedTradeRoom(t, repo)

	svc := NewTradeService(repo)
	_, err := svc.Open("ABC123", "ada@example.com", "ghost@example.com")
	assert.ErrorIs(t, err, ErrPlayerNotInRoom)

	_, err = svc.Open("NOPE42", "ada@example.com", "bob@example.com")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}
