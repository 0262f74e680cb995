package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starfall-game/starfall-server/internal/game"
	"github.com/starfall-game/starfall-server/internal/planet"
)

func seedPlanet(t *testing.T, repo *fakeRepo, playerID uint) *game.InventoryItem {
	t.Helper()
	repo.addCard(game.Card{
		ID:   20,
		Name: "Kepler-7b",
		Type: game.CardTypePlanet,
		PlanetConfig: &game.PlanetConfig{
			Phases: []uint{30, 31},
		},
	})
	repo.addCard(game.Card{ID: 30, Name: "Crash Site", Type: game.CardTypeEncounter})
	repo.addCard(game.Card{ID: 31, Name: "Ancient Vault", Type: game.CardTypeTrap})

	item := &game.InventoryItem{
		PlayerID: playerID,
		CardID:   20,
		Name:     "Kepler-7b",
		Type:     game.CardTypePlanet,
	}
	require.NoError(t, repo.AddItem(item))
	return item
}

func TestTravelWalksPhasesInOrder(t *testing.T) {
	repo := newFakeRepo()
	_, player := seedRoom(t, repo)
	item := seedPlanet(t, repo, player.ID)

	next, err := Travel(repo, "ABC123", "ada@example.com", item.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(30), next.CardID)
	assert.Equal(t, 0, next.Phase)

	// travel again without landing: same phase, same event
	next, err = Travel(repo, "ABC123", "ada@example.com", item.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(30), next.CardID)

	updated, err := Land(repo, "ABC123", "ada@example.com", item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.PlanetProgress)

	next, err = Travel(repo, "ABC123", "ada@example.com", item.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(31), next.CardID)
	assert.Equal(t, 1, next.Phase)

	_, err = Land(repo, "ABC123", "ada@example.com", item.ID)
	require.NoError(t, err)

	_, err = Travel(repo, "ABC123", "ada@example.com", item.ID)
	assert.ErrorIs(t, err, planet.ErrPlanetComplete)
	_, err = Land(repo, "ABC123", "ada@example.com", item.ID)
	assert.ErrorIs(t, err, planet.ErrPlanetComplete)
}

func TestTravelRejectsNonPlanetItem(t *testing.T) {
	repo := newFakeRepo()
	_, player := seedRoom(t, repo)
	rock := &game.InventoryItem{PlayerID: player.ID, Name: "Rock", Type: game.CardTypeItem}
	require.NoError(t, repo.AddItem(rock))

	_, err := Travel(repo, "ABC123", "ada@example.com", rock.ID)
	assert.ErrorIs(t, err, ErrNotAPlanet)

	_, err = Travel(repo, "ABC123", "ada@example.com", 999)
	assert.ErrorIs(t, err, ErrItemNotFound)
}
