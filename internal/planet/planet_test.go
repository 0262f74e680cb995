package planet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starfall-game/starfall-server/internal/game"
)

func TestNext_WalksPhasesInOrder(t *testing.T) {
	cfg := &game.PlanetConfig{Phases: []uint{11, 22, 33}}

	ev, err := Next(cfg, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(11), ev.CardID)
	assert.Equal(t, 0, ev.Phase)
	assert.False(t, ev.Legacy)

	ev, err = Next(cfg, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(33), ev.CardID)
	assert.False(t, Complete(cfg, 2), "progress 2 of 3 is not complete")
}

func TestAdvance_OneStepToCompletion(t *testing.T) {
	cfg := &game.PlanetConfig{Phases: []uint{11, 22, 33}}
	item := &game.InventoryItem{PlanetProgress: 2}

	require.NoError(t, Advance(cfg, item))
	assert.Equal(t, 3, item.PlanetProgress)
	assert.True(t, Complete(cfg, item.PlanetProgress))

	// further travel is rejected
	_, err := Next(cfg, item.PlanetProgress)
	assert.ErrorIs(t, err, ErrPlanetComplete)
	assert.ErrorIs(t, Advance(cfg, item), ErrPlanetComplete)
	assert.Equal(t, 3, item.PlanetProgress, "progress never exceeds phase count")
}

func TestLegacyFallback_SingleEventNoProgress(t *testing.T) {
	cfg := &game.PlanetConfig{LandingEventID: 77, LandingEventType: game.CardTypeEncounter}
	item := &game.InventoryItem{}

	for i := 0; i < 3; i++ {
		ev, err := Next(cfg, item.PlanetProgress)
		require.NoError(t, err)
		assert.True(t, ev.Legacy)
		assert.Equal(t, uint(77), ev.CardID)
		assert.Equal(t, game.CardTypeEncounter, ev.EventType)

		require.NoError(t, Advance(cfg, item))
		assert.Equal(t, 0, item.PlanetProgress, "legacy planets track no progress")
	}
	assert.False(t, Complete(cfg, 0))
}

func TestNext_NoConfig(t *testing.T) {
	_, err := Next(nil, 0)
	assert.ErrorIs(t, err, ErrNoPlanetConfig)

	_, err = Next(&game.PlanetConfig{}, 0)
	assert.ErrorIs(t, err, ErrNoPlanetConfig)
}
