package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starfall-game/starfall-server/internal/engine"
	"github.com/starfall-game/starfall-server/internal/game"
	"github.com/starfall-game/starfall-server/internal/stats"
)

// cycleSource hands out scripted Intn values and wraps around, so draws
// we do not care about in a test cannot run it dry.
type cycleSource struct {
	values []int
	i      int
}

func (s *cycleSource) Intn(n int) int {
	v := s.values[s.i%len(s.values)]
	s.i++
	return v % n
}

func intPtr(v int) *int { return &v }

func seedRoom(t *testing.T, repo *fakeRepo) (*game.Room, *game.Player) {
	t.Helper()
	room, err := CreateRoom(repo, "Expedition", "ABC123", "ada@example.com", "Ada", "Engineer")
	require.NoError(t, err)
	return room, &room.Players[0]
}

func newTestEncounterService(repo *fakeRepo, src *cycleSource) *EncounterService {
	// zero pacing keeps the tests free of sleeps
	return NewEncounterService(repo, stats.NewResolver(nil), src, engine.Pacing{}, nil)
}

func TestEncounterCombatFlow(t *testing.T) {
	repo := newFakeRepo()
	_, player := seedRoom(t, repo)
	repo.addCard(game.Card{
		ID:   1,
		Name: "Rust Stalker",
		Type: game.CardTypeEncounter,
		Stats: []game.StatEntry{
			{Label: "HP", Value: "10"},
			{Label: "ATK", Value: "5"},
			{Label: "DEF", Value: "2"},
		},
		EnemyLoot: &game.EnemyLoot{GoldReward: 7},
	})

	svc := newTestEncounterService(repo, &cycleSource{values: []int{99}})
	enc, err := svc.Open("ABC123", "ada@example.com", 1)
	require.NoError(t, err)
	assert.Equal(t, KindCombat, enc.Kind)

	// 9 - DEF 2 = 7 damage, enemy survives on 3 HP and counters for 5
	res, err := svc.Attack(enc.ID, intPtr(9))
	require.NoError(t, err)
	assert.Equal(t, 7, res.Damage)
	assert.Equal(t, 3, res.EnemyHP)
	require.NotNil(t, res.Counter)

	p, err := repo.GetPlayerByID(player.ID)
	require.NoError(t, err)
	assert.Equal(t, startingHP-5, p.HitPoints)

	// finishing blow skips the counter
	res, err = svc.Attack(enc.ID, intPtr(9))
	require.NoError(t, err)
	assert.True(t, res.Victory)
	assert.Nil(t, res.Counter)

	reward, err := svc.ClaimCombatLoot(enc.ID)
	require.NoError(t, err)
	require.Len(t, reward, 1)
	assert.Equal(t, "GOLD", reward[0].Label)

	p, err = repo.GetPlayerByID(player.ID)
	require.NoError(t, err)
	assert.Equal(t, startingGold+7, p.Gold)

	// the claim closed the session
	_, err = svc.ClaimCombatLoot(enc.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestEncounterOpenRejectsNonEncounterCard(t *testing.T) {
	repo := newFakeRepo()
	seedRoom(t, repo)
	repo.addCard(game.Card{ID: 4, Name: "Scrap Metal", Type: game.CardTypeItem})

	svc := newTestEncounterService(repo, &cycleSource{values: []int{0}})
	_, err := svc.Open("ABC123", "ada@example.com", 4)
	assert.ErrorIs(t, err, ErrNotAnEncounter)

	_, err = svc.Open("ABC123", "ada@example.com", 99)
	assert.ErrorIs(t, err, ErrCardNotFound)

	_, err = svc.Open("ABC123", "ghost@example.com", 4)
	assert.ErrorIs(t, err, ErrPlayerNotInRoom)
}

func TestEncounterUseItemConsumesIt(t *testing.T) {
	repo := newFakeRepo()
	_, player := seedRoom(t, repo)
	repo.addCard(game.Card{
		ID:    1,
		Name:  "Rust Stalker",
		Type:  game.CardTypeEncounter,
		Stats: []game.StatEntry{{Label: "HP", Value: "10"}, {Label: "ATK", Value: "0"}},
	})
	grenade := &game.InventoryItem{
		PlayerID: player.ID,
		Name:     "Plasma Grenade",
		Type:     game.CardTypeItem,
		Stats:    []game.StatEntry{{Label: "DMG", Value: "10"}},
	}
	require.NoError(t, repo.AddItem(grenade))
	rock := &game.InventoryItem{PlayerID: player.ID, Name: "Rock", Type: game.CardTypeItem}
	require.NoError(t, repo.AddItem(rock))

	svc := newTestEncounterService(repo, &cycleSource{values: []int{99}})
	enc, err := svc.Open("ABC123", "ada@example.com", 1)
	require.NoError(t, err)

	_, err = svc.UseItem(enc.ID, rock.ID)
	assert.ErrorIs(t, err, ErrItemNotUsable)

	res, err := svc.UseItem(enc.ID, grenade.ID)
	require.NoError(t, err)
	assert.True(t, res.Victory)

	_, err = repo.GetItem(player.ID, grenade.ID)
	assert.Error(t, err, "used item must leave the inventory")
}

func TestEncounterFleeSuccessClosesSession(t *testing.T) {
	repo := newFakeRepo()
	seedRoom(t, repo)
	repo.addCard(game.Card{
		ID:     1,
		Name:   "Void Leech",
		Type:   game.CardTypeEncounter,
		Rarity: game.RarityCommon,
		Stats:  []game.StatEntry{{Label: "HP", Value: "50"}, {Label: "ATK", Value: "5"}},
	})

	// draw 10 <= common chance 80
	svc := newTestEncounterService(repo, &cycleSource{values: []int{9}})
	enc, err := svc.Open("ABC123", "ada@example.com", 1)
	require.NoError(t, err)

	res, err := svc.Flee(enc.ID)
	require.NoError(t, err)
	assert.True(t, res.Success)

	_, err = svc.Get(enc.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestEncounterFleeSecondAttemptRejected(t *testing.T) {
	repo := newFakeRepo()
	seedRoom(t, repo)
	repo.addCard(game.Card{
		ID:     1,
		Name:   "Void Leech",
		Type:   game.CardTypeEncounter,
		Rarity: game.RarityCommon,
		Stats:  []game.StatEntry{{Label: "HP", Value: "50"}, {Label: "ATK", Value: "5"}},
	})

	// draw 96 > common chance 80
	svc := newTestEncounterService(repo, &cycleSource{values: []int{95}})
	enc, err := svc.Open("ABC123", "ada@example.com", 1)
	require.NoError(t, err)

	res, err := svc.Flee(enc.ID)
	require.NoError(t, err)
	assert.False(t, res.Success)
	require.NotNil(t, res.Counter)

	// the one escape attempt is spent; further flees must error, not
	// report a zero-value result
	_, err = svc.Flee(enc.ID)
	assert.ErrorIs(t, err, engine.ErrFleeExhausted)

	// the failed attempt leaves the fight running
	_, err = svc.Get(enc.ID)
	require.NoError(t, err)
}

func TestEncounterDismissClosesSession(t *testing.T) {
	repo := newFakeRepo()
	seedRoom(t, repo)
	repo.addCard(game.Card{
		ID:    1,
		Name:  "Rust Stalker",
		Type:  game.CardTypeEncounter,
		Stats: []game.StatEntry{{Label: "HP", Value: "10"}, {Label: "ATK", Value: "5"}},
	})

	svc := newTestEncounterService(repo, &cycleSource{values: []int{99}})
	enc, err := svc.Open("ABC123", "ada@example.com", 1)
	require.NoError(t, err)

	svc.Close(enc.ID)
	_, err = svc.Get(enc.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestEncounterClaimLootStatOutsideScalars(t *testing.T) {
	repo := newFakeRepo()
	_, player := seedRoom(t, repo)
	repo.addCard(game.Card{
		ID:    1,
		Name:  "Rust Stalker",
		Type:  game.CardTypeEncounter,
		Stats: []game.StatEntry{{Label: "HP", Value: "5"}, {Label: "ATK", Value: "0"}},
		EnemyLoot: &game.EnemyLoot{
			LootStats: []game.StatEntry{{Label: "ATK", Value: "3"}},
		},
	})

	svc := newTestEncounterService(repo, &cycleSource{values: []int{99}})
	enc, err := svc.Open("ABC123", "ada@example.com", 1)
	require.NoError(t, err)

	res, err := svc.Attack(enc.ID, intPtr(9))
	require.NoError(t, err)
	require.True(t, res.Victory)

	reward, err := svc.ClaimCombatLoot(enc.ID)
	require.NoError(t, err)
	require.Len(t, reward, 1)

	// ATK is not a persisted player scalar; the claim still succeeds
	// and the stat lands in the inventory
	items, err := repo.GetInventory(player.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ATK", items[0].Name)
	assert.Equal(t, []game.StatEntry{{Label: "ATK", Value: "3"}}, items[0].Stats)
}

func TestEncounterClaimLootRetriesAfterWriteFailure(t *testing.T) {
	repo := newFakeRepo()
	_, player := seedRoom(t, repo)
	repo.addCard(game.Card{
		ID:    1,
		Name:  "Rust Stalker",
		Type:  game.CardTypeEncounter,
		Stats: []game.StatEntry{{Label: "HP", Value: "5"}, {Label: "ATK", Value: "0"}},
		EnemyLoot: &game.EnemyLoot{
			LootStats: []game.StatEntry{{Label: "TROPHY", Value: "Void Core"}},
		},
	})

	svc := newTestEncounterService(repo, &cycleSource{values: []int{99}})
	enc, err := svc.Open("ABC123", "ada@example.com", 1)
	require.NoError(t, err)
	_, err = svc.Attack(enc.ID, intPtr(9))
	require.NoError(t, err)

	repo.addItemErr = errors.New("disk full")
	_, err = svc.ClaimCombatLoot(enc.ID)
	assert.ErrorIs(t, err, ErrRewardApplyFailed)

	// the failed write must not burn the one-shot claim
	repo.addItemErr = nil
	reward, err := svc.ClaimCombatLoot(enc.ID)
	require.NoError(t, err)
	require.Len(t, reward, 1)

	items, err := repo.GetInventory(player.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "TROPHY", items[0].Name)
}

func TestEncounterTrapClaimRetriesAfterWriteFailure(t *testing.T) {
	repo := newFakeRepo()
	_, player := seedRoom(t, repo)
	repo.addCard(game.Card{
		ID:   2,
		Name: "Pressure Plate",
		Type: game.CardTypeTrap,
		TrapConfig: &game.TrapConfig{
			Difficulty: 5,
			Loot:       []game.StatEntry{{Label: "RELIC", Value: "Shard"}},
		},
	})

	svc := newTestEncounterService(repo, &cycleSource{values: []int{0}})
	enc, err := svc.Open("ABC123", "ada@example.com", 2)
	require.NoError(t, err)

	res, err := svc.ResolveTrap(enc.ID, intPtr(7))
	require.NoError(t, err)
	require.Equal(t, engine.TrapSuccess, res.Status)

	repo.addItemErr = errors.New("disk full")
	_, err = svc.ClaimTrapLoot(enc.ID)
	assert.ErrorIs(t, err, ErrRewardApplyFailed)

	// the failed write steps the trap back to success so the
	// acknowledgement can be retried
	repo.addItemErr = nil
	loot, err := svc.ClaimTrapLoot(enc.ID)
	require.NoError(t, err)
	require.Len(t, loot, 1)

	items, err := repo.GetInventory(player.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "RELIC", items[0].Name)
}

func TestEncounterTrapFlow(t *testing.T) {
	repo := newFakeRepo()
	_, player := seedRoom(t, repo)
	repo.addCard(game.Card{
		ID:   2,
		Name: "Pressure Plate",
		Type: game.CardTypeTrap,
		TrapConfig: &game.TrapConfig{
			Difficulty: 7,
			Damage:     4,
			Loot:       []game.StatEntry{{Label: "GOLD", Value: "3"}},
		},
	})

	svc := newTestEncounterService(repo, &cycleSource{values: []int{0}})
	enc, err := svc.Open("ABC123", "ada@example.com", 2)
	require.NoError(t, err)
	assert.Equal(t, KindTrap, enc.Kind)

	// combat actions must not reach a trap session
	_, err = svc.Attack(enc.ID, intPtr(8))
	assert.ErrorIs(t, err, ErrWrongSessionKind)

	res, err := svc.ResolveTrap(enc.ID, intPtr(8))
	require.NoError(t, err)
	assert.Equal(t, engine.TrapSuccess, res.Status)
	assert.True(t, res.HasLoot)

	loot, err := svc.ClaimTrapLoot(enc.ID)
	require.NoError(t, err)
	require.Len(t, loot, 1)

	p, err := repo.GetPlayerByID(player.ID)
	require.NoError(t, err)
	assert.Equal(t, startingGold+3, p.Gold)

	_, err = svc.ClaimTrapLoot(enc.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestEncounterTrapFailureDamagesPlayer(t *testing.T) {
	repo := newFakeRepo()
	_, player := seedRoom(t, repo)
	repo.addCard(game.Card{
		ID:   2,
		Name: "Pressure Plate",
		Type: game.CardTypeTrap,
		TrapConfig: &game.TrapConfig{
			Difficulty: 7,
			Damage:     4,
		},
	})

	svc := newTestEncounterService(repo, &cycleSource{values: []int{0}})
	enc, err := svc.Open("ABC123", "ada@example.com", 2)
	require.NoError(t, err)

	res, err := svc.ResolveTrap(enc.ID, intPtr(5))
	require.NoError(t, err)
	assert.Equal(t, engine.TrapFail, res.Status)
	assert.Equal(t, 4, res.Damage)

	p, err := repo.GetPlayerByID(player.ID)
	require.NoError(t, err)
	assert.Equal(t, startingHP-4, p.HitPoints)

	// a failed trap has nothing left to claim; the session is gone
	_, err = svc.Get(enc.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
