// Package engine resolves combat and trap encounters. Sessions are
// ephemeral: one lives per opened encounter card and dies when the
// encounter closes (victory claimed, flee succeeded, or dismissed).
//
// Engines never touch storage. Player-side effects flow through the
// injected PlayerSink and claimed rewards are returned to the caller, which
// owns persistence.
package engine

import (
	"errors"
	"time"

	"github.com/starfall-game/starfall-server/internal/game"
)

var (
	// ErrActionInFlight means another roll or a flee attempt is pending;
	// the action is refused with no state change.
	ErrActionInFlight = errors.New("another action is already in flight")
	// ErrCombatOver means the enemy is already defeated or the session fled.
	ErrCombatOver = errors.New("combat is already over")
	// ErrFleeExhausted means the single flee attempt was already spent.
	ErrFleeExhausted = errors.New("flee has already been attempted")
	// ErrNotVictorious guards loot claims before the enemy is down.
	ErrNotVictorious = errors.New("loot can only be claimed after victory")
	// ErrTrapNotActive means the trap check already resolved.
	ErrTrapNotActive = errors.New("trap is not active")
	// ErrTrapNotSucceeded guards trap claims outside the success state.
	ErrTrapNotSucceeded = errors.New("trap loot requires a successful check")
)

// PlayerSink is the capability boundary for player-side effects. Engines
// read armor through it and push damage/armor deltas back; they never
// mutate player state directly.
type PlayerSink interface {
	Armor() int
	// OnPlayerDamage receives a signed HP delta (negative reduces HP).
	OnPlayerDamage(delta int)
	// OnArmorChange receives a signed armor delta.
	OnArmorChange(delta int)
}

// Pacing holds the fixed UX delays between an action and its resolution.
// They exist only so clients can show the intermediate state; tests run
// with the zero value.
type Pacing struct {
	Roll     time.Duration
	TrapFail time.Duration
	Flee     time.Duration
}

// DefaultPacing mirrors the client timings.
func DefaultPacing() Pacing {
	return Pacing{
		Roll:     500 * time.Millisecond,
		TrapFail: 500 * time.Millisecond,
		Flee:     1500 * time.Millisecond,
	}
}

// FleeTable maps rarity to flee success chance in percent.
type FleeTable map[game.Rarity]int

// DefaultFleeTable is the canonical flee probability table. The authoring
// tool's preview shows 30% for epic enemies; the live table below is the
// one that governs play.
func DefaultFleeTable() FleeTable {
	return FleeTable{
		game.RarityLegendary: 10,
		game.RarityEpic:      40,
		game.RarityRare:      60,
		game.RarityCommon:    80,
	}
}

// Chance returns the flee percentage for a rarity, defaulting to the
// common tier for unknown values.
func (t FleeTable) Chance(r game.Rarity) int {
	if c, ok := t[r]; ok {
		return c
	}
	return 80
}

// sleep is a test seam; sessions skip zero delays entirely.
func sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
