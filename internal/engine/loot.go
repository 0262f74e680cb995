package engine

import (
	"strconv"
	"strings"

	"github.com/starfall-game/starfall-server/internal/game"
	"github.com/starfall-game/starfall-server/internal/stats"
)

// RewardEntries normalizes an enemy's loot definition into a stat entry
// list. When the structured list is empty a single GOLD entry is
// synthesized from the flat gold reward.
func RewardEntries(loot *game.EnemyLoot) []game.StatEntry {
	if loot == nil {
		return nil
	}
	if len(loot.LootStats) > 0 {
		return append([]game.StatEntry(nil), loot.LootStats...)
	}
	if loot.GoldReward > 0 {
		return []game.StatEntry{{Label: "GOLD", Value: strconv.Itoa(loot.GoldReward)}}
	}
	return nil
}

// RewardApplier is implemented by the inventory collaborator that persists
// claimed rewards.
type RewardApplier interface {
	// AdjustStat applies a signed delta to a recognized player scalar
	// stat (canonical name: HP, ARMOR, GOLD, FUEL, OXY, ...).
	AdjustStat(name string, delta int) error
	// AddStat stores an unrecognized reward entry as an opaque
	// inventory-addable stat.
	AddStat(entry game.StatEntry) error
}

// ApplyReward converts each reward entry into a mutation on the applier.
// Entries whose label resolves to a known stat and whose value parses as an
// integer become direct stat adjustments; everything else is handed over
// verbatim. Idempotency is the session's job (claimed flags), not this
// function's.
func ApplyReward(entries []game.StatEntry, resolver *stats.Resolver, applier RewardApplier) error {
	for _, e := range entries {
		name, known := resolver.Canonical(e.Label)
		if known {
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(e.Value, "+")))
			if err == nil {
				if err := applier.AdjustStat(name, n); err != nil {
					return err
				}
				continue
			}
		}
		if err := applier.AddStat(e); err != nil {
			return err
		}
	}
	return nil
}
