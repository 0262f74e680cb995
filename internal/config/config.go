package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/starfall-game/starfall-server/internal/engine"
	"github.com/starfall-game/starfall-server/internal/game"
)

type rawConfig struct {
	CardList []game.Card `json:"card_list"`
	Server   *struct {
		Address string `json:"address"`
	} `json:"server"`
	// Optional pacing overrides in milliseconds. Zero keeps the default;
	// tests and local tooling can set all three to disable delays.
	Pacing *struct {
		RollMs     *int `json:"roll_ms"`
		TrapFailMs *int `json:"trap_fail_ms"`
		FleeMs     *int `json:"flee_ms"`
	} `json:"pacing"`
	// Optional flee table override, keyed by rarity name.
	FleeTable map[string]int `json:"flee_table"`
	// Optional stat label synonym table override.
	StatSynonyms map[string][]string `json:"stat_synonyms"`
	// Trade sessions idle longer than this are cancelled; 0 disables.
	TradeIdleTTLSeconds int `json:"trade_idle_ttl_seconds"`
}

// LoadedConfig contains the seed catalog and runtime tuning.
type LoadedConfig struct {
	Cards         []game.Card
	ServerAddress string
	Pacing        engine.Pacing
	FleeTable     engine.FleeTable
	StatSynonyms  map[string][]string
	TradeIdleTTL  time.Duration
}

// LoadConfig reads the configuration file at path. It requires the key
// `card_list` (snake_case) with at least one card.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(rc.CardList) == 0 {
		return nil, fmt.Errorf("config file %s: card_list is empty (provide a 'card_list' array)", path)
	}

	seen := make(map[uint]struct{}, len(rc.CardList))
	for _, c := range rc.CardList {
		if c.ID == 0 {
			return nil, fmt.Errorf("config file %s: card '%s' missing 'id'", path, c.Name)
		}
		if c.Name == "" {
			return nil, fmt.Errorf("config file %s: card %d missing 'name'", path, c.ID)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("config file %s: duplicate card id %d", path, c.ID)
		}
		seen[c.ID] = struct{}{}
		if c.Type == game.CardTypePlanet && c.PlanetConfig == nil {
			return nil, fmt.Errorf("config file %s: planet card %d missing 'planet_config'", path, c.ID)
		}
	}

	out := &LoadedConfig{
		Cards:         rc.CardList,
		ServerAddress: ":8080",
		Pacing:        engine.DefaultPacing(),
		FleeTable:     engine.DefaultFleeTable(),
		StatSynonyms:  rc.StatSynonyms,
		TradeIdleTTL:  time.Duration(rc.TradeIdleTTLSeconds) * time.Second,
	}
	if rc.Server != nil && rc.Server.Address != "" {
		out.ServerAddress = rc.Server.Address
	}
	if rc.Pacing != nil {
		if rc.Pacing.RollMs != nil {
			out.Pacing.Roll = time.Duration(*rc.Pacing.RollMs) * time.Millisecond
		}
		if rc.Pacing.TrapFailMs != nil {
			out.Pacing.TrapFail = time.Duration(*rc.Pacing.TrapFailMs) * time.Millisecond
		}
		if rc.Pacing.FleeMs != nil {
			out.Pacing.Flee = time.Duration(*rc.Pacing.FleeMs) * time.Millisecond
		}
	}
	for name, chance := range rc.FleeTable {
		r := game.Rarity(name)
		switch r {
		case game.RarityCommon, game.RarityRare, game.RarityEpic, game.RarityLegendary:
		default:
			return nil, fmt.Errorf("config file %s: flee_table has unknown rarity '%s'", path, name)
		}
		if chance < 0 || chance > 100 {
			return nil, fmt.Errorf("config file %s: flee_table chance for '%s' out of range [0,100]", path, name)
		}
		out.FleeTable[r] = chance
	}
	return out, nil
}
