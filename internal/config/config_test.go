package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starfall-game/starfall-server/internal/game"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "starfall_config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"card_list": [
			{"id": 1, "name": "Rust Stalker", "type": "ENCOUNTER"}
		]
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, 500*time.Millisecond, cfg.Pacing.Roll)
	assert.Equal(t, 80, cfg.FleeTable[game.RarityCommon])
	assert.Equal(t, time.Duration(0), cfg.TradeIdleTTL)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `{
		"card_list": [
			{"id": 1, "name": "Rust Stalker", "type": "ENCOUNTER"}
		],
		"server": {"address": ":9090"},
		"pacing": {"roll_ms": 0, "trap_fail_ms": 100, "flee_ms": 0},
		"flee_table": {"legendary": 5},
		"trade_idle_ttl_seconds": 300
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, time.Duration(0), cfg.Pacing.Roll)
	assert.Equal(t, 100*time.Millisecond, cfg.Pacing.TrapFail)
	assert.Equal(t, 5, cfg.FleeTable[game.RarityLegendary])
	// untouched rarities keep their defaults
	assert.Equal(t, 60, cfg.FleeTable[game.RarityRare])
	assert.Equal(t, 5*time.Minute, cfg.TradeIdleTTL)
}

func TestLoadConfigRejectsBadCatalog(t *testing.T) {
	cases := map[string]string{
		"empty list":     `{"card_list": []}`,
		"missing id":     `{"card_list": [{"name": "X", "type": "ITEM"}]}`,
		"missing name":   `{"card_list": [{"id": 1, "type": "ITEM"}]}`,
		"duplicate id":   `{"card_list": [{"id": 1, "name": "A", "type": "ITEM"}, {"id": 1, "name": "B", "type": "ITEM"}]}`,
		"bare planet":    `{"card_list": [{"id": 1, "name": "P", "type": "PLANET"}]}`,
		"unknown rarity": `{"card_list": [{"id": 1, "name": "A", "type": "ITEM"}], "flee_table": {"mythic": 10}}`,
		"chance range":   `{"card_list": [{"id": 1, "name": "A", "type": "ITEM"}], "flee_table": {"common": 150}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
