// Package planet tracks sequential landing-event progress on PLANET cards.
// Progress lives on the player's inventory item, 0-indexed into the card's
// phase list; reaching the list length means the planet is complete.
package planet

import (
	"errors"

	"github.com/starfall-game/starfall-server/internal/game"
)

var (
	// ErrPlanetComplete means every phase was already visited; further
	// travel to this planet is rejected.
	ErrPlanetComplete = errors.New("planet has no remaining phases")
	// ErrNoPlanetConfig means the card carries no planet configuration.
	ErrNoPlanetConfig = errors.New("card has no planet configuration")
)

// NextEvent describes the landing event a visit should trigger.
type NextEvent struct {
	// CardID is the catalog ID of the phase event, or the legacy single
	// landing event.
	CardID uint `json:"card_id"`
	// EventType is set only for the legacy fallback, where the event type
	// is authored alongside the ID.
	EventType game.CardType `json:"event_type,omitempty"`
	// Phase is the 0-based phase index; -1 for the legacy fallback, which
	// tracks no progress.
	Phase int `json:"phase"`
	// Legacy marks the phases-empty fallback: the event re-triggers on
	// every visit and Advance is a no-op for it.
	Legacy bool `json:"legacy"`
}

// Next resolves the landing event for the planet item's current progress.
func Next(cfg *game.PlanetConfig, progress int) (NextEvent, error) {
	if cfg == nil {
		return NextEvent{}, ErrNoPlanetConfig
	}
	if len(cfg.Phases) == 0 {
		if cfg.LandingEventID == 0 {
			return NextEvent{}, ErrNoPlanetConfig
		}
		return NextEvent{CardID: cfg.LandingEventID, EventType: cfg.LandingEventType, Phase: -1, Legacy: true}, nil
	}
	if progress >= len(cfg.Phases) {
		return NextEvent{}, ErrPlanetComplete
	}
	if progress < 0 {
		progress = 0
	}
	return NextEvent{CardID: cfg.Phases[progress], Phase: progress}, nil
}

// Complete reports whether every phase has been visited. Legacy planets
// (no phase list) never complete.
func Complete(cfg *game.PlanetConfig, progress int) bool {
	if cfg == nil || len(cfg.Phases) == 0 {
		return false
	}
	return progress >= len(cfg.Phases)
}

// Advance moves progress forward by exactly one phase after a successful
// landing-event resolution. It never skips and never decrements; advancing
// a complete or legacy planet is rejected.
func Advance(cfg *game.PlanetConfig, item *game.InventoryItem) error {
	if cfg == nil {
		return ErrNoPlanetConfig
	}
	if len(cfg.Phases) == 0 {
		// legacy single-event planets track no progress
		return nil
	}
	if item.PlanetProgress >= len(cfg.Phases) {
		return ErrPlanetComplete
	}
	item.PlanetProgress++
	return nil
}
