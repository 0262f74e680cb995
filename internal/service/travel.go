package service

import (
	"errors"

	"github.com/starfall-game/starfall-server/internal/game"
	"github.com/starfall-game/starfall-server/internal/planet"
	"github.com/starfall-game/starfall-server/internal/storage"
)

var (
	ErrNotAPlanet = errors.New("item is not a planet card")
)

// Travel resolves the next landing event for a player's planet item. A
// completed planet rejects the travel attempt.
func Travel(repo storage.Repository, roomCode, email string, itemID uint) (planet.NextEvent, error) {
	_, player, err := PlayerInRoom(repo, roomCode, email)
	if err != nil {
		return planet.NextEvent{}, err
	}
	item, err := repo.GetItem(player.ID, itemID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return planet.NextEvent{}, ErrItemNotFound
		}
		return planet.NextEvent{}, err
	}
	if item.Type != game.CardTypePlanet {
		return planet.NextEvent{}, ErrNotAPlanet
	}
	card, err := repo.GetCard(item.CardID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return planet.NextEvent{}, ErrCardNotFound
		}
		return planet.NextEvent{}, err
	}
	return planet.Next(card.PlanetConfig, item.PlanetProgress)
}

// Land advances the planet's phase by exactly one after the landing event
// resolved successfully (combat victory or trap success, decided by the
// caller).
func Land(repo storage.Repository, roomCode, email string, itemID uint) (*game.InventoryItem, error) {
	_, player, err := PlayerInRoom(repo, roomCode, email)
	if err != nil {
		return nil, err
	}
	item, err := repo.GetItem(player.ID, itemID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	if item.Type != game.CardTypePlanet {
		return nil, ErrNotAPlanet
	}
	card, err := repo.GetCard(item.CardID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	if err := planet.Advance(card.PlanetConfig, item); err != nil {
		return nil, err
	}
	if err := repo.UpdateItem(item); err != nil {
		return nil, err
	}
	return item, nil
}
