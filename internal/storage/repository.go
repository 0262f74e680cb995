package storage

import (
	"errors"

	"github.com/starfall-game/starfall-server/internal/game"
)

// ErrNotFound is returned for missing rooms, players, cards and items.
var ErrNotFound = errors.New("record not found")

// Repository is the persistence boundary of the server. The engines never
// see it; services adapt it to the engines' collaborator interfaces.
type Repository interface {
	// Catalog (read-only at runtime; authored cards are seeded from config)
	GetCard(id uint) (*game.Card, error)
	ListCards() ([]game.Card, error)

	// Rooms
	CreateRoom(r *game.Room) error
	FindRoomByJoinCode(code string) (*game.Room, error)
	GetRoomByID(id uint) (*game.Room, error)
	RemovePlayer(roomID uint, email string) error

	// Players and their scalar stats
	GetPlayer(roomID uint, email string) (*game.Player, error)
	GetPlayerByID(id uint) (*game.Player, error)
	UpdatePlayer(p *game.Player) error
	// AdjustStat applies a signed delta to a canonical player stat
	// (HP, ARMOR, GOLD, FUEL, OXY). HP and armor floor at zero.
	AdjustStat(playerID uint, stat string, delta int) error

	// Inventory. Items are flat instance rows; resource stacking is a
	// read-side projection, never a storage merge.
	GetInventory(playerID uint) ([]game.InventoryItem, error)
	GetItem(playerID, itemID uint) (*game.InventoryItem, error)
	AddItem(item *game.InventoryItem) error
	UpdateItem(item *game.InventoryItem) error
	// RemoveItem deletes by exact instance ID; removed=false with nil
	// error means the item was already gone.
	RemoveItem(playerID, itemID uint) (removed bool, err error)

	// Trade audit
	SaveTradeLog(entry *game.TradeLog) error
}
