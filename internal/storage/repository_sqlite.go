package storage

import (
	"errors"
	"strconv"

	"github.com/starfall-game/starfall-server/internal/dedupe"
	"github.com/starfall-game/starfall-server/internal/game"

	"gorm.io/gorm"
)

type sqliteRepository struct {
	db *gorm.DB
}

// NewSQLiteRepository wraps a migrated gorm handle in the Repository
// interface.
func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) GetCard(id uint) (*game.Card, error) {
	// Collapse concurrent loads of the same card into one query; a shared
	// room scanning the same QR hits this path from every client at once.
	v, err, _ := dedupe.CardGroup.Do(strconv.FormatUint(uint64(id), 10), func() (interface{}, error) {
		var c game.Card
		if err := r.db.First(&c, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return &c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*game.Card), nil
}

func (r *sqliteRepository) ListCards() ([]game.Card, error) {
	var cards []game.Card
	if err := r.db.Order("id").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *sqliteRepository) CreateRoom(room *game.Room) error {
	return r.db.Create(room).Error
}

func (r *sqliteRepository) FindRoomByJoinCode(code string) (*game.Room, error) {
	var room game.Room
	err := r.db.Preload("Players.Items").Where("join_code = ?", code).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *sqliteRepository) GetRoomByID(id uint) (*game.Room, error) {
	var room game.Room
	err := r.db.Preload("Players.Items").First(&room, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *sqliteRepository) RemovePlayer(roomID uint, email string) error {
	res := r.db.Where("room_id = ? AND email = ?", roomID, email).Delete(&game.Player{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqliteRepository) GetPlayer(roomID uint, email string) (*game.Player, error) {
	var p game.Player
	err := r.db.Preload("Items").Where("room_id = ? AND email = ?", roomID, email).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepository) GetPlayerByID(id uint) (*game.Player, error) {
	var p game.Player
	err := r.db.Preload("Items").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepository) UpdatePlayer(p *game.Player) error {
	return r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(p).Error
}

func (r *sqliteRepository) AdjustStat(playerID uint, stat string, delta int) error {
	var column string
	floorZero := false
	switch stat {
	case "HP":
		column, floorZero = "hit_points", true
	case "ARMOR":
		column, floorZero = "armor", true
	case "GOLD":
		column = "gold"
	case "FUEL":
		column = "fuel"
	case "OXY":
		column = "oxygen"
	default:
		return ErrNotFound
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		var p game.Player
		if err := tx.First(&p, playerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		value := 0
		switch column {
		case "hit_points":
			value = p.HitPoints + delta
		case "armor":
			value = p.Armor + delta
		case "gold":
			value = p.Gold + delta
		case "fuel":
			value = p.Fuel + delta
		case "oxygen":
			value = p.Oxygen + delta
		}
		if floorZero && value < 0 {
			value = 0
		}
		return tx.Model(&game.Player{}).Where("id = ?", playerID).Update(column, value).Error
	})
}

func (r *sqliteRepository) GetInventory(playerID uint) ([]game.InventoryItem, error) {
	var items []game.InventoryItem
	if err := r.db.Where("player_id = ?", playerID).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *sqliteRepository) GetItem(playerID, itemID uint) (*game.InventoryItem, error) {
	var it game.InventoryItem
	err := r.db.Where("player_id = ? AND id = ?", playerID, itemID).First(&it).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *sqliteRepository) AddItem(item *game.InventoryItem) error {
	return r.db.Create(item).Error
}

func (r *sqliteRepository) UpdateItem(item *game.InventoryItem) error {
	return r.db.Save(item).Error
}

func (r *sqliteRepository) RemoveItem(playerID, itemID uint) (bool, error) {
	// Hard delete: trades re-insert the row under the new owner with the
	// same instance ID, which a soft-deleted tombstone would block.
	res := r.db.Unscoped().Where("player_id = ? AND id = ?", playerID, itemID).Delete(&game.InventoryItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *sqliteRepository) SaveTradeLog(entry *game.TradeLog) error {
	return r.db.Create(entry).Error
}
