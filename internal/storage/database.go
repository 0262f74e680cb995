package storage

import (
	"github.com/starfall-game/starfall-server/internal/game"
	"github.com/starfall-game/starfall-server/internal/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OpenAndMigrate opens the SQLite database, keeps the schema updated via
// AutoMigrate and seeds the card catalog from the config file. The config
// is the source of truth for authored cards: seeding upserts by ID so
// edits to the config land in the catalog on restart.
func OpenAndMigrate(dataSourceName string, cardsFromConfig []game.Card) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&game.Card{}, &game.Room{}, &game.Player{}, &game.InventoryItem{}, &game.TradeLog{})
	if err != nil {
		return nil, err
	}

	seedCatalog(db, cardsFromConfig)
	return db, nil
}

func seedCatalog(db *gorm.DB, cards []game.Card) {
	if len(cards) == 0 {
		return
	}
	if err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&cards).Error; err != nil {
		logging.Error("failed to seed card catalog", err, nil)
		return
	}
	logging.Info("card catalog seeded", logging.Fields{"cards": len(cards)})
}
