package main

import (
	"os"
	"time"

	"github.com/starfall-game/starfall-server/internal/api"
	"github.com/starfall-game/starfall-server/internal/config"
	"github.com/starfall-game/starfall-server/internal/constants"
	"github.com/starfall-game/starfall-server/internal/dice"
	"github.com/starfall-game/starfall-server/internal/logging"
	"github.com/starfall-game/starfall-server/internal/service"
	"github.com/starfall-game/starfall-server/internal/stats"
	"github.com/starfall-game/starfall-server/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	// Card catalog file is required. Path may be provided via
	// STARFALL_CONFIG or defaults to ./starfall_config.json in the
	// current working directory.
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./starfall_config.json"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Fatal("Missing or invalid starfall configuration", err, logging.Fields{"config_path": configPath, "hint": "create a starfall_config.json with a 'card_list' array of card objects (id,name,type,rarity,stats) and optional keys: server.address, pacing, flee_table, stat_synonyms, trade_idle_ttl_seconds"})
	}

	// Allow the DB path to be configured via STARFALL_DB. Default to a
	// `data/` directory inside the backend module for local development.
	dbPath := os.Getenv(constants.EnvDBPath)
	if dbPath == "" {
		dbPath = "./data/starfall.db"
	}
	db, err := storage.OpenAndMigrate(dbPath, cfg.Cards)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	repo := storage.NewSQLiteRepository(db)

	resolver := stats.NewResolver(cfg.StatSynonyms)
	rng := dice.NewLockedSource(time.Now().UnixNano())

	encounters := service.NewEncounterService(repo, resolver, rng, cfg.Pacing, cfg.FleeTable)
	trades := service.NewTradeService(repo)
	crafts := service.NewCraftService(repo)

	// Background scanner: cancel trade sessions nobody touched within the
	// configured TTL so abandoned negotiations do not pin items forever.
	trades.StartExpiryScanner(cfg.TradeIdleTTL, nil)

	handler := api.NewHandler(repo, encounters, trades, crafts)

	router := gin.Default()
	router.GET(constants.RouteHealth, api.Health)
	router.GET(constants.RouteVersion, api.Version)

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteCards, handler.ListCards)
		apiRoutes.GET(constants.RouteCardByID, handler.GetCard)

		apiRoutes.POST(constants.RouteRooms, handler.CreateRoom)
		apiRoutes.POST(constants.RouteRoomsJoin, handler.JoinRoom)
		apiRoutes.GET(constants.RouteRoomByCode, handler.GetRoom)
		apiRoutes.POST(constants.RouteRoomLeave, handler.LeaveRoom)
		apiRoutes.GET(constants.RouteInventory, handler.Inventory)
		apiRoutes.GET(constants.RouteInventoryStacks, handler.InventoryStacks)

		apiRoutes.POST(constants.RouteEncounterOpen, handler.OpenEncounter)
		apiRoutes.GET(constants.RouteEncounterState, handler.EncounterState)
		apiRoutes.DELETE(constants.RouteEncounterState, handler.CloseEncounter)
		apiRoutes.POST(constants.RouteEncounterAttack, handler.Attack)
		apiRoutes.POST(constants.RouteEncounterUseItem, handler.UseItem)
		apiRoutes.POST(constants.RouteEncounterFlee, handler.Flee)
		apiRoutes.POST(constants.RouteEncounterClaim, handler.ClaimLoot)
		apiRoutes.POST(constants.RouteTrapResolve, handler.ResolveTrap)
		apiRoutes.POST(constants.RouteTrapClaim, handler.ClaimTrap)

		apiRoutes.POST(constants.RouteTradeOpen, handler.OpenTrade)
		apiRoutes.GET(constants.RouteTradeByID, handler.GetTrade)
		apiRoutes.POST(constants.RouteTradeOffer, handler.SetTradeOffer)
		apiRoutes.POST(constants.RouteTradeConfirm, handler.ConfirmTrade)
		apiRoutes.POST(constants.RouteTradeCancel, handler.CancelTrade)

		apiRoutes.POST(constants.RouteTravel, handler.Travel)
		apiRoutes.POST(constants.RouteLand, handler.Land)

		apiRoutes.POST(constants.RouteCraftCheck, handler.CraftCheck)
		apiRoutes.POST(constants.RouteCraftStart, handler.CraftStart)
		apiRoutes.GET(constants.RouteCraftStatus, handler.CraftStatus)
	}

	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}
