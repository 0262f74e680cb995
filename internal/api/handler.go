package api

import (
	"github.com/starfall-game/starfall-server/internal/service"
	"github.com/starfall-game/starfall-server/internal/storage"
)

// Handler groups all HTTP handlers of the backend.
type Handler struct {
	repo       storage.Repository
	encounters *service.EncounterService
	trades     *service.TradeService
	crafts     *service.CraftService
}

// NewHandler creates a Handler over the repository and the stateful
// session services.
func NewHandler(repo storage.Repository, encounters *service.EncounterService, trades *service.TradeService, crafts *service.CraftService) *Handler {
	return &Handler{repo: repo, encounters: encounters, trades: trades, crafts: crafts}
}
