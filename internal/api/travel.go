package api

import (
	"errors"
	"net/http"

	"github.com/starfall-game/starfall-server/internal/constants"
	"github.com/starfall-game/starfall-server/internal/planet"
	"github.com/starfall-game/starfall-server/internal/service"

	"github.com/gin-gonic/gin"
)

type TravelPayload struct {
	Email  string `json:"email"`
	ItemID uint   `json:"item_id"`
}

// Travel resolves the next landing event for a player's planet card.
func (h *Handler) Travel(c *gin.Context) {
	code, req, ok := h.bindTravel(c)
	if !ok {
		return
	}
	next, err := service.Travel(h.repo, code, req.Email, req.ItemID)
	if err != nil {
		h.travelError(c, err)
		return
	}
	c.JSON(http.StatusOK, next)
}

// Land advances the planet's exploration by one phase.
func (h *Handler) Land(c *gin.Context) {
	code, req, ok := h.bindTravel(c)
	if !ok {
		return
	}
	item, err := service.Land(h.repo, code, req.Email, req.ItemID)
	if err != nil {
		h.travelError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) bindTravel(c *gin.Context) (string, TravelPayload, bool) {
	code := normalizeJoinCode(c.Param("roomCode"))
	if code == "" || !joinCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRoomCode})
		return "", TravelPayload{}, false
	}
	var req TravelPayload
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return "", TravelPayload{}, false
	}
	return code, req, true
}

func (h *Handler) travelError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrRoomNotFound})
	case errors.Is(err, service.ErrPlayerNotInRoom):
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrPlayerNotInRoom})
	case errors.Is(err, service.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrItemNotFound})
	case errors.Is(err, service.ErrNotAPlanet):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrNotAPlanet})
	case errors.Is(err, service.ErrCardNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrCardNotFound})
	case errors.Is(err, planet.ErrPlanetComplete):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrPlanetComplete})
	case errors.Is(err, planet.ErrNoPlanetConfig):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNoPlanetConfig})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUpdateState})
	}
}
