package api

import (
	"errors"
	"net/http"

	"github.com/starfall-game/starfall-server/internal/constants"
	"github.com/starfall-game/starfall-server/internal/crafting"
	"github.com/starfall-game/starfall-server/internal/service"

	"github.com/gin-gonic/gin"
)

type CraftPayload struct {
	Email  string `json:"email"`
	CardID uint   `json:"card_id"`
}

// CraftCheck reports whether the player's resources cover the blueprint.
func (h *Handler) CraftCheck(c *gin.Context) {
	code, req, ok := h.bindCraft(c)
	if !ok {
		return
	}
	canCraft, err := h.crafts.CanCraft(code, req.Email, req.CardID)
	if err != nil {
		h.craftError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"can_craft": canCraft})
}

// CraftStart begins a timed craft for a blueprint.
func (h *Handler) CraftStart(c *gin.Context) {
	code, req, ok := h.bindCraft(c)
	if !ok {
		return
	}
	job, status, err := h.crafts.Start(code, req.Email, req.CardID)
	if err != nil {
		h.craftError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"job_id":                job.ID,
		constants.JSONKeyStatus: status,
	})
}

// CraftStatus reports the progress of a running craft.
func (h *Handler) CraftStatus(c *gin.Context) {
	status, err := h.crafts.Status(c.Param("jobID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrCraftJobNotFound})
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *Handler) bindCraft(c *gin.Context) (string, CraftPayload, bool) {
	code := normalizeJoinCode(c.Param("roomCode"))
	if code == "" || !joinCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRoomCode})
		return "", CraftPayload{}, false
	}
	var req CraftPayload
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return "", CraftPayload{}, false
	}
	return code, req, true
}

func (h *Handler) craftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrRoomNotFound})
	case errors.Is(err, service.ErrPlayerNotInRoom):
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrPlayerNotInRoom})
	case errors.Is(err, service.ErrCardNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrCardNotFound})
	case errors.Is(err, crafting.ErrNotCraftable):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrNotCraftable})
	case errors.Is(err, crafting.ErrInsufficientResources):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNotEnoughResources})
	case errors.Is(err, crafting.ErrAlreadyCrafting):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrAlreadyCrafting})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUpdateState})
	}
}
