package api

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/starfall-game/starfall-server/internal/constants"
	"github.com/starfall-game/starfall-server/internal/game"
	"github.com/starfall-game/starfall-server/internal/logging"
	"github.com/starfall-game/starfall-server/internal/service"

	"github.com/gin-gonic/gin"
)

type CreateRoomPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Class    string `json:"class"`
}

// CreateRoom creates a new room and returns its ID and join code.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req CreateRoomPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrEmailRequired})
		return
	}
	if utf8.RuneCountInString(req.Name) > 32 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrRoomNameExceeds})
		return
	}

	joinCode := generateJoinCode()
	room, err := service.CreateRoom(h.repo, req.Name, joinCode, req.Email, req.Nickname, req.Class)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateRoom})
		return
	}
	logging.Info("room created", logging.Fields{constants.LogFieldRoomID: room.ID, constants.LogFieldRoomCode: joinCode})

	c.JSON(http.StatusCreated, gin.H{
		"room_id":   room.ID,
		"join_code": room.JoinCode,
	})
}

type JoinRoomPayload struct {
	JoinCode string `json:"join_code"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Class    string `json:"class"`
}

// JoinRoom adds a player to an open room via join code.
func (h *Handler) JoinRoom(c *gin.Context) {
	var req JoinRoomPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrEmailRequired})
		return
	}
	code := normalizeJoinCode(req.JoinCode)
	if code == "" || !joinCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRoomCode})
		return
	}

	room, err := service.JoinRoom(h.repo, code, req.Email, req.Nickname, req.Class)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoomNotFound):
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrRoomNotFound})
		case errors.Is(err, service.ErrRoomClosed):
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrRoomClosed})
		case errors.Is(err, service.ErrAlreadyInRoom):
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrAlreadyInRoom})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUpdateState})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room_id":   room.ID,
		"join_code": room.JoinCode,
		"message":   "Successfully joined room",
	})
}

// GetRoom returns the room state including all players.
func (h *Handler) GetRoom(c *gin.Context) {
	code := normalizeJoinCode(c.Param("roomCode"))
	if code == "" || !joinCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRoomCode})
		return
	}
	room, err := h.repo.FindRoomByJoinCode(code)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrRoomNotFound})
		return
	}
	c.JSON(http.StatusOK, room)
}

type LeaveRoomPayload struct {
	Email string `json:"email"`
}

// LeaveRoom removes a player from a room.
func (h *Handler) LeaveRoom(c *gin.Context) {
	code := normalizeJoinCode(c.Param("roomCode"))
	if code == "" || !joinCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRoomCode})
		return
	}
	var req LeaveRoomPayload
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrEmailRequired})
		return
	}

	if err := service.LeaveRoom(h.repo, code, req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrRoomNotFound):
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrRoomNotFound})
		case errors.Is(err, service.ErrPlayerNotInRoom):
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrPlayerNotInRoom})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUpdateState})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Player removed"})
}

// Inventory lists a player's items.
func (h *Handler) Inventory(c *gin.Context) {
	player, ok := h.playerFromPath(c)
	if !ok {
		return
	}
	items, err := h.repo.GetInventory(player.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUpdateState})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// InventoryStacks projects a player's resource containers into per-resource
// totals.
func (h *Handler) InventoryStacks(c *gin.Context) {
	player, ok := h.playerFromPath(c)
	if !ok {
		return
	}
	items, err := h.repo.GetInventory(player.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUpdateState})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stacks": game.StackResources(items)})
}

// playerFromPath resolves the :roomCode/:email pair of inventory routes.
// A failed resolution writes the error response and returns ok=false.
func (h *Handler) playerFromPath(c *gin.Context) (*game.Player, bool) {
	code := normalizeJoinCode(c.Param("roomCode"))
	if code == "" || !joinCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRoomCode})
		return nil, false
	}
	email := c.Param("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrEmailRequired})
		return nil, false
	}
	_, player, err := service.PlayerInRoom(h.repo, code, email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoomNotFound):
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrRoomNotFound})
		case errors.Is(err, service.ErrPlayerNotInRoom):
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrPlayerNotInRoom})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUpdateState})
		}
		return nil, false
	}
	return player, true
}
