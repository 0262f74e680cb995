package api

import (
	"errors"
	"net/http"

	"github.com/starfall-game/starfall-server/internal/constants"
	"github.com/starfall-game/starfall-server/internal/service"
	"github.com/starfall-game/starfall-server/internal/trade"

	"github.com/gin-gonic/gin"
)

type OpenTradePayload struct {
	Email     string `json:"email"`
	WithEmail string `json:"with_email"`
}

// OpenTrade starts a trade session between two players of a room.
func (h *Handler) OpenTrade(c *gin.Context) {
	code := normalizeJoinCode(c.Param("roomCode"))
	if code == "" || !joinCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRoomCode})
		return
	}
	var req OpenTradePayload
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.WithEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	sess, err := h.trades.Open(code, req.Email, req.WithEmail)
	if err != nil {
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
	c.JSON(http.StatusCreated, sess)
}

// GetTrade returns a snapshot of a live trade session.
func (h *Handler) GetTrade(c *gin.Context) {
	sess, err := h.trades.Get(c.Param("tradeID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrTradeNotFound})
		return
	}
	c.JSON(http.StatusOK, sess)
}

type TradeOfferPayload struct {
	Email string `json:"email"`
	// ItemID points at one of the caller's items; nil clears the offer.
	ItemID *uint `json:"item_id"`
}

// SetTradeOffer updates one participant's offer. Any change wipes both
// confirmations.
func (h *Handler) SetTradeOffer(c *gin.Context) {
	var req TradeOfferPayload
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if err := h.trades.SetOffer(c.Param("tradeID"), req.Email, req.ItemID); err != nil {
		h.tradeError(c, err)
		return
	}
	sess, err := h.trades.Get(c.Param("tradeID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrTradeNotFound})
		return
	}
	c.JSON(http.StatusOK, sess)
}

type TradeConfirmPayload struct {
	Email     string `json:"email"`
	Confirmed bool   `json:"confirmed"`
}

// ConfirmTrade flips a participant's confirmation; the second confirmation
// executes the swap.
func (h *Handler) ConfirmTrade(c *gin.Context) {
	var req TradeConfirmPayload
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	executed, transfers, err := h.trades.Confirm(c.Param("tradeID"), req.Email, req.Confirmed)
	if err != nil {
		h.tradeError(c, err)
		return
	}
	if executed {
		c.JSON(http.StatusOK, gin.H{
			constants.JSONKeyMessage: "Trade executed",
			"executed":               true,
			"transfers":              transfers,
		})
		return
	}
	sess, err := h.trades.Get(c.Param("tradeID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrTradeNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{"executed": false, "session": sess})
}

type TradeCancelPayload struct {
	Email string `json:"email"`
}

// CancelTrade drops a session with no inventory effect.
func (h *Handler) CancelTrade(c *gin.Context) {
	var req TradeCancelPayload
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if err := h.trades.Cancel(c.Param("tradeID"), req.Email); err != nil {
		h.tradeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Trade canceled"})
}

func (h *Handler) tradeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTradeNotFound), errors.Is(err, trade.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrTradeNotFound})
	case errors.Is(err, trade.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotParticipant})
	case errors.Is(err, service.ErrPlayerNotInRoom):
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrPlayerNotInRoom})
	case errors.Is(err, service.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrItemNotFound})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUpdateState})
	}
}
