package api

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/starfall-game/starfall-server/internal/constants"

	"github.com/gin-gonic/gin"
)

// ListCards returns the seeded card catalog, commons first.
func (h *Handler) ListCards(c *gin.Context) {
	cards, err := h.repo.ListCards()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchCards})
		return
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Rarity.Order() < cards[j].Rarity.Order()
	})
	c.JSON(http.StatusOK, gin.H{"cards": cards})
}

// GetCard returns one catalog card by ID. This is the lookup behind a
// QR scan.
func (h *Handler) GetCard(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("cardID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	card, err := h.repo.GetCard(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrCardNotFound})
		return
	}
	c.JSON(http.StatusOK, card)
}
