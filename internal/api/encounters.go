package api

import (
	"errors"
	"net/http"

	"github.com/starfall-game/starfall-server/internal/constants"
	"github.com/starfall-game/starfall-server/internal/dice"
	"github.com/starfall-game/starfall-server/internal/engine"
	"github.com/starfall-game/starfall-server/internal/service"

	"github.com/gin-gonic/gin"
)

type OpenEncounterPayload struct {
	Email  string `json:"email"`
	CardID uint   `json:"card_id"`
}

// OpenEncounter resolves a scanned card into a live combat or trap session.
func (h *Handler) OpenEncounter(c *gin.Context) {
	code := normalizeJoinCode(c.Param("roomCode"))
	if code == "" || !joinCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRoomCode})
		return
	}
	var req OpenEncounterPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrEmailRequired})
		return
	}

	enc, err := h.encounters.Open(code, req.Email, req.CardID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoomNotFound):
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrRoomNotFound})
		case errors.Is(err, service.ErrPlayerNotInRoom):
			c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrPlayerNotInRoom})
		case errors.Is(err, service.ErrCardNotFound):
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrCardNotFound})
		case errors.Is(err, service.ErrNotAnEncounter):
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNotAnEncounter})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUpdateState})
		}
		return
	}

	c.JSON(http.StatusCreated, h.encounterState(enc))
}

// EncounterState returns a snapshot of a live session.
func (h *Handler) EncounterState(c *gin.Context) {
	enc, err := h.encounters.Get(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrSessionNotFound})
		return
	}
	c.JSON(http.StatusOK, h.encounterState(enc))
}

// CloseEncounter dismisses a live session without resolving it. The card
// can be scanned again later to open a fresh one.
func (h *Handler) CloseEncounter(c *gin.Context) {
	id := c.Param("sessionID")
	if _, err := h.encounters.Get(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrSessionNotFound})
		return
	}
	h.encounters.Close(id)
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Encounter closed"})
}

// encounterState builds the polling view shared by open and state reads.
func (h *Handler) encounterState(enc *service.Encounter) gin.H {
	out := gin.H{
		"id":      enc.ID,
		"kind":    enc.Kind,
		"card_id": enc.CardID,
	}
	switch enc.Kind {
	case service.KindCombat:
		cur, max := enc.Combat.EnemyHP()
		out["enemy_hp"] = cur
		out["enemy_max_hp"] = max
		out["victory"] = enc.Combat.Victory()
		out["fled"] = enc.Combat.Fled()
		out["log"] = enc.Combat.Log()
	case service.KindTrap:
		out[constants.JSONKeyStatus] = enc.Trap.Status()
		out["bypassed"] = enc.Trap.Bypassed()
		out["description"] = enc.Trap.Describe()
	}
	return out
}

type RollPayload struct {
	// ManualTotal carries a physical dice result; nil rolls virtual dice.
	ManualTotal *int `json:"manual_total"`
}

// Attack runs one combat round against the session's enemy.
func (h *Handler) Attack(c *gin.Context) {
	var req RollPayload
	_ = c.ShouldBindJSON(&req) // empty body means a virtual roll

	res, err := h.encounters.Attack(c.Param("sessionID"), req.ManualTotal)
	if err != nil {
		h.combatError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type UseItemPayload struct {
	ItemID uint `json:"item_id"`
}

// UseItem consumes an inventory item with a damage stat against the enemy.
func (h *Handler) UseItem(c *gin.Context) {
	var req UseItemPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	res, err := h.encounters.UseItem(c.Param("sessionID"), req.ItemID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrItemNotFound})
		case errors.Is(err, service.ErrItemNotUsable):
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrItemNotUsable})
		default:
			h.combatError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, res)
}

// Flee attempts the single permitted escape from combat.
func (h *Handler) Flee(c *gin.Context) {
	res, err := h.encounters.Flee(c.Param("sessionID"))
	if err != nil {
		h.combatError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ClaimLoot grants the combat victory reward once.
func (h *Handler) ClaimLoot(c *gin.Context) {
	reward, err := h.encounters.ClaimCombatLoot(c.Param("sessionID"))
	if err != nil {
		h.combatError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reward": reward})
}

// ResolveTrap runs the trap difficulty check.
func (h *Handler) ResolveTrap(c *gin.Context) {
	var req RollPayload
	_ = c.ShouldBindJSON(&req)

	res, err := h.encounters.ResolveTrap(c.Param("sessionID"), req.ManualTotal)
	if err != nil {
		h.trapError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ClaimTrap acknowledges a successful disarm and applies any loot.
func (h *Handler) ClaimTrap(c *gin.Context) {
	loot, err := h.encounters.ClaimTrapLoot(c.Param("sessionID"))
	if err != nil {
		h.trapError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loot": loot})
}

func (h *Handler) combatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrSessionNotFound})
	case errors.Is(err, service.ErrWrongSessionKind):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrWrongEncounterKind})
	case errors.Is(err, engine.ErrActionInFlight):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrActionInFlight})
	case errors.Is(err, engine.ErrCombatOver):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrCombatOver})
	case errors.Is(err, engine.ErrFleeExhausted):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrFleeExhausted})
	case errors.Is(err, engine.ErrNotVictorious):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNotVictorious})
	case errors.Is(err, dice.ErrInvalidTotal):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidDiceTotal})
	case errors.Is(err, service.ErrRewardApplyFailed):
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedApplyReward})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUpdateState})
	}
}

func (h *Handler) trapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrSessionNotFound})
	case errors.Is(err, service.ErrWrongSessionKind):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrWrongEncounterKind})
	case errors.Is(err, engine.ErrTrapNotActive):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrTrapNotActive})
	case errors.Is(err, engine.ErrTrapNotSucceeded):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrTrapNotSucceeded})
	case errors.Is(err, dice.ErrInvalidTotal):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidDiceTotal})
	case errors.Is(err, service.ErrRewardApplyFailed):
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedApplyReward})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUpdateState})
	}
}
