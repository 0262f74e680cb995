package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/starfall-game/starfall-server/internal/dice"
	"github.com/starfall-game/starfall-server/internal/engine"
	"github.com/starfall-game/starfall-server/internal/game"
	"github.com/starfall-game/starfall-server/internal/logging"
	"github.com/starfall-game/starfall-server/internal/stats"
	"github.com/starfall-game/starfall-server/internal/storage"
)

var (
	ErrCardNotFound      = errors.New("card not found")
	ErrSessionNotFound   = errors.New("encounter session not found")
	ErrNotAnEncounter    = errors.New("card does not open a combat or trap encounter")
	ErrWrongSessionKind  = errors.New("action does not apply to this encounter kind")
	ErrItemNotFound      = errors.New("inventory item not found")
	ErrItemNotUsable     = errors.New("item has no usable damage stat")
	ErrRewardApplyFailed = errors.New("failed to apply reward")
)

// EncounterKind tags the session variant behind an encounter ID.
type EncounterKind string

const (
	KindCombat EncounterKind = "combat"
	KindTrap   EncounterKind = "trap"
)

// Encounter couples one engine session with its room/player identity.
type Encounter struct {
	ID       string        `json:"id"`
	Kind     EncounterKind `json:"kind"`
	RoomID   uint          `json:"room_id"`
	PlayerID uint          `json:"-"`
	Email    string        `json:"email"`
	CardID   uint          `json:"card_id"`

	Combat *engine.CombatSession `json:"-"`
	Trap   *engine.TrapSession   `json:"-"`
}

// EncounterService opens encounter cards into live engine sessions and
// routes player actions to them.
type EncounterService struct {
	repo      storage.Repository
	resolver  *stats.Resolver
	rng       dice.Source
	pacing    engine.Pacing
	fleeTable engine.FleeTable

	mu       sync.Mutex
	sessions map[string]*Encounter
}

// NewEncounterService wires the engine dependencies once; sessions share
// the RNG and the stat resolver.
func NewEncounterService(repo storage.Repository, resolver *stats.Resolver, rng dice.Source, pacing engine.Pacing, fleeTable engine.FleeTable) *EncounterService {
	return &EncounterService{
		repo:      repo,
		resolver:  resolver,
		rng:       rng,
		pacing:    pacing,
		fleeTable: fleeTable,
		sessions:  make(map[string]*Encounter),
	}
}

func newEncounterID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// repoSink adapts the repository to the engines' player callback boundary.
// Armor reads fetch fresh state; write failures are logged, not fatal to
// the round (the next read self-corrects).
type repoSink struct {
	repo     storage.Repository
	playerID uint
}

func (s *repoSink) Armor() int {
	p, err := s.repo.GetPlayerByID(s.playerID)
	if err != nil {
		logging.Error("failed to read player armor", err, logging.Fields{"player_id": s.playerID})
		return 0
	}
	return p.Armor
}

func (s *repoSink) OnPlayerDamage(delta int) {
	if err := s.repo.AdjustStat(s.playerID, "HP", delta); err != nil {
		logging.Error("failed to apply player damage", err, logging.Fields{"player_id": s.playerID})
	}
}

func (s *repoSink) OnArmorChange(delta int) {
	if err := s.repo.AdjustStat(s.playerID, "ARMOR", delta); err != nil {
		logging.Error("failed to apply armor change", err, logging.Fields{"player_id": s.playerID})
	}
}

// Open resolves a scanned card into a live encounter session.
func (s *EncounterService) Open(roomCode, email string, cardID uint) (*Encounter, error) {
	_, player, err := PlayerInRoom(s.repo, roomCode, email)
	if err != nil {
		return nil, err
	}
	card, err := s.repo.GetCard(cardID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	enc := &Encounter{
		ID:       newEncounterID(),
		RoomID:   player.RoomID,
		PlayerID: player.ID,
		Email:    email,
		CardID:   card.ID,
	}
	sink := &repoSink{repo: s.repo, playerID: player.ID}

	switch card.Type {
	case game.CardTypeEncounter, game.CardTypeBoss:
		enc.Kind = KindCombat
		enc.Combat = engine.NewCombatSession(card, s.resolver, s.rng, sink, s.pacing, s.fleeTable)
	case game.CardTypeTrap:
		if card.TrapConfig == nil {
			return nil, ErrNotAnEncounter
		}
		enc.Kind = KindTrap
		enc.Trap = engine.NewTrapSession(*card.TrapConfig, player.Class, s.rng, sink, s.pacing)
	default:
		return nil, ErrNotAnEncounter
	}

	s.mu.Lock()
	s.sessions[enc.ID] = enc
	s.mu.Unlock()
	logging.Info("encounter opened", logging.Fields{"session_id": enc.ID, "card_id": card.ID, "kind": enc.Kind})
	return enc, nil
}

// Get returns a live encounter by ID.
func (s *EncounterService) Get(id string) (*Encounter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	enc, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return enc, nil
}

// Close drops a session from the registry (victory claimed, flee, or the
// player dismissed the encounter).
func (s *EncounterService) Close(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Attack runs one combat round. A nil manualTotal rolls virtual dice.
func (s *EncounterService) Attack(id string, manualTotal *int) (engine.RoundResult, error) {
	enc, err := s.combatSession(id)
	if err != nil {
		return engine.RoundResult{}, err
	}
	if manualTotal != nil {
		return enc.Combat.AttackManual(*manualTotal)
	}
	return enc.Combat.AttackVirtual()
}

// UseItem consumes an inventory item with a damage stat against the enemy.
func (s *EncounterService) UseItem(id string, itemID uint) (engine.RoundResult, error) {
	enc, err := s.combatSession(id)
	if err != nil {
		return engine.RoundResult{}, err
	}
	item, err := s.repo.GetItem(enc.PlayerID, itemID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return engine.RoundResult{}, ErrItemNotFound
		}
		return engine.RoundResult{}, err
	}
	damage := s.resolver.Int(item.Stats, "DMG", 0)
	if damage <= 0 {
		return engine.RoundResult{}, ErrItemNotUsable
	}
	res, err := enc.Combat.UseItem(damage)
	if err != nil {
		return res, err
	}
	// the item is spent regardless of the outcome of the hit
	if _, err := s.repo.RemoveItem(enc.PlayerID, itemID); err != nil {
		logging.Error("failed to consume used item", err, logging.Fields{"item_id": itemID})
	}
	return res, nil
}

// Flee attempts the single permitted escape.
func (s *EncounterService) Flee(id string) (engine.FleeResult, error) {
	enc, err := s.combatSession(id)
	if err != nil {
		return engine.FleeResult{}, err
	}
	res, err := enc.Combat.Flee()
	if err == nil && res.Success {
		s.Close(id)
	}
	return res, err
}

// ClaimCombatLoot grants the victory reward once and closes the session.
func (s *EncounterService) ClaimCombatLoot(id string) ([]game.StatEntry, error) {
	enc, err := s.combatSession(id)
	if err != nil {
		return nil, err
	}
	reward, ok, err := enc.Combat.ClaimLoot()
	if err != nil {
		return nil, err
	}
	if !ok {
		// second claim: idempotent no-op
		return nil, nil
	}
	if err := engine.ApplyReward(reward, s.resolver, &repoApplier{repo: s.repo, playerID: enc.PlayerID}); err != nil {
		enc.Combat.ReleaseLoot()
		logging.Error("failed to persist victory reward", err, logging.Fields{"session_id": id})
		return nil, ErrRewardApplyFailed
	}
	s.Close(id)
	return reward, nil
}

// ResolveTrap runs the trap difficulty check. A failed trap session closes
// itself after the fail pacing delay; there is nothing left to claim.
func (s *EncounterService) ResolveTrap(id string, manualTotal *int) (engine.TrapResult, error) {
	enc, err := s.trapSession(id)
	if err != nil {
		return engine.TrapResult{}, err
	}
	var res engine.TrapResult
	if manualTotal != nil {
		res, err = enc.Trap.ResolveManual(*manualTotal)
	} else {
		res, err = enc.Trap.ResolveVirtual()
	}
	if err == nil && res.Status == engine.TrapFail {
		if delay := s.pacing.TrapFail; delay > 0 {
			time.AfterFunc(delay, func() { s.Close(id) })
		} else {
			s.Close(id)
		}
	}
	return res, err
}

// ClaimTrapLoot acknowledges a successful trap, applies any loot and
// closes the encounter.
func (s *EncounterService) ClaimTrapLoot(id string) ([]game.StatEntry, error) {
	enc, err := s.trapSession(id)
	if err != nil {
		return nil, err
	}
	loot, err := enc.Trap.Claim()
	if err != nil {
		return nil, err
	}
	if err := engine.ApplyReward(loot, s.resolver, &repoApplier{repo: s.repo, playerID: enc.PlayerID}); err != nil {
		enc.Trap.ReleaseClaim()
		logging.Error("failed to persist trap loot", err, logging.Fields{"session_id": id})
		return nil, ErrRewardApplyFailed
	}
	s.Close(id)
	return loot, nil
}

func (s *EncounterService) combatSession(id string) (*Encounter, error) {
	enc, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if enc.Kind != KindCombat {
		return nil, ErrWrongSessionKind
	}
	return enc, nil
}

func (s *EncounterService) trapSession(id string) (*Encounter, error) {
	enc, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if enc.Kind != KindTrap {
		return nil, ErrWrongSessionKind
	}
	return enc, nil
}

// repoApplier persists claimed rewards: known stats adjust the player's
// scalars, anything else lands in the inventory as an opaque stat item.
type repoApplier struct {
	repo     storage.Repository
	playerID uint
}

func (a *repoApplier) AdjustStat(name string, delta int) error {
	err := a.repo.AdjustStat(a.playerID, name, delta)
	if errors.Is(err, storage.ErrNotFound) {
		// canonical names outside the persisted player scalars
		// (ATK, DEF, ...) are granted as inventory stats instead
		return a.AddStat(game.StatEntry{Label: name, Value: strconv.Itoa(delta)})
	}
	return err
}

func (a *repoApplier) AddStat(entry game.StatEntry) error {
	return a.repo.AddItem(&game.InventoryItem{
		PlayerID: a.playerID,
		Name:     entry.Label,
		Type:     game.CardTypeItem,
		Stats:    []game.StatEntry{entry},
	})
}
