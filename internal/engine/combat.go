package engine

import (
	"fmt"
	"sync"

	"github.com/starfall-game/starfall-server/internal/dice"
	"github.com/starfall-game/starfall-server/internal/game"
	"github.com/starfall-game/starfall-server/internal/stats"
)

// CombatSession tracks one encounter against a single enemy card.
type CombatSession struct {
	mu sync.Mutex

	enemyName      string
	enemyMaxHP     int
	enemyHP        int
	enemyATK       int
	enemyDEF       int
	defBreakChance int
	rarity         game.Rarity
	loot           *game.EnemyLoot

	rng       dice.Source
	sink      PlayerSink
	pacing    Pacing
	fleeTable FleeTable

	// Re-entrancy guards: a second roll or flee dispatched while a pacing
	// delay is pending must be refused, not queued.
	isRolling bool
	isFleeing bool

	fleeAttempted bool
	fled          bool
	victory       bool
	lootClaimed   bool

	log []string
}

// CounterAttack is the enemy's reply after a non-lethal player action.
// Damage soaks into armor first; only the remainder reaches HP.
type CounterAttack struct {
	Attack   int `json:"attack"`
	Absorbed int `json:"absorbed"`
	HPLoss   int `json:"hp_loss"`
}

// RoundResult reports one resolved attack round.
type RoundResult struct {
	Roll         dice.Roll      `json:"roll"`
	EffectiveDef int            `json:"effective_def"`
	DefBroken    bool           `json:"def_broken"`
	Critical     bool           `json:"critical"`
	Miss         bool           `json:"miss"`
	Damage       int            `json:"damage"`
	EnemyHP      int            `json:"enemy_hp"`
	Victory      bool           `json:"victory"`
	Counter      *CounterAttack `json:"counter,omitempty"`
}

// FleeResult reports the single permitted flee attempt.
type FleeResult struct {
	Chance  int            `json:"chance"`
	Draw    int            `json:"draw"`
	Success bool           `json:"success"`
	Counter *CounterAttack `json:"counter,omitempty"`
}

// NewCombatSession derives enemy stats from the triggering card via the
// stat resolver (HP defaults to 50, ATK to 10, DEF to 0 when absent).
func NewCombatSession(card *game.Card, resolver *stats.Resolver, rng dice.Source, sink PlayerSink, pacing Pacing, fleeTable FleeTable) *CombatSession {
	if fleeTable == nil {
		fleeTable = DefaultFleeTable()
	}
	hp := resolver.HP(card.Stats)
	s := &CombatSession{
		enemyName:  card.Name,
		enemyMaxHP: hp,
		enemyHP:    hp,
		enemyATK:   resolver.ATK(card.Stats),
		enemyDEF:   resolver.DEF(card.Stats),
		rarity:     card.Rarity,
		loot:       card.EnemyLoot,
		rng:        rng,
		sink:       sink,
		pacing:     pacing,
		fleeTable:  fleeTable,
	}
	if card.CombatConfig != nil {
		s.defBreakChance = card.CombatConfig.DefBreakChance
	}
	return s
}

// EnemyHP returns the enemy's current and maximum hit points.
func (s *CombatSession) EnemyHP() (current, max int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enemyHP, s.enemyMaxHP
}

// Victory reports whether the enemy has been defeated.
func (s *CombatSession) Victory() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.victory
}

// Fled reports whether a flee attempt succeeded.
func (s *CombatSession) Fled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fled
}

// Log returns a copy of the append-only round log.
func (s *CombatSession) Log() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.log...)
}

// AttackVirtual resolves an attack round from a virtual 2d6 roll.
func (s *CombatSession) AttackVirtual() (RoundResult, error) {
	return s.attack(func() dice.Roll { return dice.Virtual(s.rng) })
}

// AttackManual resolves an attack round from a physically rolled total.
// Totals outside [2,12] are rejected with dice.ErrInvalidTotal and no
// state change.
func (s *CombatSession) AttackManual(total int) (RoundResult, error) {
	roll, err := dice.Manual(total)
	if err != nil {
		return RoundResult{}, err
	}
	return s.attack(func() dice.Roll { return roll })
}

func (s *CombatSession) attack(rollFn func() dice.Roll) (RoundResult, error) {
	s.mu.Lock()
	if s.victory || s.fled {
		s.mu.Unlock()
		return RoundResult{}, ErrCombatOver
	}
	if s.isRolling || s.isFleeing {
		s.mu.Unlock()
		return RoundResult{}, ErrActionInFlight
	}
	s.isRolling = true
	s.mu.Unlock()

	sleep(s.pacing.Roll)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isRolling = false

	roll := rollFn()
	res := RoundResult{Roll: roll, EffectiveDef: s.enemyDEF}

	if s.defBreakChance > 0 && s.rng.Intn(100) < s.defBreakChance {
		res.EffectiveDef = 0
		res.DefBroken = true
	}

	raw := roll.Total - res.EffectiveDef
	if raw < 0 {
		raw = 0
	}
	switch roll.Total {
	case dice.MaxTotal:
		res.Critical = true
		res.Damage = raw * 2
	case dice.MinTotal:
		// A snake-eyes roll always misses, def-break included.
		res.Miss = true
		res.Damage = 0
	default:
		res.Damage = raw
	}

	s.enemyHP -= res.Damage
	if s.enemyHP < 0 {
		s.enemyHP = 0
	}
	res.EnemyHP = s.enemyHP
	s.logRound(res)

	if s.enemyHP == 0 {
		s.victory = true
		res.Victory = true
		s.log = append(s.log, fmt.Sprintf("%s is defeated!", s.enemyName))
		return res, nil
	}

	c := s.counterAttack()
	res.Counter = &c
	return res, nil
}

// UseItem applies an item's damage stat straight to the enemy, bypassing
// dice. Item use deliberately does not take the roll/flee exclusivity
// guard; only roll and flee serialize against each other.
func (s *CombatSession) UseItem(damage int) (RoundResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.victory || s.fled {
		return RoundResult{}, ErrCombatOver
	}
	if damage < 0 {
		damage = 0
	}
	s.enemyHP -= damage
	if s.enemyHP < 0 {
		s.enemyHP = 0
	}
	res := RoundResult{Damage: damage, EnemyHP: s.enemyHP}
	s.log = append(s.log, fmt.Sprintf("[ITEM] %d damage to %s (%d/%d HP)", damage, s.enemyName, s.enemyHP, s.enemyMaxHP))
	if s.enemyHP == 0 {
		s.victory = true
		res.Victory = true
		s.log = append(s.log, fmt.Sprintf("%s is defeated!", s.enemyName))
	}
	return res, nil
}

// Flee resolves the single permitted escape attempt. The attempt is spent
// immediately; a failed flee gives the enemy one free counter-attack.
func (s *CombatSession) Flee() (FleeResult, error) {
	s.mu.Lock()
	if s.victory || s.fled {
		s.mu.Unlock()
		return FleeResult{}, ErrCombatOver
	}
	if s.fleeAttempted {
		s.mu.Unlock()
		return FleeResult{}, ErrFleeExhausted
	}
	if s.isRolling || s.isFleeing {
		s.mu.Unlock()
		return FleeResult{}, ErrActionInFlight
	}
	s.fleeAttempted = true
	s.isFleeing = true
	s.mu.Unlock()

	sleep(s.pacing.Flee)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isFleeing = false

	res := FleeResult{Chance: s.fleeTable.Chance(s.rarity)}
	res.Draw = s.rng.Intn(100) + 1
	res.Success = res.Draw <= res.Chance
	if res.Success {
		s.fled = true
		s.log = append(s.log, fmt.Sprintf("Fled from %s (rolled %d, needed <= %d)", s.enemyName, res.Draw, res.Chance))
		return res, nil
	}
	s.log = append(s.log, fmt.Sprintf("Flee failed (rolled %d, needed <= %d)", res.Draw, res.Chance))
	c := s.counterAttack()
	res.Counter = &c
	return res, nil
}

// ClaimLoot hands out the victory reward exactly once. The second and any
// later call is a no-op reporting ok=false.
func (s *CombatSession) ClaimLoot() (reward []game.StatEntry, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.victory {
		return nil, false, ErrNotVictorious
	}
	if s.lootClaimed {
		return nil, false, nil
	}
	s.lootClaimed = true
	return RewardEntries(s.loot), true, nil
}

// ReleaseLoot re-arms the claim after the reward failed to persist, so a
// retry can grant it instead of reporting an idempotent no-op.
func (s *CombatSession) ReleaseLoot() {
	s.mu.Lock()
	s.lootClaimed = false
	s.mu.Unlock()
}

// counterAttack applies the enemy's attack with armor-first absorption.
// Caller holds s.mu.
func (s *CombatSession) counterAttack() CounterAttack {
	c := CounterAttack{Attack: s.enemyATK}
	armor := s.sink.Armor()
	if armor < 0 {
		armor = 0
	}
	c.Absorbed = c.Attack
	if armor < c.Absorbed {
		c.Absorbed = armor
	}
	if c.Absorbed > 0 {
		s.sink.OnArmorChange(-c.Absorbed)
	}
	c.HPLoss = c.Attack - c.Absorbed
	if c.HPLoss > 0 {
		s.sink.OnPlayerDamage(-c.HPLoss)
	}
	s.log = append(s.log, fmt.Sprintf("%s strikes back for %d (%d absorbed by armor, %d HP lost)", s.enemyName, c.Attack, c.Absorbed, c.HPLoss))
	return c
}

// logRound appends a tagged, human-readable line for one attack round. The
// tag tells the client how to color the entry.
func (s *CombatSession) logRound(res RoundResult) {
	tag := "[HIT]"
	switch {
	case res.Miss:
		tag = "[MISS]"
	case res.Critical && res.DefBroken:
		tag = "[CRIT+DEF-BREAK]"
	case res.Critical:
		tag = "[CRIT]"
	case res.DefBroken:
		tag = "[DEF-BREAK]"
	}
	s.log = append(s.log, fmt.Sprintf("%s rolled %d vs DEF %d: %d damage to %s (%d/%d HP)",
		tag, res.Roll.Total, res.EffectiveDef, res.Damage, s.enemyName, res.EnemyHP, s.enemyMaxHP))
}
