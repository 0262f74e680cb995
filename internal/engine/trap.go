package engine

import (
	"fmt"
	"sync"

	"github.com/starfall-game/starfall-server/internal/dice"
	"github.com/starfall-game/starfall-server/internal/game"
)

// TrapStatus is the trap session's linear state. Transitions only move
// forward: active -> success -> claimed, or active -> fail (terminal).
type TrapStatus string

const (
	TrapActive  TrapStatus = "active"
	TrapSuccess TrapStatus = "success"
	TrapFail    TrapStatus = "fail"
	TrapClaimed TrapStatus = "claimed"
)

// TrapSession is a single-roll difficulty check against a trap card.
type TrapSession struct {
	mu sync.Mutex

	cfg      game.TrapConfig
	status   TrapStatus
	bypassed bool

	rng    dice.Source
	sink   PlayerSink
	pacing Pacing

	isRolling bool
}

// TrapResult reports one resolved trap check.
type TrapResult struct {
	Roll       dice.Roll  `json:"roll"`
	Bypassed   bool       `json:"bypassed"`
	Status     TrapStatus `json:"status"`
	Damage     int        `json:"damage"`
	Message    string     `json:"message"`
	HasLoot    bool       `json:"has_loot"`
	Difficulty int        `json:"difficulty"`
}

// NewTrapSession opens a trap encounter for a player. A player whose class
// exactly matches the trap's disarm class skips the check entirely: the
// session starts in success with no roll and no damage risk, whatever the
// difficulty.
func NewTrapSession(cfg game.TrapConfig, playerClass string, rng dice.Source, sink PlayerSink, pacing Pacing) *TrapSession {
	s := &TrapSession{cfg: cfg, status: TrapActive, rng: rng, sink: sink, pacing: pacing}
	if cfg.DisarmClass != "" && playerClass == cfg.DisarmClass {
		s.status = TrapSuccess
		s.bypassed = true
	}
	return s
}

// Status returns the current state of the trap session.
func (s *TrapSession) Status() TrapStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Bypassed reports whether the disarm-class shortcut applied.
func (s *TrapSession) Bypassed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bypassed
}

// ResolveVirtual runs the difficulty check with a virtual 2d6 roll.
func (s *TrapSession) ResolveVirtual() (TrapResult, error) {
	return s.resolve(func() dice.Roll { return dice.Virtual(s.rng) })
}

// ResolveManual runs the difficulty check with a physically rolled total.
func (s *TrapSession) ResolveManual(total int) (TrapResult, error) {
	roll, err := dice.Manual(total)
	if err != nil {
		return TrapResult{}, err
	}
	return s.resolve(func() dice.Roll { return roll })
}

func (s *TrapSession) resolve(rollFn func() dice.Roll) (TrapResult, error) {
	s.mu.Lock()
	if s.status != TrapActive {
		s.mu.Unlock()
		return TrapResult{}, ErrTrapNotActive
	}
	if s.isRolling {
		s.mu.Unlock()
		return TrapResult{}, ErrActionInFlight
	}
	s.isRolling = true
	s.mu.Unlock()

	sleep(s.pacing.Roll)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isRolling = false

	roll := rollFn()
	res := TrapResult{Roll: roll, Difficulty: s.cfg.Difficulty, HasLoot: len(s.cfg.Loot) > 0}
	if roll.Total >= s.cfg.Difficulty {
		s.status = TrapSuccess
		res.Status = TrapSuccess
		res.Message = s.cfg.SuccessMessage
		return res, nil
	}

	s.status = TrapFail
	res.Status = TrapFail
	res.Message = s.cfg.FailMessage
	res.Damage = s.cfg.Damage
	// The pacing delay lets the client show the failed roll before HP
	// drops; the deduction itself is unconditional and not cancelable.
	damage := s.cfg.Damage
	sink := s.sink
	if delay := s.pacing.TrapFail; delay > 0 {
		go func() {
			sleep(delay)
			if damage > 0 {
				sink.OnPlayerDamage(-damage)
			}
		}()
	} else if damage > 0 {
		sink.OnPlayerDamage(-damage)
	}
	return res, nil
}

// Claim finishes a successful trap. It transitions success -> claimed and
// returns the loot entries (possibly empty: success with no loot still
// needs this explicit acknowledgement, it just grants nothing).
func (s *TrapSession) Claim() ([]game.StatEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != TrapSuccess {
		return nil, ErrTrapNotSucceeded
	}
	s.status = TrapClaimed
	return append([]game.StatEntry(nil), s.cfg.Loot...), nil
}

// ReleaseClaim steps claimed back to success after the loot failed to
// persist, so the acknowledgement can be retried. It is the one permitted
// backward transition and only valid from claimed.
func (s *TrapSession) ReleaseClaim() {
	s.mu.Lock()
	if s.status == TrapClaimed {
		s.status = TrapSuccess
	}
	s.mu.Unlock()
}

// Describe returns a short label for logs.
func (s *TrapSession) Describe() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("trap difficulty %d status %s", s.cfg.Difficulty, s.status)
}
