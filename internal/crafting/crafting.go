// Package crafting gates and times blueprint crafting. The gate sums a
// player's resource-container amounts per required resource; the timer is a
// fixed-tick, wall-clock driven progress machine from 0 to 100 that fires
// its completion callback exactly once. Resource deduction and output-item
// grant happen in that callback, owned by the inventory collaborator.
package crafting

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/starfall-game/starfall-server/internal/game"
)

// TickInterval is the fixed progress-update period.
const TickInterval = 50 * time.Millisecond

var (
	// ErrInsufficientResources means at least one required resource sum
	// falls short.
	ErrInsufficientResources = errors.New("not enough resources to craft")
	// ErrAlreadyCrafting guards re-entrant starts. A craft in progress is
	// not cancelable; the blueprint stays locked until completion.
	ErrAlreadyCrafting = errors.New("a craft is already in progress")
	// ErrNotCraftable means the card carries no crafting recipe.
	ErrNotCraftable = errors.New("card has no crafting recipe")
)

// CanCraft reports whether the player's resource containers cover every
// required resource of the recipe. Amounts sum across however many
// container rows the player holds; the split does not matter.
func CanCraft(recipe *game.CraftingRecipe, items []game.InventoryItem) bool {
	if recipe == nil {
		return false
	}
	for _, req := range recipe.RequiredResources {
		total := 0
		for i := range items {
			if items[i].IsResourceContainer && strings.EqualFold(items[i].ResourceName, req.Name) {
				total += items[i].ResourceAmount
			}
		}
		if total < req.Amount {
			return false
		}
	}
	return true
}

// Status is a point-in-time view of a crafting timer.
type Status struct {
	Crafting bool `json:"crafting"`
	// Progress runs 0..100 and never decreases.
	Progress int `json:"progress"`
	// TimeLeft is whole seconds remaining, never increasing below start.
	TimeLeft int  `json:"time_left"`
	Done     bool `json:"done"`
}

// Timer drives one craft from start to completion. The clock is injectable
// so tests advance time deterministically instead of sleeping.
type Timer struct {
	mu         sync.Mutex
	duration   time.Duration
	started    time.Time
	crafting   bool
	done       bool
	onComplete func()
	now        func() time.Time
}

// NewTimer builds a timer for the given craft duration. onComplete runs
// exactly once, from the tick that crosses the duration.
func NewTimer(duration time.Duration, onComplete func()) *Timer {
	return &Timer{duration: duration, onComplete: onComplete, now: time.Now}
}

// SetClock injects a clock for tests.
func (t *Timer) SetClock(now func() time.Time) { t.now = now }

// Start locks the timer into the crafting state.
func (t *Timer) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.crafting || t.done {
		return ErrAlreadyCrafting
	}
	t.crafting = true
	t.started = t.now()
	return nil
}

// Tick recomputes progress from the wall clock and fires the completion
// callback when the full duration has elapsed. Later ticks are no-ops.
func (t *Timer) Tick() Status {
	t.mu.Lock()
	if !t.crafting {
		st := t.statusLocked()
		t.mu.Unlock()
		return st
	}
	elapsed := t.now().Sub(t.started)
	if elapsed >= t.duration {
		t.crafting = false
		t.done = true
		cb := t.onComplete
		st := t.statusLocked()
		t.mu.Unlock()
		if cb != nil {
			cb()
		}
		return st
	}
	st := t.statusLocked()
	t.mu.Unlock()
	return st
}

// Status returns the current view without advancing anything.
func (t *Timer) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statusLocked()
}

// statusLocked computes the snapshot. Caller holds t.mu.
func (t *Timer) statusLocked() Status {
	st := Status{Crafting: t.crafting, Done: t.done}
	if t.done {
		st.Progress = 100
		return st
	}
	if !t.crafting {
		st.TimeLeft = int(t.duration / time.Second)
		return st
	}
	elapsed := t.now().Sub(t.started)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > t.duration {
		elapsed = t.duration
	}
	if t.duration > 0 {
		st.Progress = int(elapsed * 100 / t.duration)
	} else {
		st.Progress = 100
	}
	if st.Progress > 100 {
		st.Progress = 100
	}
	left := t.duration - elapsed
	st.TimeLeft = int((left + time.Second - 1) / time.Second)
	return st
}

// Run drives the timer with the fixed tick interval until completion. It
// blocks; callers run it in a goroutine.
func (t *Timer) Run() {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()
	for range ticker.C {
		if st := t.Tick(); st.Done {
			return
		}
	}
}
