// Package dice produces 2d6 roll totals for combat and trap checks. A roll
// comes from either two virtual dice or a manually entered physical total;
// both paths commit a single integer in [2,12].
package dice

import (
	"errors"
	"math/rand"
	"sync"
)

// MinTotal and MaxTotal bound any committed 2d6 total.
const (
	MinTotal = 2
	MaxTotal = 12
)

// ErrInvalidTotal is returned for manual totals outside [2,12]. The caller
// keeps its state unchanged and surfaces a validation signal only.
var ErrInvalidTotal = errors.New("manual roll total must be an integer between 2 and 12")

// Roll is one committed dice result. The client animation resamples freely
// before commit; only the final pair recorded here has gameplay effect.
type Roll struct {
	D1     int  `json:"d1"`
	D2     int  `json:"d2"`
	Total  int  `json:"total"`
	Manual bool `json:"manual"`
}

// Source is the randomness provider for virtual rolls. *rand.Rand satisfies
// it; tests inject a seeded instance.
type Source interface {
	Intn(n int) int
}

// Virtual rolls two independent uniform dice in [1,6] and commits their sum.
func Virtual(src Source) Roll {
	d1 := src.Intn(6) + 1
	d2 := src.Intn(6) + 1
	return Roll{D1: d1, D2: d2, Total: d1 + d2}
}

// Manual validates a physically rolled total. The [d1,d2] split is
// synthesized for display only; the total alone matters downstream.
func Manual(total int) (Roll, error) {
	if total < MinTotal || total > MaxTotal {
		return Roll{}, ErrInvalidTotal
	}
	d1 := total / 2
	return Roll{D1: d1, D2: total - d1, Total: total, Manual: true}, nil
}

// NewSource returns a rand-backed Source seeded from the given seed.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedSource) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// NewLockedSource returns a Source safe for use from concurrent sessions.
func NewLockedSource(seed int64) Source {
	return &lockedSource{r: rand.New(rand.NewSource(seed))}
}
