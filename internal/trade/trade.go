// Package trade implements the two-party mutual-confirmation item exchange.
// Sessions are server-authoritative and one-shot: the moment both sides are
// confirmed the swap executes atomically and the session is deleted.
//
// All session operations for a manager run under a single lock, so trade
// execution is a single-writer authority: two clients racing to confirm can
// never both trigger the swap, and the read-modify-write on each inventory
// happens against a fresh fetch inside the same critical section.
package trade

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/starfall-game/starfall-server/internal/game"
)

var (
	// ErrSessionNotFound covers unknown, cancelled and already-executed
	// sessions; confirming after execution is therefore a no-op error.
	ErrSessionNotFound = errors.New("trade session not found")
	// ErrNotParticipant means the acting player is not one of the two
	// session members.
	ErrNotParticipant = errors.New("player is not part of this trade session")
)

// Inventory is the collaborator holding player inventories. TakeItem must
// operate on freshly loaded state, not a cached copy.
type Inventory interface {
	// TakeItem removes the item with the exact instance ID from the
	// player's inventory and returns it. ok=false (with nil error) means
	// the item is no longer there.
	TakeItem(email string, itemID uint) (item game.InventoryItem, ok bool, err error)
	// GiveItem adds an item to the player's inventory.
	GiveItem(email string, item game.InventoryItem) error
	// RecordTrade persists one transfer log entry.
	RecordTrade(entry game.TradeLog) error
}

// Participant is one side of a trade negotiation. A nil OfferedItem is a
// legal "nothing" offer; the executed trade then transfers only the other
// side (a one-directional gift).
type Participant struct {
	Email       string              `json:"email"`
	Nickname    string              `json:"nickname"`
	OfferedItem *game.InventoryItem `json:"offered_item"`
	IsConfirmed bool                `json:"is_confirmed"`
}

// Session is one live negotiation between exactly two participants.
type Session struct {
	ID           string         `json:"id"`
	RoomID       uint           `json:"room_id"`
	Participants [2]Participant `json:"participants"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Transfer describes one executed item movement.
type Transfer struct {
	From   string `json:"from"`
	To     string `json:"to"`
	ItemID uint   `json:"item_id"`
	Name   string `json:"name"`
	// Skipped means the item was already gone from the owner's inventory
	// at execution time; that side of the swap is silently dropped while
	// the other side still proceeds.
	Skipped bool `json:"skipped"`
}

// Manager owns every live trade session of the server.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	inv      Inventory
	now      func() time.Time
}

// NewManager builds a manager over the given inventory collaborator.
func NewManager(inv Inventory) *Manager {
	return &Manager{sessions: make(map[string]*Session), inv: inv, now: time.Now}
}

func newSessionID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Open starts a negotiation between two players of a room.
func (m *Manager) Open(roomID uint, email1, nick1, email2, nick2 string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &Session{
		ID:     newSessionID(),
		RoomID: roomID,
		Participants: [2]Participant{
			{Email: email1, Nickname: nick1},
			{Email: email2, Nickname: nick2},
		},
		UpdatedAt: m.now(),
	}
	m.sessions[s.ID] = s
	return s
}

// Get returns a snapshot of a live session.
func (m *Manager) Get(id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return *s, nil
}

func (s *Session) participant(email string) *Participant {
	for i := range s.Participants {
		if s.Participants[i].Email == email {
			return &s.Participants[i]
		}
	}
	return nil
}

// SetOffer replaces a participant's offered item. Both confirmations reset
// unconditionally, even when the new offer equals the old one; a re-offer
// of the same item must still force both sides to confirm again.
func (m *Manager) SetOffer(id, email string, item *game.InventoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	p := s.participant(email)
	if p == nil {
		return ErrNotParticipant
	}
	p.OfferedItem = item
	s.Participants[0].IsConfirmed = false
	s.Participants[1].IsConfirmed = false
	s.UpdatedAt = m.now()
	return nil
}

// Confirm sets one participant's confirmation flag. It never touches offers
// or the other side's flag. When both flags are true the swap executes
// atomically, the session is deleted, and executed reports true.
func (m *Manager) Confirm(id, email string, confirmed bool) (executed bool, transfers []Transfer, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return false, nil, ErrSessionNotFound
	}
	p := s.participant(email)
	if p == nil {
		return false, nil, ErrNotParticipant
	}
	p.IsConfirmed = confirmed
	s.UpdatedAt = m.now()
	if !s.Participants[0].IsConfirmed || !s.Participants[1].IsConfirmed {
		return false, nil, nil
	}
	transfers, err = m.execute(s)
	delete(m.sessions, s.ID)
	return true, transfers, err
}

// Cancel deletes a session before execution with no inventory effect.
func (m *Manager) Cancel(id, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if s.participant(email) == nil {
		return ErrNotParticipant
	}
	delete(m.sessions, id)
	return nil
}

// ExpireIdle cancels sessions untouched for longer than ttl and returns how
// many were dropped. A ttl of zero disables expiry.
func (m *Manager) ExpireIdle(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.now().Add(-ttl)
	n := 0
	for id, s := range m.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// execute swaps the offered items. An item missing from its owner's
// inventory at execution time skips that side only; the other transfer and
// the logging still proceed. Caller holds m.mu.
func (m *Manager) execute(s *Session) ([]Transfer, error) {
	var transfers []Transfer
	for i := range s.Participants {
		from := &s.Participants[i]
		to := &s.Participants[1-i]
		if from.OfferedItem == nil {
			continue
		}
		tr := Transfer{From: from.Email, To: to.Email, ItemID: from.OfferedItem.ID, Name: from.OfferedItem.Name}
		item, ok, err := m.inv.TakeItem(from.Email, from.OfferedItem.ID)
		if err != nil {
			return transfers, err
		}
		if !ok {
			tr.Skipped = true
			transfers = append(transfers, tr)
			continue
		}
		if err := m.inv.GiveItem(to.Email, item); err != nil {
			return transfers, err
		}
		if err := m.inv.RecordTrade(game.TradeLog{
			RoomID:         s.RoomID,
			FromEmail:      from.Email,
			ToEmail:        to.Email,
			ItemInstanceID: item.ID,
			ItemName:       item.Name,
		}); err != nil {
			return transfers, err
		}
		transfers = append(transfers, tr)
	}
	return transfers, nil
}
