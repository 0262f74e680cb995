package service

import (
	"errors"
	"sync"
	"time"

	"github.com/starfall-game/starfall-server/internal/game"
	"github.com/starfall-game/starfall-server/internal/logging"
	"github.com/starfall-game/starfall-server/internal/storage"
	"github.com/starfall-game/starfall-server/internal/trade"
)

var ErrTradeNotFound = errors.New("trade session not found")

// TradeService owns one trade manager per room, so every trade operation
// of a room runs through a single serialized authority.
type TradeService struct {
	repo storage.Repository

	mu       sync.Mutex
	managers map[uint]*trade.Manager
	byTrade  map[string]*trade.Manager
}

func NewTradeService(repo storage.Repository) *TradeService {
	return &TradeService{
		repo:     repo,
		managers: make(map[uint]*trade.Manager),
		byTrade:  make(map[string]*trade.Manager),
	}
}

// roomInventory adapts the repository to the trade package's inventory
// boundary for one room. Items are always fetched fresh inside the trade
// manager's critical section, immediately before removal.
type roomInventory struct {
	repo   storage.Repository
	roomID uint
}

func (inv *roomInventory) TakeItem(email string, itemID uint) (game.InventoryItem, bool, error) {
	p, err := inv.repo.GetPlayer(inv.roomID, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return game.InventoryItem{}, false, nil
		}
		return game.InventoryItem{}, false, err
	}
	item, err := inv.repo.GetItem(p.ID, itemID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return game.InventoryItem{}, false, nil
		}
		return game.InventoryItem{}, false, err
	}
	removed, err := inv.repo.RemoveItem(p.ID, itemID)
	if err != nil || !removed {
		return game.InventoryItem{}, false, err
	}
	return *item, true, nil
}

func (inv *roomInventory) GiveItem(email string, item game.InventoryItem) error {
	p, err := inv.repo.GetPlayer(inv.roomID, email)
	if err != nil {
		return err
	}
	item.PlayerID = p.ID
	return inv.repo.AddItem(&item)
}

func (inv *roomInventory) RecordTrade(entry game.TradeLog) error {
	return inv.repo.SaveTradeLog(&entry)
}

func (s *TradeService) managerFor(roomID uint) *trade.Manager {
	if m, ok := s.managers[roomID]; ok {
		return m
	}
	m := trade.NewManager(&roomInventory{repo: s.repo, roomID: roomID})
	s.managers[roomID] = m
	return m
}

// Open starts a negotiation between two players of a room.
func (s *TradeService) Open(roomCode, email1, email2 string) (trade.Session, error) {
	_, p1, err := PlayerInRoom(s.repo, roomCode, email1)
	if err != nil {
		return trade.Session{}, err
	}
	_, p2, err := PlayerInRoom(s.repo, roomCode, email2)
	if err != nil {
		return trade.Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.managerFor(p1.RoomID)
	sess := m.Open(p1.RoomID, p1.Email, p1.Nickname, p2.Email, p2.Nickname)
	s.byTrade[sess.ID] = m
	logging.Info("trade session opened", logging.Fields{"trade_id": sess.ID, "room_id": p1.RoomID})
	return *sess, nil
}

func (s *TradeService) manager(tradeID string) (*trade.Manager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byTrade[tradeID]
	if !ok {
		return nil, ErrTradeNotFound
	}
	return m, nil
}

// Get returns a snapshot of a live trade session.
func (s *TradeService) Get(tradeID string) (trade.Session, error) {
	m, err := s.manager(tradeID)
	if err != nil {
		return trade.Session{}, err
	}
	return m.Get(tradeID)
}

// SetOffer points a participant's offer at one of their inventory items,
// or clears it with a nil itemID. The offer snapshot is resolved here;
// execution re-fetches by instance ID.
func (s *TradeService) SetOffer(tradeID, email string, itemID *uint) error {
	m, err := s.manager(tradeID)
	if err != nil {
		return err
	}
	var offered *game.InventoryItem
	if itemID != nil {
		sess, err := m.Get(tradeID)
		if err != nil {
			return err
		}
		p, err := playerByEmailInRoom(s.repo, sess.RoomID, email)
		if err != nil {
			return err
		}
		item, err := s.repo.GetItem(p.ID, *itemID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrItemNotFound
			}
			return err
		}
		offered = item
	}
	return m.SetOffer(tradeID, email, offered)
}

// Confirm flips one participant's confirmation and executes the swap when
// both sides are confirmed.
func (s *TradeService) Confirm(tradeID, email string, confirmed bool) (bool, []trade.Transfer, error) {
	m, err := s.manager(tradeID)
	if err != nil {
		return false, nil, err
	}
	executed, transfers, err := m.Confirm(tradeID, email, confirmed)
	if executed {
		s.mu.Lock()
		delete(s.byTrade, tradeID)
		s.mu.Unlock()
		logging.Info("trade executed", logging.Fields{"trade_id": tradeID, "transfers": len(transfers)})
	}
	return executed, transfers, err
}

// Cancel drops a session with no inventory effect.
func (s *TradeService) Cancel(tradeID, email string) error {
	m, err := s.manager(tradeID)
	if err != nil {
		return err
	}
	if err := m.Cancel(tradeID, email); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.byTrade, tradeID)
	s.mu.Unlock()
	return nil
}

// StartExpiryScanner cancels idle trade sessions in the background. A
// non-positive ttl disables the scanner entirely.
func (s *TradeService) StartExpiryScanner(ttl time.Duration, stop <-chan struct{}) {
	if ttl <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.mu.Lock()
				managers := make([]*trade.Manager, 0, len(s.managers))
				for _, m := range s.managers {
					managers = append(managers, m)
				}
				s.mu.Unlock()
				dropped := 0
				for _, m := range managers {
					dropped += m.ExpireIdle(ttl)
				}
				if dropped > 0 {
					s.pruneTradeIndex()
					logging.Warn("expired idle trade sessions", logging.Fields{"count": dropped})
				}
			}
		}
	}()
}

// pruneTradeIndex drops index entries whose sessions no longer exist.
func (s *TradeService) pruneTradeIndex() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, m := range s.byTrade {
		if _, err := m.Get(id); err != nil {
			delete(s.byTrade, id)
		}
	}
}

func playerByEmailInRoom(repo storage.Repository, roomID uint, email string) (*game.Player, error) {
	p, err := repo.GetPlayer(roomID, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrPlayerNotInRoom
		}
		return nil, err
	}
	return p, nil
}
