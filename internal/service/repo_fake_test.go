package service

import (
	"sort"
	"sync"

	"github.com/starfall-game/starfall-server/internal/game"
	"github.com/starfall-game/starfall-server/internal/storage"
)

// fakeRepo is an in-memory storage.Repository for service tests.
type fakeRepo struct {
	mu      sync.Mutex
	cards   map[uint]*game.Card
	rooms   map[uint]*game.Room
	players map[uint]*game.Player
	items   map[uint]*game.InventoryItem
	logs    []game.TradeLog
	nextID  uint

	// addItemErr, when set, makes AddItem fail to simulate a write error
	addItemErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		cards:   map[uint]*game.Card{},
		rooms:   map[uint]*game.Room{},
		players: map[uint]*game.Player{},
		items:   map[uint]*game.InventoryItem{},
		nextID:  1,
	}
}

func (f *fakeRepo) id() uint {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeRepo) addCard(c game.Card) *game.Card {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cards[c.ID] = &c
	return &c
}

func (f *fakeRepo) GetCard(id uint) (*game.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cards[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) ListCards() ([]game.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []game.Card
	for _, c := range f.cards {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeRepo) CreateRoom(r *game.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = f.id()
	for i := range r.Players {
		r.Players[i].ID = f.id()
		r.Players[i].RoomID = r.ID
		p := r.Players[i]
		f.players[p.ID] = &p
	}
	f.rooms[r.ID] = r
	return nil
}

// roomCopy mirrors a Preload of the players association.
func (f *fakeRepo) roomCopy(r *game.Room) *game.Room {
	cp := *r
	cp.Players = nil
	for _, p := range f.players {
		if p.RoomID == r.ID {
			cp.Players = append(cp.Players, *p)
		}
	}
	return &cp
}

func (f *fakeRepo) FindRoomByJoinCode(code string) (*game.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rooms {
		if r.JoinCode == code {
			return f.roomCopy(r), nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeRepo) GetRoomByID(id uint) (*game.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return f.roomCopy(r), nil
}

func (f *fakeRepo) RemovePlayer(roomID uint, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, p := range f.players {
		if p.RoomID == roomID && p.Email == email {
			delete(f.players, id)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeRepo) GetPlayer(roomID uint, email string) (*game.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.players {
		if p.RoomID == roomID && p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeRepo) GetPlayerByID(id uint) (*game.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.players[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) UpdatePlayer(p *game.Player) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == 0 {
		p.ID = f.id()
	}
	cp := *p
	f.players[p.ID] = &cp
	return nil
}

func (f *fakeRepo) AdjustStat(playerID uint, stat string, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.players[playerID]
	if !ok {
		return storage.ErrNotFound
	}
	switch stat {
	case "HP":
		p.HitPoints += delta
		if p.HitPoints < 0 {
			p.HitPoints = 0
		}
	case "ARMOR":
		p.Armor += delta
		if p.Armor < 0 {
			p.Armor = 0
		}
	case "GOLD":
		p.Gold += delta
	case "FUEL":
		p.Fuel += delta
	case "OXY":
		p.Oxygen += delta
	default:
		return storage.ErrNotFound
	}
	return nil
}

func (f *fakeRepo) GetInventory(playerID uint) ([]game.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []game.InventoryItem
	for _, it := range f.items {
		if it.PlayerID == playerID {
			out = append(out, *it)
		}
	}
	// stable acquisition order, like the DB's primary key ordering
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) GetItem(playerID, itemID uint) (*game.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[itemID]
	if !ok || it.PlayerID != playerID {
		return nil, storage.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (f *fakeRepo) AddItem(item *game.InventoryItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addItemErr != nil {
		return f.addItemErr
	}
	if item.ID == 0 {
		item.ID = f.id()
	}
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateItem(item *game.InventoryItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeRepo) RemoveItem(playerID, itemID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[itemID]
	if !ok || it.PlayerID != playerID {
		return false, nil
	}
	delete(f.items, itemID)
	return true, nil
}

func (f *fakeRepo) SaveTradeLog(entry *game.TradeLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, *entry)
	return nil
}
