package service

import (
	"errors"

	"github.com/starfall-game/starfall-server/internal/game"
	"github.com/starfall-game/starfall-server/internal/storage"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomClosed      = errors.New("room is closed")
	ErrPlayerNotInRoom = errors.New("player not in room")
	ErrAlreadyInRoom   = errors.New("player already joined this room")
)

// Starting stats for a freshly joined player.
const (
	startingHP     = 100
	startingArmor  = 0
	startingGold   = 50
	startingFuel   = 10
	startingOxygen = 100
)

// CreateRoom persists a new room with its creator as first player.
func CreateRoom(repo storage.Repository, name, joinCode, email, nickname, class string) (*game.Room, error) {
	room := &game.Room{
		Name:     name,
		JoinCode: joinCode,
		Status:   game.RoomStatusOpen,
		Players:  []game.Player{newPlayer(email, nickname, class)},
	}
	if err := repo.CreateRoom(room); err != nil {
		return nil, err
	}
	return room, nil
}

// JoinRoom adds a player to an open room found by join code.
func JoinRoom(repo storage.Repository, joinCode, email, nickname, class string) (*game.Room, error) {
	room, err := repo.FindRoomByJoinCode(joinCode)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if room.Status != game.RoomStatusOpen {
		return nil, ErrRoomClosed
	}
	for i := range room.Players {
		if room.Players[i].Email == email {
			return nil, ErrAlreadyInRoom
		}
	}
	p := newPlayer(email, nickname, class)
	p.RoomID = room.ID
	room.Players = append(room.Players, p)
	if err := repo.UpdatePlayer(&room.Players[len(room.Players)-1]); err != nil {
		return nil, err
	}
	return repo.GetRoomByID(room.ID)
}

// LeaveRoom removes a player from a room.
func LeaveRoom(repo storage.Repository, joinCode, email string) error {
	room, err := repo.FindRoomByJoinCode(joinCode)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrRoomNotFound
		}
		return err
	}
	if err := repo.RemovePlayer(room.ID, email); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrPlayerNotInRoom
		}
		return err
	}
	return nil
}

// PlayerInRoom resolves a room's player by email.
func PlayerInRoom(repo storage.Repository, joinCode, email string) (*game.Room, *game.Player, error) {
	room, err := repo.FindRoomByJoinCode(joinCode)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrRoomNotFound
		}
		return nil, nil, err
	}
	p, err := repo.GetPlayer(room.ID, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrPlayerNotInRoom
		}
		return nil, nil, err
	}
	return room, p, nil
}

func newPlayer(email, nickname, class string) game.Player {
	return game.Player{
		Email:     email,
		Nickname:  nickname,
		Class:     class,
		HitPoints: startingHP,
		Armor:     startingArmor,
		Gold:      startingGold,
		Fuel:      startingFuel,
		Oxygen:    startingOxygen,
	}
}
