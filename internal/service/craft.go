package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/starfall-game/starfall-server/internal/crafting"
	"github.com/starfall-game/starfall-server/internal/game"
	"github.com/starfall-game/starfall-server/internal/logging"
	"github.com/starfall-game/starfall-server/internal/storage"
)

var ErrCraftJobNotFound = errors.New("craft job not found")

// CraftJob is one running blueprint craft.
type CraftJob struct {
	ID        string `json:"id"`
	PlayerID  uint   `json:"-"`
	Blueprint uint   `json:"blueprint_card_id"`
	Timer     *crafting.Timer
}

// CraftService gates craft starts against resource sufficiency and runs
// the completion side effect (deduct inputs, grant output) exactly once.
type CraftService struct {
	repo storage.Repository

	mu   sync.Mutex
	jobs map[string]*CraftJob

	// background drives timers with the real ticker; tests disable it and
	// tick jobs by hand.
	background bool
}

func NewCraftService(repo storage.Repository) *CraftService {
	return &CraftService{repo: repo, jobs: make(map[string]*CraftJob), background: true}
}

func newJobID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// CanCraft checks resource sufficiency for a blueprint without starting
// anything.
func (s *CraftService) CanCraft(roomCode, email string, blueprintCardID uint) (bool, error) {
	_, player, recipe, err := s.loadBlueprint(roomCode, email, blueprintCardID)
	if err != nil {
		return false, err
	}
	items, err := s.repo.GetInventory(player.ID)
	if err != nil {
		return false, err
	}
	return crafting.CanCraft(recipe, items), nil
}

// Start begins a craft. The blueprint stays locked until the timer fires
// the completion; there is no cancel path.
func (s *CraftService) Start(roomCode, email string, blueprintCardID uint) (*CraftJob, crafting.Status, error) {
	card, player, recipe, err := s.loadBlueprint(roomCode, email, blueprintCardID)
	if err != nil {
		return nil, crafting.Status{}, err
	}
	items, err := s.repo.GetInventory(player.ID)
	if err != nil {
		return nil, crafting.Status{}, err
	}
	if !crafting.CanCraft(recipe, items) {
		return nil, crafting.Status{}, crafting.ErrInsufficientResources
	}

	// the duplicate-job check and the insert must stay under one lock,
	// or two concurrent starts for the same player could both pass
	s.mu.Lock()
	for _, j := range s.jobs {
		if j.PlayerID == player.ID {
			s.mu.Unlock()
			return nil, crafting.Status{}, crafting.ErrAlreadyCrafting
		}
	}
	job := &CraftJob{ID: newJobID(), PlayerID: player.ID, Blueprint: card.ID}
	duration := time.Duration(recipe.CraftingTimeSeconds) * time.Second
	job.Timer = crafting.NewTimer(duration, func() { s.complete(job) })
	if err := job.Timer.Start(); err != nil {
		s.mu.Unlock()
		return nil, crafting.Status{}, err
	}
	s.jobs[job.ID] = job
	s.mu.Unlock()

	if s.background {
		go job.Timer.Run()
	}
	logging.Info("craft started", logging.Fields{"job_id": job.ID, "card_id": card.ID})
	return job, job.Timer.Status(), nil
}

// Status reports a job's progress.
func (s *CraftService) Status(jobID string) (crafting.Status, error) {
	s.mu.Lock()
	job, ok := s.jobs[jobID]
	s.mu.Unlock()
	if !ok {
		return crafting.Status{}, ErrCraftJobNotFound
	}
	return job.Timer.Status(), nil
}

// complete runs once per job: deduct the recipe inputs and grant the
// output item, then drop the job.
func (s *CraftService) complete(job *CraftJob) {
	card, err := s.repo.GetCard(job.Blueprint)
	if err != nil || card.CraftingRecipe == nil {
		logging.Error("craft completion lost its blueprint", err, logging.Fields{"card_id": job.Blueprint})
		return
	}
	recipe := card.CraftingRecipe

	if err := s.deductResources(job.PlayerID, recipe); err != nil {
		logging.Error("craft completion failed to deduct resources", err, logging.Fields{"card_id": job.Blueprint})
	}

	outputID := recipe.OutputCardID
	if outputID == 0 {
		outputID = card.ID
	}
	output, err := s.repo.GetCard(outputID)
	if err != nil {
		logging.Error("craft output card missing", err, logging.Fields{"card_id": outputID})
	} else {
		item := game.ItemFromCard(job.PlayerID, output)
		if err := s.repo.AddItem(&item); err != nil {
			logging.Error("failed to grant crafted item", err, logging.Fields{"card_id": outputID})
		}
	}

	s.mu.Lock()
	delete(s.jobs, job.ID)
	s.mu.Unlock()
	logging.Info("craft completed", logging.Fields{"job_id": job.ID, "card_id": card.ID})
}

// deductResources walks the requirement list, draining container rows in
// inventory order. Emptied rows are removed; partially drained rows keep
// their identity.
func (s *CraftService) deductResources(playerID uint, recipe *game.CraftingRecipe) error {
	items, err := s.repo.GetInventory(playerID)
	if err != nil {
		return err
	}
	for _, req := range recipe.RequiredResources {
		remaining := req.Amount
		for i := range items {
			if remaining == 0 {
				break
			}
			it := &items[i]
			if !it.IsResourceContainer || !strings.EqualFold(it.ResourceName, req.Name) || it.ResourceAmount <= 0 {
				continue
			}
			take := it.ResourceAmount
			if take > remaining {
				take = remaining
			}
			it.ResourceAmount -= take
			remaining -= take
			if it.ResourceAmount == 0 {
				if _, err := s.repo.RemoveItem(playerID, it.ID); err != nil {
					return err
				}
			} else {
				if err := s.repo.UpdateItem(it); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *CraftService) loadBlueprint(roomCode, email string, cardID uint) (*game.Card, *game.Player, *game.CraftingRecipe, error) {
	_, player, err := PlayerInRoom(s.repo, roomCode, email)
	if err != nil {
		return nil, nil, nil, err
	}
	card, err := s.repo.GetCard(cardID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, nil, ErrCardNotFound
		}
		return nil, nil, nil, err
	}
	if card.CraftingRecipe == nil {
		return nil, nil, nil, crafting.ErrNotCraftable
	}
	return card, player, card.CraftingRecipe, nil
}
