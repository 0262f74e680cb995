package game

import "gorm.io/gorm"

// Room is a shared game space players join via a short code. It is the
// authority for trade sessions and the audit point for trade logs.
type Room struct {
	gorm.Model
	Name     string   `json:"name" gorm:"size:32"`
	JoinCode string   `json:"join_code" gorm:"unique"`
	Status   string   `json:"status"`
	Players  []Player `json:"players"`
}

const (
	RoomStatusOpen   = "open"
	RoomStatusClosed = "closed"
)

// Player is one participant of a room. Scalar survival stats live here;
// owned cards live in the inventory table.
type Player struct {
	gorm.Model
	RoomID   uint   `json:"-"`
	Email    string `json:"email" gorm:"index"`
	Nickname string `json:"nickname"`
	// Class gates trap disarm bypass (exact match against TrapConfig.DisarmClass).
	Class     string          `json:"class"`
	HitPoints int             `json:"hp"`
	Armor     int             `json:"armor"`
	Gold      int             `json:"gold"`
	Fuel      int             `json:"fuel"`
	Oxygen    int             `json:"oxygen"`
	Items     []InventoryItem `json:"items"`
}

func (Player) TableName() string { return "room_players" }

// InventoryItem is a player-owned instance derived from a catalog card.
// The card payload relevant to gameplay is snapshotted at acquisition time
// so an item keeps working even if the catalog entry is later edited.
//
// Resource containers are NOT merged at write time: every acquisition is a
// distinct row and stacking is a read-side projection (see StackResources).
type InventoryItem struct {
	gorm.Model
	PlayerID uint        `json:"-" gorm:"index"`
	CardID   uint        `json:"card_id"`
	Name     string      `json:"name"`
	Type     CardType    `json:"type" gorm:"size:16"`
	Rarity   Rarity      `json:"rarity" gorm:"size:16"`
	Stats    []StatEntry `json:"stats" gorm:"serializer:json"`

	IsResourceContainer bool   `json:"is_resource_container"`
	ResourceName        string `json:"resource_name"`
	ResourceAmount      int    `json:"resource_amount"`

	// PlanetProgress indexes into the card's PlanetConfig.Phases for
	// PLANET-type items. Equal to len(Phases) means the planet is complete.
	PlanetProgress int `json:"planet_progress"`
}

func (InventoryItem) TableName() string { return "inventory_items" }

// ItemFromCard builds a fresh inventory instance for a player from a
// catalog card.
func ItemFromCard(playerID uint, c *Card) InventoryItem {
	it := InventoryItem{
		PlayerID: playerID,
		CardID:   c.ID,
		Name:     c.Name,
		Type:     c.Type,
		Rarity:   c.Rarity,
		Stats:    append([]StatEntry(nil), c.Stats...),
	}
	if c.ResourceConfig != nil && c.ResourceConfig.IsResourceContainer {
		it.IsResourceContainer = true
		it.ResourceName = c.ResourceConfig.ResourceName
		it.ResourceAmount = 1
	}
	return it
}

// ResourceStack is the display-side aggregation of same-named resource
// container rows.
type ResourceStack struct {
	ResourceName string `json:"resource_name"`
	TotalAmount  int    `json:"total_amount"`
	Instances    int    `json:"instances"`
}

// StackResources groups resource-container items by resource name. It is a
// pure projection: storage keeps one row per acquisition and this never
// mutates the input. Order follows first appearance in the input slice.
func StackResources(items []InventoryItem) []ResourceStack {
	idx := make(map[string]int)
	var stacks []ResourceStack
	for i := range items {
		if !items[i].IsResourceContainer {
			continue
		}
		name := items[i].ResourceName
		if j, ok := idx[name]; ok {
			stacks[j].TotalAmount += items[i].ResourceAmount
			stacks[j].Instances++
			continue
		}
		idx[name] = len(stacks)
		stacks = append(stacks, ResourceStack{
			ResourceName: name,
			TotalAmount:  items[i].ResourceAmount,
			Instances:    1,
		})
	}
	return stacks
}

// TradeLog is the persisted record of one executed item transfer. A full
// two-sided swap writes two rows, one per direction.
type TradeLog struct {
	gorm.Model
	RoomID         uint   `json:"room_id" gorm:"index"`
	FromEmail      string `json:"from_email"`
	ToEmail        string `json:"to_email"`
	ItemInstanceID uint   `json:"item_instance_id"`
	ItemName       string `json:"item_name"`
}

func (TradeLog) TableName() string { return "trade_logs" }
