package game

// CardType tags the variant of an authored card. The type decides which
// optional configuration block applies when the card is opened.
type CardType string

const (
	CardTypeItem         CardType = "ITEM"
	CardTypeEncounter    CardType = "ENCOUNTER"
	CardTypeTrap         CardType = "TRAP"
	CardTypeMerchant     CardType = "MERCHANT"
	CardTypeDilemma      CardType = "DILEMMA"
	CardTypeBoss         CardType = "BOSS"
	CardTypeSpaceStation CardType = "SPACE_STATION"
	CardTypePlanet       CardType = "PLANET"
)

// Rarity is an ordered tier. It drives flee probability in combat and the
// visual weight of the card on the client.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Order returns the tier index (Common=0 .. Legendary=3). Unknown values
// sort as Common.
func (r Rarity) Order() int {
	switch r {
	case RarityRare:
		return 1
	case RarityEpic:
		return 2
	case RarityLegendary:
		return 3
	default:
		return 0
	}
}

// StatEntry is one label/value pair from a card's free-form stat bag.
// Values may be numeric-as-string with an optional sign prefix ("+10", "-5").
type StatEntry struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// CombatConfig holds combat tuning for ENCOUNTER/BOSS cards.
type CombatConfig struct {
	// DefBreakChance is the percent chance [0,100] that the player's attack
	// ignores the enemy's defense for one round.
	DefBreakChance int `json:"def_break_chance"`
}

// TrapConfig holds the difficulty check for TRAP cards.
type TrapConfig struct {
	Difficulty     int         `json:"difficulty"`
	Damage         int         `json:"damage"`
	DisarmClass    string      `json:"disarm_class"`
	SuccessMessage string      `json:"success_message"`
	FailMessage    string      `json:"fail_message"`
	Loot           []StatEntry `json:"loot"`
}

// EnemyLoot describes the reward granted when an encounter is won. When
// LootStats is empty a single GOLD entry is synthesized from GoldReward.
type EnemyLoot struct {
	LootStats  []StatEntry `json:"loot_stats"`
	GoldReward int         `json:"gold_reward"`
}

// ResourceRequirement is one line of a crafting recipe's input list.
type ResourceRequirement struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

// CraftingRecipe makes a card craftable: inputs, duration and output.
type CraftingRecipe struct {
	RequiredResources   []ResourceRequirement `json:"required_resources"`
	CraftingTimeSeconds int                   `json:"crafting_time_seconds"`
	OutputCardID        uint                  `json:"output_card_id"`
}

// PlanetConfig is the ordered landing-event sequence of a PLANET card.
// Phases holds catalog card IDs resolved one per successful landing. The
// legacy single-event fields apply only when Phases is empty.
type PlanetConfig struct {
	Phases           []uint   `json:"phases"`
	LandingEventID   uint     `json:"landing_event_id"`
	LandingEventType CardType `json:"landing_event_type"`
}

// ResourceConfig marks a card as a stackable resource container.
type ResourceConfig struct {
	IsResourceContainer bool   `json:"is_resource_container"`
	ResourceName        string `json:"resource_name"`
}

// MarketListing is one purchasable entry of a MERCHANT card.
type MarketListing struct {
	CardID uint `json:"card_id"`
	Price  int  `json:"price"`
}

// MarketConfig holds the wares of a MERCHANT card.
type MarketConfig struct {
	Listings []MarketListing `json:"listings"`
}

// StationConfig holds refuel/repair pricing for a SPACE_STATION card.
type StationConfig struct {
	FuelPrice   int `json:"fuel_price"`
	RepairPrice int `json:"repair_price"`
}

// TradeConfig describes a fixed barter printed on the card: the item the
// holder gives up and the item received in return. The client resolves it
// locally from the catalog read, so there is no server operation behind it.
type TradeConfig struct {
	RequestedCardID uint `json:"requested_card_id"`
	OfferedCardID   uint `json:"offered_card_id"`
}

// TimeVariant swaps the card's face by time of day. A zero ID keeps the
// base card for that window.
type TimeVariant struct {
	DayCardID   uint `json:"day_card_id"`
	NightCardID uint `json:"night_card_id"`
}

// Card is an immutable authored template ("catalog entry"). Cards are
// created once and referenced by ID from many players' inventories. The
// stat bag and the optional per-type configuration blocks are persisted as
// JSON columns so the catalog schema stays stable as card types evolve.
type Card struct {
	ID     uint        `json:"id" gorm:"primaryKey"`
	Name   string      `json:"name" gorm:"size:64"`
	Type   CardType    `json:"type" gorm:"size:16;index"`
	Rarity Rarity      `json:"rarity" gorm:"size:16"`
	Stats  []StatEntry `json:"stats" gorm:"serializer:json"`

	CombatConfig   *CombatConfig   `json:"combat_config,omitempty" gorm:"serializer:json"`
	TrapConfig     *TrapConfig     `json:"trap_config,omitempty" gorm:"serializer:json"`
	EnemyLoot      *EnemyLoot      `json:"enemy_loot,omitempty" gorm:"serializer:json"`
	CraftingRecipe *CraftingRecipe `json:"crafting_recipe,omitempty" gorm:"serializer:json"`
	PlanetConfig   *PlanetConfig   `json:"planet_config,omitempty" gorm:"serializer:json"`
	ResourceConfig *ResourceConfig `json:"resource_config,omitempty" gorm:"serializer:json"`
	MarketConfig   *MarketConfig   `json:"market_config,omitempty" gorm:"serializer:json"`
	StationConfig  *StationConfig  `json:"station_config,omitempty" gorm:"serializer:json"`
	TradeConfig    *TradeConfig    `json:"trade_config,omitempty" gorm:"serializer:json"`
	TimeVariant    *TimeVariant    `json:"time_variant,omitempty" gorm:"serializer:json"`
}

// TableName keeps the persisted catalog table explicit.
func (Card) TableName() string { return "card_catalog" }
