package constants

// Centralized constants for env keys, routes and shared messages.
const (
	// Environment variable keys
	EnvConfigPath = "STARFALL_CONFIG"
	EnvDBPath     = "STARFALL_DB"

	// HTTP headers and content types
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"
)

// Routes used by the backend router
const (
	RouteAPIPrefix = "/api"
	RouteHealth    = "/healthz"
	RouteVersion   = "/version"

	RouteCards    = "/cards"
	RouteCardByID = "/cards/:cardID"

	RouteRooms      = "/rooms"
	RouteRoomsJoin  = "/rooms/join"
	RouteRoomByCode = "/rooms/:roomCode"
	RouteRoomLeave  = "/rooms/:roomCode/leave"

	RouteInventory       = "/rooms/:roomCode/players/:email/inventory"
	RouteInventoryStacks = "/rooms/:roomCode/players/:email/inventory/stacks"

	RouteEncounterOpen    = "/rooms/:roomCode/encounters"
	RouteEncounterAttack  = "/encounters/:sessionID/attack"
	RouteEncounterUseItem = "/encounters/:sessionID/use-item"
	RouteEncounterFlee    = "/encounters/:sessionID/flee"
	RouteEncounterClaim   = "/encounters/:sessionID/claim"
	RouteEncounterState   = "/encounters/:sessionID"
	RouteTrapResolve      = "/encounters/:sessionID/trap-roll"
	RouteTrapClaim        = "/encounters/:sessionID/trap-claim"

	RouteTradeOpen    = "/rooms/:roomCode/trades"
	RouteTradeByID    = "/trades/:tradeID"
	RouteTradeOffer   = "/trades/:tradeID/offer"
	RouteTradeConfirm = "/trades/:tradeID/confirm"
	RouteTradeCancel  = "/trades/:tradeID/cancel"

	RouteTravel = "/rooms/:roomCode/travel"
	RouteLand   = "/rooms/:roomCode/land"

	RouteCraftCheck  = "/rooms/:roomCode/craft/check"
	RouteCraftStart  = "/rooms/:roomCode/craft"
	RouteCraftStatus = "/craft/:jobID"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyStatus  = "status"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest    = "Invalid request"
	ErrInvalidRoomCode   = "Invalid room code"
	ErrRoomNotFound      = "Room not found"
	ErrRoomFull          = "Room is full"
	ErrCardNotFound      = "Card not found"
	ErrPlayerNotInRoom   = "Player not in this room"
	ErrSessionNotFound   = "Encounter session not found"
	ErrTradeNotFound     = "Trade session not found"
	ErrItemNotFound      = "Inventory item not found"
	ErrEmailRequired     = "email is required"
	ErrFailedCreateRoom  = "Failed to create room"
	ErrFailedUpdateState = "Failed to update state"
	ErrFailedFetchCards  = "Failed to fetch cards"
	ErrNotPermitted      = "Action not permitted"
	ErrCraftJobNotFound  = "Craft job not found"

	ErrRoomClosed         = "Room is closed"
	ErrAlreadyInRoom      = "Player already joined this room"
	ErrRoomNameExceeds    = "Room name exceeds 32 characters"
	ErrNotAnEncounter     = "Card does not open an encounter"
	ErrWrongEncounterKind = "Action does not apply to this encounter"
	ErrActionInFlight     = "Another roll is already in progress"
	ErrCombatOver         = "Combat is already over"
	ErrFleeExhausted      = "Flee was already attempted"
	ErrNotVictorious      = "Loot requires a victory"
	ErrTrapNotActive      = "Trap was already resolved"
	ErrTrapNotSucceeded   = "Trap loot requires a successful disarm"
	ErrInvalidDiceTotal   = "Manual dice total must be between 2 and 12"
	ErrItemNotUsable      = "Item has no usable damage stat"
	ErrNotParticipant     = "Not a participant of this trade"
	ErrNotAPlanet         = "Item is not a planet card"
	ErrPlanetComplete     = "All planet phases are already explored"
	ErrNoPlanetConfig     = "Planet card has no landing events"
	ErrNotCraftable       = "Card has no crafting recipe"
	ErrNotEnoughResources = "Not enough resources to craft"
	ErrAlreadyCrafting    = "A craft is already in progress"
	ErrFailedApplyReward  = "Failed to apply reward"
)

// Logging field names
const (
	LogFieldRoomID    = "room_id"
	LogFieldRoomCode  = "room_code"
	LogFieldCardID    = "card_id"
	LogFieldSessionID = "session_id"
	LogFieldTradeID   = "trade_id"
	LogFieldEmail     = "email"
	LogFieldAddr      = "addr"
)
