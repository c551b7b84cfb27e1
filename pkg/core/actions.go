// pkg/core/actions.go
package core

// Action kinds as they appear in the "action" key of a replay payload.
const (
	ActionEmpty   = "Empty"
	ActionMove    = "Move"
	ActionFire    = "Fire"
	ActionCapture = "Capt"
	ActionBuild   = "Build"
	ActionEnd     = "End"
	ActionPower   = "Power"
	ActionLoad    = "Load"
	ActionUnload  = "Unload"
	ActionSupply  = "Supply"
	ActionRepair  = "Repair"
	ActionJoin    = "Join"
	ActionDelete  = "Delete"
	ActionHide    = "Hide"
	ActionUnhide  = "Unhide"
	ActionResign  = "Resign"
	ActionTag     = "Tag"
)

// Action is one gameplay event inside a turn.
type Action interface {
	Kind() string
}

// EmptyAction stands in for the degenerate "Array" payload, which carries no content.
type EmptyAction struct{}

// PathNode is one step of a movement path.
type PathNode struct {
	Position    Vec2 `json:"position"`
	UnitVisible bool `json:"unitVisible"`
}

// MoveUnitAction moves a unit along a path.
type MoveUnitAction struct {
	UnitID   int        `json:"unitId"`
	Unit     *Unit      `json:"unit,omitempty"`
	Path     []PathNode `json:"path"`
	Distance int        `json:"distance"`
	Trapped  bool       `json:"trapped"`
}

// CombatUnit is one side of an attack after damage has been applied.
type CombatUnit struct {
	ID        int     `json:"id"`
	HitPoints float64 `json:"hitPoints"`
	Ammo      int     `json:"ammo"`
	Position  Vec2    `json:"position"`
}

// AttackUnitAction is a unit firing on another.
type AttackUnitAction struct {
	Move     *MoveUnitAction `json:"move,omitempty"`
	Attacker CombatUnit      `json:"attacker"`
	Defender CombatUnit      `json:"defender"`

	// COPowerGain maps player id to the power meter after the attack.
	COPowerGain map[int]int `json:"coPowerGain,omitempty"`
}

// CaptureBuildingAction is a capture step on a building.
type CaptureBuildingAction struct {
	Move            *MoveUnitAction `json:"move,omitempty"`
	BuildingID      int             `json:"buildingId"`
	Position        Vec2            `json:"position"`
	CaptureProgress int             `json:"captureProgress"`
	Team            string          `json:"team,omitempty"`
}

// BuildUnitAction is a new unit being produced.
type BuildUnitAction struct {
	NewUnit     Unit `json:"newUnit"`
	PlayerFunds *int `json:"playerFunds,omitempty"`
}

// EndTurnAction passes the turn to the next player.
type EndTurnAction struct {
	NextPlayerID int      `json:"nextPlayerId"`
	NextDay      int      `json:"nextDay"`
	NextFunds    int      `json:"nextFunds"`
	Weather      *Weather `json:"weather,omitempty"`
}

// PowerAction is a CO power or super power activation.
type PowerAction struct {
	PlayerID     int    `json:"playerId"`
	COName       string `json:"coName"`
	PowerName    string `json:"powerName"`
	IsSuperPower bool   `json:"isSuperPower"`
}

// LoadUnitAction moves a unit into a transport.
type LoadUnitAction struct {
	Move        *MoveUnitAction `json:"move,omitempty"`
	LoadedID    int             `json:"loadedId"`
	TransportID int             `json:"transportId"`
}

// UnloadUnitAction drops a carried unit next to its transport.
type UnloadUnitAction struct {
	Move        *MoveUnitAction `json:"move,omitempty"`
	TransportID int             `json:"transportId"`
	UnloadedID  int             `json:"unloadedId"`
	Position    Vec2            `json:"position"`
}

// SupplyUnitAction resupplies adjacent units.
type SupplyUnitAction struct {
	Move            *MoveUnitAction `json:"move,omitempty"`
	SupplyingUnitID int             `json:"supplyingUnitId"`
	Supplied        []int           `json:"supplied"`
}

// RepairUnitAction is a black boat repairing a unit.
type RepairUnitAction struct {
	Move            *MoveUnitAction `json:"move,omitempty"`
	RepairingUnitID int             `json:"repairingUnitId"`
	RepairedUnitID  int             `json:"repairedUnitId"`
	RepairedHP      float64         `json:"repairedHp"`
}

// JoinUnitAction merges two units of the same type.
type JoinUnitAction struct {
	Move          *MoveUnitAction `json:"move,omitempty"`
	JoiningUnitID int             `json:"joiningUnitId"`
	JoinedUnitID  int             `json:"joinedUnitId"`
	NewHP         float64         `json:"newHp"`
	FundsGained   int             `json:"fundsGained"`
}

// DeleteUnitAction removes a unit from the board.
type DeleteUnitAction struct {
	UnitID int `json:"unitId"`
}

// HideUnitAction dives a sub or hides a stealth.
type HideUnitAction struct {
	Move   *MoveUnitAction `json:"move,omitempty"`
	UnitID int             `json:"unitId"`
}

// UnhideUnitAction surfaces a sub or reveals a stealth.
type UnhideUnitAction struct {
	Move   *MoveUnitAction `json:"move,omitempty"`
	UnitID int             `json:"unitId"`
}

// ResignAction is a player leaving the match.
type ResignAction struct {
	PlayerID     int `json:"playerId"`
	NextPlayerID int `json:"nextPlayerId"`
}

// TagSwapAction switches the active CO in a tag match.
type TagSwapAction struct {
	PlayerID  int    `json:"playerId"`
	NewCOName string `json:"newCoName"`
}

func (EmptyAction) Kind() string           { return ActionEmpty }
func (MoveUnitAction) Kind() string        { return ActionMove }
func (AttackUnitAction) Kind() string      { return ActionFire }
func (CaptureBuildingAction) Kind() string { return ActionCapture }
func (BuildUnitAction) Kind() string       { return ActionBuild }
func (EndTurnAction) Kind() string         { return ActionEnd }
func (PowerAction) Kind() string           { return ActionPower }
func (LoadUnitAction) Kind() string        { return ActionLoad }
func (UnloadUnitAction) Kind() string      { return ActionUnload }
func (SupplyUnitAction) Kind() string      { return ActionSupply }
func (RepairUnitAction) Kind() string      { return ActionRepair }
func (JoinUnitAction) Kind() string        { return ActionJoin }
func (DeleteUnitAction) Kind() string      { return ActionDelete }
func (HideUnitAction) Kind() string        { return ActionHide }
func (UnhideUnitAction) Kind() string      { return ActionUnhide }
func (ResignAction) Kind() string          { return ActionResign }
func (TagSwapAction) Kind() string         { return ActionTag }
