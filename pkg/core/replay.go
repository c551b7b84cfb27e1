// pkg/core/replay.go
package core

// MatchType is the kind of match a replay was recorded from.
type MatchType int

const (
	MatchNormal MatchType = iota
	MatchLeague
)

func (t MatchType) String() string {
	switch t {
	case MatchLeague:
		return "League"
	case MatchNormal:
		return "Normal"
	default:
		return "Unknown"
	}
}

// Vec2 is a position on the board.
type Vec2 struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ReplayData is the full decoded replay: match metadata plus one TurnData per
// encoded turn, in file order.
type ReplayData struct {
	Info  ReplayInfo
	Turns []TurnData
}

// ReplayInfo holds match-level metadata. Every field is repeated by the source
// on each turn and must stay identical across them.
type ReplayInfo struct {
	ID                       int
	Name                     string
	Password                 *string
	CreatorID                int
	MapID                    int
	FundsPerBuilding         int
	StartingFunds            int
	Fog                      bool
	PowersAllowed            bool
	OfficialGame             bool
	LeagueMatch              *string
	TeamMatch                bool
	Type                     MatchType
	StartDate                *string
	EndDate                  *string
	CaptureWinBuildingNumber *int // nil when the match has no capture-win condition

	// Players is the roster; a player's position in it is its roster index.
	Players []Player
	// PlayerIDs maps a player's external id to its roster index.
	PlayerIDs map[int]int
}

// PlayerByID returns the roster entry for an external player id.
func (i *ReplayInfo) PlayerByID(id int) (Player, bool) {
	idx, ok := i.PlayerIDs[id]
	if !ok || idx < 0 || idx >= len(i.Players) {
		return Player{}, false
	}
	return i.Players[idx], true
}

// Player is the per-match identity of a player.
type Player struct {
	ID             int
	UserID         int
	TeamName       string
	CountryID      int
	COID           int
	TurnOrderIndex int
}

// PlayerTurn is a player's mutable state at the start of one turn.
type PlayerTurn struct {
	ID         int
	Funds      int
	Eliminated bool
	COPower    int
	COPowerOn  *string
}

// Weather is the weather in effect for a turn.
type Weather struct {
	Name        *string
	Code        *string
	TurnStartID *int
}

// TurnData is a snapshot of the board at the start of one turn together with
// the actions performed during it.
type TurnData struct {
	ActivePlayerID   int
	ActiveTeam       string
	Day              int
	PlayerTurnNumber int
	Weather          *Weather

	// Players is indexed by roster index.
	Players   []PlayerTurn
	Buildings map[Vec2]Building
	Units     map[int]Unit
	Actions   []Action
}

// Building is a capturable property on the board.
type Building struct {
	ID          int
	TerrainID   int
	Position    Vec2
	Capture     int
	LastCapture int
}

// Unit is a single unit's state at the start of a turn.
type Unit struct {
	ID             int
	PlayerID       int
	UnitName       string
	MovementPoints int
	Vision         int
	Fuel           int
	FuelPerTurn    int
	SubHasDived    bool
	Ammo           int
	Range          *Vec2 // X is the short range, Y the long range
	SecondWeapon   bool
	Cost           int
	MovementType   string
	Position       *Vec2
	TimesMoved     int
	TimesCaptured  int
	TimesFired     int
	HitPoints      float64
	CargoUnits     []int
	BeingCarried   bool
}
