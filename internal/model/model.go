package model

import (
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema.
// Order matters for deletes: children come after their parents.
var DatabaseModels = []any{
	&Replay{},
	&Player{},
	&Turn{},
	&PlayerTurn{},
	&Building{},
	&Unit{},
	&Action{},
}

////////////////////////
// REPLAY MODELS
////////////////////////

// Replay is one decoded match. ID is the site's game id, not generated.
type Replay struct {
	ID                       uint      `json:"id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt                time.Time `json:"createdAt"`
	UpdatedAt                time.Time `json:"updatedAt"`
	Name                     string    `json:"name" gorm:"size:255"`
	Password                 *string   `json:"-" gorm:"size:64"`
	CreatorID                int       `json:"creatorId"`
	MapID                    int       `json:"mapId" gorm:"index:idx_replay_map_id"`
	FundsPerBuilding         int       `json:"fundsPerBuilding"`
	StartingFunds            int       `json:"startingFunds"`
	Fog                      bool      `json:"fog"`
	PowersAllowed            bool      `json:"powersAllowed"`
	OfficialGame             bool      `json:"officialGame"`
	LeagueMatch              *string   `json:"leagueMatch" gorm:"size:64"`
	TeamMatch                bool      `json:"teamMatch"`
	MatchType                string    `json:"matchType" gorm:"size:16"`
	StartDate                *string   `json:"startDate" gorm:"size:32"`
	EndDate                  *string   `json:"endDate" gorm:"size:32"`
	CaptureWinBuildingNumber *int      `json:"captureWinBuildingNumber"`
	TurnCount                int       `json:"turnCount"`
	ActionCount              int       `json:"actionCount"`
}

func (*Replay) TableName() string {
	return "replays"
}

// Player is a roster entry. Username is filled from the profile lookup when
// one was requested.
type Player struct {
	ReplayID       uint   `json:"replayId" gorm:"primaryKey;autoIncrement:false"`
	RosterIndex    int    `json:"rosterIndex" gorm:"primaryKey;autoIncrement:false"`
	PlayerID       int    `json:"playerId" gorm:"index:idx_player_player_id"`
	UserID         int    `json:"userId" gorm:"index:idx_player_user_id"`
	Username       string `json:"username" gorm:"size:64"`
	TeamName       string `json:"teamName" gorm:"size:64"`
	CountryID      int    `json:"countryId"`
	COID           int    `json:"coId"`
	TurnOrderIndex int    `json:"turnOrderIndex"`
}

func (*Player) TableName() string {
	return "players"
}

// Turn is one snapshot of the board. Children reference it by
// (ReplayID, TurnIndex).
type Turn struct {
	ReplayID         uint    `json:"replayId" gorm:"primaryKey;autoIncrement:false"`
	TurnIndex        int     `json:"turnIndex" gorm:"primaryKey;autoIncrement:false"`
	ActivePlayerID   int     `json:"activePlayerId"`
	ActiveTeam       string  `json:"activeTeam" gorm:"size:64"`
	Day              int     `json:"day"`
	PlayerTurnNumber int     `json:"playerTurnNumber"`
	WeatherName      *string `json:"weatherName" gorm:"size:32"`
	WeatherCode      *string `json:"weatherCode" gorm:"size:8"`
	WeatherStart     *int    `json:"weatherStart"`
}

func (*Turn) TableName() string {
	return "turns"
}

// PlayerTurn is a player's funds and power state at the start of a turn.
type PlayerTurn struct {
	ReplayID    uint    `json:"replayId" gorm:"primaryKey;autoIncrement:false"`
	TurnIndex   int     `json:"turnIndex" gorm:"primaryKey;autoIncrement:false"`
	RosterIndex int     `json:"rosterIndex" gorm:"primaryKey;autoIncrement:false"`
	PlayerID    int     `json:"playerId"`
	Funds       int     `json:"funds"`
	Eliminated  bool    `json:"eliminated"`
	COPower     int     `json:"coPower"`
	COPowerOn   *string `json:"coPowerOn" gorm:"size:8"`
}

func (*PlayerTurn) TableName() string {
	return "player_turns"
}

// Building is a property as of the start of a turn.
type Building struct {
	ReplayID    uint       `json:"replayId" gorm:"primaryKey;autoIncrement:false"`
	TurnIndex   int        `json:"turnIndex" gorm:"primaryKey;autoIncrement:false"`
	BuildingID  int        `json:"buildingId" gorm:"primaryKey;autoIncrement:false"`
	TerrainID   int        `json:"terrainId"`
	Position    geom.Point `json:"position" gorm:"type:geometry"`
	Capture     int        `json:"capture"`
	LastCapture int        `json:"lastCapture"`
}

func (*Building) TableName() string {
	return "buildings"
}

// Unit is a unit as of the start of a turn.
type Unit struct {
	ReplayID       uint           `json:"replayId" gorm:"primaryKey;autoIncrement:false"`
	TurnIndex      int            `json:"turnIndex" gorm:"primaryKey;autoIncrement:false"`
	UnitID         int            `json:"unitId" gorm:"primaryKey;autoIncrement:false"`
	PlayerID       int            `json:"playerId" gorm:"index:idx_unit_player_id"`
	UnitName       string         `json:"unitName" gorm:"size:32"`
	MovementPoints int            `json:"movementPoints"`
	Vision         int            `json:"vision"`
	Fuel           int            `json:"fuel"`
	FuelPerTurn    int            `json:"fuelPerTurn"`
	SubHasDived    bool           `json:"subHasDived"`
	Ammo           int            `json:"ammo"`
	ShortRange     *int           `json:"shortRange"`
	LongRange      *int           `json:"longRange"`
	SecondWeapon   bool           `json:"secondWeapon"`
	Cost           int            `json:"cost"`
	MovementType   string         `json:"movementType" gorm:"size:16"`
	Position       geom.Point     `json:"position" gorm:"type:geometry"`
	TimesMoved     int            `json:"timesMoved"`
	TimesCaptured  int            `json:"timesCaptured"`
	TimesFired     int            `json:"timesFired"`
	HitPoints      float64        `json:"hitPoints"`
	CargoUnits     datatypes.JSON `json:"cargoUnits" gorm:"default:'[]'"`
	BeingCarried   bool           `json:"beingCarried"`
}

func (*Unit) TableName() string {
	return "units"
}

// Action is one decoded action. Data holds the kind-specific body as JSON.
type Action struct {
	ReplayID  uint           `json:"replayId" gorm:"primaryKey;autoIncrement:false"`
	TurnIndex int            `json:"turnIndex" gorm:"primaryKey;autoIncrement:false"`
	Seq       int            `json:"seq" gorm:"primaryKey;autoIncrement:false"`
	Kind      string         `json:"kind" gorm:"size:16;index:idx_action_kind"`
	Data      datatypes.JSON `json:"data"`
}

func (*Action) TableName() string {
	return "actions"
}
