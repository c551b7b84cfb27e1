// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/awbwapp/replay/internal/model"
	"github.com/awbwapp/replay/internal/model/convert"
	"github.com/awbwapp/replay/pkg/core"
	"gorm.io/datatypes"
)

// ReplayExport is the root JSON structure
type ReplayExport struct {
	ID                       int          `json:"id"`
	Name                     string       `json:"name"`
	CreatorID                int          `json:"creatorId"`
	MapID                    int          `json:"mapId"`
	MatchType                string       `json:"matchType"`
	LeagueMatch              *string      `json:"leagueMatch"`
	FundsPerBuilding         int          `json:"fundsPerBuilding"`
	StartingFunds            int          `json:"startingFunds"`
	Fog                      bool         `json:"fog"`
	PowersAllowed            bool         `json:"powersAllowed"`
	OfficialGame             bool         `json:"officialGame"`
	TeamMatch                bool         `json:"teamMatch"`
	StartDate                *string      `json:"startDate"`
	EndDate                  *string      `json:"endDate"`
	CaptureWinBuildingNumber *int         `json:"captureWinBuildingNumber"`
	Players                  []PlayerJSON `json:"players"`
	Turns                    []TurnJSON   `json:"turns"`
}

// PlayerJSON is a roster entry
type PlayerJSON struct {
	ID             int    `json:"id"`
	UserID         int    `json:"userId"`
	TeamName       string `json:"team"`
	CountryID      int    `json:"countryId"`
	COID           int    `json:"coId"`
	TurnOrderIndex int    `json:"order"`
}

// TurnJSON is one turn with its board and actions. Buildings are ordered by
// row then column and units by id so exports are stable.
type TurnJSON struct {
	ActivePlayerID   int              `json:"activePlayerId"`
	ActiveTeam       string           `json:"activeTeam"`
	Day              int              `json:"day"`
	PlayerTurnNumber int              `json:"playerTurnNumber"`
	Weather          *WeatherJSON     `json:"weather,omitempty"`
	Players          []PlayerTurnJSON `json:"players"`
	Buildings        []BuildingJSON   `json:"buildings"`
	Units            []UnitJSON       `json:"units"`
	Actions          []ActionJSON     `json:"actions"`
}

// WeatherJSON is the weather in effect for a turn
type WeatherJSON struct {
	Name        *string `json:"name"`
	Code        *string `json:"code"`
	TurnStartID *int    `json:"turnStartId"`
}

// PlayerTurnJSON is a player's state at the start of a turn
type PlayerTurnJSON struct {
	ID         int     `json:"id"`
	Funds      int     `json:"funds"`
	Eliminated bool    `json:"eliminated"`
	COPower    int     `json:"coPower"`
	COPowerOn  *string `json:"coPowerOn"`
}

// BuildingJSON is a property on the board
type BuildingJSON struct {
	ID          int       `json:"id"`
	TerrainID   int       `json:"terrainId"`
	Position    core.Vec2 `json:"position"`
	Capture     int       `json:"capture"`
	LastCapture int       `json:"lastCapture"`
}

// UnitJSON is a unit on the board
type UnitJSON struct {
	ID             int        `json:"id"`
	PlayerID       int        `json:"playerId"`
	UnitName       string     `json:"name"`
	MovementPoints int        `json:"movementPoints"`
	Vision         int        `json:"vision"`
	Fuel           int        `json:"fuel"`
	FuelPerTurn    int        `json:"fuelPerTurn"`
	SubHasDived    bool       `json:"subHasDived"`
	Ammo           int        `json:"ammo"`
	Range          *core.Vec2 `json:"range,omitempty"`
	SecondWeapon   bool       `json:"secondWeapon"`
	Cost           int        `json:"cost"`
	MovementType   string     `json:"movementType"`
	Position       core.Vec2  `json:"position"`
	TimesMoved     int        `json:"timesMoved"`
	TimesCaptured  int        `json:"timesCaptured"`
	TimesFired     int        `json:"timesFired"`
	HitPoints      float64    `json:"hitPoints"`
	CargoUnits     []int      `json:"cargoUnits,omitempty"`
	BeingCarried   bool       `json:"beingCarried"`
}

// ActionJSON wraps an action body with its kind
type ActionJSON struct {
	Kind string      `json:"kind"`
	Data core.Action `json:"data"`
}

// UnmarshalJSON restores the typed action body named by kind.
func (a *ActionJSON) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind string          `json:"kind"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	action, err := convert.ActionToCore(model.Action{Kind: raw.Kind, Data: datatypes.JSON(raw.Data)})
	if err != nil {
		return err
	}
	a.Kind = raw.Kind
	a.Data = action
	return nil
}

// BuildExport converts a decoded replay into its JSON export form.
func BuildExport(r *core.ReplayData) ReplayExport {
	info := r.Info
	export := ReplayExport{
		ID:                       info.ID,
		Name:                     info.Name,
		CreatorID:                info.CreatorID,
		MapID:                    info.MapID,
		MatchType:                info.Type.String(),
		LeagueMatch:              info.LeagueMatch,
		FundsPerBuilding:         info.FundsPerBuilding,
		StartingFunds:            info.StartingFunds,
		Fog:                      info.Fog,
		PowersAllowed:            info.PowersAllowed,
		OfficialGame:             info.OfficialGame,
		TeamMatch:                info.TeamMatch,
		StartDate:                info.StartDate,
		EndDate:                  info.EndDate,
		CaptureWinBuildingNumber: info.CaptureWinBuildingNumber,
		Players:                  make([]PlayerJSON, 0, len(info.Players)),
		Turns:                    make([]TurnJSON, 0, len(r.Turns)),
	}

	for _, p := range info.Players {
		export.Players = append(export.Players, PlayerJSON{
			ID:             p.ID,
			UserID:         p.UserID,
			TeamName:       p.TeamName,
			CountryID:      p.CountryID,
			COID:           p.COID,
			TurnOrderIndex: p.TurnOrderIndex,
		})
	}

	for _, t := range r.Turns {
		export.Turns = append(export.Turns, buildTurn(t))
	}

	return export
}

func buildTurn(t core.TurnData) TurnJSON {
	turn := TurnJSON{
		ActivePlayerID:   t.ActivePlayerID,
		ActiveTeam:       t.ActiveTeam,
		Day:              t.Day,
		PlayerTurnNumber: t.PlayerTurnNumber,
		Players:          make([]PlayerTurnJSON, 0, len(t.Players)),
		Buildings:        make([]BuildingJSON, 0, len(t.Buildings)),
		Units:            make([]UnitJSON, 0, len(t.Units)),
		Actions:          make([]ActionJSON, 0, len(t.Actions)),
	}
	if t.Weather != nil {
		turn.Weather = &WeatherJSON{Name: t.Weather.Name, Code: t.Weather.Code, TurnStartID: t.Weather.TurnStartID}
	}

	for _, p := range t.Players {
		turn.Players = append(turn.Players, PlayerTurnJSON(p))
	}
	for _, b := range convert.SortedBuildings(t) {
		turn.Buildings = append(turn.Buildings, BuildingJSON(b))
	}
	for _, u := range convert.SortedUnits(t) {
		unit := UnitJSON{
			ID:             u.ID,
			PlayerID:       u.PlayerID,
			UnitName:       u.UnitName,
			MovementPoints: u.MovementPoints,
			Vision:         u.Vision,
			Fuel:           u.Fuel,
			FuelPerTurn:    u.FuelPerTurn,
			SubHasDived:    u.SubHasDived,
			Ammo:           u.Ammo,
			Range:          u.Range,
			SecondWeapon:   u.SecondWeapon,
			Cost:           u.Cost,
			MovementType:   u.MovementType,
			TimesMoved:     u.TimesMoved,
			TimesCaptured:  u.TimesCaptured,
			TimesFired:     u.TimesFired,
			HitPoints:      u.HitPoints,
			CargoUnits:     u.CargoUnits,
			BeingCarried:   u.BeingCarried,
		}
		if u.Position != nil {
			unit.Position = *u.Position
		}
		turn.Units = append(turn.Units, unit)
	}
	for _, a := range t.Actions {
		turn.Actions = append(turn.Actions, ActionJSON{Kind: a.Kind(), Data: a})
	}

	return turn
}

// WriteExport encodes export to w, gzip-compressed when compress is set.
func WriteExport(w io.Writer, export ReplayExport, compress bool) error {
	if !compress {
		return json.NewEncoder(w).Encode(export)
	}

	gzWriter := gzip.NewWriter(w)
	if err := json.NewEncoder(gzWriter).Encode(export); err != nil {
		gzWriter.Close()
		return err
	}
	return gzWriter.Close()
}

// exportFileName builds a filesystem-safe name from the replay id and name.
func exportFileName(r *core.ReplayData, compress bool) string {
	name := strings.Map(func(c rune) rune {
		switch c {
		case ' ', ':', '/', '\\', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return c
	}, r.Info.Name)

	filename := fmt.Sprintf("%d_%s.json", r.Info.ID, name)
	if compress {
		filename += ".gz"
	}
	return filename
}

// exportJSON writes the replay to the output directory and returns the path.
func (b *Backend) exportJSON(r *core.ReplayData) (string, error) {
	// Ensure output directory exists
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, exportFileName(r, b.cfg.CompressOutput))
	f, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := WriteExport(f, BuildExport(r), b.cfg.CompressOutput); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return outputPath, nil
}
