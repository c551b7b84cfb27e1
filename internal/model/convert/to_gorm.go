// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/awbwapp/replay/internal/model"
	"github.com/awbwapp/replay/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

// ReplayRows is a replay flattened into table rows.
type ReplayRows struct {
	Replay      model.Replay
	Players     []model.Player
	Turns       []model.Turn
	PlayerTurns []model.PlayerTurn
	Buildings   []model.Building
	Units       []model.Unit
	Actions     []model.Action
}

// vecToPoint converts a board position to a geom.Point.
func vecToPoint(v core.Vec2) geom.Point {
	coords := geom.Coordinates{XY: geom.XY{X: float64(v.X), Y: float64(v.Y)}}
	return geom.NewPoint(coords)
}

// idsToJSON converts a list of unit ids to datatypes.JSON for DB storage.
func idsToJSON(ids []int) datatypes.JSON {
	if len(ids) == 0 {
		return datatypes.JSON("[]")
	}
	data, _ := json.Marshal(ids)
	return datatypes.JSON(data)
}

// SortedBuildings returns a turn's buildings ordered by row, then column.
func SortedBuildings(turn core.TurnData) []core.Building {
	out := make([]core.Building, 0, len(turn.Buildings))
	for _, b := range turn.Buildings {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b core.Building) int {
		if a.Position.Y != b.Position.Y {
			return a.Position.Y - b.Position.Y
		}
		return a.Position.X - b.Position.X
	})
	return out
}

// SortedUnits returns a turn's units ordered by id.
func SortedUnits(turn core.TurnData) []core.Unit {
	out := make([]core.Unit, 0, len(turn.Units))
	for _, u := range turn.Units {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b core.Unit) int { return a.ID - b.ID })
	return out
}

// CoreToReplay converts the match metadata to a GORM model.Replay.
func CoreToReplay(r *core.ReplayData) model.Replay {
	info := r.Info
	actions := 0
	for _, t := range r.Turns {
		actions += len(t.Actions)
	}
	return model.Replay{
		ID:                       uint(info.ID),
		Name:                     info.Name,
		Password:                 info.Password,
		CreatorID:                info.CreatorID,
		MapID:                    info.MapID,
		FundsPerBuilding:         info.FundsPerBuilding,
		StartingFunds:            info.StartingFunds,
		Fog:                      info.Fog,
		PowersAllowed:            info.PowersAllowed,
		OfficialGame:             info.OfficialGame,
		LeagueMatch:              info.LeagueMatch,
		TeamMatch:                info.TeamMatch,
		MatchType:                info.Type.String(),
		StartDate:                info.StartDate,
		EndDate:                  info.EndDate,
		CaptureWinBuildingNumber: info.CaptureWinBuildingNumber,
		TurnCount:                len(r.Turns),
		ActionCount:              actions,
	}
}

// CoreToPlayer converts a roster entry to a GORM model.Player.
func CoreToPlayer(replayID uint, idx int, p core.Player) model.Player {
	return model.Player{
		ReplayID:       replayID,
		RosterIndex:    idx,
		PlayerID:       p.ID,
		UserID:         p.UserID,
		TeamName:       p.TeamName,
		CountryID:      p.CountryID,
		COID:           p.COID,
		TurnOrderIndex: p.TurnOrderIndex,
	}
}

// CoreToTurn converts a turn header to a GORM model.Turn.
func CoreToTurn(replayID uint, idx int, t core.TurnData) model.Turn {
	turn := model.Turn{
		ReplayID:         replayID,
		TurnIndex:        idx,
		ActivePlayerID:   t.ActivePlayerID,
		ActiveTeam:       t.ActiveTeam,
		Day:              t.Day,
		PlayerTurnNumber: t.PlayerTurnNumber,
	}
	if t.Weather != nil {
		turn.WeatherName = t.Weather.Name
		turn.WeatherCode = t.Weather.Code
		turn.WeatherStart = t.Weather.TurnStartID
	}
	return turn
}

// CoreToBuilding converts a core.Building to a GORM model.Building.
func CoreToBuilding(replayID uint, turnIdx int, b core.Building) model.Building {
	return model.Building{
		ReplayID:    replayID,
		TurnIndex:   turnIdx,
		BuildingID:  b.ID,
		TerrainID:   b.TerrainID,
		Position:    vecToPoint(b.Position),
		Capture:     b.Capture,
		LastCapture: b.LastCapture,
	}
}

// CoreToUnit converts a core.Unit to a GORM model.Unit.
func CoreToUnit(replayID uint, turnIdx int, u core.Unit) model.Unit {
	unit := model.Unit{
		ReplayID:       replayID,
		TurnIndex:      turnIdx,
		UnitID:         u.ID,
		PlayerID:       u.PlayerID,
		UnitName:       u.UnitName,
		MovementPoints: u.MovementPoints,
		Vision:         u.Vision,
		Fuel:           u.Fuel,
		FuelPerTurn:    u.FuelPerTurn,
		SubHasDived:    u.SubHasDived,
		Ammo:           u.Ammo,
		SecondWeapon:   u.SecondWeapon,
		Cost:           u.Cost,
		MovementType:   u.MovementType,
		TimesMoved:     u.TimesMoved,
		TimesCaptured:  u.TimesCaptured,
		TimesFired:     u.TimesFired,
		HitPoints:      u.HitPoints,
		CargoUnits:     idsToJSON(u.CargoUnits),
		BeingCarried:   u.BeingCarried,
	}
	if u.Range != nil {
		short, long := u.Range.X, u.Range.Y
		unit.ShortRange = &short
		unit.LongRange = &long
	}
	if u.Position != nil {
		unit.Position = vecToPoint(*u.Position)
	}
	return unit
}

// CoreToAction converts an action to a GORM model.Action with its body as JSON.
func CoreToAction(replayID uint, turnIdx, seq int, a core.Action) (model.Action, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return model.Action{}, fmt.Errorf("error encoding %s action: %w", a.Kind(), err)
	}
	return model.Action{
		ReplayID:  replayID,
		TurnIndex: turnIdx,
		Seq:       seq,
		Kind:      a.Kind(),
		Data:      datatypes.JSON(data),
	}, nil
}

// CoreToRows flattens a whole replay into table rows.
func CoreToRows(r *core.ReplayData) (ReplayRows, error) {
	rows := ReplayRows{Replay: CoreToReplay(r)}
	id := rows.Replay.ID

	for i, p := range r.Info.Players {
		rows.Players = append(rows.Players, CoreToPlayer(id, i, p))
	}

	for ti, t := range r.Turns {
		rows.Turns = append(rows.Turns, CoreToTurn(id, ti, t))
		for pi, pt := range t.Players {
			rows.PlayerTurns = append(rows.PlayerTurns, model.PlayerTurn{
				ReplayID:    id,
				TurnIndex:   ti,
				RosterIndex: pi,
				PlayerID:    pt.ID,
				Funds:       pt.Funds,
				Eliminated:  pt.Eliminated,
				COPower:     pt.COPower,
				COPowerOn:   pt.COPowerOn,
			})
		}
		for _, b := range SortedBuildings(t) {
			rows.Buildings = append(rows.Buildings, CoreToBuilding(id, ti, b))
		}
		for _, u := range SortedUnits(t) {
			rows.Units = append(rows.Units, CoreToUnit(id, ti, u))
		}
		for seq, a := range t.Actions {
			action, err := CoreToAction(id, ti, seq, a)
			if err != nil {
				return ReplayRows{}, fmt.Errorf("turn %d: %w", ti, err)
			}
			rows.Actions = append(rows.Actions, action)
		}
	}

	return rows, nil
}
