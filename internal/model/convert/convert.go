package convert

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/awbwapp/replay/internal/model"
	"github.com/awbwapp/replay/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// actionFactories maps an action kind to a constructor for its body.
var actionFactories = map[string]func() core.Action{
	core.ActionEmpty:   func() core.Action { return &core.EmptyAction{} },
	core.ActionMove:    func() core.Action { return &core.MoveUnitAction{} },
	core.ActionFire:    func() core.Action { return &core.AttackUnitAction{} },
	core.ActionCapture: func() core.Action { return &core.CaptureBuildingAction{} },
	core.ActionBuild:   func() core.Action { return &core.BuildUnitAction{} },
	core.ActionEnd:     func() core.Action { return &core.EndTurnAction{} },
	core.ActionPower:   func() core.Action { return &core.PowerAction{} },
	core.ActionLoad:    func() core.Action { return &core.LoadUnitAction{} },
	core.ActionUnload:  func() core.Action { return &core.UnloadUnitAction{} },
	core.ActionSupply:  func() core.Action { return &core.SupplyUnitAction{} },
	core.ActionRepair:  func() core.Action { return &core.RepairUnitAction{} },
	core.ActionJoin:    func() core.Action { return &core.JoinUnitAction{} },
	core.ActionDelete:  func() core.Action { return &core.DeleteUnitAction{} },
	core.ActionHide:    func() core.Action { return &core.HideUnitAction{} },
	core.ActionUnhide:  func() core.Action { return &core.UnhideUnitAction{} },
	core.ActionResign:  func() core.Action { return &core.ResignAction{} },
	core.ActionTag:     func() core.Action { return &core.TagSwapAction{} },
}

// pointToVec converts a geom.Point back to a board position.
func pointToVec(p geom.Point) core.Vec2 {
	coords, ok := p.Coordinates()
	if !ok {
		return core.Vec2{}
	}
	return core.Vec2{X: int(math.Round(coords.XY.X)), Y: int(math.Round(coords.XY.Y))}
}

func parseMatchType(s string) core.MatchType {
	if s == core.MatchLeague.String() {
		return core.MatchLeague
	}
	return core.MatchNormal
}

// ActionToCore decodes a stored action body back into its typed value.
func ActionToCore(a model.Action) (core.Action, error) {
	factory, ok := actionFactories[a.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown action kind %q", a.Kind)
	}
	ptr := factory()
	if len(a.Data) > 0 {
		if err := json.Unmarshal(a.Data, ptr); err != nil {
			return nil, fmt.Errorf("error decoding %s action: %w", a.Kind, err)
		}
	}
	return deref(ptr), nil
}

// deref returns the value form of a freshly decoded action so stored and
// decoded replays compare equal.
func deref(a core.Action) core.Action {
	switch v := a.(type) {
	case *core.EmptyAction:
		return *v
	case *core.MoveUnitAction:
		return *v
	case *core.AttackUnitAction:
		return *v
	case *core.CaptureBuildingAction:
		return *v
	case *core.BuildUnitAction:
		return *v
	case *core.EndTurnAction:
		return *v
	case *core.PowerAction:
		return *v
	case *core.LoadUnitAction:
		return *v
	case *core.UnloadUnitAction:
		return *v
	case *core.SupplyUnitAction:
		return *v
	case *core.RepairUnitAction:
		return *v
	case *core.JoinUnitAction:
		return *v
	case *core.DeleteUnitAction:
		return *v
	case *core.HideUnitAction:
		return *v
	case *core.UnhideUnitAction:
		return *v
	case *core.ResignAction:
		return *v
	case *core.TagSwapAction:
		return *v
	}
	return a
}

// UnitToCore converts a GORM model.Unit to a core.Unit.
func UnitToCore(u model.Unit) core.Unit {
	unit := core.Unit{
		ID:             u.UnitID,
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
		BeingCarried:   u.BeingCarried,
	}
	if u.ShortRange != nil || u.LongRange != nil {
		unit.Range = &core.Vec2{}
		if u.ShortRange != nil {
			unit.Range.X = *u.ShortRange
		}
		if u.LongRange != nil {
			unit.Range.Y = *u.LongRange
		}
	}
	pos := pointToVec(u.Position)
	unit.Position = &pos
	if len(u.CargoUnits) > 0 {
		var cargo []int
		_ = json.Unmarshal(u.CargoUnits, &cargo)
		if len(cargo) > 0 {
			unit.CargoUnits = cargo
		}
	}
	return unit
}

// RowsToCore rebuilds a replay from its table rows. Rows may arrive in any
// order; turn indexes decide placement.
func RowsToCore(rows ReplayRows) (*core.ReplayData, error) {
	r := rows.Replay
	replay := &core.ReplayData{
		Info: core.ReplayInfo{
			ID:                       int(r.ID),
			Name:                     r.Name,
			Password:                 r.Password,
			CreatorID:                r.CreatorID,
			MapID:                    r.MapID,
			FundsPerBuilding:         r.FundsPerBuilding,
			StartingFunds:            r.StartingFunds,
			Fog:                      r.Fog,
			PowersAllowed:            r.PowersAllowed,
			OfficialGame:             r.OfficialGame,
			LeagueMatch:              r.LeagueMatch,
			TeamMatch:                r.TeamMatch,
			Type:                     parseMatchType(r.MatchType),
			StartDate:                r.StartDate,
			EndDate:                  r.EndDate,
			CaptureWinBuildingNumber: r.CaptureWinBuildingNumber,
			Players:                  make([]core.Player, len(rows.Players)),
			PlayerIDs:                make(map[int]int, len(rows.Players)),
		},
		Turns: make([]core.TurnData, len(rows.Turns)),
	}

	for _, p := range rows.Players {
		if p.RosterIndex < 0 || p.RosterIndex >= len(rows.Players) {
			return nil, fmt.Errorf("player roster index %d out of range", p.RosterIndex)
		}
		replay.Info.Players[p.RosterIndex] = core.Player{
			ID:             p.PlayerID,
			UserID:         p.UserID,
			TeamName:       p.TeamName,
			CountryID:      p.CountryID,
			COID:           p.COID,
			TurnOrderIndex: p.TurnOrderIndex,
		}
		replay.Info.PlayerIDs[p.PlayerID] = p.RosterIndex
	}

	turn := func(idx int) (*core.TurnData, error) {
		if idx < 0 || idx >= len(replay.Turns) {
			return nil, fmt.Errorf("turn index %d out of range", idx)
		}
		return &replay.Turns[idx], nil
	}

	for _, t := range rows.Turns {
		dst, err := turn(t.TurnIndex)
		if err != nil {
			return nil, err
		}
		*dst = core.TurnData{
			ActivePlayerID:   t.ActivePlayerID,
			ActiveTeam:       t.ActiveTeam,
			Day:              t.Day,
			PlayerTurnNumber: t.PlayerTurnNumber,
			Players:          make([]core.PlayerTurn, len(rows.Players)),
			Buildings:        make(map[core.Vec2]core.Building),
			Units:            make(map[int]core.Unit),
		}
		if t.WeatherName != nil || t.WeatherCode != nil || t.WeatherStart != nil {
			dst.Weather = &core.Weather{Name: t.WeatherName, Code: t.WeatherCode, TurnStartID: t.WeatherStart}
		}
	}

	for _, pt := range rows.PlayerTurns {
		dst, err := turn(pt.TurnIndex)
		if err != nil {
			return nil, err
		}
		if pt.RosterIndex < 0 || pt.RosterIndex >= len(dst.Players) {
			return nil, fmt.Errorf("player turn roster index %d out of range", pt.RosterIndex)
		}
		dst.Players[pt.RosterIndex] = core.PlayerTurn{
			ID:         pt.PlayerID,
			Funds:      pt.Funds,
			Eliminated: pt.Eliminated,
			COPower:    pt.COPower,
			COPowerOn:  pt.COPowerOn,
		}
	}

	for _, b := range rows.Buildings {
		dst, err := turn(b.TurnIndex)
		if err != nil {
			return nil, err
		}
		pos := pointToVec(b.Position)
		dst.Buildings[pos] = core.Building{
			ID:          b.BuildingID,
			TerrainID:   b.TerrainID,
			Position:    pos,
			Capture:     b.Capture,
			LastCapture: b.LastCapture,
		}
	}

	for _, u := range rows.Units {
		dst, err := turn(u.TurnIndex)
		if err != nil {
			return nil, err
		}
		dst.Units[u.UnitID] = UnitToCore(u)
	}

	for _, a := range rows.Actions {
		dst, err := turn(a.TurnIndex)
		if err != nil {
			return nil, err
		}
		action, err := ActionToCore(a)
		if err != nil {
			return nil, fmt.Errorf("turn %d action %d: %w", a.TurnIndex, a.Seq, err)
		}
		for len(dst.Actions) <= a.Seq {
			dst.Actions = append(dst.Actions, nil)
		}
		dst.Actions[a.Seq] = action
	}

	return replay, nil
}
