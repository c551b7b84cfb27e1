package actions

import (
	"github.com/tidwall/gjson"

	"github.com/awbwapp/replay/pkg/core"
)

func decodeMove(p Payload) (core.Action, error) {
	return decodeMoveBody(p.JSON)
}

func decodeMoveBody(j gjson.Result) (core.MoveUnitAction, error) {
	unit, err := decodeUnit(visible(j, "unit"))
	if err != nil {
		return core.MoveUnitAction{}, err
	}

	move := core.MoveUnitAction{
		UnitID:   unit.ID,
		Unit:     &unit,
		Distance: int(j.Get("dist").Int()),
		Trapped:  flag(j.Get("trapped")),
	}

	for _, node := range visible(j, "paths").Array() {
		move.Path = append(move.Path, core.PathNode{
			Position:    core.Vec2{X: int(node.Get("x").Int()), Y: int(node.Get("y").Int())},
			UnitVisible: flag(node.Get("unit_visible")),
		})
	}

	return move, nil
}

func decodeBuild(p Payload) (core.Action, error) {
	unit, err := decodeUnit(visible(p.JSON, "newUnit"))
	if err != nil {
		return nil, err
	}

	build := core.BuildUnitAction{NewUnit: unit}
	if funds := visible(p.JSON, "playerFunds"); funds.Exists() {
		v := int(funds.Int())
		build.PlayerFunds = &v
	}
	return build, nil
}

func decodeLoad(p Payload) (core.Action, error) {
	move, err := optionalMove(p.JSON)
	if err != nil {
		return nil, err
	}
	body := p.JSON.Get("Load")

	loaded, err := intValue(visible(body, "loaded"), "loaded")
	if err != nil {
		return nil, err
	}
	transport, err := intValue(visible(body, "transport"), "transport")
	if err != nil {
		return nil, err
	}

	return core.LoadUnitAction{Move: move, LoadedID: loaded, TransportID: transport}, nil
}

func decodeUnload(p Payload) (core.Action, error) {
	move, err := optionalMove(p.JSON)
	if err != nil {
		return nil, err
	}
	body := p.JSON.Get("Unload")

	transport, err := requiredInt(body, "transportID")
	if err != nil {
		return nil, err
	}
	unit := visible(body, "unit")
	id, err := requiredInt(unit, "units_id")
	if err != nil {
		return nil, err
	}
	pos, err := requiredVec(unit, "units_x", "units_y")
	if err != nil {
		return nil, err
	}

	return core.UnloadUnitAction{Move: move, TransportID: transport, UnloadedID: id, Position: pos}, nil
}

func decodeSupply(p Payload) (core.Action, error) {
	move, err := optionalMove(p.JSON)
	if err != nil {
		return nil, err
	}
	body := p.JSON.Get("Supply")

	supplier, err := intValue(visible(body, "unit"), "unit")
	if err != nil {
		return nil, err
	}

	supply := core.SupplyUnitAction{Move: move, SupplyingUnitID: supplier}
	for _, id := range visible(body, "rows").Array() {
		supply.Supplied = append(supply.Supplied, int(id.Int()))
	}
	return supply, nil
}

func decodeRepair(p Payload) (core.Action, error) {
	move, err := optionalMove(p.JSON)
	if err != nil {
		return nil, err
	}
	body := p.JSON.Get("Repair")

	repairer, err := intValue(visible(body, "unit"), "unit")
	if err != nil {
		return nil, err
	}
	repaired := visible(body, "repaired")
	id, err := requiredInt(repaired, "units_id")
	if err != nil {
		return nil, err
	}

	return core.RepairUnitAction{
		Move:            move,
		RepairingUnitID: repairer,
		RepairedUnitID:  id,
		RepairedHP:      repaired.Get("units_hit_points").Float(),
	}, nil
}

func decodeJoin(p Payload) (core.Action, error) {
	move, err := optionalMove(p.JSON)
	if err != nil {
		return nil, err
	}
	body := p.JSON.Get("Join")

	joining, err := intValue(visible(body, "joinID"), "joinID")
	if err != nil {
		return nil, err
	}
	joined := visible(body, "unit")
	id, err := requiredInt(joined, "units_id")
	if err != nil {
		return nil, err
	}

	return core.JoinUnitAction{
		Move:          move,
		JoiningUnitID: joining,
		JoinedUnitID:  id,
		NewHP:         joined.Get("units_hit_points").Float(),
		FundsGained:   int(visible(body, "newFunds").Int()),
	}, nil
}

func decodeDelete(p Payload) (core.Action, error) {
	id, err := intValue(visible(p.JSON.Get("Delete"), "unitId"), "unitId")
	if err != nil {
		return nil, err
	}
	return core.DeleteUnitAction{UnitID: id}, nil
}

func decodeHide(p Payload) (core.Action, error) {
	move, id, err := hideBody(p.JSON, "Hide")
	if err != nil {
		return nil, err
	}
	return core.HideUnitAction{Move: move, UnitID: id}, nil
}

func decodeUnhide(p Payload) (core.Action, error) {
	move, id, err := hideBody(p.JSON, "Unhide")
	if err != nil {
		return nil, err
	}
	return core.UnhideUnitAction{Move: move, UnitID: id}, nil
}

func hideBody(j gjson.Result, key string) (*core.MoveUnitAction, int, error) {
	move, err := optionalMove(j)
	if err != nil {
		return nil, 0, err
	}
	id, err := intValue(visible(j.Get(key), "unitId"), "unitId")
	if err != nil {
		return nil, 0, err
	}
	return move, id, nil
}
