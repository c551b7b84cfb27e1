package actions

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/awbwapp/replay/pkg/core"
)

func combatUnit(j gjson.Result) (core.CombatUnit, error) {
	id, err := requiredInt(j, "units_id")
	if err != nil {
		return core.CombatUnit{}, err
	}
	pos, err := requiredVec(j, "units_x", "units_y")
	if err != nil {
		return core.CombatUnit{}, err
	}
	return core.CombatUnit{
		ID:        id,
		HitPoints: j.Get("units_hit_points").Float(),
		Ammo:      int(j.Get("units_ammo").Int()),
		Position:  pos,
	}, nil
}

func decodeFire(p Payload) (core.Action, error) {
	move, err := optionalMove(p.JSON)
	if err != nil {
		return nil, err
	}
	fire := p.JSON.Get("Fire")
	combat := visible(fire, "combatInfoVision").Get("combatInfo")

	attacker, err := combatUnit(combat.Get("attacker"))
	if err != nil {
		return nil, fmt.Errorf("attacker: %w", err)
	}
	defender, err := combatUnit(combat.Get("defender"))
	if err != nil {
		return nil, fmt.Errorf("defender: %w", err)
	}

	attack := core.AttackUnitAction{Move: move, Attacker: attacker, Defender: defender}

	fire.Get("copValues").ForEach(func(_, side gjson.Result) bool {
		if id := side.Get("playerId"); id.Exists() {
			if attack.COPowerGain == nil {
				attack.COPowerGain = make(map[int]int)
			}
			attack.COPowerGain[int(id.Int())] = int(side.Get("copValue").Int())
		}
		return true
	})

	return attack, nil
}

func decodeCapture(p Payload) (core.Action, error) {
	move, err := optionalMove(p.JSON)
	if err != nil {
		return nil, err
	}
	info := p.JSON.Get("Capt.buildingInfo")

	id, err := requiredInt(info, "buildings_id")
	if err != nil {
		return nil, err
	}
	pos, err := requiredVec(info, "buildings_x", "buildings_y")
	if err != nil {
		return nil, err
	}

	capt := core.CaptureBuildingAction{
		Move:            move,
		BuildingID:      id,
		Position:        pos,
		CaptureProgress: int(info.Get("buildings_capture").Int()),
		Team:            info.Get("buildings_team").String(),
	}
	if capt.Team == "" {
		capt.Team = p.Turn.ActiveTeam
	}
	return capt, nil
}

func decodeEnd(p Payload) (core.Action, error) {
	info := p.JSON.Get("updatedInfo")

	next, err := requiredInt(info, "nextPId")
	if err != nil {
		return nil, err
	}

	end := core.EndTurnAction{
		NextPlayerID: next,
		NextDay:      int(info.Get("day").Int()),
		NextFunds:    int(visible(info, "nextFunds").Int()),
	}
	if w := info.Get("nextWeather"); w.Type == gjson.String {
		code := w.Str
		end.Weather = &core.Weather{Code: &code}
	}
	return end, nil
}

func decodePower(p Payload) (core.Action, error) {
	name, err := requiredString(p.JSON, "coName")
	if err != nil {
		return nil, err
	}
	power, err := requiredString(p.JSON, "coPower")
	if err != nil {
		return nil, err
	}

	return core.PowerAction{
		PlayerID:     playerOrActive(p, "playerID"),
		COName:       name,
		PowerName:    p.JSON.Get("powerName").String(),
		IsSuperPower: power == "S",
	}, nil
}

func decodeResign(p Payload) (core.Action, error) {
	resign := core.ResignAction{PlayerID: playerOrActive(p, "playerID")}
	if _, ok := p.Replay.Info.PlayerByID(resign.PlayerID); !ok {
		return nil, fmt.Errorf("%w: player %d not in roster", ErrMalformedAction, resign.PlayerID)
	}
	resign.NextPlayerID = int(p.JSON.Get("NextTurn.updatedInfo.nextPId").Int())
	return resign, nil
}

func decodeTag(p Payload) (core.Action, error) {
	name, err := requiredString(p.JSON, "Tag.coName")
	if err != nil {
		return nil, err
	}
	return core.TagSwapAction{PlayerID: playerOrActive(p, "playerID"), NewCOName: name}, nil
}

// playerOrActive reads a player id, defaulting to the turn's active player.
func playerOrActive(p Payload, path string) int {
	if v := p.JSON.Get(path); v.Exists() {
		return int(v.Int())
	}
	return p.Turn.ActivePlayerID
}
