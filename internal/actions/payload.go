package actions

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/awbwapp/replay/pkg/core"
)

// visible returns the value at path as seen by every player. Fogged replays
// nest per-viewer copies under the path with the shared copy at "global";
// unfogged ones store the value directly.
func visible(j gjson.Result, path string) gjson.Result {
	v := j.Get(path)
	if v.IsObject() {
		if g := v.Get("global"); g.Exists() {
			return g
		}
	}
	return v
}

func required(j gjson.Result, path string) (gjson.Result, error) {
	v := j.Get(path)
	if !v.Exists() || v.Type == gjson.Null {
		return v, fmt.Errorf("%w: missing %q", ErrMalformedAction, path)
	}
	return v, nil
}

func requiredInt(j gjson.Result, path string) (int, error) {
	v, err := required(j, path)
	if err != nil {
		return 0, err
	}
	return int(v.Int()), nil
}

func requiredString(j gjson.Result, path string) (string, error) {
	v, err := required(j, path)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

func requiredVec(j gjson.Result, xPath, yPath string) (core.Vec2, error) {
	x, err := requiredInt(j, xPath)
	if err != nil {
		return core.Vec2{}, err
	}
	y, err := requiredInt(j, yPath)
	if err != nil {
		return core.Vec2{}, err
	}
	return core.Vec2{X: x, Y: y}, nil
}

// flag reads the "Y"/"N" flags the source system uses, as well as JSON booleans.
func flag(v gjson.Result) bool {
	switch v.Type {
	case gjson.True:
		return true
	case gjson.String:
		return v.Str == "Y" || v.Str == "y"
	case gjson.Number:
		return v.Int() != 0
	default:
		return false
	}
}

// decodeUnit reads a unit stored with the "units_" prefixed keys of the state stream.
func decodeUnit(j gjson.Result) (core.Unit, error) {
	id, err := requiredInt(j, "units_id")
	if err != nil {
		return core.Unit{}, err
	}
	pos, err := requiredVec(j, "units_x", "units_y")
	if err != nil {
		return core.Unit{}, err
	}

	u := core.Unit{
		ID:             id,
		PlayerID:       int(j.Get("units_players_id").Int()),
		UnitName:       j.Get("units_name").String(),
		MovementPoints: int(j.Get("units_movement_points").Int()),
		Vision:         int(j.Get("units_vision").Int()),
		Fuel:           int(j.Get("units_fuel").Int()),
		FuelPerTurn:    int(j.Get("units_fuel_per_turn").Int()),
		SubHasDived:    flag(j.Get("units_sub_dive")),
		Ammo:           int(j.Get("units_ammo").Int()),
		SecondWeapon:   flag(j.Get("units_second_weapon")),
		Cost:           int(j.Get("units_cost").Int()),
		MovementType:   j.Get("units_movement_type").String(),
		Position:       &pos,
		TimesMoved:     int(j.Get("units_moved").Int()),
		TimesCaptured:  int(j.Get("units_capture").Int()),
		TimesFired:     int(j.Get("units_fired").Int()),
		HitPoints:      j.Get("units_hit_points").Float(),
		BeingCarried:   flag(j.Get("units_carried")),
	}

	short, long := j.Get("units_short_range"), j.Get("units_long_range")
	if short.Exists() || long.Exists() {
		u.Range = &core.Vec2{X: int(short.Int()), Y: int(long.Int())}
	}

	for _, key := range []string{"units_cargo1_units_id", "units_cargo2_units_id"} {
		if cargo := j.Get(key).Int(); cargo != 0 {
			u.CargoUnits = append(u.CargoUnits, int(cargo))
		}
	}

	return u, nil
}

// optionalMove decodes the movement that precedes an action. The source
// writes an empty array when the unit did not move.
func optionalMove(j gjson.Result) (*core.MoveUnitAction, error) {
	m := j.Get("Move")
	if !m.IsObject() {
		return nil, nil
	}
	move, err := decodeMoveBody(m)
	if err != nil {
		return nil, fmt.Errorf("move: %w", err)
	}
	return &move, nil
}

// intValue reads v, which the caller has already looked up under name.
func intValue(v gjson.Result, name string) (int, error) {
	if !v.Exists() || v.Type == gjson.Null {
		return 0, fmt.Errorf("%w: missing %q", ErrMalformedAction, name)
	}
	return int(v.Int()), nil
}
