package parser

import (
	"github.com/awbwapp/replay/pkg/core"
)

// readUnits decodes the units array of a turn into a map keyed by unit id.
func (r *stateReader) readUnits(turn *core.TurnData) error {
	c := r.c

	count, err := c.ReadArrayHeader()
	if err != nil {
		return err
	}

	turn.Units = make(map[int]core.Unit, count)

	for i := 0; i < count; i++ {
		if _, err := c.ReadInt(); err != nil {
			return err
		}

		start := c.Pos()
		fields, err := c.ReadObjectHeader(classUnit)
		if err != nil {
			return err
		}

		var u core.Unit
		for j := 0; j < fields; j++ {
			key, err := c.ReadRequiredString()
			if err != nil {
				return err
			}
			if err := r.readUnitField(key, &u); err != nil {
				return withField(err, "units."+key)
			}
		}

		if u.Position == nil {
			return c.failAt(start, ErrMissingUnitPosition, "unit %d", u.ID)
		}
		if _, ok := turn.Units[u.ID]; ok {
			return c.failAt(start, ErrDuplicateUnit, "unit %d", u.ID)
		}
		turn.Units[u.ID] = u

		if err := c.ExpectByte('}'); err != nil {
			return err
		}
	}

	return c.ExpectByte('}')
}

func (r *stateReader) readUnitField(key string, u *core.Unit) error {
	c := r.c
	start := c.Pos()

	set := func(dst *int) error {
		v, err := c.ReadInt()
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
	setBool := func(dst *bool) error {
		v, err := c.ReadBool()
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
	setString := func(dst *string) error {
		v, err := c.ReadRequiredString()
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
	// Range and position arrive as separate halves, in either order.
	half := func(dst **core.Vec2, x bool) error {
		v, err := c.ReadInt()
		if err != nil {
			return err
		}
		if *dst == nil {
			*dst = &core.Vec2{}
		}
		if x {
			(*dst).X = v
		} else {
			(*dst).Y = v
		}
		return nil
	}
	cargo := func() error {
		v, err := c.ReadInt()
		if err != nil {
			return err
		}
		if v != 0 {
			u.CargoUnits = append(u.CargoUnits, v)
		}
		return nil
	}

	switch key {
	case "id":
		return set(&u.ID)
	case "players_id":
		return set(&u.PlayerID)
	case "name":
		return setString(&u.UnitName)
	case "movement_points":
		return set(&u.MovementPoints)
	case "vision":
		return set(&u.Vision)
	case "fuel":
		return set(&u.Fuel)
	case "fuel_per_turn":
		return set(&u.FuelPerTurn)
	case "sub_dive":
		return setBool(&u.SubHasDived)
	case "ammo":
		return set(&u.Ammo)
	case "short_range":
		return half(&u.Range, true)
	case "long_range":
		return half(&u.Range, false)
	case "second_weapon":
		return setBool(&u.SecondWeapon)
	case "cost":
		return set(&u.Cost)
	case "movement_type":
		return setString(&u.MovementType)
	case "x":
		return half(&u.Position, true)
	case "y":
		return half(&u.Position, false)
	case "moved":
		return set(&u.TimesMoved)
	case "capture":
		return set(&u.TimesCaptured)
	case "fired":
		return set(&u.TimesFired)
	case "hit_points":
		v, err := c.ReadFloat()
		if err != nil {
			return err
		}
		u.HitPoints = v
		return nil
	case "cargo1_units_id", "cargo2_units_id":
		return cargo()
	case "carried":
		return setBool(&u.BeingCarried)
	case "games_id":
		_, err := c.ReadInt()
		return err
	case "symbol":
		_, err := c.ReadString()
		return err
	default:
		return c.failAt(start, ErrUnknownField, "unit field %q", key)
	}
}
