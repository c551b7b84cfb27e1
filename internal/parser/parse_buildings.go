package parser

import (
	"github.com/awbwapp/replay/pkg/core"
)

// readBuildings decodes the buildings array of a turn into a map keyed by
// position. Buildings carry no cross-turn checks; each turn is a full snapshot.
func (r *stateReader) readBuildings(turn *core.TurnData) error {
	c := r.c

	count, err := c.ReadArrayHeader()
	if err != nil {
		return err
	}

	turn.Buildings = make(map[core.Vec2]core.Building, count)

	for i := 0; i < count; i++ {
		// The array index carries nothing the building does not.
		if _, err := c.ReadInt(); err != nil {
			return err
		}

		start := c.Pos()
		fields, err := c.ReadObjectHeader(classBuilding)
		if err != nil {
			return err
		}

		var b core.Building
		for j := 0; j < fields; j++ {
			key, err := c.ReadRequiredString()
			if err != nil {
				return err
			}
			if err := r.readBuildingField(key, &b); err != nil {
				return withField(err, "buildings."+key)
			}
		}

		if _, ok := turn.Buildings[b.Position]; ok {
			return c.failAt(start, ErrDuplicateBuilding, "building %d at (%d, %d)", b.ID, b.Position.X, b.Position.Y)
		}
		turn.Buildings[b.Position] = b

		if err := c.ExpectByte('}'); err != nil {
			return err
		}
	}

	return c.ExpectByte('}')
}

func (r *stateReader) readBuildingField(key string, b *core.Building) error {
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

	switch key {
	case "id":
		return set(&b.ID)
	case "terrain_id":
		return set(&b.TerrainID)
	case "x":
		return set(&b.Position.X)
	case "y":
		return set(&b.Position.Y)
	case "capture":
		return set(&b.Capture)
	case "last_capture":
		return set(&b.LastCapture)
	case "games_id":
		_, err := c.ReadInt()
		return err
	case "last_updated":
		_, err := c.ReadString()
		return err
	default:
		return c.failAt(start, ErrUnknownField, "building field %q", key)
	}
}
