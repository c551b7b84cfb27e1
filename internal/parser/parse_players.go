package parser

import (
	"github.com/awbwapp/replay/pkg/core"
)

// readPlayers decodes the players array of a turn. The first turn allocates
// the roster; later turns must declare the same number of players and repeat
// each player's identity unchanged.
func (r *stateReader) readPlayers(first bool, turn *core.TurnData) error {
	c := r.c
	info := &r.replay.Info

	start := c.Pos()
	count, err := c.ReadArrayHeader()
	if err != nil {
		return err
	}

	if first {
		info.Players = make([]core.Player, count)
		info.PlayerIDs = make(map[int]int, count)
	} else if len(info.Players) != count {
		return c.failAt(start, ErrPlayerCountChanged, "roster has %d players, turn declares %d", len(info.Players), count)
	}

	turn.Players = make([]core.PlayerTurn, count)
	seen := make([]bool, count)

	for i := 0; i < count; i++ {
		idxPos := c.Pos()
		idx, err := c.ReadInt()
		if err != nil {
			return err
		}
		if idx < 0 || idx >= count {
			return c.failAt(idxPos, ErrPlayerIndexOutOfRange, "index %d, roster size %d", idx, count)
		}
		if seen[idx] {
			return c.failAt(idxPos, ErrDuplicatePlayer, "roster index %d repeated", idx)
		}
		seen[idx] = true

		fields, err := c.ReadObjectHeader(classPlayer)
		if err != nil {
			return err
		}

		player := &info.Players[idx]
		state := &turn.Players[idx]

		for j := 0; j < fields; j++ {
			key, err := c.ReadRequiredString()
			if err != nil {
				return err
			}
			if err := r.readPlayerField(key, first, idx, player, state); err != nil {
				return withField(err, "players."+key)
			}
		}

		if err := c.ExpectByte('}'); err != nil {
			return err
		}
	}

	return c.ExpectByte('}')
}

func (r *stateReader) readPlayerField(key string, first bool, idx int, player *core.Player, state *core.PlayerTurn) error {
	c := r.c
	start := c.Pos()

	identity := func(dst *int) error {
		v, err := c.ReadInt()
		if err != nil {
			return err
		}
		return record(first, ErrInconsistentPlayerField, start, dst, v)
	}

	switch key {
	case "id":
		v, err := c.ReadInt()
		if err != nil {
			return err
		}
		if err := record(first, ErrInconsistentPlayerField, start, &player.ID, v); err != nil {
			return err
		}
		state.ID = v
		if first {
			if prev, ok := r.replay.Info.PlayerIDs[v]; ok && prev != idx {
				return c.failAt(start, ErrDuplicatePlayer, "player id %d at roster index %d and %d", v, prev, idx)
			}
			r.replay.Info.PlayerIDs[v] = idx
		}
		return nil
	case "users_id":
		return identity(&player.UserID)
	case "countries_id":
		return identity(&player.CountryID)
	case "co_id":
		return identity(&player.COID)
	case "order":
		return identity(&player.TurnOrderIndex)
	case "team":
		v, err := c.ReadRequiredString()
		if err != nil {
			return err
		}
		return record(first, ErrInconsistentPlayerField, start, &player.TeamName, v)

	case "funds":
		v, err := c.ReadInt()
		if err != nil {
			return err
		}
		state.Funds = v
		return nil
	case "eliminated":
		v, err := c.ReadBool()
		if err != nil {
			return err
		}
		state.Eliminated = v
		return nil
	case "co_power":
		v, err := c.ReadInt()
		if err != nil {
			return err
		}
		state.COPower = v
		return nil
	case "co_power_on":
		v, err := c.ReadString()
		if err != nil {
			return err
		}
		state.COPowerOn = v
		return nil

	case "turn", "email", "last_read", "last_read_broadcasts", "emailpress", "signature",
		"accept_draw", "co_image", "turn_start", "tags_co_id", "tags_co_power",
		"tags_co_max_power", "tags_co_max_spower", "interface", "uniq_id":
		v, err := c.ReadString()
		if err != nil {
			return err
		}
		r.logger.Debug("Replay contained known but unused player string field", "field", key, "value", fmtPtr(v))
		return nil
	case "boot_interval", "co_max_power", "co_max_spower", "aet_count", "turn_clock":
		v, err := c.ReadInt()
		if err != nil {
			return err
		}
		r.logger.Debug("Replay contained known but unused player int field", "field", key, "value", v)
		return nil
	case "games_id":
		_, err := c.ReadInt()
		return err

	default:
		return c.failAt(start, ErrUnknownField, "player field %q", key)
	}
}
