package parser

import (
	"fmt"
	"log/slog"

	"github.com/awbwapp/replay/pkg/core"
)

// Serialized class names of the state stream objects.
const (
	classGame     = "awbwGame"
	classPlayer   = "awbwPlayer"
	classBuilding = "awbwBuilding"
	classUnit     = "awbwUnit"
)

const (
	// captureWinDisabled and above means the match has no capture-win condition.
	captureWinDisabled = 1000
	// captureWinOffset is added to the stored building count.
	captureWinOffset = 2
)

// stateReader decodes the state stream: one awbwGame object per turn.
type stateReader struct {
	c      *Cursor
	replay *core.ReplayData
	logger *slog.Logger
}

// readTurn decodes one turn record and appends it to the replay. first is true
// only for the first record; it allocates the roster and records the match
// fields that every later record is checked against.
func (r *stateReader) readTurn(first bool) error {
	count, err := r.c.ReadObjectHeader(classGame)
	if err != nil {
		return err
	}

	turn := core.TurnData{}

	for i := 0; i < count; i++ {
		key, err := r.c.ReadRequiredString()
		if err != nil {
			return err
		}
		if err := r.readTurnField(key, first, &turn); err != nil {
			return withField(err, key)
		}
	}

	end := r.c.Pos()
	if err := r.c.ExpectByte('}'); err != nil {
		return err
	}

	player, ok := r.replay.Info.PlayerByID(turn.ActivePlayerID)
	if !ok {
		return &DecodeError{
			Offset: end,
			Field:  "turn",
			Detail: fmt.Sprintf("player id %d", turn.ActivePlayerID),
			Err:    ErrUnknownActivePlayer,
		}
	}
	turn.ActiveTeam = player.TeamName

	r.replay.Turns = append(r.replay.Turns, turn)
	return nil
}

func (r *stateReader) readTurnField(key string, first bool, turn *core.TurnData) error {
	c := r.c
	info := &r.replay.Info
	start := c.Pos()

	matchInt := func(dst *int) error {
		v, err := c.ReadInt()
		if err != nil {
			return err
		}
		return record(first, ErrInconsistentMatchField, start, dst, v)
	}
	matchBool := func(dst *bool) error {
		v, err := c.ReadBool()
		if err != nil {
			return err
		}
		return record(first, ErrInconsistentMatchField, start, dst, v)
	}
	matchString := func(dst **string) error {
		v, err := c.ReadString()
		if err != nil {
			return err
		}
		return recordPtr(first, ErrInconsistentMatchField, start, dst, v)
	}
	weather := func() *core.Weather {
		if turn.Weather == nil {
			turn.Weather = &core.Weather{}
		}
		return turn.Weather
	}

	switch key {
	case "players":
		return r.readPlayers(first, turn)
	case "buildings":
		return r.readBuildings(turn)
	case "units":
		return r.readUnits(turn)

	case "id":
		return matchInt(&info.ID)
	case "name":
		v, err := c.ReadRequiredString()
		if err != nil {
			return err
		}
		return record(first, ErrInconsistentMatchField, start, &info.Name, v)
	case "password":
		return matchString(&info.Password)
	case "creator":
		return matchInt(&info.CreatorID)
	case "maps_id":
		return matchInt(&info.MapID)
	case "funds":
		return matchInt(&info.FundsPerBuilding)
	case "starting_funds":
		return matchInt(&info.StartingFunds)
	case "fog":
		return matchBool(&info.Fog)
	case "use_powers":
		return matchBool(&info.PowersAllowed)
	case "official":
		return matchBool(&info.OfficialGame)
	case "league":
		return matchString(&info.LeagueMatch)
	case "team":
		return matchBool(&info.TeamMatch)
	case "start_date":
		return matchString(&info.StartDate)
	case "end_date":
		return matchString(&info.EndDate)
	case "type":
		v, err := c.ReadString()
		if err != nil {
			return err
		}
		t, err := parseMatchType(v, start)
		if err != nil {
			return err
		}
		return record(first, ErrInconsistentMatchField, start, &info.Type, t)
	case "capture_win":
		v, err := c.ReadInt()
		if err != nil {
			return err
		}
		var buildings *int
		if v < captureWinDisabled {
			n := v + captureWinOffset
			buildings = &n
		}
		return recordPtr(first, ErrInconsistentMatchField, start, &info.CaptureWinBuildingNumber, buildings)

	case "turn":
		v, err := c.ReadInt()
		if err != nil {
			return err
		}
		turn.ActivePlayerID = v
		return nil
	case "day":
		v, err := c.ReadInt()
		if err != nil {
			return err
		}
		turn.Day = v
		return nil
	case "weather_type":
		v, err := c.ReadString()
		if err != nil {
			return err
		}
		weather().Name = v
		return nil
	case "weather_code":
		v, err := c.ReadString()
		if err != nil {
			return err
		}
		weather().Code = v
		return nil
	case "weather_start":
		v, err := c.ReadNullableInt()
		if err != nil {
			return err
		}
		weather().TurnStartID = v
		return nil

	// Read to keep the cursor aligned; their meaning is unknown or unused.
	case "win_condition", "active", "comment", "aet_date", "activity_date":
		_, err := c.ReadString()
		return err
	case "boot_interval", "min_rating", "aet_interval":
		_, err := c.ReadInt()
		return err
	case "max_rating":
		_, err := c.ReadNullableInt()
		return err
	case "timers_initial", "timers_increment", "timers_max_turn":
		v, err := c.ReadInt()
		if err != nil {
			return err
		}
		r.logger.Debug("Replay contained known but unused turn field", "field", key, "value", v)
		return nil

	default:
		return c.failAt(start, ErrUnknownField, "turn field %q", key)
	}
}

func parseMatchType(v *string, offset int) (core.MatchType, error) {
	if v != nil {
		switch *v {
		case "L":
			return core.MatchLeague, nil
		case "N":
			return core.MatchNormal, nil
		}
	}
	return 0, &DecodeError{Offset: offset, Detail: fmtPtr(v), Err: ErrUnknownMatchType}
}

// record stores v in dst. On any record but the first it instead requires v to
// equal what was stored.
func record[T comparable](first bool, sentinel error, offset int, dst *T, v T) error {
	if !first && *dst != v {
		return &DecodeError{
			Offset: offset,
			Detail: fmt.Sprintf("was %v, now %v", *dst, v),
			Err:    sentinel,
		}
	}
	*dst = v
	return nil
}

// recordPtr is record for optional values, comparing what they point to.
func recordPtr[T comparable](first bool, sentinel error, offset int, dst **T, v *T) error {
	if !first && !equalPtr(*dst, v) {
		return &DecodeError{
			Offset: offset,
			Detail: fmt.Sprintf("was %s, now %s", fmtPtr(*dst), fmtPtr(v)),
			Err:    sentinel,
		}
	}
	*dst = v
	return nil
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func fmtPtr[T any](v *T) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%q", fmt.Sprint(*v))
}
