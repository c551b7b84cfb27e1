package parser

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/awbwapp/replay/pkg/core"
)

// emptyActionPayload is what the source system writes for a slot with no action.
const emptyActionPayload = "Array"

// actionReader decodes the action stream: one batch per turn, each prefixed by
// the (player, day) pair that identifies the turn it belongs to.
type actionReader struct {
	c       *Cursor
	replay  *core.ReplayData
	decoder ActionDecoder
	logger  *slog.Logger

	// filled holds the indices of turns that already received a batch.
	filled map[int]bool
}

// readHeaderInt reads <prefix><digits>; as used by the batch prefix.
func (r *actionReader) readHeaderInt(prefix string) (int, error) {
	c := r.c
	start := c.Pos()
	if err := c.Expect(prefix); err != nil {
		return 0, err
	}
	s, err := c.readUntil(';', ErrMalformedActionHeader)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, c.failAt(start, ErrMalformedActionHeader, "%s%q", prefix, s)
	}
	return v, nil
}

// expectHeaderInt reads an integer that must equal want.
func (r *actionReader) expectHeaderInt(want int, what string) error {
	start := r.c.Pos()
	v, err := r.c.ReadInt()
	if err != nil {
		return err
	}
	if v != want {
		return r.c.failAt(start, ErrMalformedActionHeader, "%s: expected %d, found %d", what, want, v)
	}
	return nil
}

func (r *actionReader) findTurn(playerID, day int) (int, bool) {
	for i := range r.replay.Turns {
		t := &r.replay.Turns[i]
		if t.ActivePlayerID == playerID && t.Day == day {
			return i, true
		}
	}
	return 0, false
}

// readBatch decodes one action batch and attaches its actions to the matching turn.
func (r *actionReader) readBatch() error {
	c := r.c

	start := c.Pos()
	playerID, err := r.readHeaderInt("p:")
	if err != nil {
		return err
	}
	day, err := r.readHeaderInt("d:")
	if err != nil {
		return err
	}

	idx, ok := r.findTurn(playerID, day)
	if !ok {
		return c.failAt(start, ErrUnknownActionTurn, "player %d, day %d", playerID, day)
	}
	if r.filled[idx] {
		return c.failAt(start, ErrDuplicateActionBatch, "player %d, day %d", playerID, day)
	}
	turn := &r.replay.Turns[idx]

	if err := c.Expect("a:a:3:{"); err != nil {
		return err
	}
	if err := r.expectHeaderInt(0, "first key"); err != nil {
		return err
	}
	if err := r.expectHeaderInt(playerID, "player id"); err != nil {
		return err
	}
	if err := r.expectHeaderInt(1, "second key"); err != nil {
		return err
	}
	seq, err := c.ReadInt()
	if err != nil {
		return err
	}
	if err := r.expectHeaderInt(2, "third key"); err != nil {
		return err
	}

	count, err := c.ReadArrayHeader()
	if err != nil {
		return err
	}

	turn.PlayerTurnNumber = seq
	turn.Actions = make([]core.Action, 0, count)

	for i := 0; i < count; i++ {
		indexPos := c.Pos()
		index, err := c.ReadInt()
		if err != nil {
			return err
		}
		if index != i {
			return c.failAt(indexPos, ErrOutOfOrderActions, "expected index %d, found %d", i, index)
		}

		payloadPos := c.Pos()
		payload, err := c.ReadRequiredString()
		if err != nil {
			return withField(err, fmt.Sprintf("actions[%d]", i))
		}

		if payload == emptyActionPayload {
			r.logger.Info("Replay contained action 'Array' which is not an action", "playerId", playerID, "day", day, "index", i)
			turn.Actions = append(turn.Actions, core.EmptyAction{})
			continue
		}

		if !gjson.Valid(payload) {
			return &DecodeError{
				Offset: payloadPos,
				Field:  fmt.Sprintf("actions[%d]", i),
				Detail: "payload is not valid JSON",
				Err:    ErrInvalidActionPayload,
			}
		}

		action, err := r.decoder.Decode([]byte(payload), r.replay, turn)
		if err != nil {
			return &DecodeError{
				Offset: payloadPos,
				Field:  fmt.Sprintf("actions[%d]", i),
				Err:    err,
			}
		}
		turn.Actions = append(turn.Actions, action)
	}

	if err := c.ExpectByte('}'); err != nil {
		return err
	}
	if err := c.ExpectByte('}'); err != nil {
		return err
	}

	r.filled[idx] = true
	return nil
}
