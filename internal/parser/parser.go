package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/awbwapp/replay/internal/archive"
	"github.com/awbwapp/replay/pkg/core"
)

// ActionDecoder turns one action payload into a typed action. The turn is the
// one the action belongs to; its Actions slice holds the actions decoded so far.
type ActionDecoder interface {
	Decode(payload []byte, replay *core.ReplayData, turn *core.TurnData) (core.Action, error)
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxMemberSize caps the decompressed size of each archive member.
func WithMaxMemberSize(n int64) Option {
	return func(p *Parser) {
		p.archive.MaxMemberSize = n
	}
}

// Parser decodes replay archives into core.ReplayData. A Parser holds no
// per-decode state and may be shared; each decode runs on its own cursor.
type Parser struct {
	logger  *slog.Logger
	actions ActionDecoder
	archive archive.Options
}

// NewParser creates a parser that hands action payloads to actions.
func NewParser(logger *slog.Logger, actions ActionDecoder, opts ...Option) *Parser {
	p := &Parser{
		logger:  logger,
		actions: actions,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseFile decodes the replay archive at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*core.ReplayData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening replay file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("error reading replay file info: %w", err)
	}

	return p.ParseArchive(ctx, f, stat.Size())
}

// ParseArchive decodes a replay archive of the given size.
func (p *Parser) ParseArchive(ctx context.Context, r io.ReaderAt, size int64) (*core.ReplayData, error) {
	members, err := archive.Open(r, size, p.archive)
	if err != nil {
		return nil, fmt.Errorf("error opening replay archive: %w", err)
	}

	p.logger.Debug("Extracted replay archive",
		"stateMember", members.StateName,
		"stateBytes", len(members.State),
		"actionsMember", members.ActionsName,
		"actionsBytes", len(members.Actions))

	return p.ParseStreams(ctx, members.State, members.Actions)
}

// ParseStreams decodes already decompressed state and action streams. Nothing
// is returned unless both streams decode completely.
func (p *Parser) ParseStreams(ctx context.Context, state, actions string) (*core.ReplayData, error) {
	replay := &core.ReplayData{}

	sr := &stateReader{
		c:      NewCursor(state),
		replay: replay,
		logger: p.logger,
	}
	err := eachRecord(ctx, sr.c, StreamState, func(record int) error {
		return sr.readTurn(record == 0)
	})
	if err != nil {
		return nil, err
	}

	if actions != "" {
		ar := &actionReader{
			c:       NewCursor(actions),
			replay:  replay,
			decoder: p.actions,
			logger:  p.logger,
			filled:  make(map[int]bool, len(replay.Turns)),
		}
		err = eachRecord(ctx, ar.c, StreamActions, func(int) error {
			return ar.readBatch()
		})
		if err != nil {
			return nil, err
		}
	}

	p.logger.Debug("Decoded replay",
		"matchId", replay.Info.ID,
		"name", replay.Info.Name,
		"turns", len(replay.Turns),
		"players", len(replay.Info.Players))

	return replay, nil
}

// eachRecord calls read once per newline separated record until c is
// exhausted. A trailing newline after the last record is allowed.
func eachRecord(ctx context.Context, c *Cursor, stream string, read func(record int) error) error {
	for record := 0; ; record++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := c.Pos()
		if err := read(record); err != nil {
			return withRecord(err, stream, record, start)
		}

		if c.EOF() {
			return nil
		}
		if err := c.ExpectByte('\n'); err != nil {
			return withRecord(err, stream, record, start)
		}
		if c.EOF() {
			return nil
		}
	}
}
