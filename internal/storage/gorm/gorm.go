// Package gormstorage implements the storage.Backend interface over any GORM
// dialector. The sqlite and postgres packages wrap it with their own
// connection setup.
package gormstorage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/awbwapp/replay/internal/model"
	"github.com/awbwapp/replay/internal/model/convert"
	"github.com/awbwapp/replay/pkg/core"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// ErrReplayNotFound is returned by LoadReplay for an unknown id.
var ErrReplayNotFound = errors.New("replay not found")

// UsernameFunc resolves a user id to a display name.
type UsernameFunc func(ctx context.Context, userID int) (string, error)

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB     *gorm.DB
	Logger zerolog.Logger
	// Usernames is optional; when set, player rows carry display names.
	Usernames UsernameFunc
}

// Backend writes replays through GORM.
type Backend struct {
	db        *gorm.DB
	log       zerolog.Logger
	usernames UsernameFunc
}

// New creates a GORM storage backend.
func New(deps Dependencies) *Backend {
	return &Backend{
		db:        deps.DB,
		log:       deps.Logger,
		usernames: deps.Usernames,
	}
}

// Init migrates the schema.
func (b *Backend) Init() error {
	if b.db == nil {
		return fmt.Errorf("gorm backend has no database")
	}
	if err := b.db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close is a no-op; the connection belongs to whoever opened it.
func (b *Backend) Close() error {
	return nil
}

// SaveReplay replaces any stored replay with the same id inside one
// transaction.
func (b *Backend) SaveReplay(ctx context.Context, r *core.ReplayData) error {
	rows, err := convert.CoreToRows(r)
	if err != nil {
		return err
	}
	b.resolveUsernames(ctx, rows.Players)

	start := time.Now()
	err = b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteReplay(tx, rows.Replay.ID); err != nil {
			return err
		}
		if err := tx.Create(&rows.Replay).Error; err != nil {
			return fmt.Errorf("error inserting replay: %w", err)
		}
		if err := insert(tx, "players", rows.Players); err != nil {
			return err
		}
		if err := insert(tx, "turns", rows.Turns); err != nil {
			return err
		}
		if err := insert(tx, "player turns", rows.PlayerTurns); err != nil {
			return err
		}
		if err := insert(tx, "buildings", rows.Buildings); err != nil {
			return err
		}
		if err := insert(tx, "units", rows.Units); err != nil {
			return err
		}
		return insert(tx, "actions", rows.Actions)
	})
	if err != nil {
		return fmt.Errorf("error saving replay %d: %w", r.Info.ID, err)
	}

	b.log.Debug().
		Int("replay", r.Info.ID).
		Int("turns", len(rows.Turns)).
		Int("units", len(rows.Units)).
		Int("actions", len(rows.Actions)).
		Dur("duration", time.Since(start)).
		Msg("Saved replay")
	return nil
}

func (b *Backend) resolveUsernames(ctx context.Context, players []model.Player) {
	if b.usernames == nil {
		return
	}
	for i := range players {
		name, err := b.usernames(ctx, players[i].UserID)
		if err != nil {
			b.log.Warn().Err(err).Int("userId", players[i].UserID).Msg("Username lookup failed")
			continue
		}
		players[i].Username = name
	}
}

// deleteReplay removes a replay and its children, children first.
func deleteReplay(tx *gorm.DB, id uint) error {
	for i := len(model.DatabaseModels) - 1; i > 0; i-- {
		if err := tx.Where("replay_id = ?", id).Delete(model.DatabaseModels[i]).Error; err != nil {
			return fmt.Errorf("error clearing previous replay rows: %w", err)
		}
	}
	if err := tx.Delete(&model.Replay{}, id).Error; err != nil {
		return fmt.Errorf("error clearing previous replay: %w", err)
	}
	return nil
}

func insert[T any](tx *gorm.DB, what string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(rows, 1000).Error; err != nil {
		return fmt.Errorf("error inserting %s: %w", what, err)
	}
	return nil
}

// LoadReplay reads a stored replay back into its decoded form.
func (b *Backend) LoadReplay(ctx context.Context, id int) (*core.ReplayData, error) {
	db := b.db.WithContext(ctx)
	var rows convert.ReplayRows

	if err := db.First(&rows.Replay, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrReplayNotFound, id)
		}
		return nil, fmt.Errorf("error loading replay %d: %w", id, err)
	}

	children := []struct {
		what  string
		dest  any
		order string
	}{
		{"players", &rows.Players, "roster_index"},
		{"turns", &rows.Turns, "turn_index"},
		{"player turns", &rows.PlayerTurns, "turn_index, roster_index"},
		{"buildings", &rows.Buildings, "turn_index, building_id"},
		{"units", &rows.Units, "turn_index, unit_id"},
		{"actions", &rows.Actions, "turn_index, seq"},
	}
	for _, c := range children {
		if err := db.Where("replay_id = ?", id).Order(c.order).Find(c.dest).Error; err != nil {
			return nil, fmt.Errorf("error loading %s of replay %d: %w", c.what, id, err)
		}
	}

	return convert.RowsToCore(rows)
}

// ListReplays returns the stored replays, newest first.
func (b *Backend) ListReplays(ctx context.Context) ([]model.Replay, error) {
	var replays []model.Replay
	if err := b.db.WithContext(ctx).Order("updated_at DESC").Find(&replays).Error; err != nil {
		return nil, fmt.Errorf("error listing replays: %w", err)
	}
	return replays, nil
}

// Players returns the stored roster of a replay.
func (b *Backend) Players(ctx context.Context, id int) ([]model.Player, error) {
	var players []model.Player
	err := b.db.WithContext(ctx).Where("replay_id = ?", id).Order("roster_index").Find(&players).Error
	if err != nil {
		return nil, fmt.Errorf("error loading players of replay %d: %w", id, err)
	}
	return players, nil
}
