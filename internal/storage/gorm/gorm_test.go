package gormstorage

import (
	"context"
	"errors"
	"testing"

	"github.com/awbwapp/replay/internal/database"
	"github.com/awbwapp/replay/internal/model"
	"github.com/awbwapp/replay/pkg/core"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// newTestBackend creates a Backend over a fresh in-memory SQLite database.
func newTestBackend(t *testing.T, usernames UsernameFunc) *Backend {
	t.Helper()

	manager := database.NewManager(zerolog.Nop())
	require.NoError(t, manager.ConnectSQLite(""))
	t.Cleanup(func() { _ = manager.Close() })

	b := New(Dependencies{DB: manager.DB, Logger: zerolog.Nop(), Usernames: usernames})
	require.NoError(t, b.Init())
	return b
}

func testReplay(id int, name string) *core.ReplayData {
	return &core.ReplayData{
		Info: core.ReplayInfo{
			ID:                       id,
			Name:                     name,
			MapID:                    77,
			FundsPerBuilding:         1000,
			Fog:                      true,
			Type:                     core.MatchLeague,
			LeagueMatch:              ptr("Std"),
			CaptureWinBuildingNumber: ptr(22),
			Players: []core.Player{
				{ID: 100, UserID: 5000, TeamName: "100", CountryID: 1, COID: 3},
				{ID: 101, UserID: 5001, TeamName: "101", CountryID: 2, COID: 5, TurnOrderIndex: 1},
			},
			PlayerIDs: map[int]int{100: 0, 101: 1},
		},
		Turns: []core.TurnData{
			{
				ActivePlayerID:   100,
				ActiveTeam:       "100",
				Day:              1,
				PlayerTurnNumber: 1,
				Weather:          &core.Weather{Code: ptr("C")},
				Players:          []core.PlayerTurn{{ID: 100, Funds: 1000}, {ID: 101}},
				Buildings: map[core.Vec2]core.Building{
					{X: 3, Y: 4}: {ID: 1, TerrainID: 34, Position: core.Vec2{X: 3, Y: 4}, Capture: 20},
				},
				Units: map[int]core.Unit{
					9: {
						ID: 9, PlayerID: 100, UnitName: "APC", Fuel: 70, MovementType: "T",
						Range: &core.Vec2{X: 0, Y: 0}, Position: &core.Vec2{X: 5, Y: 6},
						HitPoints: 7.5, CargoUnits: []int{12},
					},
					12: {ID: 12, PlayerID: 100, UnitName: "Infantry", Position: &core.Vec2{X: 5, Y: 6}, HitPoints: 10, BeingCarried: true},
				},
				Actions: []core.Action{
					core.MoveUnitAction{UnitID: 9, Path: []core.PathNode{{Position: core.Vec2{X: 5, Y: 6}, UnitVisible: true}}, Distance: 1},
					core.EndTurnAction{NextPlayerID: 101, NextDay: 1, NextFunds: 2000},
				},
			},
			{
				ActivePlayerID: 101,
				ActiveTeam:     "101",
				Day:            1,
				Players:        []core.PlayerTurn{{ID: 100}, {ID: 101, Funds: 2000, COPowerOn: ptr("Y")}},
				Buildings:      map[core.Vec2]core.Building{},
				Units:          map[int]core.Unit{},
				Actions:        []core.Action{core.ResignAction{PlayerID: 101, NextPlayerID: 100}},
			},
		},
	}
}

func TestInit_NoDatabase(t *testing.T) {
	b := New(Dependencies{Logger: zerolog.Nop()})
	assert.Error(t, b.Init())
	assert.NoError(t, b.Close())
}

func TestSaveAndLoadReplay(t *testing.T) {
	b := newTestBackend(t, nil)
	ctx := context.Background()

	original := testReplay(1001, "Test Match")
	require.NoError(t, b.SaveReplay(ctx, original))

	loaded, err := b.LoadReplay(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestSaveReplay_ReplacesExisting(t *testing.T) {
	b := newTestBackend(t, nil)
	ctx := context.Background()

	require.NoError(t, b.SaveReplay(ctx, testReplay(1001, "first")))

	shorter := testReplay(1001, "second")
	shorter.Turns = shorter.Turns[:1]
	require.NoError(t, b.SaveReplay(ctx, shorter))

	loaded, err := b.LoadReplay(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, "second", loaded.Info.Name)
	assert.Len(t, loaded.Turns, 1)

	var turns int64
	require.NoError(t, b.db.Model(&model.Turn{}).Where("replay_id = ?", 1001).Count(&turns).Error)
	assert.Equal(t, int64(1), turns, "rows of the earlier save are gone")

	replays, err := b.ListReplays(ctx)
	require.NoError(t, err)
	require.Len(t, replays, 1)
	assert.Equal(t, 1, replays[0].TurnCount)
	assert.Equal(t, 2, replays[0].ActionCount)
}

func TestSaveReplay_KeepsOtherReplays(t *testing.T) {
	b := newTestBackend(t, nil)
	ctx := context.Background()

	require.NoError(t, b.SaveReplay(ctx, testReplay(1, "one")))
	require.NoError(t, b.SaveReplay(ctx, testReplay(2, "two")))
	require.NoError(t, b.SaveReplay(ctx, testReplay(1, "one again")))

	replays, err := b.ListReplays(ctx)
	require.NoError(t, err)
	assert.Len(t, replays, 2)

	two, err := b.LoadReplay(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "two", two.Info.Name)
}

func TestLoadReplay_NotFound(t *testing.T) {
	b := newTestBackend(t, nil)

	_, err := b.LoadReplay(context.Background(), 42)
	assert.ErrorIs(t, err, ErrReplayNotFound)
}

func TestSaveReplay_Usernames(t *testing.T) {
	lookup := func(_ context.Context, userID int) (string, error) {
		if userID == 5001 {
			return "", errors.New("profile unavailable")
		}
		return "Commander", nil
	}
	b := newTestBackend(t, lookup)
	ctx := context.Background()

	require.NoError(t, b.SaveReplay(ctx, testReplay(1001, "named")))

	players, err := b.Players(ctx, 1001)
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "Commander", players[0].Username)
	assert.Empty(t, players[1].Username, "failed lookups leave the name empty")
}

func TestSaveReplay_CanceledContext(t *testing.T) {
	b := newTestBackend(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, b.SaveReplay(ctx, testReplay(1, "x")))

	_, err := b.LoadReplay(context.Background(), 1)
	assert.ErrorIs(t, err, ErrReplayNotFound)
}
