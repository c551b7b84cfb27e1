package fog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awbwapp/replay/pkg/core"
)

const (
	orangeStar = 1
	blueMoon   = 2

	osCity = 38
	bmCity = 43
)

func testInfo() *core.ReplayInfo {
	return &core.ReplayInfo{
		Players: []core.Player{
			{ID: 100, CountryID: orangeStar},
			{ID: 101, CountryID: blueMoon},
		},
		PlayerIDs: map[int]int{100: 0, 101: 1},
	}
}

func unitAt(id, player, vision, x, y int) core.Unit {
	return core.Unit{ID: id, PlayerID: player, Vision: vision, Position: &core.Vec2{X: x, Y: y}}
}

func testBoard() *MapBoard {
	return &MapBoard{
		Width:  7,
		Height: 7,
		Owners: map[int]int{osCity: orangeStar, bmCity: blueMoon},
	}
}

func TestCompute_UnitVision(t *testing.T) {
	turn := &core.TurnData{
		Units: map[int]core.Unit{1: unitAt(1, 100, 2, 3, 3)},
	}

	grid, err := Compute(testInfo(), turn, testBoard(), Options{PlayerID: 100})
	require.NoError(t, err)

	// A diamond of radius 2 has 13 tiles.
	assert.Equal(t, 13, grid.Count())
	assert.True(t, grid.Visible(core.Vec2{X: 3, Y: 3}))
	assert.True(t, grid.Visible(core.Vec2{X: 5, Y: 3}))
	assert.True(t, grid.Visible(core.Vec2{X: 4, Y: 4}))
	assert.False(t, grid.Visible(core.Vec2{X: 5, Y: 4}))
	assert.False(t, grid.Visible(core.Vec2{X: 0, Y: 0}))
}

func TestCompute_MinimumVision(t *testing.T) {
	turn := &core.TurnData{
		Units: map[int]core.Unit{1: unitAt(1, 100, 0, 3, 3)},
	}

	grid, err := Compute(testInfo(), turn, testBoard(), Options{PlayerID: 100, RangeIncrease: -3})
	require.NoError(t, err)
	assert.Equal(t, 5, grid.Count())
}

func TestCompute_RangeIncrease(t *testing.T) {
	turn := &core.TurnData{
		Units: map[int]core.Unit{1: unitAt(1, 100, 1, 3, 3)},
	}

	grid, err := Compute(testInfo(), turn, testBoard(), Options{PlayerID: 100, RangeIncrease: 1})
	require.NoError(t, err)
	assert.Equal(t, 13, grid.Count())
}

func TestCompute_ClipsToBoard(t *testing.T) {
	turn := &core.TurnData{
		Units: map[int]core.Unit{1: unitAt(1, 100, 1, 0, 0)},
	}

	grid, err := Compute(testInfo(), turn, testBoard(), Options{PlayerID: 100})
	require.NoError(t, err)
	assert.Equal(t, 3, grid.Count())
	assert.False(t, grid.Visible(core.Vec2{X: -1, Y: 0}))
}

func TestCompute_OwnedBuildings(t *testing.T) {
	turn := &core.TurnData{
		Buildings: map[core.Vec2]core.Building{
			{X: 0, Y: 0}: {ID: 1, TerrainID: osCity, Position: core.Vec2{X: 0, Y: 0}},
			{X: 6, Y: 6}: {ID: 2, TerrainID: bmCity, Position: core.Vec2{X: 6, Y: 6}},
		},
	}

	grid, err := Compute(testInfo(), turn, testBoard(), Options{PlayerID: 100})
	require.NoError(t, err)
	assert.Equal(t, 1, grid.Count())
	assert.True(t, grid.Visible(core.Vec2{X: 0, Y: 0}))
	assert.False(t, grid.Visible(core.Vec2{X: 6, Y: 6}))
}

func TestCompute_IgnoresOtherPlayersAndCargo(t *testing.T) {
	carried := unitAt(2, 100, 3, 5, 5)
	carried.BeingCarried = true

	turn := &core.TurnData{
		Units: map[int]core.Unit{
			1: unitAt(1, 101, 3, 3, 3),
			2: carried,
		},
	}

	grid, err := Compute(testInfo(), turn, testBoard(), Options{PlayerID: 100})
	require.NoError(t, err)
	assert.Equal(t, 0, grid.Count())
}

func TestCompute_SightLimits(t *testing.T) {
	board := testBoard()
	board.TerrainLimits = map[core.Vec2]int{{X: 3, Y: 5}: 1}
	board.BuildingLimits = map[int]int{osCity: 1}

	turn := &core.TurnData{
		Buildings: map[core.Vec2]core.Building{
			{X: 5, Y: 3}: {ID: 1, TerrainID: osCity, Position: core.Vec2{X: 5, Y: 3}},
		},
		Units: map[int]core.Unit{1: unitAt(1, 100, 2, 3, 3)},
	}

	grid, err := Compute(testInfo(), turn, board, Options{PlayerID: 100})
	require.NoError(t, err)
	// The limited tile two steps away stays hidden; the owned city always shows.
	assert.False(t, grid.Visible(core.Vec2{X: 3, Y: 5}))
	assert.True(t, grid.Visible(core.Vec2{X: 5, Y: 3}))

	grid, err = Compute(testInfo(), turn, board, Options{PlayerID: 100, CanSeeIntoHiddenTiles: true})
	require.NoError(t, err)
	assert.True(t, grid.Visible(core.Vec2{X: 3, Y: 5}))
}

func TestCompute_UnknownPlayer(t *testing.T) {
	_, err := Compute(testInfo(), &core.TurnData{}, testBoard(), Options{PlayerID: 999})
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestGrid_String(t *testing.T) {
	turn := &core.TurnData{
		Units: map[int]core.Unit{1: unitAt(1, 100, 1, 0, 0)},
	}
	board := &MapBoard{Width: 3, Height: 2}

	grid, err := Compute(testInfo(), turn, board, Options{PlayerID: 100})
	require.NoError(t, err)
	assert.Equal(t, "..#\n.##\n", grid.String())
}

func TestInferBoard(t *testing.T) {
	replay := &core.ReplayData{
		Turns: []core.TurnData{
			{
				Buildings: map[core.Vec2]core.Building{{X: 9, Y: 2}: {}},
				Units:     map[int]core.Unit{1: unitAt(1, 100, 1, 4, 11)},
			},
			{
				Units: map[int]core.Unit{2: {ID: 2}},
			},
		},
	}

	b := InferBoard(replay)
	assert.Equal(t, core.Vec2{X: 10, Y: 12}, b.Size())
	assert.Equal(t, 0, b.TerrainSightLimit(core.Vec2{X: 1, Y: 1}))
	_, ok := b.BuildingOwner(osCity)
	assert.False(t, ok)
}
