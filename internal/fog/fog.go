// Package fog computes which tiles a player can see on a decoded turn.
package fog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/awbwapp/replay/pkg/core"
)

var ErrUnknownPlayer = errors.New("player not in roster")

// Board describes the static map a replay was played on.
type Board interface {
	// Size returns the width (X) and height (Y) of the map in tiles.
	Size() core.Vec2
	// TerrainSightLimit returns how deep into the tile at pos a unit can see,
	// or 0 for no limit.
	TerrainSightLimit(pos core.Vec2) int
	// BuildingSightLimit is TerrainSightLimit for a building's terrain id.
	BuildingSightLimit(terrainID int) int
	// BuildingOwner returns the country owning a building terrain id.
	BuildingOwner(terrainID int) (countryID int, ok bool)
}

// Options selects whose vision is computed and how.
type Options struct {
	PlayerID              int
	RangeIncrease         int
	CanSeeIntoHiddenTiles bool
}

// Grid is a width x height visibility map.
type Grid struct {
	Width  int
	Height int
	cells  []bool
}

func newGrid(size core.Vec2) Grid {
	return Grid{Width: size.X, Height: size.Y, cells: make([]bool, size.X*size.Y)}
}

func (g Grid) inside(pos core.Vec2) bool {
	return pos.X >= 0 && pos.X < g.Width && pos.Y >= 0 && pos.Y < g.Height
}

// Visible reports whether pos is visible. Positions off the board are not.
func (g Grid) Visible(pos core.Vec2) bool {
	return g.inside(pos) && g.cells[pos.Y*g.Width+pos.X]
}

func (g Grid) reveal(pos core.Vec2) {
	if g.inside(pos) {
		g.cells[pos.Y*g.Width+pos.X] = true
	}
}

// Count returns the number of visible tiles.
func (g Grid) Count() int {
	n := 0
	for _, v := range g.cells {
		if v {
			n++
		}
	}
	return n
}

// String renders the grid one row per line, '.' for visible and '#' for fog.
func (g Grid) String() string {
	var b strings.Builder
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.cells[y*g.Width+x] {
				b.WriteByte('.')
			} else {
				b.WriteByte('#')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Compute returns what opts.PlayerID sees at the start of turn. Owned
// buildings reveal their own tile; each owned unit reveals every tile within
// Manhattan distance max(1, vision+RangeIncrease), except tiles whose sight
// limit is shorter than the distance.
func Compute(info *core.ReplayInfo, turn *core.TurnData, board Board, opts Options) (Grid, error) {
	player, ok := info.PlayerByID(opts.PlayerID)
	if !ok {
		return Grid{}, fmt.Errorf("%w: %d", ErrUnknownPlayer, opts.PlayerID)
	}

	grid := newGrid(board.Size())

	for pos, b := range turn.Buildings {
		if owner, ok := board.BuildingOwner(b.TerrainID); ok && owner == player.CountryID {
			grid.reveal(pos)
		}
	}

	for _, u := range turn.Units {
		if u.PlayerID != player.ID || u.Position == nil || u.BeingCarried {
			continue
		}

		vision := max(1, u.Vision+opts.RangeIncrease)
		origin := *u.Position

		for dx := -vision; dx <= vision; dx++ {
			for dy := -vision; dy <= vision; dy++ {
				dist := abs(dx) + abs(dy)
				if dist > vision {
					continue
				}
				pos := core.Vec2{X: origin.X + dx, Y: origin.Y + dy}
				if !grid.inside(pos) {
					continue
				}
				if !opts.CanSeeIntoHiddenTiles {
					limit := sightLimit(turn, board, pos)
					if limit > 0 && dist > limit {
						continue
					}
				}
				grid.reveal(pos)
			}
		}
	}

	return grid, nil
}

func sightLimit(turn *core.TurnData, board Board, pos core.Vec2) int {
	if b, ok := turn.Buildings[pos]; ok {
		return board.BuildingSightLimit(b.TerrainID)
	}
	return board.TerrainSightLimit(pos)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
